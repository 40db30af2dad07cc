package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/streamlineer/streamlineer/core"
)

var (
	userRoleTag  = "userrole"
	userRoleText = "invalid role"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdUpperTag  = "pwdupper"
	pwdUpperText = "password must contain at least one uppercase letter"

	pwdLowerTag  = "pwdlower"
	pwdLowerText = "password must contain at least one lowercase letter"

	pwdDigitTag  = "pwddigit"
	pwdDigitText = "password must contain at least one number"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

// InitValidators registers user-specific validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(userRoleTag, userRoleValidation)
	core.RegisterCustomTranslation(validate, translator, userRoleTag, userRoleText)

	validate.RegisterStructValidation(passwordStructValidation, NewUser{})
	validate.RegisterStructValidation(passwordStructValidation, UpdateUser{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdUpperTag, pwdUpperText)
	core.RegisterCustomTranslation(validate, translator, pwdLowerTag, pwdLowerText)
	core.RegisterCustomTranslation(validate, translator, pwdDigitTag, pwdDigitText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

// userRoleValidation checks that the provided role is a known role.
func userRoleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// passwordStructValidation enforces the password policy on registration and update payloads.
func passwordStructValidation(sl validator.StructLevel) {
	var pwd string
	var attrs []string

	switch data := sl.Current().Interface().(type) {
	case NewUser:
		pwd = data.Password
		attrs = []string{data.Email, data.FirstName, data.LastName}
	case UpdateUser:
		if data.Password == "" {
			return
		}
		pwd = data.Password
		attrs = []string{data.Email, data.FirstName, data.LastName}
	default:
		return
	}

	field := pwd
	if len(pwd) < pwdMinLen {
		sl.ReportError(field, "password", "Password", pwdMinLenTag, "")
	}
	if strings.ContainsAny(pwd, " \t\n") {
		sl.ReportError(field, "password", "Password", pwdNoSpaceTag, "")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range pwd {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		sl.ReportError(field, "password", "Password", pwdUpperTag, "")
	}
	if !hasLower {
		sl.ReportError(field, "password", "Password", pwdLowerTag, "")
	}
	if !hasDigit {
		sl.ReportError(field, "password", "Password", pwdDigitTag, "")
	}

	if isTooSimilar(pwd, attrs) {
		sl.ReportError(field, "password", "Password", pwdAttrSimTag, "")
	}
}

// isTooSimilar reports whether pwd closely resembles any of the given user attributes.
func isTooSimilar(pwd string, attrs []string) bool {
	lowered := strings.ToLower(pwd)
	for _, attr := range attrs {
		attr = strings.ToLower(core.CleanString(attr))
		if attr == "" {
			continue
		}
		matcher := difflib.NewMatcher(strings.Split(lowered, ""), strings.Split(attr, ""))
		if matcher.QuickRatio() >= pwdMaxSim {
			return true
		}
	}
	return false
}
