package template

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/streamlineer/streamlineer/core"
)

var (
	titleFieldTypeTag  = "titlefieldtype"
	titleFieldTypeText = "invalid title field type"

	questionTypeTag  = "questiontype"
	questionTypeText = "invalid question type"

	statusTag  = "templatestatus"
	statusText = "invalid template status"
)

// InitValidators registers template-specific validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(titleFieldTypeTag, titleFieldTypeValidation)
	core.RegisterCustomTranslation(validate, translator, titleFieldTypeTag, titleFieldTypeText)

	_ = validate.RegisterValidation(questionTypeTag, questionTypeValidation)
	core.RegisterCustomTranslation(validate, translator, questionTypeTag, questionTypeText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func titleFieldTypeValidation(fl validator.FieldLevel) bool {
	return ResponseType(fl.Field().String()).ValidForTitleField()
}

func questionTypeValidation(fl validator.FieldLevel) bool {
	return ResponseType(fl.Field().String()).ValidForQuestion()
}

func statusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}
