package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/streamlineer/streamlineer/core"
)

// Roles
const (
	RoleInspector = "inspector"
	RoleIT        = "it"
	RoleManager   = "manager"
)

var (
	AllRoles = []string{RoleInspector, RoleIT, RoleManager}

	Roles = []Role{
		{Name: "Inspector", Value: RoleInspector},
		{Name: "IT", Value: RoleIT},
		{Name: "Manager", Value: RoleManager},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	FirstName     string    `db:"first_name" json:"firstName"`
	LastName      string    `db:"last_name" json:"lastName"`
	Organization  string    `db:"organization" json:"organization"`
	Location      string    `db:"location" json:"location"`
	Phone         string    `db:"phone" json:"phone"`
	CountryCode   string    `db:"country_code" json:"country_code"`
	Role          string    `db:"role" json:"role"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	EmailVerified bool      `db:"email_verified" json:"email_verified"`
	LoginAttempts int       `db:"login_attempts" json:"-"`
	AccountLocked bool      `db:"account_locked" json:"-"`
	LockoutUntil  null.Time `db:"lockout_until" json:"-"`
	LastLogin     null.Time `db:"last_login" json:"last_login"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"` // UTC
}

func (u *User) FullName() string {
	return core.CleanString(u.FirstName + " " + u.LastName)
}

func (u *User) IsInspector() bool { return u.Role == RoleInspector }
func (u *User) IsIT() bool        { return u.Role == RoleIT }
func (u *User) IsManager() bool   { return u.Role == RoleManager }

// UpdateLastLogin stamps a successful login.
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLogin = null.TimeFrom(now)
	u.UpdatedAt = now
}

// IncrementLoginAttempts counts a failed login.
func (u *User) IncrementLoginAttempts() {
	u.LoginAttempts++
	u.UpdatedAt = time.Now().UTC()
}

// ResetLoginAttempts clears the failed-login counter and any lockout.
func (u *User) ResetLoginAttempts() {
	u.LoginAttempts = 0
	u.AccountLocked = false
	u.LockoutUntil = null.Time{}
	u.UpdatedAt = time.Now().UTC()
}

// LockAccount locks the account for the given duration.
func (u *User) LockAccount(d time.Duration) {
	now := time.Now().UTC()
	u.AccountLocked = true
	u.LockoutUntil = null.TimeFrom(now.Add(d))
	u.UpdatedAt = now
}

// IsAccountLocked reports whether the account is currently locked,
// clearing the lock once the lockout window has elapsed.
func (u *User) IsAccountLocked() bool {
	if !u.AccountLocked {
		return false
	}
	if u.LockoutUntil.Valid && time.Now().UTC().After(u.LockoutUntil.Time) {
		u.AccountLocked = false
		u.LockoutUntil = null.Time{}
		return false
	}
	return true
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Organization    string `json:"organization" validate:"required,max=100"`
	Location        string `json:"location" validate:"required,max=100"`
	Phone           string `json:"phone" validate:"required,phone"`
	CountryCode     string `json:"country_code" validate:"required,countrycode"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,userrole"`
	Terms           bool   `json:"terms" validate:"required,eq=true"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc Service) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Organization = core.CleanString(nu.Organization)
	nu.Location = core.CleanString(nu.Location)
	nu.Phone = core.CleanString(nu.Phone)
	nu.CountryCode = core.CleanString(nu.CountryCode)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Email           string `json:"email" validate:"omitempty,email"`
	FirstName       string `json:"firstName" validate:"omitempty,max=50"`
	LastName        string `json:"lastName" validate:"omitempty,max=50"`
	Organization    string `json:"organization" validate:"omitempty,max=100"`
	Location        string `json:"location" validate:"omitempty,max=100"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	CountryCode     string `json:"country_code" validate:"omitempty,countrycode"`
	IsActive        *bool  `json:"is_active"`
	Role            string `json:"role" validate:"omitempty,userrole"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc Service) error {
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}
	if first := core.CleanString(uu.FirstName); first != "" {
		uu.FirstName = first
	} else {
		uu.FirstName = origUsr.FirstName
	}
	if last := core.CleanString(uu.LastName); last != "" {
		uu.LastName = last
	} else {
		uu.LastName = origUsr.LastName
	}
	if org := core.CleanString(uu.Organization); org != "" {
		uu.Organization = org
	} else {
		uu.Organization = origUsr.Organization
	}
	if loc := core.CleanString(uu.Location); loc != "" {
		uu.Location = loc
	} else {
		uu.Location = origUsr.Location
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Email, origUsr)
}

// Credentials is the login payload.
type Credentials struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	Organization string `json:"organization" validate:"required"`
	Location     string `json:"location" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	c.Organization = core.CleanString(c.Organization)
	c.Location = core.CleanString(c.Location)
	return validate.Struct(c)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

type QueryFilter struct {
	Search       string    `query:"search"`
	Role         string    `query:"role"`
	Organization string    `query:"organization"`
	IsActive     *bool     `query:"is_active"`
	CreatedFrom  time.Time `query:"created_from"`
	CreatedTo    time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.Organization == "" &&
		qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
	qf.Organization = core.CleanString(qf.Organization)
}
