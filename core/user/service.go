package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/audit"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrInvalidOrgLocation = errors.New("invalid organization or location")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of FirstName, LastName or Email.
		FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(email string, excludedUsers ...User) error
		Register(ctx context.Context, nu NewUser) (User, error)
		Authenticate(ctx context.Context, creds Credentials) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
		Filter(ctx context.Context, filter QueryFilter) ([]User, error)
		Update(ctx context.Context, id string, uu UpdateUser) (User, error)
		Delete(ctx context.Context, ids ...string) error
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
	}

	service struct {
		repo     Repository
		mailSvc  core.EmailService
		auditSvc *audit.Service
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, auditSvc *audit.Service, conf *core.Config) Service {
	secretKey = conf.SecretKey
	passwordResetTimeoutDelta = conf.PasswordResetTimeoutDelta
	return &service{
		repo:     repo,
		mailSvc:  mailSvc,
		auditSvc: auditSvc,
		conf:     conf,
	}
}

func (svc *service) CheckUniqueness(email string, excludedUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, excludedUsers...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Email:        nu.Email,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Organization: nu.Organization,
		Location:     nu.Location,
		Phone:        nu.Phone,
		CountryCode:  nu.CountryCode,
		Role:         nu.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.auditSvc.UserEvent(ctx, usr.ID, usr.Email, usr.FirstName, usr.LastName, audit.EventAccountCreated)
	return usr, nil
}

// Authenticate checks the given credentials and tracks failed attempts,
// locking the account once the configured maximum is exceeded.
func (svc *service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}

	if usr.IsAccountLocked() {
		return User{}, ErrAccountLocked
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}

	if err = usr.CheckPassword(creds.Password); err != nil {
		usr.IncrementLoginAttempts()
		if usr.LoginAttempts >= svc.conf.MaxLoginAttempts {
			usr.LockAccount(svc.conf.AccountLockoutDuration)
			svc.auditSvc.UserEvent(ctx, usr.ID, usr.Email, usr.FirstName, usr.LastName, audit.EventAccountLocked)
		}
		if _, uErr := svc.repo.UpdateUser(ctx, usr, nil); uErr != nil {
			return User{}, errors.Wrap(uErr, "recording failed login")
		}
		svc.auditSvc.UserEvent(ctx, usr.ID, usr.Email, usr.FirstName, usr.LastName, audit.EventLoginFailed)
		return User{}, ErrInvalidCredentials
	}

	if usr.Organization != creds.Organization || usr.Location != creds.Location {
		svc.auditSvc.UserEvent(ctx, usr.ID, usr.Email, usr.FirstName, usr.LastName, audit.EventLoginFailed)
		return User{}, ErrInvalidOrgLocation
	}

	usr.ResetLoginAttempts()
	usr.UpdateLastLogin()
	if usr, err = svc.repo.UpdateUser(ctx, usr, nil); err != nil {
		return User{}, errors.Wrap(err, "recording login")
	}
	svc.auditSvc.UserEvent(ctx, usr.ID, usr.Email, usr.FirstName, usr.LastName, audit.EventLoginSuccess)
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if uu.Email != "" {
		usr.Email = uu.Email
	}
	if uu.FirstName != "" {
		usr.FirstName = uu.FirstName
	}
	if uu.LastName != "" {
		usr.LastName = uu.LastName
	}
	if uu.Organization != "" {
		usr.Organization = uu.Organization
	}
	if uu.Location != "" {
		usr.Location = uu.Location
	}
	if uu.Phone != "" {
		usr.Phone = uu.Phone
	}
	if uu.CountryCode != "" {
		usr.CountryCode = uu.CountryCode
	}
	if uu.Role != "" {
		usr.Role = uu.Role
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) sendPasswordResetMail(usr User) {
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: usr.FullName(), Address: usr.Email}},
			Subject:      "Password Reset",
			TemplateName: "password-reset",
			TemplateData: struct {
				User  User
				UID   string
				Token string
			}{usr, EncodeUID(usr), makeToken(usr)},
		},
	)
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}

	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.ResetLoginAttempts()
	if _, err = svc.repo.UpdateUser(ctx, usr, nil); err != nil {
		return errors.Wrap(err, "updating password")
	}
	svc.auditSvc.UserEvent(ctx, usr.ID, usr.Email, usr.FirstName, usr.LastName, audit.EventPasswordReset)
	return nil
}
