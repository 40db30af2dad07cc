package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/user"
	emailsvc "github.com/streamlineer/streamlineer/services/email"
	dummydb "github.com/streamlineer/streamlineer/storage/database/dummy"
)

func setup(t *testing.T) (user.Service, user.Repository, *core.Config) {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := core.NewConfig()
	conf.TestMode = true
	repo := dummydb.NewUserRepository(db)
	return user.NewServiceMock(repo, emailsvc.NewConsoleServiceMock(conf), conf), repo, conf
}

func register(t *testing.T, svc user.Service, email, pwd string) user.User {
	t.Helper()

	usr, err := svc.Register(context.Background(), user.NewUser{
		Email:        email,
		FirstName:    "Awe",
		LastName:     "Some",
		Organization: "Acme",
		Location:     "Plant 7",
		Phone:        "+243123456789",
		CountryCode:  "CD",
		Password:     pwd,
		Role:         user.RoleInspector,
	})
	require.NoError(t, err)
	return usr
}

func creds(email, pwd string) user.Credentials {
	return user.Credentials{Email: email, Password: pwd, Organization: "Acme", Location: "Plant 7"}
}

func TestService_Authenticate(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	usr := register(t, svc, "awe@test.cd", "s3cr3t")

	got, err := svc.Authenticate(ctx, creds(usr.Email, "s3cr3t"))
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.True(t, got.LastLogin.Valid)
	assert.Zero(t, got.LoginAttempts)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, creds("ghost@test.cd", "s3cr3t"))
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, creds(usr.Email, "nope"))
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("wrong organization or location", func(t *testing.T) {
		c := creds(usr.Email, "s3cr3t")
		c.Organization = "Other Corp"
		_, err := svc.Authenticate(ctx, c)
		assert.ErrorIs(t, err, user.ErrInvalidOrgLocation)
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := register(t, svc, "gone@test.cd", "s3cr3t")
		isActive := false
		_, err := svc.Update(ctx, inactive.ID, user.UpdateUser{IsActive: &isActive})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, creds(inactive.Email, "s3cr3t"))
		assert.ErrorIs(t, err, user.ErrAccountDeactivated)
	})
}

func TestService_Authenticate_lockout(t *testing.T) {
	svc, repo, conf := setup(t)
	ctx := context.Background()

	usr := register(t, svc, "awe@test.cd", "s3cr3t")

	// failures below the limit only count attempts
	for i := 1; i < conf.MaxLoginAttempts; i++ {
		_, err := svc.Authenticate(ctx, creds(usr.Email, "nope"))
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)

		refreshed, err := repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, i, refreshed.LoginAttempts)
		assert.False(t, refreshed.AccountLocked)
	}

	// the final failure locks the account
	_, err := svc.Authenticate(ctx, creds(usr.Email, "nope"))
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	refreshed, err := repo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.AccountLocked)
	assert.True(t, refreshed.LockoutUntil.Valid)

	// even the correct password is rejected while locked
	_, err = svc.Authenticate(ctx, creds(usr.Email, "s3cr3t"))
	assert.ErrorIs(t, err, user.ErrAccountLocked)

	// a successful login after the lockout expires resets the counters
	refreshed.AccountLocked = false
	refreshed.LockoutUntil.Valid = false
	_, err = repo.UpdateUser(ctx, refreshed, nil)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, creds(usr.Email, "s3cr3t"))
	require.NoError(t, err)
	assert.Zero(t, got.LoginAttempts)
	assert.False(t, got.AccountLocked)
}
