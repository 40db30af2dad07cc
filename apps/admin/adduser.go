package main

import (
	"context"
	"fmt"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/user"
)

// addUser updates or creates an active user.User with the given role.
func (cli *commandLine) addUser(email, first, last, role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	role = core.CleanString(role, true /* lower */)

	known := false
	for _, r := range user.AllRoles {
		if role == r {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown role %q (want one of %v)", role, user.AllRoles)
	}

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{Email: email}
	}
	if first != "" {
		usr.FirstName = core.CleanString(first)
	}
	if last != "" {
		usr.LastName = core.CleanString(last)
	}
	usr.Role = role
	usr.EmailVerified = true
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		usr.IsActive = true
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}
	isActive := true
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &isActive)
	return err
}
