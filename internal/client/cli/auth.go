package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vocabkeeper/internal/client/api"
	"github.com/dmitrijs2005/vocabkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates an account. The
// password buffer is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.api.Register(ctx, userName, password); err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and keeps the session token on success.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	expiresAt, err := a.api.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		a.report(err)
		return err
	}

	a.userName = userName
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Login successful, session valid until %s\n", expiresAt.Local().Format("15:04:05"))
	return nil
}

func (a *App) Logout(context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "%s (id %s, active: %t)\n", u.Email, u.ID, u.IsActive)
	return nil
}

// report prints a short, user-facing description of err. An expired
// session drops the local login state.
func (a *App) report(err error) {
	var apiErr *api.Error
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		if a.api.LoggedIn() {
			a.api.Logout()
			a.userName = ""
			fmt.Fprintln(a.out, "Session expired, please log in again")
			return
		}
		fmt.Fprintln(a.out, "Incorrect email or password")
	case errors.Is(err, api.ErrNotFound):
		fmt.Fprintln(a.out, "Not found")
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable")
	case errors.As(err, &apiErr):
		fmt.Fprintf(a.out, "Rejected: %s\n", apiErr.Detail)
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
