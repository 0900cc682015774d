package cli

import (
	"context"

	"github.com/dmitrijs2005/tadpole/internal/client/services"
	"github.com/dmitrijs2005/tadpole/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// Login prompts for a login name and credential and authenticates through
// the session service.
//
// On success it prints the resolved role and the commands that became
// available. A failed attempt leaves any existing session untouched and is
// reported as an error. The credential is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	loginName, err := getSimpleText(a.reader, "Enter login name or identifier", a.out)
	if err != nil {
		return err
	}

	credential, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	outcome, err := a.session.Login(ctx, loginName, credential)
	common.WipeByteArray(credential)
	if err != nil {
		return err
	}

	if u, err := a.session.CurrentUser(ctx); err == nil {
		loginName = u.LoginName
	}
	a.login = loginForm{loginName: loginName}

	switch outcome {
	case services.OutcomeAdministrator:
		a.println("Welcome, administrator.")
		a.println(helpAdmin)
	default:
		a.println("Welcome, " + loginName + ".")
		a.println(helpUser)
	}
	return nil
}

// Logout ends the current session. The login form is cleared by the logout
// hook registered in NewApp.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	a.println("Logged out.")
	return nil
}

// WhoAmI prints the current user's record as seen by the directory right now.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	a.println("Identifier:", u.ID, "-", u.CheckDigit)
	a.println("Name:      ", u.DisplayName())
	a.println("Email:     ", u.Email)
	a.println("Login:     ", u.LoginName)
	a.println("Role:      ", u.Role())
	return nil
}
