package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/client/validation"
	"github.com/dmitrijs2005/tadpole/internal/common"
)

// List prints the newest catalog snapshot received from the directory.
func (a *App) List(ctx context.Context) error {
	snap := a.latest()
	if snap.Len() == 0 {
		a.println("No users.")
		return nil
	}

	a.println("ID\tLOGIN\tNAME\tEMAIL\tROLE")
	for i := range snap.Users {
		a.println(snap.Users[i].Overview().String())
	}
	return nil
}

// Add runs the "new user" form and submits it. An empty identifier lets the
// directory assign the next free one; an empty check digit is computed.
func (a *App) Add(ctx context.Context) error {
	var in models.NewUser

	idText, err := getSimpleText(a.reader, "Identifier (empty for next free)", a.out)
	if err != nil {
		return err
	}
	if idText != "" {
		if in.ID, err = parseID(idText); err != nil {
			return err
		}
		if in.CheckDigit, err = getSimpleText(a.reader, "Check digit (empty to compute)", a.out); err != nil {
			return err
		}
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &in.FirstName},
		{"Second name", &in.SecondName},
		{"Paternal surname", &in.PaternalSurname},
		{"Maternal surname", &in.MaternalSurname},
		{"Email", &in.Email},
		{"Login name", &in.LoginName},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	if in.Credential, err = a.readNewPassword(); err != nil {
		return err
	}
	defer common.WipeByteArray(in.Credential)

	if err := validation.ValidateNewUser(in); err != nil {
		return err
	}

	u, err := a.directory.AddUser(ctx, in)
	if err != nil {
		return err
	}

	a.println(fmt.Sprintf("Created user %d-%s (%s).", u.ID, u.CheckDigit, u.LoginName))
	return nil
}

// Update edits the record named by args[0]. Each prompt shows the current
// value and an empty answer keeps it. For the administrator record only the
// password can be changed.
func (a *App) Update(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	cur, err := a.directory.GetUser(ctx, id)
	if err != nil {
		return err
	}
	upd := models.UpdateFor(cur)

	if !cur.IsProtected() {
		fields := []struct {
			prompt string
			dst    *string
		}{
			{"First name", &upd.FirstName},
			{"Second name", &upd.SecondName},
			{"Paternal surname", &upd.PaternalSurname},
			{"Maternal surname", &upd.MaternalSurname},
			{"Email", &upd.Email},
			{"Login name", &upd.LoginName},
		}
		for _, f := range fields {
			if *f.dst, err = getTextWithDefault(a.reader, f.prompt, *f.dst, a.out); err != nil {
				return err
			}
		}
	} else {
		a.println("The administrator record is protected, only the password can be changed.")
	}

	pw, err := getPassword(a.reader, "New password (empty to keep)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	if len(pw) > 0 {
		upd.Credential = pw
	}

	if err := validation.ValidateUpdate(upd); err != nil {
		return err
	}

	u, err := a.directory.UpdateUser(ctx, upd)
	if err != nil {
		return err
	}

	a.println(fmt.Sprintf("Updated user %d-%s.", u.ID, u.CheckDigit))
	return nil
}

// Delete removes the record named by args[0].
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	name := ""
	if u, ok := a.latest().Find(id); ok {
		name = " (" + u.LoginName + ")"
	}

	if err := a.directory.DeleteUser(ctx, id); err != nil {
		return err
	}

	a.println(fmt.Sprintf("Deleted user %d%s.", id, name))
	return nil
}

// Passwd changes the credential of the current user.
func (a *App) Passwd(ctx context.Context) error {
	u, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	pw, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	upd := models.UpdateFor(u)
	upd.Credential = pw
	if err := validation.ValidateUpdate(upd); err != nil {
		return err
	}

	if _, err := a.directory.UpdateUser(ctx, upd); err != nil {
		return err
	}

	a.println("Password changed.")
	return nil
}

// readNewPassword asks for a password twice and requires both to match.
func (a *App) readNewPassword() ([]byte, error) {
	pw, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return nil, err
	}

	again, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if string(pw) != string(again) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}

func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsageID
	}
	return parseID(args[0])
}

// parseID accepts "12345678" and "12345678-5". A check digit, when present,
// must match.
func parseID(s string) (int64, error) {
	num, dv, hasDV := strings.Cut(strings.TrimSpace(s), "-")
	id, err := strconv.ParseInt(num, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	if hasDV {
		if err := validation.MatchCheckDigit(id, dv); err != nil {
			return 0, err
		}
	}
	return id, nil
}
