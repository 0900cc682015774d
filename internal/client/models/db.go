// Package models defines client-side data models used by the directory,
// the session manager and the CLI.
package models

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/tadpole/internal/common"
)

// User is a catalog record as persisted by the directory store.
// The store exclusively owns User values; callers receive copies.
type User struct {
	// ID is the unique identifier of the record. Immutable for the administrator.
	ID int64

	// CheckDigit is the modulo-11 verification digit of ID ("0"-"9" or "K").
	CheckDigit string

	FirstName       string
	SecondName      string
	PaternalSurname string
	MaternalSurname string

	// Email is an email-shaped contact address.
	Email string

	// LoginName is the unique, case-sensitive name used to log in.
	LoginName string

	// Salt and Verifier are the credential material. The credential itself
	// is never stored.
	Salt     []byte
	Verifier []byte

	// ProfileID is the stored profile indicator the role is derived from.
	ProfileID int64
}

// Role derives the user's role from its profile indicator.
func (u *User) Role() Role {
	if u.ProfileID == common.ProfileAdministrator {
		return RoleAdministrator
	}
	return RoleStandardUser
}

// IsProtected reports whether the record is the protected administrator account.
func (u *User) IsProtected() bool {
	return u.Role() == RoleAdministrator
}

// DisplayName joins the name parts, falling back to LoginName.
func (u *User) DisplayName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{u.FirstName, u.SecondName, u.PaternalSurname, u.MaternalSurname} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return u.LoginName
	}
	return strings.Join(parts, " ")
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	c := *u
	c.Salt = slices.Clone(u.Salt)
	c.Verifier = slices.Clone(u.Verifier)
	return &c
}
