package models

import "fmt"

// Role is the authorization class of a user.
type Role int

const (
	RoleStandardUser Role = iota
	RoleAdministrator
)

func (r Role) String() string {
	if r == RoleAdministrator {
		return "administrator"
	}
	return "user"
}

// NewUser carries the fields collected by the "add user" form.
type NewUser struct {
	// ID is the requested identifier; 0 lets the directory assign the next one.
	ID int64
	// CheckDigit is optional; when empty it is computed from ID.
	CheckDigit string

	FirstName       string
	SecondName      string
	PaternalSurname string
	MaternalSurname string
	Email           string
	LoginName       string
	Credential      []byte
}

// UserUpdate replaces the descriptive fields of the record with the given ID.
// An empty Credential keeps the current one.
type UserUpdate struct {
	ID              int64
	FirstName       string
	SecondName      string
	PaternalSurname string
	MaternalSurname string
	Email           string
	LoginName       string
	Credential      []byte
}

// UpdateFor returns an update prefilled with the current values of u, the
// starting point of an edit form.
func UpdateFor(u *User) UserUpdate {
	return UserUpdate{
		ID:              u.ID,
		FirstName:       u.FirstName,
		SecondName:      u.SecondName,
		PaternalSurname: u.PaternalSurname,
		MaternalSurname: u.MaternalSurname,
		Email:           u.Email,
		LoginName:       u.LoginName,
	}
}

// ViewOverview is the one-line rendering of a record in listings.
type ViewOverview struct {
	ID          int64
	CheckDigit  string
	LoginName   string
	DisplayName string
	Email       string
	Role        Role
}

func (v ViewOverview) String() string {
	return fmt.Sprintf("%d-%s\t%s\t%s\t%s\t%s", v.ID, v.CheckDigit, v.LoginName, v.DisplayName, v.Email, v.Role)
}

// Overview builds the listing view of u.
func (u *User) Overview() ViewOverview {
	return ViewOverview{
		ID:          u.ID,
		CheckDigit:  u.CheckDigit,
		LoginName:   u.LoginName,
		DisplayName: u.DisplayName(),
		Email:       u.Email,
		Role:        u.Role(),
	}
}
