package models

import (
	"testing"

	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Role(t *testing.T) {
	admin := &User{ProfileID: common.ProfileAdministrator}
	user := &User{ProfileID: common.ProfileStandardUser}
	unknown := &User{ProfileID: 99}

	assert.Equal(t, RoleAdministrator, admin.Role())
	assert.True(t, admin.IsProtected())
	assert.Equal(t, RoleStandardUser, user.Role())
	assert.False(t, user.IsProtected())
	assert.Equal(t, RoleStandardUser, unknown.Role(), "unknown profiles are standard users")

	assert.Equal(t, "administrator", RoleAdministrator.String())
	assert.Equal(t, "user", RoleStandardUser.String())
}

func TestUser_DisplayName(t *testing.T) {
	u := &User{LoginName: "bob"}
	assert.Equal(t, "bob", u.DisplayName())

	u.FirstName = "Roberto"
	u.PaternalSurname = "  Soto "
	assert.Equal(t, "Roberto Soto", u.DisplayName())
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &User{ID: 1, LoginName: "admin", Salt: []byte{1, 2}, Verifier: []byte{3, 4}}
	c := u.Clone()
	require.Equal(t, u, c)

	c.Salt[0] = 9
	c.Verifier[0] = 9
	c.LoginName = "root"
	assert.Equal(t, byte(1), u.Salt[0])
	assert.Equal(t, byte(3), u.Verifier[0])
	assert.Equal(t, "admin", u.LoginName)
}

func TestUpdateFor_PrefillsDescriptiveFields(t *testing.T) {
	u := &User{ID: 5, FirstName: "Ana", Email: "ana@x.com", LoginName: "ana", Verifier: []byte{1}}
	upd := UpdateFor(u)

	assert.Equal(t, int64(5), upd.ID)
	assert.Equal(t, "Ana", upd.FirstName)
	assert.Equal(t, "ana@x.com", upd.Email)
	assert.Equal(t, "ana", upd.LoginName)
	assert.Empty(t, upd.Credential)
}

func TestOverview_String(t *testing.T) {
	u := &User{ID: 2, CheckDigit: "K", LoginName: "bob", Email: "bob@x.com", ProfileID: common.ProfileStandardUser}
	assert.Equal(t, "2-K\tbob\tbob\tbob@x.com\tuser", u.Overview().String())
}

func TestSnapshot_IsDecoupledFromSource(t *testing.T) {
	users := []User{{ID: 1, LoginName: "admin", Salt: []byte{1}}}
	s := NewSnapshot(3, users)

	users[0].LoginName = "changed"
	users[0].Salt[0] = 7

	require.Equal(t, 1, s.Len())
	assert.Equal(t, uint64(3), s.Version)
	assert.Equal(t, "admin", s.Users[0].LoginName)
	assert.Equal(t, byte(1), s.Users[0].Salt[0])

	found, ok := s.Find(1)
	require.True(t, ok)
	found.LoginName = "mutated"
	assert.Equal(t, "admin", s.Users[0].LoginName)

	_, ok = s.Find(42)
	assert.False(t, ok)
}
