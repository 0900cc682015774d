package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUser(id int64, login string) *models.User {
	return &models.User{
		ID:              id,
		CheckDigit:      "5",
		FirstName:       "First" + login,
		PaternalSurname: "Soto",
		Email:           login + "@example.com",
		LoginName:       login,
		Salt:            []byte("salt-" + login),
		Verifier:        []byte("ver-" + login),
		ProfileID:       common.ProfileStandardUser,
	}
}

// runRepositoryContract exercises the behaviour every Repository shares.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		r := newRepo(t)
		all, err := r.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		max, err := r.MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), max)
	})

	t.Run("create and read back", func(t *testing.T) {
		r := newRepo(t)
		u := sampleUser(7, "ana")
		require.NoError(t, r.Create(ctx, u))

		got, err := r.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, u, got)

		got, err = r.GetByLoginName(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, u, got)

		max, err := r.MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(7), max)
	})

	t.Run("insertion order", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, sampleUser(5, "e")))
		require.NoError(t, r.Create(ctx, sampleUser(2, "b")))
		require.NoError(t, r.Create(ctx, sampleUser(9, "i")))

		all, err := r.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{5, 2, 9}, []int64{all[0].ID, all[1].ID, all[2].ID})
	})

	t.Run("duplicates", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, sampleUser(1, "admin")))

		assert.ErrorIs(t, r.Create(ctx, sampleUser(1, "other")), common.ErrDuplicateIdentifier)
		assert.ErrorIs(t, r.Create(ctx, sampleUser(2, "admin")), common.ErrDuplicateUser)

		u := sampleUser(3, "carol")
		require.NoError(t, r.Create(ctx, u))
		u.LoginName = "admin"
		assert.ErrorIs(t, r.Update(ctx, u), common.ErrDuplicateUser)
	})

	t.Run("login names are case sensitive", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, sampleUser(1, "bob")))
		require.NoError(t, r.Create(ctx, sampleUser(2, "Bob")))

		_, err := r.GetByLoginName(ctx, "BOB")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("update", func(t *testing.T) {
		r := newRepo(t)
		u := sampleUser(4, "dave")
		require.NoError(t, r.Create(ctx, u))

		u.Email = "new@example.com"
		u.LoginName = "david"
		require.NoError(t, r.Update(ctx, u))

		got, err := r.GetByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", got.Email)
		assert.Equal(t, "david", got.LoginName)

		_, err = r.GetByLoginName(ctx, "dave")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		assert.ErrorIs(t, r.Update(ctx, sampleUser(99, "ghost")), common.ErrorNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, sampleUser(1, "a")))
		require.NoError(t, r.Create(ctx, sampleUser(2, "b")))
		require.NoError(t, r.Create(ctx, sampleUser(3, "c")))

		require.NoError(t, r.DeleteByID(ctx, 2))
		assert.ErrorIs(t, r.DeleteByID(ctx, 2), common.ErrorNotFound)

		_, err := r.GetByID(ctx, 2)
		assert.ErrorIs(t, err, common.ErrorNotFound)

		all, err := r.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, int64(1), all[0].ID)
		assert.Equal(t, int64(3), all[1].ID)

		// the freed login is available again
		require.NoError(t, r.Create(ctx, sampleUser(4, "b")))
	})

	t.Run("returned values are copies", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, sampleUser(1, "a")))

		all, err := r.GetAll(ctx)
		require.NoError(t, err)
		all[0].LoginName = "mutated"
		all[0].Salt[0] = 'X'

		got, err := r.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "a", got.LoginName)
		assert.Equal(t, []byte("salt-a"), got.Salt)
	})
}
