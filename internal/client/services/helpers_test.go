package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/client/repositories/users"
	"github.com/dmitrijs2005/tadpole/internal/cryptox"
	"github.com/dmitrijs2005/tadpole/internal/logging"
	"github.com/stretchr/testify/require"
)

// argon2id with the smallest memory cost keeps tests fast.
var fastHasher = cryptox.NewHasher(cryptox.Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32})

// newSeededDirectory returns a directory over a memory store holding only
// the default administrator, with the first snapshot published.
func newSeededDirectory(t *testing.T) (DirectoryService, *users.MemoryRepository) {
	t.Helper()
	repo := users.NewMemoryRepository()
	require.NoError(t, EnsureAdmin(context.Background(), repo, fastHasher, DefaultAdminSeed, logging.Discard()))

	dir := NewDirectoryService(repo, DirectoryOptions{Hasher: fastHasher})
	t.Cleanup(func() { _ = dir.Close() })
	require.NoError(t, dir.Refresh(context.Background()))
	return dir, repo
}

func bob() models.NewUser {
	return models.NewUser{
		FirstName:       "Bob",
		PaternalSurname: "Builder",
		Email:           "bob@x.com",
		LoginName:       "bob",
		Credential:      []byte("pass1"),
	}
}

// failingRepo fails the selected operations with err.
type failingRepo struct {
	users.Repository
	err error

	failCreate, failGetAll, failGetByID, failGetByLogin, failUpdate, failDelete, failMaxID bool
}

func (r *failingRepo) Create(ctx context.Context, u *models.User) error {
	if r.failCreate {
		return r.err
	}
	return r.Repository.Create(ctx, u)
}

func (r *failingRepo) GetAll(ctx context.Context) ([]models.User, error) {
	if r.failGetAll {
		return nil, r.err
	}
	return r.Repository.GetAll(ctx)
}

func (r *failingRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if r.failGetByID {
		return nil, r.err
	}
	return r.Repository.GetByID(ctx, id)
}

func (r *failingRepo) GetByLoginName(ctx context.Context, login string) (*models.User, error) {
	if r.failGetByLogin {
		return nil, r.err
	}
	return r.Repository.GetByLoginName(ctx, login)
}

func (r *failingRepo) Update(ctx context.Context, u *models.User) error {
	if r.failUpdate {
		return r.err
	}
	return r.Repository.Update(ctx, u)
}

func (r *failingRepo) DeleteByID(ctx context.Context, id int64) error {
	if r.failDelete {
		return r.err
	}
	return r.Repository.DeleteByID(ctx, id)
}

func (r *failingRepo) MaxID(ctx context.Context) (int64, error) {
	if r.failMaxID {
		return 0, r.err
	}
	return r.Repository.MaxID(ctx)
}

// gatedRepo blocks MaxID until gate is closed, signalling entered first.
type gatedRepo struct {
	users.Repository
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{
		Repository: users.NewMemoryRepository(),
		gate:       make(chan struct{}),
		entered:    make(chan struct{}),
	}
}

func (r *gatedRepo) MaxID(ctx context.Context) (int64, error) {
	r.once.Do(func() { close(r.entered) })
	<-r.gate
	return r.Repository.MaxID(ctx)
}

// cancellingRepo cancels the caller's context right after a successful
// Create, and fails reads on a cancelled context the way database/sql does.
type cancellingRepo struct {
	users.Repository
	cancel context.CancelFunc
}

func (r *cancellingRepo) Create(ctx context.Context, u *models.User) error {
	if err := r.Repository.Create(ctx, u); err != nil {
		return err
	}
	r.cancel()
	return nil
}

func (r *cancellingRepo) GetAll(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Repository.GetAll(ctx)
}

// txRepo counts InTx calls; beginErr fails the transaction before fn runs.
type txRepo struct {
	users.Repository
	calls    int
	beginErr error
}

func (r *txRepo) InTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	r.calls++
	if r.beginErr != nil {
		return r.beginErr
	}
	return fn(ctx, r.Repository)
}
