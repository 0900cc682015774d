// Package services contains the application services of the tadpole client:
// the directory service (catalog CRUD under identity and protection rules),
// the session manager and administrator seeding.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tadpole/internal/client/metrics"
	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/client/repositories/users"
	"github.com/dmitrijs2005/tadpole/internal/client/validation"
	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/cryptox"
	"github.com/dmitrijs2005/tadpole/internal/logging"
)

// DirectoryService is the CRUD facade over the user catalog.
//
// Contract:
//   - AddUser: validate, reject duplicate identifiers and login names with
//     common.ErrDuplicateUser, assign the next identifier when none is given,
//     store a StandardUser record.
//   - UpdateUser: replace the descriptive fields of a record. On the
//     administrator record only the credential is applied.
//   - DeleteUser: remove a record; the administrator fails with
//     common.ErrProtectedAccount.
//   - ListUsers, GetUser, FindByLogin: read straight from the store.
//   - Subscribe, Snapshot: observe the catalog; a new snapshot is published
//     after every write.
//   - Refresh: re-read the store and publish a snapshot.
//   - Close: stop the command queue and close subscriptions.
//
// Writes run one at a time on the command queue. Store failures are reported
// as *common.StorageError.
type DirectoryService interface {
	AddUser(ctx context.Context, in models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	FindByLogin(ctx context.Context, loginName string) (*models.User, error)
	Subscribe() (<-chan models.Snapshot, func())
	Snapshot() models.Snapshot
	Refresh(ctx context.Context) error
	Close() error
}

// DirectoryOptions tune NewDirectoryService. Zero values are usable.
type DirectoryOptions struct {
	Hasher    *cryptox.Hasher
	Logger    logging.Logger
	Metrics   *metrics.Metrics
	QueueSize int
}

type directoryService struct {
	repo     users.Repository
	hasher   *cryptox.Hasher
	log      logging.Logger
	metrics  *metrics.Metrics
	queue    *commandQueue
	notifier *notifier
}

// NewDirectoryService starts the command queue over repo.
func NewDirectoryService(repo users.Repository, opts DirectoryOptions) DirectoryService {
	if opts.Hasher == nil {
		opts.Hasher = cryptox.NewHasher(cryptox.DefaultParams)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &directoryService{
		repo:     repo,
		hasher:   opts.Hasher,
		log:      opts.Logger.With("module", "directory"),
		metrics:  opts.Metrics,
		queue:    newCommandQueue(opts.QueueSize, opts.Logger, opts.Metrics),
		notifier: newNotifier(),
	}
}

// exec runs fn on the queue worker. A successful fn that changed the store is
// followed by a snapshot refresh on the same worker. The refresh ignores
// cancellation of ctx since the write has already committed.
func (s *directoryService) exec(ctx context.Context, op string, fn func(ctx context.Context) (bool, error)) error {
	return s.metrics.ObserveCommand(op, func() error {
		return s.queue.submit(ctx, op, func(ctx context.Context) error {
			changed, err := fn(ctx)
			if err != nil {
				return err
			}
			if changed {
				s.refresh(context.WithoutCancel(ctx))
			}
			return nil
		})
	})
}

// refresh publishes the current store contents. Runs on the queue worker.
func (s *directoryService) refresh(ctx context.Context) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Error(ctx, "catalog refresh failed", "error", err)
		return
	}
	snap := models.NewSnapshot(s.notifier.current().Version+1, all)
	s.notifier.publish(snap)
	s.metrics.Catalog(snap.Len())
	s.log.Debug(ctx, "snapshot published", "version", snap.Version, "size", snap.Len())
}

func (s *directoryService) AddUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	if err := validation.ValidateNewUser(in); err != nil {
		return nil, err
	}

	var created *models.User
	err := s.exec(ctx, "add", func(ctx context.Context) (bool, error) {
		return true, s.atomically(ctx, "add", func(ctx context.Context, repo users.Repository) error {
			id := in.ID
			if id == 0 {
				max, err := repo.MaxID(ctx)
				if err != nil {
					return common.NewStorageError("add", err)
				}
				id = max + 1
			} else if err := ensureAbsent(ctx, repo, id); err != nil {
				return err
			}

			if err := ensureLoginFree(ctx, repo, in.LoginName, 0); err != nil {
				return err
			}

			salt, verifier := s.hasher.NewCredential(in.Credential)
			u := &models.User{
				ID:              id,
				CheckDigit:      validation.CheckDigit(id),
				FirstName:       in.FirstName,
				SecondName:      in.SecondName,
				PaternalSurname: in.PaternalSurname,
				MaternalSurname: in.MaternalSurname,
				Email:           in.Email,
				LoginName:       in.LoginName,
				Salt:            salt,
				Verifier:        verifier,
				ProfileID:       common.ProfileStandardUser,
			}

			if err := repo.Create(ctx, u); err != nil {
				return s.writeError("add", err)
			}
			created = u.Clone()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user added", "id", created.ID, "login", created.LoginName)
	return created, nil
}

func (s *directoryService) UpdateUser(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	var (
		updated *models.User
		changed bool
	)
	err := s.exec(ctx, "update", func(ctx context.Context) (bool, error) {
		err := s.atomically(ctx, "update", func(ctx context.Context, repo users.Repository) error {
			cur, err := repo.GetByID(ctx, upd.ID)
			if err != nil {
				return s.readError("update", err)
			}

			var next *models.User
			if cur.IsProtected() {
				next, err = s.protectedUpdate(ctx, cur, upd)
			} else {
				next, err = s.regularUpdate(ctx, repo, cur, upd)
			}
			if err != nil || next == nil {
				updated = cur
				return err
			}

			if err := repo.Update(ctx, next); err != nil {
				return s.writeError("update", err)
			}
			updated, changed = next.Clone(), true
			return nil
		})
		return changed, err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.Info(ctx, "user updated", "id", updated.ID, "login", updated.LoginName)
	}
	return updated, nil
}

// protectedUpdate applies only the credential to the administrator record.
// A nil result with a nil error means there is nothing to write.
func (s *directoryService) protectedUpdate(ctx context.Context, cur *models.User, upd models.UserUpdate) (*models.User, error) {
	identityChanged := upd.LoginName != cur.LoginName ||
		upd.Email != cur.Email ||
		upd.FirstName != cur.FirstName ||
		upd.SecondName != cur.SecondName ||
		upd.PaternalSurname != cur.PaternalSurname ||
		upd.MaternalSurname != cur.MaternalSurname

	if len(upd.Credential) == 0 {
		if identityChanged {
			return nil, fmt.Errorf("%w: identity fields of the administrator cannot change", common.ErrProtectedField)
		}
		return nil, nil
	}

	if err := validation.Credential(upd.Credential); err != nil {
		return nil, err
	}
	if identityChanged {
		s.log.Warn(ctx, "discarding identity changes on protected account", "id", cur.ID)
	}

	next := cur.Clone()
	next.Salt, next.Verifier = s.hasher.NewCredential(upd.Credential)
	return next, nil
}

func (s *directoryService) regularUpdate(ctx context.Context, repo users.Repository, cur *models.User, upd models.UserUpdate) (*models.User, error) {
	if err := validation.ValidateUpdate(upd); err != nil {
		return nil, err
	}
	if err := ensureLoginFree(ctx, repo, upd.LoginName, cur.ID); err != nil {
		return nil, err
	}

	next := cur.Clone()
	next.FirstName = upd.FirstName
	next.SecondName = upd.SecondName
	next.PaternalSurname = upd.PaternalSurname
	next.MaternalSurname = upd.MaternalSurname
	next.Email = upd.Email
	next.LoginName = upd.LoginName
	if len(upd.Credential) > 0 {
		next.Salt, next.Verifier = s.hasher.NewCredential(upd.Credential)
	}
	return next, nil
}

func (s *directoryService) DeleteUser(ctx context.Context, id int64) error {
	var login string
	err := s.exec(ctx, "delete", func(ctx context.Context) (bool, error) {
		return true, s.atomically(ctx, "delete", func(ctx context.Context, repo users.Repository) error {
			cur, err := repo.GetByID(ctx, id)
			if err != nil {
				return s.readError("delete", err)
			}
			if cur.IsProtected() {
				return common.ErrProtectedAccount
			}

			if err := repo.DeleteByID(ctx, id); err != nil {
				return s.readError("delete", err)
			}
			login = cur.LoginName
			return nil
		})
	})
	if err == nil {
		s.log.Info(ctx, "user deleted", "id", id, "login", login)
	}
	return err
}

func (s *directoryService) ListUsers(ctx context.Context) ([]models.User, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, common.NewStorageError("list", err)
	}
	return all, nil
}

func (s *directoryService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.readError("get", err)
	}
	return u, nil
}

func (s *directoryService) FindByLogin(ctx context.Context, loginName string) (*models.User, error) {
	u, err := s.repo.GetByLoginName(ctx, loginName)
	if err != nil {
		return nil, s.readError("find", err)
	}
	return u, nil
}

func (s *directoryService) Subscribe() (<-chan models.Snapshot, func()) {
	return s.notifier.subscribe()
}

func (s *directoryService) Snapshot() models.Snapshot {
	return s.notifier.current()
}

func (s *directoryService) Refresh(ctx context.Context) error {
	return s.exec(ctx, "refresh", func(ctx context.Context) (bool, error) {
		return true, nil
	})
}

func (s *directoryService) Close() error {
	s.queue.Close()
	s.notifier.close()
	return nil
}

// ensureAbsent fails with ErrDuplicateUser when id is taken.
func ensureAbsent(ctx context.Context, repo users.Repository, id int64) error {
	_, err := repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return fmt.Errorf("%w: identifier %d is taken", common.ErrDuplicateUser, id)
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return common.NewStorageError("add", err)
	}
}

// ensureLoginFree fails with ErrDuplicateUser when loginName belongs to a
// record other than exceptID.
func ensureLoginFree(ctx context.Context, repo users.Repository, loginName string, exceptID int64) error {
	other, err := repo.GetByLoginName(ctx, loginName)
	switch {
	case err == nil:
		if other.ID == exceptID {
			return nil
		}
		return fmt.Errorf("%w: login name %q is taken", common.ErrDuplicateUser, loginName)
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return common.NewStorageError("lookup", err)
	}
}

// atomically runs fn in one store transaction when the store supports it,
// so a check and the write it guards see the same data. fn's errors pass
// through; a failed begin or commit is a storage error.
func (s *directoryService) atomically(ctx context.Context, op string, fn func(ctx context.Context, repo users.Repository) error) error {
	tx, ok := s.repo.(users.Transactor)
	if !ok {
		return fn(ctx, s.repo)
	}

	var fnErr error
	err := tx.InTx(ctx, func(ctx context.Context, repo users.Repository) error {
		fnErr = fn(ctx, repo)
		return fnErr
	})
	if err != nil && fnErr == nil {
		return common.NewStorageError(op, err)
	}
	return err
}

// readError keeps ErrorNotFound and wraps anything else as a storage error.
func (s *directoryService) readError(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return common.NewStorageError(op, err)
}

// writeError maps store uniqueness violations to ErrDuplicateUser.
func (s *directoryService) writeError(op string, err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateIdentifier), errors.Is(err, common.ErrDuplicateUser):
		return fmt.Errorf("%w: %v", common.ErrDuplicateUser, err)
	case errors.Is(err, common.ErrorNotFound):
		return err
	}
	return common.NewStorageError(op, err)
}
