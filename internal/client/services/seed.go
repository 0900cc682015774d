package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/client/repositories/users"
	"github.com/dmitrijs2005/tadpole/internal/client/validation"
	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/cryptox"
	"github.com/dmitrijs2005/tadpole/internal/logging"
)

// AdminSeed describes the protected administrator record.
type AdminSeed struct {
	ID         int64
	LoginName  string
	Email      string
	Credential []byte
}

// DefaultAdminSeed is the record created on an empty catalog.
var DefaultAdminSeed = AdminSeed{
	ID:         1,
	LoginName:  "admin",
	Email:      "admin@tadpole.local",
	Credential: []byte("admin123"),
}

// EnsureAdmin creates the administrator record unless it already exists.
// A standard user holding seed.ID is an error. It writes to repo directly;
// the directory service never creates administrators.
func EnsureAdmin(ctx context.Context, repo users.Repository, hasher *cryptox.Hasher, seed AdminSeed, log logging.Logger) error {
	log = log.With("module", "seed")

	if seed.ID <= 0 {
		return fmt.Errorf("seed administrator: invalid identifier %d", seed.ID)
	}
	if err := validation.ValidateLogin(seed.LoginName, seed.Credential); err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}

	existing, err := repo.GetByID(ctx, seed.ID)
	if err == nil {
		if !existing.IsProtected() {
			log.Error(ctx, "seed identifier held by a standard user", "id", seed.ID, "login", existing.LoginName)
			return fmt.Errorf("seed administrator: %w: identifier %d belongs to standard user %q",
				common.ErrDuplicateIdentifier, seed.ID, existing.LoginName)
		}
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("seed administrator: %w", err)
	}

	salt, verifier := hasher.NewCredential(seed.Credential)
	admin := &models.User{
		ID:         seed.ID,
		CheckDigit: validation.CheckDigit(seed.ID),
		FirstName:  "Administrator",
		Email:      seed.Email,
		LoginName:  seed.LoginName,
		Salt:       salt,
		Verifier:   verifier,
		ProfileID:  common.ProfileAdministrator,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}

	log.Info(ctx, "administrator seeded", "id", admin.ID, "login", admin.LoginName)
	return nil
}
