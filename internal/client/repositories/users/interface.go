package users

import (
	"context"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
)

// Repository describes CRUD and lookup operations for catalog records.
type Repository interface {
	// Create inserts a new record.
	Create(ctx context.Context, user *models.User) error

	// GetAll returns a copy of every record in insertion order.
	GetAll(ctx context.Context) ([]models.User, error)

	// GetByID returns the record with the given identifier.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByLoginName returns the record with the given login name (exact match).
	GetByLoginName(ctx context.Context, loginName string) (*models.User, error)

	// Update replaces the record sharing user.ID.
	Update(ctx context.Context, user *models.User) error

	// DeleteByID removes the record with the given identifier.
	DeleteByID(ctx context.Context, id int64) error

	// MaxID returns the highest identifier in use, 0 for an empty catalog.
	MaxID(ctx context.Context) (int64, error)
}

// Transactor is implemented by stores that can run several operations as one
// atomic unit. fn receives a Repository bound to the transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
