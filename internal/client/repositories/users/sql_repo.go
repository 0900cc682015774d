package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/dbx"
)

// dialect holds the statements and driver-specific error classification of
// one SQL backend.
type dialect struct {
	name string

	insert        string
	selectAll     string
	selectByID    string
	selectByLogin string
	update        string
	deleteByID    string
	maxID         string

	// classify maps a driver error to ErrDuplicateIdentifier or
	// ErrDuplicateUser when it is a uniqueness violation, nil otherwise.
	classify func(err error) error
}

// SQLRepository persists records in a SQL database through dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
	d  dialect
}

// Dialect returns the SQL dialect name ("sqlite" or "postgres").
func (r *SQLRepository) Dialect() string {
	return r.d.name
}

// InTx runs fn on a repository bound to a single transaction. A repository
// already built over a transaction runs fn on itself.
func (r *SQLRepository) InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return fn(ctx, r)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLRepository{db: tx, d: r.d})
	})
}

func (r *SQLRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx, r.d.insert,
		u.ID, u.CheckDigit, u.FirstName, u.SecondName, u.PaternalSurname, u.MaternalSurname,
		u.Email, u.LoginName, u.Salt, u.Verifier, u.ProfileID)
	if err != nil {
		if dup := r.d.classify(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, r.d.selectAll)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, r.d.selectByID, id)
}

func (r *SQLRepository) GetByLoginName(ctx context.Context, loginName string) (*models.User, error) {
	return r.getOne(ctx, r.d.selectByLogin, loginName)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, arg), u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *SQLRepository) Update(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx, r.d.update,
		u.CheckDigit, u.FirstName, u.SecondName, u.PaternalSurname, u.MaternalSurname,
		u.Email, u.LoginName, u.Salt, u.Verifier, u.ProfileID, u.ID)
	if err != nil {
		if dup := r.d.classify(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return dbx.RequireOneRow(res)
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.d.deleteByID, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return dbx.RequireOneRow(res)
}

func (r *SQLRepository) MaxID(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.QueryRowContext(ctx, r.d.maxID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max identifier: %w", err)
	}
	return max, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner, u *models.User) error {
	return s.Scan(&u.ID, &u.CheckDigit, &u.FirstName, &u.SecondName, &u.PaternalSurname,
		&u.MaternalSurname, &u.Email, &u.LoginName, &u.Salt, &u.Verifier, &u.ProfileID)
}

const userColumns = `identifier, check_digit, first_name, second_name, paternal_surname,
	maternal_surname, email, login_name, salt, verifier, profile_id`
