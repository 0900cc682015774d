package users

import (
	"errors"

	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

var postgresDialect = dialect{
	name: "postgres",

	insert: `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
	selectAll:     `SELECT ` + userColumns + ` FROM users ORDER BY seq`,
	selectByID:    `SELECT ` + userColumns + ` FROM users WHERE identifier = $1`,
	selectByLogin: `SELECT ` + userColumns + ` FROM users WHERE login_name = $1`,
	update: `UPDATE users SET check_digit = $1, first_name = $2, second_name = $3, paternal_surname = $4,
		maternal_surname = $5, email = $6, login_name = $7, salt = $8, verifier = $9, profile_id = $10
		WHERE identifier = $11`,
	deleteByID: `DELETE FROM users WHERE identifier = $1`,
	maxID:      `SELECT COALESCE(MAX(identifier), 0) FROM users`,

	classify: classifyPostgres,
}

// NewPostgresRepository returns a repository speaking the PostgreSQL dialect
// (pgx stdlib driver).
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, d: postgresDialect}
}

func classifyPostgres(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if pgErr.ConstraintName == "users_login_name_key" {
		return common.ErrDuplicateUser
	}
	return common.ErrDuplicateIdentifier
}
