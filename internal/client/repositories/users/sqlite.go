package users

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/tadpole/internal/common"
	"github.com/dmitrijs2005/tadpole/internal/dbx"
	"modernc.org/sqlite"
)

// SQLITE_CONSTRAINT; the low byte of every extended constraint code.
const sqliteConstraint = 19

var sqliteDialect = dialect{
	name: "sqlite",

	insert: `INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	// rowid grows with every insert, identifier is not a rowid alias
	selectAll:     `SELECT ` + userColumns + ` FROM users ORDER BY rowid`,
	selectByID:    `SELECT ` + userColumns + ` FROM users WHERE identifier = ?`,
	selectByLogin: `SELECT ` + userColumns + ` FROM users WHERE login_name = ?`,
	update: `UPDATE users SET check_digit = ?, first_name = ?, second_name = ?, paternal_surname = ?,
		maternal_surname = ?, email = ?, login_name = ?, salt = ?, verifier = ?, profile_id = ?
		WHERE identifier = ?`,
	deleteByID: `DELETE FROM users WHERE identifier = ?`,
	maxID:      `SELECT COALESCE(MAX(identifier), 0) FROM users`,

	classify: classifySQLite,
}

// NewSQLiteRepository returns a repository speaking the SQLite dialect
// (modernc.org/sqlite driver).
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, d: sqliteDialect}
}

func classifySQLite(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqliteConstraint {
		return nil
	}
	msg := se.Error()
	switch {
	case strings.Contains(msg, "users.login_name"):
		return common.ErrDuplicateUser
	case strings.Contains(msg, "users.identifier"):
		return common.ErrDuplicateIdentifier
	}
	return nil
}
