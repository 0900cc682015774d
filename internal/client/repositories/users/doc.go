// Package users provides the directory store: the persistence layer for
// catalog records.
//
// # Overview
//
// Repository is the narrow read/write contract the directory service uses.
// Implementations:
//
//   - MemoryRepository: slice plus index guarded by an RWMutex
//   - SQLRepository: database/sql over dbx.DBTX, built for SQLite
//     (NewSQLiteRepository) or PostgreSQL (NewPostgresRepository)
//
// # Contract
//
// Identifiers are unique: Create fails with common.ErrDuplicateIdentifier when
// the identifier exists, and with common.ErrDuplicateUser when the login name
// is taken. GetByID, GetByLoginName, Update and DeleteByID return
// common.ErrorNotFound for unknown records. GetAll returns an owned copy in
// insertion order; mutating it never affects the store.
//
// Typical Usage
//
//	repo := users.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, &u)
//	all, _ := repo.GetAll(ctx)
//	one, _ := repo.GetByID(ctx, id)
//	_ = repo.DeleteByID(ctx, id)
package users
