// Package store is the data access layer for accounts, uploaded videos and
// stream records.
package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrTaken              = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrMissingFields      = errors.New("required fields are missing")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidStatus      = errors.New("invalid stream status")
	ErrInvalidPlatform    = errors.New("unknown platform")
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
