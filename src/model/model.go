package model

import (
	"database/sql"
	"errors"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so writes can join an upload's transaction.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var (
	ErrAccountNotFound = errors.New("trading account not found")
	ErrSummaryNotFound = errors.New("account summary not found")
)
