// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies low-level database errors for the SQL-backed
// storage backends (SQLite via database/sql, PostgreSQL via pgx).
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsNoRows reports whether err means the queried row does not exist,
// for both database/sql and pgx drivers.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

// Describe enriches a PostgreSQL error with its SQLSTATE so logs say more
// than "ERROR". Other errors are returned unchanged.
func Describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("sqlstate %s (%s): %w", pgErr.Code, pgErr.Message, err)
	}
	return err
}
