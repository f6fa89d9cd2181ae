// Package repository holds the write-side Postgres repositories. SQL is
// built with goqu in prepared mode and executed through the pgx querying
// surface bound at construction, so one repository instance serves exactly
// one transaction.
package repository

import (
	"errors"
	"log/slog"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const dialect = "postgres"

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

var errBuildQuery = errs.New("failed to build query")

func pg() goqu.DialectWrapper {
	return goqu.Dialect(dialect)
}

// classify maps a low-level database error onto a repository error kind.
func classify(logger *slog.Logger, msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, msg, err)
		}
	}
	return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
}
