package readstore

import (
	"errors"
	"log/slog"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
)

const (
	bookTable        = "books"
	userTable        = "users"
	loanTable        = "loans"
	reservationTable = "reservations"
)

var errBuildQuery = errs.New("failed to build query")

func pg() goqu.DialectWrapper {
	return goqu.Dialect("postgres")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func classify(logger *slog.Logger, msg string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	}
	return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
}
