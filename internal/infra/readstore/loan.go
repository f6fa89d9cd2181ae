package readstore

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/infra/db"
	"library-lending/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

// loanViewColumns pull the joined username and book title alongside the loan
// row so list screens need no second lookup.
var loanViewColumns = []interface{}{
	goqu.I("l.id"), goqu.I("l.user_id"), goqu.I("u.username"),
	goqu.I("l.book_id"), goqu.I("b.title"),
	goqu.I("l.borrow_date"), goqu.I("l.due_date"), goqu.I("l.return_date"),
	goqu.I("l.status"), goqu.I("l.renewal_count"), goqu.I("l.max_renewals"),
	goqu.I("l.fine_cents"), goqu.I("l.fine_paid"), goqu.I("l.created_at"),
}

type LoanReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewLoanReadStore(dbtx db.DBTX) queries.LoanQueries {
	return &LoanReadStore{db: dbtx, logger: slog.Default()}
}

func (r *LoanReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.LoanView, error) {
	sql, args, err := r.base().Where(goqu.I("l.id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}
	v, err := scanLoanView(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(r.logger, "failed to find loan", err)
	}
	return v, nil
}

func (r *LoanReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.LoanView, error) {
	return r.findMany(ctx, r.base().Where(goqu.I("l.user_id").Eq(userID)))
}

func (r *LoanReadStore) ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]*queries.LoanView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.I("l.user_id").Eq(userID),
		goqu.I("l.return_date").IsNull(),
	))
}

func (r *LoanReadStore) ListOverdue(ctx context.Context, asOf time.Time) ([]*queries.LoanView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.I("l.return_date").IsNull(),
		goqu.I("l.due_date").Lt(asOf),
	))
}

func (r *LoanReadStore) ListDueBetween(ctx context.Context, from, to time.Time) ([]*queries.LoanView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.I("l.return_date").IsNull(),
		goqu.I("l.due_date").Gte(from),
		goqu.I("l.due_date").Lte(to),
	))
}

func (r *LoanReadStore) ListUnpaidFines(ctx context.Context) ([]*queries.LoanView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.I("l.fine_cents").Gt(0),
		goqu.I("l.fine_paid").IsFalse(),
	))
}

func (r *LoanReadStore) ListByStatus(ctx context.Context, status string) ([]*queries.LoanView, error) {
	return r.findMany(ctx, r.base().Where(goqu.I("l.status").Eq(status)))
}

func (r *LoanReadStore) base() *goqu.SelectDataset {
	return pg().From(goqu.T(loanTable).As("l")).
		Join(goqu.T(userTable).As("u"), goqu.On(goqu.I("l.user_id").Eq(goqu.I("u.id")))).
		Join(goqu.T(bookTable).As("b"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id")))).
		Select(loanViewColumns...).
		Order(goqu.I("l.due_date").Asc())
}

func (r *LoanReadStore) findMany(ctx context.Context, ds *goqu.SelectDataset) ([]*queries.LoanView, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(r.logger, "failed to list loans", err)
	}
	defer rows.Close()

	var views []*queries.LoanView
	for rows.Next() {
		v, err := scanLoanView(rows)
		if err != nil {
			return nil, classify(r.logger, "failed to scan loan row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(r.logger, "failed to iterate loan rows", err)
	}
	return views, nil
}

func scanLoanView(row rowScanner) (*queries.LoanView, error) {
	var v queries.LoanView
	if err := row.Scan(
		&v.ID, &v.UserID, &v.Username, &v.BookID, &v.BookTitle,
		&v.BorrowDate, &v.DueDate, &v.ReturnDate,
		&v.Status, &v.RenewalCount, &v.MaxRenewals,
		&v.FineCents, &v.FinePaid, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
