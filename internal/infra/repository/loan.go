package repository

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/domain/loan"
	"library-lending/internal/infra/db"
	"library-lending/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const loanTable = "loans"

var loanColumns = []interface{}{
	"id", "user_id", "book_id", "borrow_date", "due_date", "return_date",
	"status", "renewal_count", "max_renewals", "fine_cents", "fine_paid",
	"daily_fine_cents", "max_fine_cents", "loan_period_days", "notes",
	"created_at", "updated_at",
}

type LoanRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewLoanRepository(dbtx db.DBTX) shared.LoanRepository {
	return &LoanRepository{db: dbtx, logger: slog.Default()}
}

func (r *LoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	sql, args, err := pg().From(loanTable).Select(loanColumns...).Where(goqu.C("id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}
	l, err := scanLoan(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(r.logger, "failed to find loan", err)
	}
	return l, nil
}

func (r *LoanRepository) CountOpenByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	sql, args, err := pg().From(loanTable).Select(goqu.COUNT("*")).
		Where(goqu.C("user_id").Eq(userID), goqu.C("return_date").IsNull()).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, errBuildQuery
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, classify(r.logger, "failed to count open loans", err)
	}
	return count, nil
}

func (r *LoanRepository) ExistsOpenForUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	sql, args, err := pg().From(loanTable).Select(goqu.COUNT("*")).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("book_id").Eq(bookID),
			goqu.C("return_date").IsNull(),
		).
		Prepared(true).ToSQL()
	if err != nil {
		return false, errBuildQuery
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, classify(r.logger, "failed to check open loan existence", err)
	}
	return count > 0, nil
}

func (r *LoanRepository) FindOpenDueBefore(ctx context.Context, date time.Time) ([]*loan.Loan, error) {
	sql, args, err := pg().From(loanTable).Select(loanColumns...).
		Where(goqu.C("return_date").IsNull(), goqu.C("due_date").Lt(date)).
		Order(goqu.I("due_date").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(r.logger, "failed to list open loans due before date", err)
	}
	defer rows.Close()

	var loans []*loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, classify(r.logger, "failed to scan loan", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(r.logger, "failed to iterate loans", err)
	}
	return loans, nil
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	sql, args, err := pg().Insert(loanTable).Rows(goqu.Record{
		"id":               l.ID(),
		"user_id":          l.UserID(),
		"book_id":          l.BookID(),
		"borrow_date":      l.BorrowDate(),
		"due_date":         l.DueDate(),
		"return_date":      l.ReturnDate(),
		"status":           l.Status().String(),
		"renewal_count":    l.RenewalCount(),
		"max_renewals":     l.MaxRenewals(),
		"fine_cents":       l.FineAmount().Cents(),
		"fine_paid":        l.FinePaid(),
		"daily_fine_cents": l.DailyFineRate().Cents(),
		"max_fine_cents":   l.MaxFine().Cents(),
		"loan_period_days": l.LoanPeriodDays(),
		"notes":            l.Notes(),
	}).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to create loan", err)
	}
	return nil
}

func (r *LoanRepository) Update(ctx context.Context, l *loan.Loan) error {
	sql, args, err := pg().Update(loanTable).Set(goqu.Record{
		"due_date":      l.DueDate(),
		"return_date":   l.ReturnDate(),
		"status":        l.Status().String(),
		"renewal_count": l.RenewalCount(),
		"fine_cents":    l.FineAmount().Cents(),
		"fine_paid":     l.FinePaid(),
		"notes":         l.Notes(),
		"updated_at":    goqu.L("now()"),
	}).Where(goqu.C("id").Eq(l.ID())).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to update loan", err)
	}
	return nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var id, userID, bookID uuid.UUID
	var borrowDate, dueDate time.Time
	var returnDate *time.Time
	var status string
	var renewalCount, maxRenewals int
	var fineCents, dailyFineCents, maxFineCents int64
	var finePaid bool
	var loanPeriodDays int
	var notes string
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&id, &userID, &bookID, &borrowDate, &dueDate, &returnDate,
		&status, &renewalCount, &maxRenewals, &fineCents, &finePaid,
		&dailyFineCents, &maxFineCents, &loanPeriodDays, &notes,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return loan.ReconstructLoan(
		id, userID, bookID, borrowDate, dueDate, returnDate,
		loan.Status(status), renewalCount, maxRenewals,
		loan.MustMoney(fineCents), finePaid,
		loan.MustMoney(dailyFineCents), loan.MustMoney(maxFineCents),
		loanPeriodDays, notes, createdAt, updatedAt,
	), nil
}
