//go:build unit || integration

package builder

import (
	"time"

	"library-lending/internal/domain/loan"

	"github.com/google/uuid"
)

type LoanBuilder struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	BookID       uuid.UUID
	BorrowDate   time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
	Status       loan.Status
	RenewalCount int
	MaxRenewals  int
	FineCents    int64
	FinePaid     bool
}

func NewLoanBuilder() *LoanBuilder {
	borrowDate := dateOf(BaseTime)
	return &LoanBuilder{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		BookID:      uuid.New(),
		BorrowDate:  borrowDate,
		DueDate:     borrowDate.AddDate(0, 0, 14),
		Status:      loan.StatusBorrowed,
		MaxRenewals: 2,
	}
}

func (b *LoanBuilder) With(mutate func(*LoanBuilder)) *LoanBuilder {
	mutate(b)
	return b
}

func (b *LoanBuilder) WithDueDaysAgo(days int) *LoanBuilder {
	b.DueDate = dateOf(BaseTime).AddDate(0, 0, -days)
	b.BorrowDate = b.DueDate.AddDate(0, 0, -14)
	return b
}

func (b *LoanBuilder) WithRenewals(count int) *LoanBuilder {
	b.RenewalCount = count
	if count > 0 {
		b.Status = loan.StatusRenewed
	}
	return b
}

func (b *LoanBuilder) Returned(on time.Time) *LoanBuilder {
	returned := dateOf(on)
	b.ReturnDate = &returned
	b.Status = loan.StatusReturned
	return b
}

func (b *LoanBuilder) BuildDomain() *loan.Loan {
	return loan.ReconstructLoan(
		b.ID,
		b.UserID,
		b.BookID,
		b.BorrowDate,
		b.DueDate,
		b.ReturnDate,
		b.Status,
		b.RenewalCount,
		b.MaxRenewals,
		loan.MustMoney(b.FineCents),
		b.FinePaid,
		loan.MustMoney(50),
		loan.MustMoney(2000),
		14,
		"",
		BaseTime,
		BaseTime,
	)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
