package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyReturned   = errors.New("loan has already been returned")
	ErrRenewalNotAllowed = errors.New("loan cannot be renewed")
)

// Policy carries the circulation rules applied to new loans. The values are
// copied onto each loan at creation so closed history keeps the rules it was
// created under.
type Policy struct {
	LoanPeriodDays int
	MaxRenewals    int
	DailyFineRate  Money
	MaxFine        Money
}

func DefaultPolicy() Policy {
	return Policy{
		LoanPeriodDays: 14,
		MaxRenewals:    2,
		DailyFineRate:  MustMoney(50),
		MaxFine:        MustMoney(2000),
	}
}

// Loan is one borrow transaction: user X holds one copy of book Y.
// Lifecycle: borrowed -> (renewed)* -> overdue? -> returned. A returned loan
// is immutable history except for fine settlement.
type Loan struct {
	id             uuid.UUID
	userID         uuid.UUID
	bookID         uuid.UUID
	borrowDate     time.Time
	dueDate        time.Time
	returnDate     *time.Time
	status         Status
	renewalCount   int
	maxRenewals    int
	fineAmount     Money
	finePaid       bool
	dailyFineRate  Money
	maxFine        Money
	loanPeriodDays int
	notes          string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewLoan(policy Policy, userID, bookID uuid.UUID, now time.Time) *Loan {
	borrowDate := dateOf(now)
	return &Loan{
		id:             uuid.New(),
		userID:         userID,
		bookID:         bookID,
		borrowDate:     borrowDate,
		dueDate:        borrowDate.AddDate(0, 0, policy.LoanPeriodDays),
		status:         StatusBorrowed,
		renewalCount:   0,
		maxRenewals:    policy.MaxRenewals,
		fineAmount:     Money{},
		dailyFineRate:  policy.DailyFineRate,
		maxFine:        policy.MaxFine,
		loanPeriodDays: policy.LoanPeriodDays,
	}
}

func ReconstructLoan(
	id, userID, bookID uuid.UUID,
	borrowDate, dueDate time.Time,
	returnDate *time.Time,
	status Status,
	renewalCount, maxRenewals int,
	fineAmount Money,
	finePaid bool,
	dailyFineRate, maxFine Money,
	loanPeriodDays int,
	notes string,
	createdAt, updatedAt time.Time,
) *Loan {
	return &Loan{
		id:             id,
		userID:         userID,
		bookID:         bookID,
		borrowDate:     borrowDate,
		dueDate:        dueDate,
		returnDate:     returnDate,
		status:         status,
		renewalCount:   renewalCount,
		maxRenewals:    maxRenewals,
		fineAmount:     fineAmount,
		finePaid:       finePaid,
		dailyFineRate:  dailyFineRate,
		maxFine:        maxFine,
		loanPeriodDays: loanPeriodDays,
		notes:          notes,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// IsOpen reports whether the copy is still out.
func (l *Loan) IsOpen() bool {
	return l.returnDate == nil
}

// IsOverdue reports whether the loan is past due and still out.
func (l *Loan) IsOverdue(now time.Time) bool {
	return dateOf(now).After(l.dueDate) && l.returnDate == nil
}

// DaysOverdue counts whole days past the due date; zero when not overdue.
func (l *Loan) DaysOverdue(now time.Time) int64 {
	if !l.IsOverdue(now) {
		return 0
	}
	return int64(dateOf(now).Sub(l.dueDate).Hours() / 24)
}

// CanRenew reports whether one more renewal is allowed: under the renewal
// cap, not overdue, and not returned.
func (l *Loan) CanRenew(now time.Time) bool {
	return l.renewalCount < l.maxRenewals && !l.IsOverdue(now) && l.returnDate == nil
}

// Renew extends the due date by one loan period.
func (l *Loan) Renew(now time.Time) error {
	if !l.CanRenew(now) {
		return ErrRenewalNotAllowed
	}
	l.renewalCount++
	l.dueDate = l.dueDate.AddDate(0, 0, l.loanPeriodDays)
	l.status = StatusRenewed
	return nil
}

// CalculateFine recomputes the fine from scratch: daily rate times whole days
// overdue, capped. Pure with respect to the loan's stored fineAmount, so
// repeated calls never accumulate.
func (l *Loan) CalculateFine(now time.Time) Money {
	if !l.IsOverdue(now) {
		return Money{}
	}
	fine := Money{cents: l.dailyFineRate.Cents() * l.DaysOverdue(now)}
	if fine.GreaterThan(l.maxFine) {
		return l.maxFine
	}
	return fine
}

// MarkOverdue transitions an open past-due loan to overdue and records the
// current fine. Idempotent: re-running with the same now recomputes the same
// fine.
func (l *Loan) MarkOverdue(now time.Time) {
	if l.IsOverdue(now) && l.status != StatusReturned {
		l.status = StatusOverdue
		l.fineAmount = l.CalculateFine(now)
	}
}

// Return closes the loan. If it is overdue at this moment the fine is
// finalized; it does not accrue further after the return date is set.
func (l *Loan) Return(now time.Time) error {
	if l.returnDate != nil {
		return ErrAlreadyReturned
	}
	if l.IsOverdue(now) {
		l.fineAmount = l.CalculateFine(now)
	}
	returned := dateOf(now)
	l.returnDate = &returned
	l.status = StatusReturned
	return nil
}

func (l *Loan) PayFine() {
	l.finePaid = true
}

func (l *Loan) WaiveFine() {
	l.fineAmount = Money{}
	l.finePaid = true
}

func (l *Loan) HasUnpaidFine() bool {
	return !l.fineAmount.IsZero() && !l.finePaid
}

func (l *Loan) ID() uuid.UUID          { return l.id }
func (l *Loan) UserID() uuid.UUID      { return l.userID }
func (l *Loan) BookID() uuid.UUID      { return l.bookID }
func (l *Loan) BorrowDate() time.Time  { return l.borrowDate }
func (l *Loan) DueDate() time.Time     { return l.dueDate }
func (l *Loan) ReturnDate() *time.Time { return l.returnDate }
func (l *Loan) Status() Status         { return l.status }
func (l *Loan) RenewalCount() int      { return l.renewalCount }
func (l *Loan) MaxRenewals() int       { return l.maxRenewals }
func (l *Loan) FineAmount() Money      { return l.fineAmount }
func (l *Loan) FinePaid() bool         { return l.finePaid }
func (l *Loan) DailyFineRate() Money   { return l.dailyFineRate }
func (l *Loan) MaxFine() Money         { return l.maxFine }
func (l *Loan) LoanPeriodDays() int    { return l.loanPeriodDays }
func (l *Loan) Notes() string          { return l.notes }
func (l *Loan) CreatedAt() time.Time   { return l.createdAt }
func (l *Loan) UpdatedAt() time.Time   { return l.updatedAt }

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
