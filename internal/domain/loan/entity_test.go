//go:build unit

package loan_test

import (
	"testing"
	"time"

	"library-lending/internal/domain/loan"
	"library-lending/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoan(t *testing.T) {
	now := builder.BaseTime

	l := loan.NewLoan(loan.DefaultPolicy(), builder.NewUserBuilder().ID, builder.NewBookBuilder().ID, now)

	assert.Equal(t, loan.StatusBorrowed, l.Status())
	assert.Equal(t, 0, l.RenewalCount())
	assert.True(t, l.FineAmount().IsZero())
	assert.True(t, l.IsOpen())
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), l.BorrowDate())
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), l.DueDate())
}

func TestLoanRenew(t *testing.T) {
	t.Run("extends due date by one loan period", func(t *testing.T) {
		l := builder.NewLoanBuilder().BuildDomain()
		originalDue := l.DueDate()

		require.NoError(t, l.Renew(builder.BaseTime))

		assert.Equal(t, 1, l.RenewalCount())
		assert.Equal(t, originalDue.AddDate(0, 0, 14), l.DueDate())
		assert.Equal(t, loan.StatusRenewed, l.Status())
	})

	t.Run("fails at the renewal cap regardless of overdue status", func(t *testing.T) {
		l := builder.NewLoanBuilder().WithRenewals(2).BuildDomain()

		err := l.Renew(builder.BaseTime)

		require.ErrorIs(t, err, loan.ErrRenewalNotAllowed)
		assert.Equal(t, 2, l.RenewalCount())
	})

	t.Run("fails when overdue", func(t *testing.T) {
		l := builder.NewLoanBuilder().WithDueDaysAgo(1).BuildDomain()

		require.ErrorIs(t, l.Renew(builder.BaseTime), loan.ErrRenewalNotAllowed)
	})

	t.Run("fails after return", func(t *testing.T) {
		l := builder.NewLoanBuilder().Returned(builder.BaseTime).BuildDomain()

		require.ErrorIs(t, l.Renew(builder.BaseTime), loan.ErrRenewalNotAllowed)
	})
}

func TestLoanFine(t *testing.T) {
	t.Run("six days overdue at fifty cents per day", func(t *testing.T) {
		// Borrowed day 0, due day 14, now day 20.
		borrowDate := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		l := builder.NewLoanBuilder().With(func(b *builder.LoanBuilder) {
			b.BorrowDate = borrowDate
			b.DueDate = borrowDate.AddDate(0, 0, 14)
		}).BuildDomain()
		now := borrowDate.AddDate(0, 0, 20)

		assert.True(t, l.IsOverdue(now))
		assert.Equal(t, int64(6), l.DaysOverdue(now))
		assert.Equal(t, int64(300), l.CalculateFine(now).Cents())
	})

	t.Run("zero when not overdue", func(t *testing.T) {
		l := builder.NewLoanBuilder().BuildDomain()

		assert.True(t, l.CalculateFine(builder.BaseTime).IsZero())
	})

	t.Run("capped at the maximum", func(t *testing.T) {
		l := builder.NewLoanBuilder().WithDueDaysAgo(365).BuildDomain()

		assert.Equal(t, int64(2000), l.CalculateFine(builder.BaseTime).Cents())
	})

	t.Run("recomputed not accumulated", func(t *testing.T) {
		l := builder.NewLoanBuilder().WithDueDaysAgo(4).BuildDomain()

		first := l.CalculateFine(builder.BaseTime)
		second := l.CalculateFine(builder.BaseTime)

		assert.Equal(t, first, second)
		assert.Equal(t, int64(200), second.Cents())
	})
}

func TestLoanMarkOverdue(t *testing.T) {
	t.Run("transitions and records the fine", func(t *testing.T) {
		l := builder.NewLoanBuilder().WithDueDaysAgo(2).BuildDomain()

		l.MarkOverdue(builder.BaseTime)

		assert.Equal(t, loan.StatusOverdue, l.Status())
		assert.Equal(t, int64(100), l.FineAmount().Cents())
	})

	t.Run("idempotent for the same now", func(t *testing.T) {
		l := builder.NewLoanBuilder().WithDueDaysAgo(2).BuildDomain()

		l.MarkOverdue(builder.BaseTime)
		l.MarkOverdue(builder.BaseTime)

		assert.Equal(t, loan.StatusOverdue, l.Status())
		assert.Equal(t, int64(100), l.FineAmount().Cents())
	})

	t.Run("no-op when not overdue", func(t *testing.T) {
		l := builder.NewLoanBuilder().BuildDomain()

		l.MarkOverdue(builder.BaseTime)

		assert.Equal(t, loan.StatusBorrowed, l.Status())
	})
}

func TestLoanReturn(t *testing.T) {
	t.Run("closes the loan", func(t *testing.T) {
		l := builder.NewLoanBuilder().BuildDomain()

		require.NoError(t, l.Return(builder.BaseTime))

		assert.Equal(t, loan.StatusReturned, l.Status())
		require.NotNil(t, l.ReturnDate())
		assert.False(t, l.IsOpen())
	})

	t.Run("finalizes the fine when returned overdue", func(t *testing.T) {
		l := builder.NewLoanBuilder().WithDueDaysAgo(6).BuildDomain()

		require.NoError(t, l.Return(builder.BaseTime))

		assert.Equal(t, int64(300), l.FineAmount().Cents())
		// A later overdue check no longer applies: the loan is closed.
		assert.False(t, l.IsOverdue(builder.BaseTime.AddDate(0, 0, 30)))
	})

	t.Run("fails when already returned", func(t *testing.T) {
		l := builder.NewLoanBuilder().Returned(builder.BaseTime).BuildDomain()

		require.ErrorIs(t, l.Return(builder.BaseTime), loan.ErrAlreadyReturned)
	})
}

func TestLoanFineSettlement(t *testing.T) {
	t.Run("pay keeps the amount", func(t *testing.T) {
		l := builder.NewLoanBuilder().With(func(b *builder.LoanBuilder) { b.FineCents = 300 }).BuildDomain()

		l.PayFine()

		assert.True(t, l.FinePaid())
		assert.Equal(t, int64(300), l.FineAmount().Cents())
		assert.False(t, l.HasUnpaidFine())
	})

	t.Run("waive zeroes the amount", func(t *testing.T) {
		l := builder.NewLoanBuilder().With(func(b *builder.LoanBuilder) { b.FineCents = 300 }).BuildDomain()

		l.WaiveFine()

		assert.True(t, l.FinePaid())
		assert.True(t, l.FineAmount().IsZero())
	})
}
