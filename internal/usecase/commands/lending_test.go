//go:build unit

package commands_test

import (
	"testing"
	"time"

	"library-lending/internal/domain/book"
	"library-lending/internal/domain/loan"
	"library-lending/internal/domain/reservation"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase/commands"
	"library-lending/tests/common/builder"
	"library-lending/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func defaultLendingConfig() config.LendingConfig {
	return config.LendingConfig{
		LoanPeriodDays:       14,
		MaxRenewals:          2,
		MaxOpenLoans:         3,
		DailyFineCents:       50,
		MaxFineCents:         2000,
		ReservationWaitDays:  7,
		PickupWindowDays:     3,
		MaxLiveReservations:  5,
		MembershipTermMonths: 12,
	}
}

type LoanCommandsTestSuite struct {
	suite.Suite
	uow   *fake.UnitOfWork
	clock *clock.MockClock
	uc    commands.LoanCommands
}

func (s *LoanCommandsTestSuite) SetupTest() {
	s.uow = fake.NewUnitOfWork()
	s.clock = clock.NewMockClock(builder.BaseTime)
	s.uc = commands.NewLoanUseCase(s.uow, defaultLendingConfig(), s.clock)
}

func TestLoanCommandsSuite(t *testing.T) {
	suite.Run(t, new(LoanCommandsTestSuite))
}

func (s *LoanCommandsTestSuite) seedMember() uuid.UUID {
	u, err := builder.NewUserBuilder().BuildDomain()
	require.NoError(s.T(), err)
	s.uow.Users().Put(u)
	return u.ID()
}

func (s *LoanCommandsTestSuite) seedBook(total, available int) *book.Book {
	b := builder.NewBookBuilder().WithCopies(total, available).BuildDomain()
	s.uow.Books().Put(b)
	return b
}

func (s *LoanCommandsTestSuite) TestBorrow() {
	ctx := s.T().Context()

	s.Run("checks out one copy and opens a loan", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(3, 3)

		loanID, err := s.uc.Borrow(ctx, userID, b.ID())
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 2, b.AvailableCopies())
		l, err := s.uow.Loans().FindByID(ctx, loanID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), loan.StatusBorrowed, l.Status())
		assert.Equal(s.T(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), l.DueDate())
	})

	s.Run("unknown book", func() {
		s.SetupTest()
		userID := s.seedMember()

		_, err := s.uc.Borrow(ctx, userID, uuid.New())
		assert.ErrorIs(s.T(), err, commands.ErrBookNotFound)
	})

	s.Run("unknown user", func() {
		s.SetupTest()
		b := s.seedBook(3, 3)

		_, err := s.uc.Borrow(ctx, uuid.New(), b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrUserNotFound)
	})

	s.Run("expired membership", func() {
		s.SetupTest()
		u, err := builder.NewUserBuilder().WithExpiredMembership().BuildDomain()
		require.NoError(s.T(), err)
		s.uow.Users().Put(u)
		b := s.seedBook(3, 3)

		_, err = s.uc.Borrow(ctx, u.ID(), b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrMembershipExpired)
		assert.Equal(s.T(), 3, b.AvailableCopies())
	})

	s.Run("borrow limit reached", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(3, 3)
		for i := 0; i < 3; i++ {
			s.uow.Loans().Put(builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
				lb.UserID = userID
			}).BuildDomain())
		}

		_, err := s.uc.Borrow(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrBorrowLimitReached)
	})

	s.Run("returned loans do not count against the limit", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(3, 3)
		for i := 0; i < 3; i++ {
			s.uow.Loans().Put(builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
				lb.UserID = userID
			}).Returned(builder.BaseTime).BuildDomain())
		}

		_, err := s.uc.Borrow(ctx, userID, b.ID())
		assert.NoError(s.T(), err)
	})

	s.Run("no copies on the shelf", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(2, 0)

		_, err := s.uc.Borrow(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrBookUnavailable)
	})

	s.Run("inactive book", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := builder.NewBookBuilder().WithStatus(book.StatusInactive).BuildDomain()
		s.uow.Books().Put(b)

		_, err := s.uc.Borrow(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrBookUnavailable)
	})

	s.Run("duplicate open loan for the same book", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(3, 3)
		s.uow.Loans().Put(builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
			lb.UserID = userID
			lb.BookID = b.ID()
		}).BuildDomain())

		_, err := s.uc.Borrow(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrAlreadyBorrowed)
		assert.Equal(s.T(), 3, b.AvailableCopies())
	})

	s.Run("limit outranks availability when both would fail", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(2, 0)
		for i := 0; i < 3; i++ {
			s.uow.Loans().Put(builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
				lb.UserID = userID
			}).BuildDomain())
		}

		_, err := s.uc.Borrow(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrBorrowLimitReached)
	})
}

func (s *LoanCommandsTestSuite) TestReturn() {
	ctx := s.T().Context()

	s.Run("round trip restores availability", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(3, 3)

		loanID, err := s.uc.Borrow(ctx, userID, b.ID())
		require.NoError(s.T(), err)
		require.Equal(s.T(), 2, b.AvailableCopies())

		require.NoError(s.T(), s.uc.Return(ctx, loanID))

		assert.Equal(s.T(), 3, b.AvailableCopies())
		l, err := s.uow.Loans().FindByID(ctx, loanID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), loan.StatusReturned, l.Status())
		assert.NotNil(s.T(), l.ReturnDate())
	})

	s.Run("return promotes the head of the queue", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedBook(1, 1)

		loanID, err := s.uc.Borrow(ctx, userID, b.ID())
		require.NoError(s.T(), err)

		head := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).BuildDomain()
		second := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain()
		s.uow.Reservations().Put(head)
		s.uow.Reservations().Put(second)

		require.NoError(s.T(), s.uc.Return(ctx, loanID))

		assert.Equal(s.T(), reservation.StatusAvailable, head.Status())
		assert.False(s.T(), head.NotificationSent())
		assert.Equal(s.T(), time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), head.ExpiryDate())
		// The copy goes back on the shelf; the hold is tracked by the
		// reservation state, not by the availability count.
		assert.Equal(s.T(), 1, b.AvailableCopies())
		// Promotion never renumbers the remaining queue.
		assert.Equal(s.T(), 2, second.QueuePosition())
		assert.Equal(s.T(), reservation.StatusActive, second.Status())
	})

	s.Run("overdue return finalizes the fine", func() {
		s.SetupTest()
		b := s.seedBook(3, 2)
		l := builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
			lb.BookID = b.ID()
		}).WithDueDaysAgo(10).BuildDomain()
		s.uow.Loans().Put(l)

		require.NoError(s.T(), s.uc.Return(ctx, l.ID()))

		assert.Equal(s.T(), int64(500), l.FineAmount().Cents())
		assert.False(s.T(), l.FinePaid())
	})

	s.Run("already returned", func() {
		s.SetupTest()
		b := s.seedBook(3, 3)
		l := builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
			lb.BookID = b.ID()
		}).Returned(builder.BaseTime).BuildDomain()
		s.uow.Loans().Put(l)

		err := s.uc.Return(ctx, l.ID())
		assert.ErrorIs(s.T(), err, commands.ErrAlreadyReturned)
	})

	s.Run("unknown loan", func() {
		s.SetupTest()
		err := s.uc.Return(ctx, uuid.New())
		assert.ErrorIs(s.T(), err, commands.ErrLoanNotFound)
	})
}

func (s *LoanCommandsTestSuite) TestRenew() {
	ctx := s.T().Context()

	s.Run("extends the due date by one loan period", func() {
		s.SetupTest()
		l := builder.NewLoanBuilder().BuildDomain()
		s.uow.Loans().Put(l)
		originalDue := l.DueDate()

		require.NoError(s.T(), s.uc.Renew(ctx, l.ID(), l.UserID()))

		assert.Equal(s.T(), originalDue.AddDate(0, 0, 14), l.DueDate())
		assert.Equal(s.T(), 1, l.RenewalCount())
	})

	s.Run("blocked past the renewal cap", func() {
		s.SetupTest()
		l := builder.NewLoanBuilder().WithRenewals(2).BuildDomain()
		s.uow.Loans().Put(l)

		err := s.uc.Renew(ctx, l.ID(), l.UserID())
		assert.ErrorIs(s.T(), err, commands.ErrRenewalNotAllowed)
	})

	s.Run("blocked while overdue", func() {
		s.SetupTest()
		l := builder.NewLoanBuilder().WithDueDaysAgo(2).BuildDomain()
		s.uow.Loans().Put(l)

		err := s.uc.Renew(ctx, l.ID(), l.UserID())
		assert.ErrorIs(s.T(), err, commands.ErrRenewalNotAllowed)
	})

	s.Run("only the holder may renew", func() {
		s.SetupTest()
		l := builder.NewLoanBuilder().BuildDomain()
		s.uow.Loans().Put(l)

		err := s.uc.Renew(ctx, l.ID(), uuid.New())
		assert.ErrorIs(s.T(), err, commands.ErrNotOwner)
	})
}

func (s *LoanCommandsTestSuite) TestFines() {
	ctx := s.T().Context()

	s.Run("pay marks the fine settled", func() {
		s.SetupTest()
		l := builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
			lb.FineCents = 300
		}).Returned(builder.BaseTime).BuildDomain()
		s.uow.Loans().Put(l)

		require.NoError(s.T(), s.uc.PayFine(ctx, l.ID()))
		assert.True(s.T(), l.FinePaid())
		assert.False(s.T(), l.HasUnpaidFine())
	})

	s.Run("waive clears the amount", func() {
		s.SetupTest()
		l := builder.NewLoanBuilder().With(func(lb *builder.LoanBuilder) {
			lb.FineCents = 300
		}).Returned(builder.BaseTime).BuildDomain()
		s.uow.Loans().Put(l)

		require.NoError(s.T(), s.uc.WaiveFine(ctx, l.ID()))
		assert.Equal(s.T(), int64(0), l.FineAmount().Cents())
		assert.False(s.T(), l.HasUnpaidFine())
	})
}
