//go:build unit

package commands_test

import (
	"testing"
	"time"

	"library-lending/internal/domain/book"
	"library-lending/internal/domain/reservation"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/usecase/commands"
	"library-lending/tests/common/builder"
	"library-lending/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReservationCommandsTestSuite struct {
	suite.Suite
	uow   *fake.UnitOfWork
	clock *clock.MockClock
	uc    commands.ReservationCommands
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	s.uow = fake.NewUnitOfWork()
	s.clock = clock.NewMockClock(builder.BaseTime)
	s.uc = commands.NewReservationUseCase(s.uow, defaultLendingConfig(), s.clock)
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

func (s *ReservationCommandsTestSuite) seedMember() uuid.UUID {
	u, err := builder.NewUserBuilder().BuildDomain()
	require.NoError(s.T(), err)
	s.uow.Users().Put(u)
	return u.ID()
}

func (s *ReservationCommandsTestSuite) seedUnavailableBook() *book.Book {
	b := builder.NewBookBuilder().WithCopies(2, 0).BuildDomain()
	s.uow.Books().Put(b)
	return b
}

func (s *ReservationCommandsTestSuite) TestReserve() {
	ctx := s.T().Context()

	s.Run("joins the queue at the tail", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()
		s.uow.Reservations().Put(builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).BuildDomain())
		s.uow.Reservations().Put(builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain())

		id, err := s.uc.Reserve(ctx, userID, b.ID())
		require.NoError(s.T(), err)

		r, err := s.uow.Reservations().FindByID(ctx, id)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 3, r.QueuePosition())
		assert.Equal(s.T(), reservation.StatusActive, r.Status())
		assert.Equal(s.T(), time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), r.ExpiryDate())
	})

	s.Run("a promotion gap never duplicates a position", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()
		// The head was promoted without renumbering, so the active tail still
		// sits at position 2. The newcomer must go behind it, not beside it.
		s.uow.Reservations().Put(builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).
			WithStatus(reservation.StatusAvailable).BuildDomain())
		s.uow.Reservations().Put(builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain())

		id, err := s.uc.Reserve(ctx, userID, b.ID())
		require.NoError(s.T(), err)

		r, err := s.uow.Reservations().FindByID(ctx, id)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 3, r.QueuePosition())
	})

	s.Run("first reservation takes position one", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()

		id, err := s.uc.Reserve(ctx, userID, b.ID())
		require.NoError(s.T(), err)

		r, err := s.uow.Reservations().FindByID(ctx, id)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 1, r.QueuePosition())
	})

	s.Run("available book cannot be reserved", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := builder.NewBookBuilder().WithCopies(2, 1).BuildDomain()
		s.uow.Books().Put(b)

		_, err := s.uc.Reserve(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrBookCurrentlyAvailable)
	})

	s.Run("expired membership", func() {
		s.SetupTest()
		u, err := builder.NewUserBuilder().WithExpiredMembership().BuildDomain()
		require.NoError(s.T(), err)
		s.uow.Users().Put(u)
		b := s.seedUnavailableBook()

		_, err = s.uc.Reserve(ctx, u.ID(), b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrMembershipExpired)
	})

	s.Run("live reservation cap", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()
		for i := 0; i < 5; i++ {
			s.uow.Reservations().Put(builder.NewReservationBuilder().ForUser(userID).BuildDomain())
		}

		_, err := s.uc.Reserve(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrReservationLimitReached)
	})

	s.Run("closed reservations do not count against the cap", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()
		for i := 0; i < 5; i++ {
			s.uow.Reservations().Put(builder.NewReservationBuilder().
				ForUser(userID).
				WithStatus(reservation.StatusCancelled).
				BuildDomain())
		}

		_, err := s.uc.Reserve(ctx, userID, b.ID())
		assert.NoError(s.T(), err)
	})

	s.Run("duplicate live reservation for the same book", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()
		s.uow.Reservations().Put(builder.NewReservationBuilder().ForUser(userID).ForBook(b.ID()).BuildDomain())

		_, err := s.uc.Reserve(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrAlreadyReserved)
	})

	s.Run("cap outranks the duplicate check", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()
		s.uow.Reservations().Put(builder.NewReservationBuilder().ForUser(userID).ForBook(b.ID()).BuildDomain())
		for i := 0; i < 4; i++ {
			s.uow.Reservations().Put(builder.NewReservationBuilder().ForUser(userID).BuildDomain())
		}

		_, err := s.uc.Reserve(ctx, userID, b.ID())
		assert.ErrorIs(s.T(), err, commands.ErrReservationLimitReached)
	})

	s.Run("unknown book", func() {
		s.SetupTest()
		userID := s.seedMember()

		_, err := s.uc.Reserve(ctx, userID, uuid.New())
		assert.ErrorIs(s.T(), err, commands.ErrBookNotFound)
	})
}

func (s *ReservationCommandsTestSuite) TestCancel() {
	ctx := s.T().Context()

	s.Run("renumbers the queue behind the removed slot", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		first := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).BuildDomain()
		second := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain()
		third := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(3).BuildDomain()
		s.uow.Reservations().Put(first)
		s.uow.Reservations().Put(second)
		s.uow.Reservations().Put(third)

		require.NoError(s.T(), s.uc.Cancel(ctx, second.ID(), second.UserID()))

		assert.Equal(s.T(), reservation.StatusCancelled, second.Status())
		assert.Equal(s.T(), 1, first.QueuePosition())
		assert.Equal(s.T(), 2, third.QueuePosition())
	})

	s.Run("positions ahead of the removed slot stay put", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		first := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).BuildDomain()
		second := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain()
		s.uow.Reservations().Put(first)
		s.uow.Reservations().Put(second)

		require.NoError(s.T(), s.uc.Cancel(ctx, second.ID(), second.UserID()))

		assert.Equal(s.T(), 1, first.QueuePosition())
	})

	s.Run("cancelling a held reservation reclaims its old slot", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		// Promotion left this reservation available without renumbering, so
		// the active entries behind it still carry the stale positions.
		held := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).
			WithStatus(reservation.StatusAvailable).BuildDomain()
		waiting := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain()
		s.uow.Reservations().Put(held)
		s.uow.Reservations().Put(waiting)

		require.NoError(s.T(), s.uc.Cancel(ctx, held.ID(), held.UserID()))

		assert.Equal(s.T(), reservation.StatusCancelled, held.Status())
		assert.Equal(s.T(), 1, waiting.QueuePosition())
	})

	s.Run("admins cancel on anyone's behalf", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		r := builder.NewReservationBuilder().ForBook(b.ID()).BuildDomain()
		s.uow.Reservations().Put(r)

		require.NoError(s.T(), s.uc.Cancel(ctx, r.ID(), uuid.Nil))
		assert.Equal(s.T(), reservation.StatusCancelled, r.Status())
	})

	s.Run("members cannot cancel someone else's reservation", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		r := builder.NewReservationBuilder().ForBook(b.ID()).BuildDomain()
		s.uow.Reservations().Put(r)

		err := s.uc.Cancel(ctx, r.ID(), uuid.New())
		assert.ErrorIs(s.T(), err, commands.ErrNotOwner)
		assert.Equal(s.T(), reservation.StatusActive, r.Status())
	})

	s.Run("closed reservation", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		r := builder.NewReservationBuilder().ForBook(b.ID()).
			WithStatus(reservation.StatusFulfilled).BuildDomain()
		s.uow.Reservations().Put(r)

		err := s.uc.Cancel(ctx, r.ID(), r.UserID())
		assert.ErrorIs(s.T(), err, commands.ErrReservationClosed)
	})
}

func (s *ReservationCommandsTestSuite) TestFulfill() {
	ctx := s.T().Context()

	s.Run("records the pickup", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		r := builder.NewReservationBuilder().ForBook(b.ID()).
			WithStatus(reservation.StatusAvailable).BuildDomain()
		s.uow.Reservations().Put(r)

		require.NoError(s.T(), s.uc.Fulfill(ctx, r.ID()))
		assert.Equal(s.T(), reservation.StatusFulfilled, r.Status())
	})

	s.Run("a pickup closes the slot the promotion left behind", func() {
		s.SetupTest()
		userID := s.seedMember()
		b := s.seedUnavailableBook()
		held := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).
			WithStatus(reservation.StatusAvailable).BuildDomain()
		waiting := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain()
		s.uow.Reservations().Put(held)
		s.uow.Reservations().Put(waiting)

		require.NoError(s.T(), s.uc.Fulfill(ctx, held.ID()))
		assert.Equal(s.T(), 1, waiting.QueuePosition())

		// The next reservation lands behind the renumbered tail, not on it.
		id, err := s.uc.Reserve(ctx, userID, b.ID())
		require.NoError(s.T(), err)
		r, err := s.uow.Reservations().FindByID(ctx, id)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 2, r.QueuePosition())
	})

	s.Run("still waiting in the queue", func() {
		s.SetupTest()
		b := s.seedUnavailableBook()
		r := builder.NewReservationBuilder().ForBook(b.ID()).BuildDomain()
		s.uow.Reservations().Put(r)

		err := s.uc.Fulfill(ctx, r.ID())
		assert.ErrorIs(s.T(), err, commands.ErrNotAvailableForPickup)
	})

	s.Run("unknown reservation", func() {
		s.SetupTest()
		err := s.uc.Fulfill(ctx, uuid.New())
		assert.ErrorIs(s.T(), err, commands.ErrReservationNotFound)
	})
}
