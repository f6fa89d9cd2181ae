//go:build unit

package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"library-lending/internal/domain/loan"
	"library-lending/internal/domain/reservation"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/usecase/commands"
	"library-lending/tests/common/builder"
	"library-lending/tests/common/fake"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type recordingNotifier struct {
	notices []commands.PickupNotice
	failFor map[string]error
}

func (n *recordingNotifier) PickupReady(_ context.Context, notice commands.PickupNotice) error {
	if err, ok := n.failFor[notice.BookTitle]; ok {
		return err
	}
	n.notices = append(n.notices, notice)
	return nil
}

type MaintenanceCommandsTestSuite struct {
	suite.Suite
	uow      *fake.UnitOfWork
	clock    *clock.MockClock
	notifier *recordingNotifier
	uc       commands.MaintenanceCommands
}

func (s *MaintenanceCommandsTestSuite) SetupTest() {
	s.uow = fake.NewUnitOfWork()
	s.clock = clock.NewMockClock(builder.BaseTime)
	s.notifier = &recordingNotifier{}
	s.uc = commands.NewMaintenanceUseCase(s.uow, s.notifier, s.clock, slog.New(slog.DiscardHandler))
}

func TestMaintenanceCommandsSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceCommandsTestSuite))
}

func (s *MaintenanceCommandsTestSuite) TestOverdueSweep() {
	ctx := s.T().Context()

	s.Run("flags past-due loans and records the fine", func() {
		s.SetupTest()
		overdue := builder.NewLoanBuilder().WithDueDaysAgo(4).BuildDomain()
		current := builder.NewLoanBuilder().BuildDomain()
		returned := builder.NewLoanBuilder().WithDueDaysAgo(4).Returned(builder.BaseTime).BuildDomain()
		s.uow.Loans().Put(overdue)
		s.uow.Loans().Put(current)
		s.uow.Loans().Put(returned)

		result, err := s.uc.RunOverdueSweep(ctx)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 1, result.Processed)
		assert.Equal(s.T(), 0, result.Failed)
		assert.Equal(s.T(), loan.StatusOverdue, overdue.Status())
		assert.Equal(s.T(), int64(200), overdue.FineAmount().Cents())
		assert.Equal(s.T(), loan.StatusBorrowed, current.Status())
	})

	s.Run("re-running recomputes the same fine", func() {
		s.SetupTest()
		overdue := builder.NewLoanBuilder().WithDueDaysAgo(4).BuildDomain()
		s.uow.Loans().Put(overdue)

		_, err := s.uc.RunOverdueSweep(ctx)
		require.NoError(s.T(), err)
		_, err = s.uc.RunOverdueSweep(ctx)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), int64(200), overdue.FineAmount().Cents())
	})

	s.Run("fine grows with the clock but never past the cap", func() {
		s.SetupTest()
		overdue := builder.NewLoanBuilder().WithDueDaysAgo(4).BuildDomain()
		s.uow.Loans().Put(overdue)

		_, err := s.uc.RunOverdueSweep(ctx)
		require.NoError(s.T(), err)
		require.Equal(s.T(), int64(200), overdue.FineAmount().Cents())

		s.clock.Set(builder.BaseTime.AddDate(0, 0, 100))
		_, err = s.uc.RunOverdueSweep(ctx)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), int64(2000), overdue.FineAmount().Cents())
	})
}

func (s *MaintenanceCommandsTestSuite) TestExpirySweep() {
	ctx := s.T().Context()

	s.Run("expires lapsed reservations and renumbers the queue", func() {
		s.SetupTest()
		b := builder.NewBookBuilder().WithCopies(2, 0).BuildDomain()
		s.uow.Books().Put(b)
		lapsed := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(1).ExpiredDaysAgo(1).BuildDomain()
		waiting := builder.NewReservationBuilder().ForBook(b.ID()).WithPosition(2).BuildDomain()
		s.uow.Reservations().Put(lapsed)
		s.uow.Reservations().Put(waiting)

		result, err := s.uc.RunExpirySweep(ctx)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 1, result.Processed)
		assert.Equal(s.T(), reservation.StatusExpired, lapsed.Status())
		assert.Equal(s.T(), 1, waiting.QueuePosition())
	})

	s.Run("lapsed pickup window is expired too", func() {
		s.SetupTest()
		b := builder.NewBookBuilder().WithCopies(2, 0).BuildDomain()
		s.uow.Books().Put(b)
		held := builder.NewReservationBuilder().ForBook(b.ID()).
			WithStatus(reservation.StatusAvailable).ExpiredDaysAgo(1).BuildDomain()
		s.uow.Reservations().Put(held)

		result, err := s.uc.RunExpirySweep(ctx)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 1, result.Processed)
		assert.Equal(s.T(), reservation.StatusExpired, held.Status())
	})

	s.Run("second run is a no-op", func() {
		s.SetupTest()
		b := builder.NewBookBuilder().WithCopies(2, 0).BuildDomain()
		s.uow.Books().Put(b)
		lapsed := builder.NewReservationBuilder().ForBook(b.ID()).ExpiredDaysAgo(1).BuildDomain()
		s.uow.Reservations().Put(lapsed)

		_, err := s.uc.RunExpirySweep(ctx)
		require.NoError(s.T(), err)

		result, err := s.uc.RunExpirySweep(ctx)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 0, result.Processed)
		assert.Equal(s.T(), 0, result.Failed)
	})
}

func (s *MaintenanceCommandsTestSuite) TestNotificationFlush() {
	ctx := s.T().Context()

	s.Run("delivers and marks pending notices", func() {
		s.SetupTest()
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(s.T(), err)
		s.uow.Users().Put(u)
		b := builder.NewBookBuilder().BuildDomain()
		s.uow.Books().Put(b)
		r := builder.NewReservationBuilder().ForUser(u.ID()).ForBook(b.ID()).
			WithStatus(reservation.StatusAvailable).BuildDomain()
		s.uow.Reservations().Put(r)

		result, err := s.uc.RunNotificationFlush(ctx)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 1, result.Processed)
		require.Len(s.T(), s.notifier.notices, 1)
		want := commands.PickupNotice{
			ReservationID: r.ID(),
			UserID:        u.ID(),
			Username:      u.Username().Value(),
			Email:         u.Email().Value(),
			BookID:        b.ID(),
			BookTitle:     b.Title(),
			ExpiryDate:    r.ExpiryDate(),
		}
		assert.Empty(s.T(), cmp.Diff(want, s.notifier.notices[0]))
		assert.True(s.T(), r.NotificationSent())
	})

	s.Run("failed delivery leaves the reservation pending", func() {
		s.SetupTest()
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(s.T(), err)
		s.uow.Users().Put(u)
		b := builder.NewBookBuilder().BuildDomain()
		s.uow.Books().Put(b)
		r := builder.NewReservationBuilder().ForUser(u.ID()).ForBook(b.ID()).
			WithStatus(reservation.StatusAvailable).BuildDomain()
		s.uow.Reservations().Put(r)
		s.notifier.failFor = map[string]error{b.Title(): errors.New("smtp down")}

		result, err := s.uc.RunNotificationFlush(ctx)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), 0, result.Processed)
		assert.Equal(s.T(), 1, result.Failed)
		assert.False(s.T(), r.NotificationSent())

		// The next run retries the same notice.
		s.notifier.failFor = nil
		result, err = s.uc.RunNotificationFlush(ctx)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 1, result.Processed)
		assert.True(s.T(), r.NotificationSent())
	})

	s.Run("notified reservations are not re-delivered", func() {
		s.SetupTest()
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(s.T(), err)
		s.uow.Users().Put(u)
		b := builder.NewBookBuilder().BuildDomain()
		s.uow.Books().Put(b)
		r := builder.NewReservationBuilder().ForUser(u.ID()).ForBook(b.ID()).
			WithStatus(reservation.StatusAvailable).BuildDomain()
		s.uow.Reservations().Put(r)

		_, err = s.uc.RunNotificationFlush(ctx)
		require.NoError(s.T(), err)

		result, err := s.uc.RunNotificationFlush(ctx)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 0, result.Processed)
		assert.Len(s.T(), s.notifier.notices, 1)
	})
}
