//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"library-lending/internal/domain/reservation"
	"library-lending/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	t.Run("opens active with the wait window", func(t *testing.T) {
		r, err := reservation.NewReservation(reservation.DefaultPolicy(), uuid.New(), uuid.New(), 1, builder.BaseTime)
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusActive, r.Status())
		assert.Equal(t, 1, r.QueuePosition())
		assert.False(t, r.NotificationSent())
		assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), r.ExpiryDate())
	})

	t.Run("rejects non-positive position", func(t *testing.T) {
		_, err := reservation.NewReservation(reservation.DefaultPolicy(), uuid.New(), uuid.New(), 0, builder.BaseTime)
		require.ErrorIs(t, err, reservation.ErrInvalidQueuePosition)
	})
}

func TestMarkAvailable(t *testing.T) {
	t.Run("grants the shorter pickup window", func(t *testing.T) {
		r := builder.NewReservationBuilder().BuildDomain()

		require.NoError(t, r.MarkAvailable(builder.BaseTime))

		assert.Equal(t, reservation.StatusAvailable, r.Status())
		assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), r.ExpiryDate())
		assert.True(t, r.NeedsNotification())
	})

	t.Run("only from active", func(t *testing.T) {
		for _, status := range []reservation.Status{
			reservation.StatusAvailable,
			reservation.StatusFulfilled,
			reservation.StatusExpired,
			reservation.StatusCancelled,
		} {
			r := builder.NewReservationBuilder().WithStatus(status).BuildDomain()
			require.ErrorIs(t, r.MarkAvailable(builder.BaseTime), reservation.ErrNotActive)
		}
	})
}

func TestFulfill(t *testing.T) {
	t.Run("records the pickup", func(t *testing.T) {
		r := builder.NewReservationBuilder().WithStatus(reservation.StatusAvailable).BuildDomain()

		require.NoError(t, r.Fulfill())

		assert.Equal(t, reservation.StatusFulfilled, r.Status())
	})

	t.Run("fails unless a copy is held", func(t *testing.T) {
		r := builder.NewReservationBuilder().BuildDomain()

		require.ErrorIs(t, r.Fulfill(), reservation.ErrNotAvailableForPickup)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancels a live reservation", func(t *testing.T) {
		for _, status := range []reservation.Status{reservation.StatusActive, reservation.StatusAvailable} {
			r := builder.NewReservationBuilder().WithStatus(status).BuildDomain()
			require.NoError(t, r.Cancel())
			assert.Equal(t, reservation.StatusCancelled, r.Status())
		}
	})

	t.Run("fails on closed reservations", func(t *testing.T) {
		r := builder.NewReservationBuilder().WithStatus(reservation.StatusFulfilled).BuildDomain()

		require.ErrorIs(t, r.Cancel(), reservation.ErrAlreadyClosed)
	})
}

func TestExpire(t *testing.T) {
	t.Run("closes a reservation past its window", func(t *testing.T) {
		r := builder.NewReservationBuilder().ExpiredDaysAgo(1).BuildDomain()

		assert.True(t, r.Expire(builder.BaseTime))
		assert.Equal(t, reservation.StatusExpired, r.Status())
	})

	t.Run("idempotent", func(t *testing.T) {
		r := builder.NewReservationBuilder().ExpiredDaysAgo(1).BuildDomain()

		assert.True(t, r.Expire(builder.BaseTime))
		assert.False(t, r.Expire(builder.BaseTime))
		assert.Equal(t, reservation.StatusExpired, r.Status())
	})

	t.Run("no-op while the window is open", func(t *testing.T) {
		r := builder.NewReservationBuilder().BuildDomain()

		assert.False(t, r.Expire(builder.BaseTime))
		assert.Equal(t, reservation.StatusActive, r.Status())
	})

	t.Run("available reservations expire too", func(t *testing.T) {
		r := builder.NewReservationBuilder().WithStatus(reservation.StatusAvailable).ExpiredDaysAgo(1).BuildDomain()

		assert.True(t, r.Expire(builder.BaseTime))
	})
}

func TestNotification(t *testing.T) {
	r := builder.NewReservationBuilder().WithStatus(reservation.StatusAvailable).BuildDomain()
	require.True(t, r.NeedsNotification())

	r.MarkNotified(builder.BaseTime)

	assert.False(t, r.NeedsNotification())
	require.NotNil(t, r.NotificationDate())
}
