//go:build unit

package reservation_test

import (
	"testing"

	"library-lending/internal/domain/reservation"
	"library-lending/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueOf(bookID uuid.UUID, positions ...int) []*reservation.Reservation {
	queue := make([]*reservation.Reservation, len(positions))
	for i, p := range positions {
		queue[i] = builder.NewReservationBuilder().ForBook(bookID).WithPosition(p).BuildDomain()
	}
	return queue
}

func TestNextInQueue(t *testing.T) {
	bookID := uuid.New()

	t.Run("picks the smallest active position", func(t *testing.T) {
		queue := queueOf(bookID, 2, 1, 3)

		next := reservation.NextInQueue(queue)

		require.NotNil(t, next)
		assert.Equal(t, 1, next.QueuePosition())
	})

	t.Run("skips non-active reservations", func(t *testing.T) {
		queue := queueOf(bookID, 2, 3)
		promoted := builder.NewReservationBuilder().ForBook(bookID).WithPosition(1).WithStatus(reservation.StatusAvailable).BuildDomain()
		queue = append(queue, promoted)

		next := reservation.NextInQueue(queue)

		require.NotNil(t, next)
		assert.Equal(t, 2, next.QueuePosition())
	})

	t.Run("survives a gap left by promotion", func(t *testing.T) {
		// Position 1 was promoted without renumbering; 2 and 3 remain.
		queue := queueOf(bookID, 2, 3)

		next := reservation.NextInQueue(queue)

		require.NotNil(t, next)
		assert.Equal(t, 2, next.QueuePosition())
	})

	t.Run("nil on empty queue", func(t *testing.T) {
		assert.Nil(t, reservation.NextInQueue(nil))
	})
}

func TestRenumber(t *testing.T) {
	bookID := uuid.New()

	t.Run("closes the gap behind the removed slot", func(t *testing.T) {
		// Positions 1,2,3; position 2 leaves.
		queue := queueOf(bookID, 1, 3)

		moved := reservation.Renumber(queue, 2)

		require.Len(t, moved, 1)
		assert.Equal(t, 1, queue[0].QueuePosition())
		assert.Equal(t, 2, queue[1].QueuePosition())
	})

	t.Run("positions ahead are untouched", func(t *testing.T) {
		queue := queueOf(bookID, 1, 2, 4, 5)

		reservation.Renumber(queue, 3)

		got := make([]int, len(queue))
		for i, r := range queue {
			got[i] = r.QueuePosition()
		}
		assert.Equal(t, []int{1, 2, 3, 4}, got)
	})

	t.Run("contiguity holds after repeated removals", func(t *testing.T) {
		queue := queueOf(bookID, 1, 2, 3, 4, 5)

		// Remove position 2, then the reservation holding position 3.
		require.NoError(t, queue[1].Cancel())
		active := activeOnly(queue)
		reservation.Renumber(active, 2)

		require.NoError(t, active[2].Cancel())
		remaining := activeOnly(active)
		reservation.Renumber(remaining, 3)

		positions := map[int]bool{}
		for _, r := range remaining {
			positions[r.QueuePosition()] = true
		}
		assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, positions)
	})
}

func activeOnly(queue []*reservation.Reservation) []*reservation.Reservation {
	var active []*reservation.Reservation
	for _, r := range queue {
		if r.Status() == reservation.StatusActive {
			active = append(active, r)
		}
	}
	return active
}
