package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotAvailableForPickup = errors.New("reservation is not available for pickup")
	ErrAlreadyClosed         = errors.New("reservation is already closed")
	ErrNotActive             = errors.New("reservation is not active")
	ErrInvalidQueuePosition  = errors.New("queue position must be positive")
)

// Policy carries the reservation windows.
type Policy struct {
	// WaitDays is how long an active reservation waits in the queue before
	// expiring.
	WaitDays int
	// PickupDays is the shorter window granted once a copy is held.
	PickupDays int
}

func DefaultPolicy() Policy {
	return Policy{WaitDays: 7, PickupDays: 3}
}

// Reservation is one member's place in the waiting queue for a book.
// Lifecycle: active -> available (copy held) -> fulfilled, with cancelled and
// expired as exits from either live state.
type Reservation struct {
	id               uuid.UUID
	userID           uuid.UUID
	bookID           uuid.UUID
	reservationDate  time.Time
	expiryDate       time.Time
	status           Status
	queuePosition    int
	notificationSent bool
	notificationDate *time.Time
	pickupDays       int
	notes            string
	createdAt        time.Time
	updatedAt        time.Time
}

func NewReservation(policy Policy, userID, bookID uuid.UUID, queuePosition int, now time.Time) (*Reservation, error) {
	if queuePosition < 1 {
		return nil, ErrInvalidQueuePosition
	}
	reservationDate := dateOf(now)
	return &Reservation{
		id:              uuid.New(),
		userID:          userID,
		bookID:          bookID,
		reservationDate: reservationDate,
		expiryDate:      reservationDate.AddDate(0, 0, policy.WaitDays),
		status:          StatusActive,
		queuePosition:   queuePosition,
		pickupDays:      policy.PickupDays,
	}, nil
}

func ReconstructReservation(
	id, userID, bookID uuid.UUID,
	reservationDate, expiryDate time.Time,
	status Status,
	queuePosition int,
	notificationSent bool,
	notificationDate *time.Time,
	pickupDays int,
	notes string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		userID:           userID,
		bookID:           bookID,
		reservationDate:  reservationDate,
		expiryDate:       expiryDate,
		status:           status,
		queuePosition:    queuePosition,
		notificationSent: notificationSent,
		notificationDate: notificationDate,
		pickupDays:       pickupDays,
		notes:            notes,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// IsExpired reports whether a live reservation has outlived its window.
func (r *Reservation) IsExpired(now time.Time) bool {
	return dateOf(now).After(r.expiryDate) && r.status.IsLive()
}

// MarkAvailable promotes the head-of-queue reservation when a copy comes
// back: the member now has the pickup window to collect it.
func (r *Reservation) MarkAvailable(now time.Time) error {
	if r.status != StatusActive {
		return ErrNotActive
	}
	r.status = StatusAvailable
	r.expiryDate = dateOf(now).AddDate(0, 0, r.pickupDays)
	return nil
}

// Fulfill records the pickup.
func (r *Reservation) Fulfill() error {
	if r.status != StatusAvailable {
		return ErrNotAvailableForPickup
	}
	r.status = StatusFulfilled
	return nil
}

func (r *Reservation) Cancel() error {
	if !r.status.IsLive() {
		return ErrAlreadyClosed
	}
	r.status = StatusCancelled
	return nil
}

// Expire closes a reservation whose window has passed. No-op while the window
// is still open, which makes the expiry sweep idempotent.
func (r *Reservation) Expire(now time.Time) bool {
	if !r.IsExpired(now) {
		return false
	}
	r.status = StatusExpired
	return true
}

func (r *Reservation) NeedsNotification() bool {
	return r.status == StatusAvailable && !r.notificationSent
}

func (r *Reservation) MarkNotified(now time.Time) {
	r.notificationSent = true
	r.notificationDate = &now
}

// Reposition is used by queue renumbering after a reservation ahead of this
// one leaves the active set.
func (r *Reservation) Reposition(position int) error {
	if position < 1 {
		return ErrInvalidQueuePosition
	}
	r.queuePosition = position
	return nil
}

// DaysUntilExpiry counts whole days left in the current window; zero once
// expired.
func (r *Reservation) DaysUntilExpiry(now time.Time) int {
	if r.IsExpired(now) {
		return 0
	}
	return int(r.expiryDate.Sub(dateOf(now)).Hours() / 24)
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) UserID() uuid.UUID           { return r.userID }
func (r *Reservation) BookID() uuid.UUID           { return r.bookID }
func (r *Reservation) ReservationDate() time.Time  { return r.reservationDate }
func (r *Reservation) ExpiryDate() time.Time       { return r.expiryDate }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) QueuePosition() int          { return r.queuePosition }
func (r *Reservation) NotificationSent() bool      { return r.notificationSent }
func (r *Reservation) NotificationDate() *time.Time { return r.notificationDate }
func (r *Reservation) PickupDays() int             { return r.pickupDays }
func (r *Reservation) Notes() string               { return r.notes }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
