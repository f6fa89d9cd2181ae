//go:build unit || integration

package builder

import (
	"time"

	"library-lending/internal/domain/reservation"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	BookID           uuid.UUID
	ReservationDate  time.Time
	ExpiryDate       time.Time
	Status           reservation.Status
	QueuePosition    int
	NotificationSent bool
	PickupDays       int
	CreatedAt        time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	reservationDate := dateOf(BaseTime)
	return &ReservationBuilder{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		BookID:          uuid.New(),
		ReservationDate: reservationDate,
		ExpiryDate:      reservationDate.AddDate(0, 0, 7),
		Status:          reservation.StatusActive,
		QueuePosition:   1,
		PickupDays:      3,
		CreatedAt:       BaseTime,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithPosition(position int) *ReservationBuilder {
	b.QueuePosition = position
	return b
}

func (b *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) ExpiredDaysAgo(days int) *ReservationBuilder {
	b.ExpiryDate = dateOf(BaseTime).AddDate(0, 0, -days)
	return b
}

func (b *ReservationBuilder) ForBook(bookID uuid.UUID) *ReservationBuilder {
	b.BookID = bookID
	return b
}

func (b *ReservationBuilder) ForUser(userID uuid.UUID) *ReservationBuilder {
	b.UserID = userID
	return b
}

func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		b.ID,
		b.UserID,
		b.BookID,
		b.ReservationDate,
		b.ExpiryDate,
		b.Status,
		b.QueuePosition,
		b.NotificationSent,
		nil,
		b.PickupDays,
		"",
		b.CreatedAt,
		b.CreatedAt,
	)
}
