package response

import (
	"time"

	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	Username         string    `json:"username"`
	BookID           uuid.UUID `json:"bookId"`
	BookTitle        string    `json:"bookTitle"`
	ReservationDate  time.Time `json:"reservationDate"`
	ExpiryDate       time.Time `json:"expiryDate"`
	Status           string    `json:"status"`
	QueuePosition    int       `json:"queuePosition"`
	NotificationSent bool      `json:"notificationSent"`
	CreatedAt        time.Time `json:"createdAt"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:               v.ID,
		UserID:           v.UserID,
		Username:         v.Username,
		BookID:           v.BookID,
		BookTitle:        v.BookTitle,
		ReservationDate:  v.ReservationDate,
		ExpiryDate:       v.ExpiryDate,
		Status:           v.Status,
		QueuePosition:    v.QueuePosition,
		NotificationSent: v.NotificationSent,
		CreatedAt:        v.CreatedAt,
	}
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(views))
	for i, v := range views {
		out[i] = FromReservationView(v)
	}
	return out
}
