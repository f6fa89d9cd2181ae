package queries

import (
	"time"

	"github.com/google/uuid"
)

type BookView struct {
	ID              uuid.UUID
	ISBN            string
	Title           string
	Author          string
	Category        string
	PublicationYear int
	Publisher       string
	Description     string
	ShelfLocation   string
	TotalCopies     int
	AvailableCopies int
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type LoanView struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Username     string
	BookID       uuid.UUID
	BookTitle    string
	BorrowDate   time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
	Status       string
	RenewalCount int
	MaxRenewals  int
	FineCents    int64
	FinePaid     bool
	CreatedAt    time.Time
}

type ReservationView struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Username         string
	BookID           uuid.UUID
	BookTitle        string
	ReservationDate  time.Time
	ExpiryDate       time.Time
	Status           string
	QueuePosition    int
	NotificationSent bool
	CreatedAt        time.Time
}

type UserView struct {
	ID              uuid.UUID
	Username        string
	Email           string
	FullName        string
	Phone           string
	Address         string
	Role            string
	MembershipType  string
	MembershipStart *time.Time
	MembershipEnd   *time.Time
	CreatedAt       time.Time
}
