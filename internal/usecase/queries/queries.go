package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read-side interfaces backed by internal/infra/readstore. Listings are the
// simple filtered lookups the catalog needs; no search indexing.

type BookQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	GetByISBN(ctx context.Context, isbn string) (*BookView, error)
	List(ctx context.Context) ([]*BookView, error)
	Search(ctx context.Context, term string) ([]*BookView, error)
	ListAvailable(ctx context.Context) ([]*BookView, error)
	ListByCategory(ctx context.Context, category string) ([]*BookView, error)
	Categories(ctx context.Context) ([]string, error)
	Authors(ctx context.Context) ([]string, error)
	ListLowAvailability(ctx context.Context, threshold int) ([]*BookView, error)
}

type LoanQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
	ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*LoanView, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*LoanView, error)
	ListUnpaidFines(ctx context.Context) ([]*LoanView, error)
	ListByStatus(ctx context.Context, status string) ([]*LoanView, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
	ListLiveByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
	QueueForBook(ctx context.Context, bookID uuid.UUID) ([]*ReservationView, error)
	ListByStatus(ctx context.Context, status string) ([]*ReservationView, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*ReservationView, error)
	ListNeedingNotification(ctx context.Context) ([]*ReservationView, error)
}

type UserQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	GetByUsername(ctx context.Context, username string) (*UserView, error)
	ListMembers(ctx context.Context) ([]*UserView, error)
	Search(ctx context.Context, term string) ([]*UserView, error)
	ListExpiredMemberships(ctx context.Context, asOf time.Time) ([]*UserView, error)
}
