package shared

import (
	"context"
	"time"

	"library-lending/internal/domain/book"
	"library-lending/internal/domain/loan"
	"library-lending/internal/domain/reservation"
	"library-lending/internal/domain/user"

	"github.com/google/uuid"
)

// UnitOfWork runs a function against a single transaction. All engine writes
// go through Within so that limit checks are atomic with the creation they
// guard and per-book operations serialize on the locked book row.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the write-side repositories bound to one transaction.
type Tx interface {
	Books() BookRepository
	Users() UserRepository
	Loans() LoanRepository
	Reservations() ReservationRepository
}

type BookRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error)
	// FindByIDForUpdate locks the book row for the rest of the transaction.
	// Borrow/return/reserve/promote flows take this lock first so all
	// mutations of one book's copies and queue are mutually exclusive.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*book.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Create(ctx context.Context, b *book.Book) error
	Update(ctx context.Context, b *book.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
}

type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error)
	CountOpenByUser(ctx context.Context, userID uuid.UUID) (int, error)
	ExistsOpenForUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	// FindOpenDueBefore lists open loans with a due date strictly before the
	// given date, for the overdue sweep.
	FindOpenDueBefore(ctx context.Context, date time.Time) ([]*loan.Loan, error)
	Create(ctx context.Context, l *loan.Loan) error
	Update(ctx context.Context, l *loan.Loan) error
}

type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	CountLiveByUser(ctx context.Context, userID uuid.UUID) (int, error)
	ExistsLiveForUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	// MaxActivePosition returns the highest queue position among the book's
	// active reservations, 0 when the queue is empty. Callers assign the next
	// position as max+1 while holding the book lock.
	MaxActivePosition(ctx context.Context, bookID uuid.UUID) (int, error)
	FindActiveByBook(ctx context.Context, bookID uuid.UUID) ([]*reservation.Reservation, error)
	// FindExpired lists live reservations whose expiry date is strictly
	// before the given date.
	FindExpired(ctx context.Context, date time.Time) ([]*reservation.Reservation, error)
	FindNeedingNotification(ctx context.Context) ([]*reservation.Reservation, error)
	Create(ctx context.Context, r *reservation.Reservation) error
	Update(ctx context.Context, r *reservation.Reservation) error
}
