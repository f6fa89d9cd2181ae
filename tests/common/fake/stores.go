//go:build unit

package fake

import (
	"context"
	"sort"
	"time"

	"library-lending/internal/domain/book"
	"library-lending/internal/domain/loan"
	"library-lending/internal/domain/reservation"
	"library-lending/internal/domain/user"

	"github.com/google/uuid"
)

type BookStore struct {
	byID map[uuid.UUID]*book.Book
}

func NewBookStore() *BookStore {
	return &BookStore{byID: make(map[uuid.UUID]*book.Book)}
}

// Put seeds a book directly, bypassing Create.
func (s *BookStore) Put(b *book.Book) {
	s.byID[b.ID()] = b
}

func (s *BookStore) FindByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	b, ok := s.byID[id]
	if !ok {
		return nil, notFound()
	}
	return b, nil
}

func (s *BookStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	return s.FindByID(ctx, id)
}

func (s *BookStore) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	for _, b := range s.byID {
		if b.ISBN() == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookStore) Create(_ context.Context, b *book.Book) error {
	s.byID[b.ID()] = b
	return nil
}

func (s *BookStore) Update(_ context.Context, b *book.Book) error {
	if _, ok := s.byID[b.ID()]; !ok {
		return notFound()
	}
	s.byID[b.ID()] = b
	return nil
}

func (s *BookStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return notFound()
	}
	delete(s.byID, id)
	return nil
}

type UserStore struct {
	byID map[uuid.UUID]*user.User
}

func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[uuid.UUID]*user.User)}
}

func (s *UserStore) Put(u *user.User) {
	s.byID[u.ID()] = u
}

func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, notFound()
	}
	return u, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range s.byID {
		if u.Username().Value() == username {
			return u, nil
		}
	}
	return nil, notFound()
}

func (s *UserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range s.byID {
		if u.Username().Value() == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range s.byID {
		if u.Email().Value() == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) Create(_ context.Context, u *user.User) error {
	s.byID[u.ID()] = u
	return nil
}

func (s *UserStore) Update(_ context.Context, u *user.User) error {
	if _, ok := s.byID[u.ID()]; !ok {
		return notFound()
	}
	s.byID[u.ID()] = u
	return nil
}

type LoanStore struct {
	byID map[uuid.UUID]*loan.Loan
}

func NewLoanStore() *LoanStore {
	return &LoanStore{byID: make(map[uuid.UUID]*loan.Loan)}
}

func (s *LoanStore) Put(l *loan.Loan) {
	s.byID[l.ID()] = l
}

// All returns every stored loan, for assertions.
func (s *LoanStore) All() []*loan.Loan {
	out := make([]*loan.Loan, 0, len(s.byID))
	for _, l := range s.byID {
		out = append(out, l)
	}
	return out
}

func (s *LoanStore) FindByID(_ context.Context, id uuid.UUID) (*loan.Loan, error) {
	l, ok := s.byID[id]
	if !ok {
		return nil, notFound()
	}
	return l, nil
}

func (s *LoanStore) CountOpenByUser(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, l := range s.byID {
		if l.UserID() == userID && l.ReturnDate() == nil {
			n++
		}
	}
	return n, nil
}

func (s *LoanStore) ExistsOpenForUserAndBook(_ context.Context, userID, bookID uuid.UUID) (bool, error) {
	for _, l := range s.byID {
		if l.UserID() == userID && l.BookID() == bookID && l.ReturnDate() == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *LoanStore) FindOpenDueBefore(_ context.Context, date time.Time) ([]*loan.Loan, error) {
	var out []*loan.Loan
	for _, l := range s.byID {
		if l.ReturnDate() == nil && l.DueDate().Before(date) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate().Before(out[j].DueDate()) })
	return out, nil
}

func (s *LoanStore) Create(_ context.Context, l *loan.Loan) error {
	s.byID[l.ID()] = l
	return nil
}

func (s *LoanStore) Update(_ context.Context, l *loan.Loan) error {
	if _, ok := s.byID[l.ID()]; !ok {
		return notFound()
	}
	s.byID[l.ID()] = l
	return nil
}

type ReservationStore struct {
	byID map[uuid.UUID]*reservation.Reservation
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{byID: make(map[uuid.UUID]*reservation.Reservation)}
}

func (s *ReservationStore) Put(r *reservation.Reservation) {
	s.byID[r.ID()] = r
}

func (s *ReservationStore) All() []*reservation.Reservation {
	out := make([]*reservation.Reservation, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	return out
}

func (s *ReservationStore) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r, ok := s.byID[id]
	if !ok {
		return nil, notFound()
	}
	return r, nil
}

func (s *ReservationStore) CountLiveByUser(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, r := range s.byID {
		if r.UserID() == userID && isLive(r) {
			n++
		}
	}
	return n, nil
}

func (s *ReservationStore) ExistsLiveForUserAndBook(_ context.Context, userID, bookID uuid.UUID) (bool, error) {
	for _, r := range s.byID {
		if r.UserID() == userID && r.BookID() == bookID && isLive(r) {
			return true, nil
		}
	}
	return false, nil
}

func (s *ReservationStore) MaxActivePosition(_ context.Context, bookID uuid.UUID) (int, error) {
	max := 0
	for _, r := range s.byID {
		if r.BookID() == bookID && r.Status() == reservation.StatusActive && r.QueuePosition() > max {
			max = r.QueuePosition()
		}
	}
	return max, nil
}

func (s *ReservationStore) FindActiveByBook(_ context.Context, bookID uuid.UUID) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, r := range s.byID {
		if r.BookID() == bookID && r.Status() == reservation.StatusActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QueuePosition() < out[j].QueuePosition() })
	return out, nil
}

func (s *ReservationStore) FindExpired(_ context.Context, date time.Time) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, r := range s.byID {
		if isLive(r) && r.ExpiryDate().Before(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ReservationStore) FindNeedingNotification(_ context.Context) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, r := range s.byID {
		if r.NeedsNotification() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ReservationStore) Create(_ context.Context, r *reservation.Reservation) error {
	s.byID[r.ID()] = r
	return nil
}

func (s *ReservationStore) Update(_ context.Context, r *reservation.Reservation) error {
	if _, ok := s.byID[r.ID()]; !ok {
		return notFound()
	}
	s.byID[r.ID()] = r
	return nil
}

func isLive(r *reservation.Reservation) bool {
	return r.Status() == reservation.StatusActive || r.Status() == reservation.StatusAvailable
}
