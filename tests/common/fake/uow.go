//go:build unit

// Package fake provides an in-memory unit of work for command tests. It
// mirrors the repository contracts closely enough to exercise the engine
// flows without a database, including the not-found classification the
// commands translate into domain sentinels.
package fake

import (
	"context"

	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"
)

// UnitOfWork runs the given function against shared in-memory stores. There
// is no rollback: tests assert on the final state, and failure paths are
// expected to bail out before mutating anything.
type UnitOfWork struct {
	tx *Tx
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		tx: &Tx{
			books:        NewBookStore(),
			users:        NewUserStore(),
			loans:        NewLoanStore(),
			reservations: NewReservationStore(),
		},
	}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

// Books exposes the store for test setup and assertions.
func (u *UnitOfWork) Books() *BookStore { return u.tx.books }

func (u *UnitOfWork) Users() *UserStore { return u.tx.users }

func (u *UnitOfWork) Loans() *LoanStore { return u.tx.loans }

func (u *UnitOfWork) Reservations() *ReservationStore { return u.tx.reservations }

type Tx struct {
	books        *BookStore
	users        *UserStore
	loans        *LoanStore
	reservations *ReservationStore
}

func (t *Tx) Books() shared.BookRepository { return t.books }

func (t *Tx) Users() shared.UserRepository { return t.users }

func (t *Tx) Loans() shared.LoanRepository { return t.loans }

func (t *Tx) Reservations() shared.ReservationRepository { return t.reservations }

func notFound() error {
	return infra.RepositoryError{Kind: infra.KindNotFound}
}
