package commands

import (
	"context"

	"library-lending/internal/domain/reservation"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationCommands interface {
	// Reserve queues a member for a book that has no copies on the shelf.
	// Preconditions in order: entitlement, live-reservation limit, duplicate,
	// then the book must currently be unavailable (when copies are on the
	// shelf the caller should borrow instead).
	Reserve(ctx context.Context, userID, bookID uuid.UUID) (uuid.UUID, error)
	// Cancel removes a live reservation and renumbers the active queue behind
	// it. Members may only cancel their own; admins pass uuid.Nil as actorID.
	Cancel(ctx context.Context, reservationID, actorID uuid.UUID) error
	// Fulfill records the pickup of a held copy.
	Fulfill(ctx context.Context, reservationID uuid.UUID) error
}

type reservationUseCaseImpl struct {
	uow                 shared.UnitOfWork
	policy              reservation.Policy
	maxLiveReservations int
	clock               clock.Clock
}

func NewReservationUseCase(uow shared.UnitOfWork, cfg config.LendingConfig, clock clock.Clock) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:                 uow,
		policy:              reservationPolicyFrom(cfg),
		maxLiveReservations: cfg.MaxLiveReservations,
		clock:               clock,
	}
}

func (u *reservationUseCaseImpl) Reserve(ctx context.Context, userID, bookID uuid.UUID) (uuid.UUID, error) {
	now := u.clock.Now()

	var reservationID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The book lock serializes position assignment with concurrent
		// reserve/cancel/promote traffic on the same queue.
		b, err := tx.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return orNotFound(err, ErrBookNotFound)
		}
		usr, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return orNotFound(err, ErrUserNotFound)
		}

		if !usr.IsEntitled(now) {
			return ErrMembershipExpired
		}
		live, err := tx.Reservations().CountLiveByUser(ctx, userID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if live >= u.maxLiveReservations {
			return ErrReservationLimitReached
		}
		dup, err := tx.Reservations().ExistsLiveForUserAndBook(ctx, userID, bookID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if dup {
			return ErrAlreadyReserved
		}
		if b.IsAvailable() {
			return ErrBookCurrentlyAvailable
		}

		// Max rather than count: a promoted reservation keeps its frozen
		// position until it leaves the queue, so counting active rows could
		// hand out a position the tail already holds.
		tail, err := tx.Reservations().MaxActivePosition(ctx, bookID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		r, err := reservation.NewReservation(u.policy, userID, bookID, tail+1, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Reservations().Create(ctx, r); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		reservationID = r.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return reservationID, nil
}

func (u *reservationUseCaseImpl) Cancel(ctx context.Context, reservationID, actorID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return orNotFound(err, ErrReservationNotFound)
		}
		if actorID != uuid.Nil && r.UserID() != actorID {
			return ErrNotOwner
		}
		if _, err := tx.Books().FindByIDForUpdate(ctx, r.BookID()); err != nil {
			return orNotFound(err, ErrBookNotFound)
		}

		removedPosition := r.QueuePosition()
		if err := r.Cancel(); err != nil {
			return errs.Mark(err, ErrReservationClosed)
		}
		if err := tx.Reservations().Update(ctx, r); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// Renumbering also runs for a cancelled AVAILABLE reservation: its
		// slot was never reclaimed at promotion time, so this pass closes
		// the gap it left behind.
		return renumberAfterRemoval(ctx, tx, r.BookID(), removedPosition)
	})
}

func (u *reservationUseCaseImpl) Fulfill(ctx context.Context, reservationID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return orNotFound(err, ErrReservationNotFound)
		}
		if _, err := tx.Books().FindByIDForUpdate(ctx, r.BookID()); err != nil {
			return orNotFound(err, ErrBookNotFound)
		}

		removedPosition := r.QueuePosition()
		if err := r.Fulfill(); err != nil {
			return errs.Mark(err, ErrNotAvailableForPickup)
		}
		if err := tx.Reservations().Update(ctx, r); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// A fulfilled reservation leaves the queue with its position still
		// frozen at promotion time; close that slot like Cancel does.
		return renumberAfterRemoval(ctx, tx, r.BookID(), removedPosition)
	})
}

// renumberAfterRemoval closes the position gap left by a reservation that
// left the active set, keeping positions contiguous from 1. Called with the
// book row locked.
func renumberAfterRemoval(ctx context.Context, tx shared.Tx, bookID uuid.UUID, removedPosition int) error {
	active, err := tx.Reservations().FindActiveByBook(ctx, bookID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, moved := range reservation.Renumber(active, removedPosition) {
		if err := tx.Reservations().Update(ctx, moved); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}
	return nil
}
