package commands

import (
	"context"
	"time"

	"library-lending/internal/domain/loan"
	"library-lending/internal/domain/reservation"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type LoanCommands interface {
	// Borrow checks out one copy of a book to a user. Preconditions are
	// checked in a fixed order so callers get a deterministic error:
	// entitlement, borrow limit, availability, then the open-duplicate check.
	Borrow(ctx context.Context, userID, bookID uuid.UUID) (uuid.UUID, error)
	// Return closes a loan, puts the copy back and promotes the head of the
	// book's reservation queue when one is waiting.
	Return(ctx context.Context, loanID uuid.UUID) error
	// Renew extends a loan by one loan period on behalf of its holder.
	Renew(ctx context.Context, loanID, actorID uuid.UUID) error
	PayFine(ctx context.Context, loanID uuid.UUID) error
	WaiveFine(ctx context.Context, loanID uuid.UUID) error
}

type loanUseCaseImpl struct {
	uow          shared.UnitOfWork
	policy       loan.Policy
	maxOpenLoans int
	clock        clock.Clock
}

func NewLoanUseCase(uow shared.UnitOfWork, cfg config.LendingConfig, clock clock.Clock) LoanCommands {
	return &loanUseCaseImpl{
		uow:          uow,
		policy:       loanPolicyFrom(cfg),
		maxOpenLoans: cfg.MaxOpenLoans,
		clock:        clock,
	}
}

func (u *loanUseCaseImpl) Borrow(ctx context.Context, userID, bookID uuid.UUID) (uuid.UUID, error) {
	now := u.clock.Now()

	var loanID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Locking the book row first serializes every copy mutation for this
		// book, including the limit checks that follow.
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
		open, err := tx.Loans().CountOpenByUser(ctx, userID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if open >= u.maxOpenLoans {
			return ErrBorrowLimitReached
		}
		if !b.IsAvailable() {
			return ErrBookUnavailable
		}
		dup, err := tx.Loans().ExistsOpenForUserAndBook(ctx, userID, bookID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if dup {
			return ErrAlreadyBorrowed
		}

		if err := b.BorrowCopy(); err != nil {
			return ErrBookUnavailable
		}
		l := loan.NewLoan(u.policy, userID, bookID, now)
		if err := tx.Loans().Create(ctx, l); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		loanID = l.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return loanID, nil
}

func (u *loanUseCaseImpl) Return(ctx context.Context, loanID uuid.UUID) error {
	now := u.clock.Now()

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Loans().FindByID(ctx, loanID)
		if err != nil {
			return orNotFound(err, ErrLoanNotFound)
		}
		b, err := tx.Books().FindByIDForUpdate(ctx, l.BookID())
		if err != nil {
			return orNotFound(err, ErrBookNotFound)
		}

		if err := l.Return(now); err != nil {
			return errs.Mark(err, ErrAlreadyReturned)
		}
		b.ReturnCopy()

		if err := tx.Loans().Update(ctx, l); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Books().Update(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return promoteNext(ctx, tx, b.ID(), now)
	})
}

// promoteNext hands the returned copy to the head of the book's queue. It is
// called with the book row already locked. Positions of the remaining active
// reservations are left untouched; the gap is closed by the next cancel or
// expiry pass. The promoted reservation is picked up by the notification
// flush sweep once this transaction commits.
func promoteNext(ctx context.Context, tx shared.Tx, bookID uuid.UUID, now time.Time) error {
	active, err := tx.Reservations().FindActiveByBook(ctx, bookID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	next := reservation.NextInQueue(active)
	if next == nil {
		return nil
	}
	if err := next.MarkAvailable(now); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Reservations().Update(ctx, next); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *loanUseCaseImpl) Renew(ctx context.Context, loanID, actorID uuid.UUID) error {
	now := u.clock.Now()

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Loans().FindByID(ctx, loanID)
		if err != nil {
			return orNotFound(err, ErrLoanNotFound)
		}
		if l.UserID() != actorID {
			return ErrNotOwner
		}
		if err := l.Renew(now); err != nil {
			return errs.Mark(err, ErrRenewalNotAllowed)
		}
		if err := tx.Loans().Update(ctx, l); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *loanUseCaseImpl) PayFine(ctx context.Context, loanID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Loans().FindByID(ctx, loanID)
		if err != nil {
			return orNotFound(err, ErrLoanNotFound)
		}
		l.PayFine()
		if err := tx.Loans().Update(ctx, l); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *loanUseCaseImpl) WaiveFine(ctx context.Context, loanID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Loans().FindByID(ctx, loanID)
		if err != nil {
			return orNotFound(err, ErrLoanNotFound)
		}
		l.WaiveFine()
		if err := tx.Loans().Update(ctx, l); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
