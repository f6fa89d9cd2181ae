package commands

import (
	"context"
	"time"

	"library-lending/internal/domain/loan"
	"library-lending/internal/domain/reservation"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound            = errs.New("user not found")
	ErrBookNotFound            = errs.New("book not found")
	ErrLoanNotFound            = errs.New("loan not found")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrMembershipExpired       = errs.New("membership expired")
	ErrBorrowLimitReached      = errs.New("borrow limit reached")
	ErrBookUnavailable         = errs.New("book unavailable")
	ErrAlreadyBorrowed         = errs.New("book already borrowed by user")
	ErrAlreadyReturned         = errs.New("loan already returned")
	ErrRenewalNotAllowed       = errs.New("renewal not allowed")
	ErrReservationLimitReached = errs.New("reservation limit reached")
	ErrAlreadyReserved         = errs.New("book already reserved by user")
	ErrBookCurrentlyAvailable  = errs.New("book currently available")
	ErrNotAvailableForPickup   = errs.New("reservation not available for pickup")
	ErrReservationClosed       = errs.New("reservation already closed")
	ErrNotOwner                = errs.New("resource belongs to another user")
	ErrDuplicateUsername       = errs.New("username already taken")
	ErrDuplicateEmail          = errs.New("email already registered")
	ErrDuplicateISBN           = errs.New("isbn already registered")
	ErrInvalidCredentials      = errs.New("invalid credentials")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// PickupNotice is the payload handed to the notification channel when a held
// copy is waiting for a member.
type PickupNotice struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	Username      string
	Email         string
	BookID        uuid.UUID
	BookTitle     string
	ExpiryDate    time.Time
}

// Notifier delivers pickup notices. Implementations live in infra/notify.
// Dispatch happens from the notification flush sweep, after the promotion
// that produced the notice has committed, so a delivery failure can never
// roll a promotion back.
type Notifier interface {
	PickupReady(ctx context.Context, notice PickupNotice) error
}

func loanPolicyFrom(cfg config.LendingConfig) loan.Policy {
	return loan.Policy{
		LoanPeriodDays: cfg.LoanPeriodDays,
		MaxRenewals:    cfg.MaxRenewals,
		DailyFineRate:  loan.MustMoney(cfg.DailyFineCents),
		MaxFine:        loan.MustMoney(cfg.MaxFineCents),
	}
}

func reservationPolicyFrom(cfg config.LendingConfig) reservation.Policy {
	return reservation.Policy{
		WaitDays:   cfg.ReservationWaitDays,
		PickupDays: cfg.PickupWindowDays,
	}
}

// orNotFound translates a repository NOT_FOUND into the command-level
// sentinel for the entity being looked up; everything else is wrapped as a
// database failure.
func orNotFound(err error, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, sentinel)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
