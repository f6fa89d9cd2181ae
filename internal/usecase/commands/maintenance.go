package commands

import (
	"context"
	"log/slog"

	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

// SweepResult reports how a sweep run went. Failed items stay eligible for
// the next run; a sweep never aborts on a single bad item.
type SweepResult struct {
	Processed int
	Failed    int
}

type MaintenanceCommands interface {
	// RunOverdueSweep flags open past-due loans and records their current
	// fine. Re-running recomputes the same fine, so the sweep is idempotent.
	RunOverdueSweep(ctx context.Context) (SweepResult, error)
	// RunExpirySweep closes live reservations whose window has passed and
	// renumbers the queues they leave.
	RunExpirySweep(ctx context.Context) (SweepResult, error)
	// RunNotificationFlush delivers pickup notices for promoted reservations
	// that have not been notified yet. A reservation is marked notified only
	// after its notice was delivered, so delivery is at-least-once.
	RunNotificationFlush(ctx context.Context) (SweepResult, error)
}

type maintenanceUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

func NewMaintenanceUseCase(uow shared.UnitOfWork, notifier Notifier, clock clock.Clock, logger *slog.Logger) MaintenanceCommands {
	return &maintenanceUseCaseImpl{
		uow:      uow,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (u *maintenanceUseCaseImpl) RunOverdueSweep(ctx context.Context) (SweepResult, error) {
	now := u.clock.Now()

	var dueIDs []uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		loans, err := tx.Loans().FindOpenDueBefore(ctx, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, l := range loans {
			dueIDs = append(dueIDs, l.ID())
		}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, id := range dueIDs {
		// Each loan gets its own transaction so one failure cannot roll back
		// the rest of the batch.
		err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			l, err := tx.Loans().FindByID(ctx, id)
			if err != nil {
				return orNotFound(err, ErrLoanNotFound)
			}
			l.MarkOverdue(now)
			if err := tx.Loans().Update(ctx, l); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return nil
		})
		if err != nil {
			result.Failed++
			u.logger.Warn("overdue sweep: item failed", "loan_id", id, "error", err.Error())
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (u *maintenanceUseCaseImpl) RunExpirySweep(ctx context.Context) (SweepResult, error) {
	now := u.clock.Now()

	var expiredIDs []uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reservations, err := tx.Reservations().FindExpired(ctx, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, r := range reservations {
			expiredIDs = append(expiredIDs, r.ID())
		}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, id := range expiredIDs {
		err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			r, err := tx.Reservations().FindByID(ctx, id)
			if err != nil {
				return orNotFound(err, ErrReservationNotFound)
			}
			// The book lock serializes the renumbering below with concurrent
			// reserve/cancel/promote traffic.
			if _, err := tx.Books().FindByIDForUpdate(ctx, r.BookID()); err != nil {
				return orNotFound(err, ErrBookNotFound)
			}

			removedPosition := r.QueuePosition()
			if !r.Expire(now) {
				// Closed or extended since the scan; nothing to do.
				return nil
			}
			if err := tx.Reservations().Update(ctx, r); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return renumberAfterRemoval(ctx, tx, r.BookID(), removedPosition)
		})
		if err != nil {
			result.Failed++
			u.logger.Warn("expiry sweep: item failed", "reservation_id", id, "error", err.Error())
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (u *maintenanceUseCaseImpl) RunNotificationFlush(ctx context.Context) (SweepResult, error) {
	now := u.clock.Now()

	var notices []PickupNotice
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		pending, err := tx.Reservations().FindNeedingNotification(ctx)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, r := range pending {
			usr, err := tx.Users().FindByID(ctx, r.UserID())
			if err != nil {
				return orNotFound(err, ErrUserNotFound)
			}
			b, err := tx.Books().FindByID(ctx, r.BookID())
			if err != nil {
				return orNotFound(err, ErrBookNotFound)
			}
			notices = append(notices, PickupNotice{
				ReservationID: r.ID(),
				UserID:        usr.ID(),
				Username:      usr.Username().Value(),
				Email:         usr.Email().Value(),
				BookID:        b.ID(),
				BookTitle:     b.Title(),
				ExpiryDate:    r.ExpiryDate(),
			})
		}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, notice := range notices {
		if err := u.notifier.PickupReady(ctx, notice); err != nil {
			result.Failed++
			u.logger.Warn("notification flush: delivery failed", "reservation_id", notice.ReservationID, "error", err.Error())
			continue
		}
		err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			r, err := tx.Reservations().FindByID(ctx, notice.ReservationID)
			if err != nil {
				return orNotFound(err, ErrReservationNotFound)
			}
			if !r.NeedsNotification() {
				return nil
			}
			r.MarkNotified(now)
			if err := tx.Reservations().Update(ctx, r); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return nil
		})
		if err != nil {
			result.Failed++
			u.logger.Warn("notification flush: mark failed", "reservation_id", notice.ReservationID, "error", err.Error())
			continue
		}
		result.Processed++
	}
	return result, nil
}
