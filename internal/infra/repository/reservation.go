package repository

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/domain/reservation"
	"library-lending/internal/infra/db"
	"library-lending/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationTable = "reservations"

var reservationColumns = []interface{}{
	"id", "user_id", "book_id", "reservation_date", "expiry_date", "status",
	"queue_position", "notification_sent", "notification_date", "pickup_days",
	"notes", "created_at", "updated_at",
}

var liveStatuses = []string{
	reservation.StatusActive.String(),
	reservation.StatusAvailable.String(),
}

type ReservationRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationRepository(dbtx db.DBTX) shared.ReservationRepository {
	return &ReservationRepository{db: dbtx, logger: slog.Default()}
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	sql, args, err := pg().From(reservationTable).Select(reservationColumns...).
		Where(goqu.C("id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}
	res, err := scanReservation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(r.logger, "failed to find reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) CountLiveByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx,
		goqu.C("user_id").Eq(userID),
		goqu.C("status").In(liveStatuses),
	)
}

func (r *ReservationRepository) ExistsLiveForUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	count, err := r.count(ctx,
		goqu.C("user_id").Eq(userID),
		goqu.C("book_id").Eq(bookID),
		goqu.C("status").In(liveStatuses),
	)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReservationRepository) MaxActivePosition(ctx context.Context, bookID uuid.UUID) (int, error) {
	sql, args, err := pg().From(reservationTable).
		Select(goqu.COALESCE(goqu.MAX("queue_position"), 0)).
		Where(
			goqu.C("book_id").Eq(bookID),
			goqu.C("status").Eq(reservation.StatusActive.String()),
		).Prepared(true).ToSQL()
	if err != nil {
		return 0, errBuildQuery
	}
	var position int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&position); err != nil {
		return 0, classify(r.logger, "failed to read queue tail", err)
	}
	return position, nil
}

func (r *ReservationRepository) FindActiveByBook(ctx context.Context, bookID uuid.UUID) ([]*reservation.Reservation, error) {
	return r.findMany(ctx,
		pg().From(reservationTable).Select(reservationColumns...).
			Where(
				goqu.C("book_id").Eq(bookID),
				goqu.C("status").Eq(reservation.StatusActive.String()),
			).
			Order(goqu.I("queue_position").Asc()),
	)
}

func (r *ReservationRepository) FindExpired(ctx context.Context, date time.Time) ([]*reservation.Reservation, error) {
	return r.findMany(ctx,
		pg().From(reservationTable).Select(reservationColumns...).
			Where(
				goqu.C("status").In(liveStatuses),
				goqu.C("expiry_date").Lt(date),
			).
			Order(goqu.I("expiry_date").Asc()),
	)
}

func (r *ReservationRepository) FindNeedingNotification(ctx context.Context) ([]*reservation.Reservation, error) {
	return r.findMany(ctx,
		pg().From(reservationTable).Select(reservationColumns...).
			Where(
				goqu.C("status").Eq(reservation.StatusAvailable.String()),
				goqu.C("notification_sent").IsFalse(),
			).
			Order(goqu.I("updated_at").Asc()),
	)
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	sql, args, err := pg().Insert(reservationTable).Rows(goqu.Record{
		"id":                res.ID(),
		"user_id":           res.UserID(),
		"book_id":           res.BookID(),
		"reservation_date":  res.ReservationDate(),
		"expiry_date":       res.ExpiryDate(),
		"status":            res.Status().String(),
		"queue_position":    res.QueuePosition(),
		"notification_sent": res.NotificationSent(),
		"notification_date": res.NotificationDate(),
		"pickup_days":       res.PickupDays(),
		"notes":             res.Notes(),
	}).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	sql, args, err := pg().Update(reservationTable).Set(goqu.Record{
		"expiry_date":       res.ExpiryDate(),
		"status":            res.Status().String(),
		"queue_position":    res.QueuePosition(),
		"notification_sent": res.NotificationSent(),
		"notification_date": res.NotificationDate(),
		"notes":             res.Notes(),
		"updated_at":        goqu.L("now()"),
	}).Where(goqu.C("id").Eq(res.ID())).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to update reservation", err)
	}
	return nil
}

func (r *ReservationRepository) count(ctx context.Context, where ...goqu.Expression) (int, error) {
	sql, args, err := pg().From(reservationTable).Select(goqu.COUNT("*")).Where(where...).Prepared(true).ToSQL()
	if err != nil {
		return 0, errBuildQuery
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, classify(r.logger, "failed to count reservations", err)
	}
	return count, nil
}

func (r *ReservationRepository) findMany(ctx context.Context, ds *goqu.SelectDataset) ([]*reservation.Reservation, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(r.logger, "failed to list reservations", err)
	}
	defer rows.Close()

	var reservations []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, classify(r.logger, "failed to scan reservation", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(r.logger, "failed to iterate reservations", err)
	}
	return reservations, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var id, userID, bookID uuid.UUID
	var reservationDate, expiryDate time.Time
	var status string
	var queuePosition int
	var notificationSent bool
	var notificationDate *time.Time
	var pickupDays int
	var notes string
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&id, &userID, &bookID, &reservationDate, &expiryDate, &status,
		&queuePosition, &notificationSent, &notificationDate, &pickupDays,
		&notes, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		id, userID, bookID, reservationDate, expiryDate,
		reservation.Status(status), queuePosition,
		notificationSent, notificationDate, pickupDays,
		notes, createdAt, updatedAt,
	), nil
}
