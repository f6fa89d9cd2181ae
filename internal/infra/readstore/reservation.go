package readstore

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/infra/db"
	"library-lending/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

var reservationViewColumns = []interface{}{
	goqu.I("r.id"), goqu.I("r.user_id"), goqu.I("u.username"),
	goqu.I("r.book_id"), goqu.I("b.title"),
	goqu.I("r.reservation_date"), goqu.I("r.expiry_date"), goqu.I("r.status"),
	goqu.I("r.queue_position"), goqu.I("r.notification_sent"), goqu.I("r.created_at"),
}

type ReservationReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationReadStore(dbtx db.DBTX) queries.ReservationQueries {
	return &ReservationReadStore{db: dbtx, logger: slog.Default()}
}

func (r *ReservationReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	sql, args, err := r.base().Where(goqu.I("r.id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}
	v, err := scanReservationView(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(r.logger, "failed to find reservation", err)
	}
	return v, nil
}

func (r *ReservationReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationView, error) {
	return r.findMany(ctx, r.base().Where(goqu.I("r.user_id").Eq(userID)))
}

func (r *ReservationReadStore) ListLiveByUser(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.I("r.user_id").Eq(userID),
		goqu.I("r.status").In("active", "available"),
	))
}

// QueueForBook returns the book's active queue in position order.
func (r *ReservationReadStore) QueueForBook(ctx context.Context, bookID uuid.UUID) ([]*queries.ReservationView, error) {
	return r.findMany(ctx, r.base().
		Where(
			goqu.I("r.book_id").Eq(bookID),
			goqu.I("r.status").Eq("active"),
		).
		Order(goqu.I("r.queue_position").Asc()))
}

func (r *ReservationReadStore) ListByStatus(ctx context.Context, status string) ([]*queries.ReservationView, error) {
	return r.findMany(ctx, r.base().Where(goqu.I("r.status").Eq(status)))
}

func (r *ReservationReadStore) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*queries.ReservationView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.I("r.status").In("active", "available"),
		goqu.I("r.expiry_date").Gte(from),
		goqu.I("r.expiry_date").Lte(to),
	))
}

func (r *ReservationReadStore) ListNeedingNotification(ctx context.Context) ([]*queries.ReservationView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.I("r.status").Eq("available"),
		goqu.I("r.notification_sent").IsFalse(),
	))
}

func (r *ReservationReadStore) base() *goqu.SelectDataset {
	return pg().From(goqu.T(reservationTable).As("r")).
		Join(goqu.T(userTable).As("u"), goqu.On(goqu.I("r.user_id").Eq(goqu.I("u.id")))).
		Join(goqu.T(bookTable).As("b"), goqu.On(goqu.I("r.book_id").Eq(goqu.I("b.id")))).
		Select(reservationViewColumns...).
		Order(goqu.I("r.expiry_date").Asc())
}

func (r *ReservationReadStore) findMany(ctx context.Context, ds *goqu.SelectDataset) ([]*queries.ReservationView, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(r.logger, "failed to list reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		v, err := scanReservationView(rows)
		if err != nil {
			return nil, classify(r.logger, "failed to scan reservation row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(r.logger, "failed to iterate reservation rows", err)
	}
	return views, nil
}

func scanReservationView(row rowScanner) (*queries.ReservationView, error) {
	var v queries.ReservationView
	if err := row.Scan(
		&v.ID, &v.UserID, &v.Username, &v.BookID, &v.BookTitle,
		&v.ReservationDate, &v.ExpiryDate, &v.Status,
		&v.QueuePosition, &v.NotificationSent, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
