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

var userViewColumns = []interface{}{
	"id", "username", "email", "full_name", "phone", "address",
	"role", "membership_type", "membership_start", "membership_end", "created_at",
}

type UserReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserReadStore(dbtx db.DBTX) queries.UserQueries {
	return &UserReadStore{db: dbtx, logger: slog.Default()}
}

func (r *UserReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	return r.findOne(ctx, goqu.C("id").Eq(id))
}

func (r *UserReadStore) GetByUsername(ctx context.Context, username string) (*queries.UserView, error) {
	return r.findOne(ctx, goqu.C("username").Eq(username))
}

func (r *UserReadStore) ListMembers(ctx context.Context) ([]*queries.UserView, error) {
	return r.findMany(ctx, r.base().Where(goqu.C("role").Eq("member")))
}

func (r *UserReadStore) Search(ctx context.Context, term string) ([]*queries.UserView, error) {
	pattern := "%" + term + "%"
	return r.findMany(ctx, r.base().Where(goqu.Or(
		goqu.C("username").ILike(pattern),
		goqu.C("full_name").ILike(pattern),
		goqu.C("email").ILike(pattern),
	)))
}

func (r *UserReadStore) ListExpiredMemberships(ctx context.Context, asOf time.Time) ([]*queries.UserView, error) {
	return r.findMany(ctx, r.base().Where(
		goqu.C("role").Eq("member"),
		goqu.C("membership_end").IsNotNull(),
		goqu.C("membership_end").Lte(asOf),
	))
}

func (r *UserReadStore) base() *goqu.SelectDataset {
	return pg().From(userTable).Select(userViewColumns...).Order(goqu.I("username").Asc())
}

func (r *UserReadStore) findOne(ctx context.Context, where goqu.Expression) (*queries.UserView, error) {
	sql, args, err := pg().From(userTable).Select(userViewColumns...).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}
	v, err := scanUserView(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, classify(r.logger, "failed to find user", err)
	}
	return v, nil
}

func (r *UserReadStore) findMany(ctx context.Context, ds *goqu.SelectDataset) ([]*queries.UserView, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(r.logger, "failed to list users", err)
	}
	defer rows.Close()

	var views []*queries.UserView
	for rows.Next() {
		v, err := scanUserView(rows)
		if err != nil {
			return nil, classify(r.logger, "failed to scan user row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(r.logger, "failed to iterate user rows", err)
	}
	return views, nil
}

func scanUserView(row rowScanner) (*queries.UserView, error) {
	var v queries.UserView
	if err := row.Scan(
		&v.ID, &v.Username, &v.Email, &v.FullName, &v.Phone, &v.Address,
		&v.Role, &v.MembershipType, &v.MembershipStart, &v.MembershipEnd, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
