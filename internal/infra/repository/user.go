package repository

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/domain/user"
	"library-lending/internal/infra"
	"library-lending/internal/infra/db"
	"library-lending/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const userTable = "users"

var userColumns = []interface{}{
	"id", "username", "email", "password_hash", "full_name", "phone", "address",
	"role", "membership_type", "membership_start", "membership_end",
	"created_at", "updated_at",
}

type UserRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserRepository(dbtx db.DBTX) shared.UserRepository {
	return &UserRepository{db: dbtx, logger: slog.Default()}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, goqu.C("id").Eq(id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, goqu.C("username").Eq(username))
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, goqu.C("username").Eq(username))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, goqu.C("email").Eq(email))
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	sql, args, err := pg().Insert(userTable).Rows(goqu.Record{
		"id":               u.ID(),
		"username":         u.Username().Value(),
		"email":            u.Email().Value(),
		"password_hash":    u.PasswordHash(),
		"full_name":        u.FullName(),
		"phone":            u.Phone(),
		"address":          u.Address(),
		"role":             u.Role().String(),
		"membership_type":  u.MembershipType().String(),
		"membership_start": u.MembershipStart(),
		"membership_end":   u.MembershipEnd(),
	}).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to create user", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	sql, args, err := pg().Update(userTable).Set(goqu.Record{
		"full_name":        u.FullName(),
		"phone":            u.Phone(),
		"address":          u.Address(),
		"membership_type":  u.MembershipType().String(),
		"membership_start": u.MembershipStart(),
		"membership_end":   u.MembershipEnd(),
		"updated_at":       goqu.L("now()"),
	}).Where(goqu.C("id").Eq(u.ID())).Prepared(true).ToSQL()
	if err != nil {
		return errBuildQuery
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return classify(r.logger, "failed to update user", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, where goqu.Expression) (*user.User, error) {
	sql, args, err := pg().From(userTable).Select(userColumns...).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return nil, errBuildQuery
	}

	var id uuid.UUID
	var username, email, passwordHash, fullName, phone, address string
	var role, membershipType string
	var membershipStart, membershipEnd *time.Time
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&id, &username, &email, &passwordHash, &fullName, &phone, &address,
		&role, &membershipType, &membershipStart, &membershipEnd,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, classify(r.logger, "failed to find user", err)
	}

	uname, err := user.NewUsername(username)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "stored username is invalid", err)
	}
	mail, err := user.NewEmail(email)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "stored email is invalid", err)
	}

	return user.ReconstructUser(
		id, uname, mail, passwordHash, fullName, phone, address,
		user.Role(role), user.MembershipType(membershipType),
		membershipStart, membershipEnd, createdAt, updatedAt,
	), nil
}

func (r *UserRepository) exists(ctx context.Context, where goqu.Expression) (bool, error) {
	sql, args, err := pg().From(userTable).Select(goqu.COUNT("*")).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return false, errBuildQuery
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, classify(r.logger, "failed to check user existence", err)
	}
	return count > 0, nil
}
