package commands

import (
	"context"

	"library-lending/internal/domain/user"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/pkg/password"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type RegisterMemberInput struct {
	Username       string
	Email          string
	Password       string
	FullName       string
	Phone          string
	Address        string
	MembershipType string
}

type UpdateProfileInput struct {
	FullName       string
	Phone          string
	Address        string
	MembershipType string
}

type UserCommands interface {
	// RegisterMember creates a member account with a membership running one
	// standard term from now.
	RegisterMember(ctx context.Context, in RegisterMemberInput) (uuid.UUID, error)
	// ExtendMembership pushes the membership end out, counting from the
	// current end or from now when it has already lapsed.
	ExtendMembership(ctx context.Context, userID uuid.UUID, months int) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) error
}

type userUseCaseImpl struct {
	uow        shared.UnitOfWork
	termMonths int
	clock      clock.Clock
}

func NewUserUseCase(uow shared.UnitOfWork, cfg config.LendingConfig, clock clock.Clock) UserCommands {
	return &userUseCaseImpl{
		uow:        uow,
		termMonths: cfg.MembershipTermMonths,
		clock:      clock,
	}
}

func (u *userUseCaseImpl) RegisterMember(ctx context.Context, in RegisterMemberInput) (uuid.UUID, error) {
	username, err := user.NewUsername(in.Username)
	if err != nil {
		return uuid.Nil, err
	}
	email, err := user.NewEmail(in.Email)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := user.NewPassword(in.Password); err != nil {
		return uuid.Nil, err
	}
	membershipType := user.MembershipType(in.MembershipType)
	if membershipType == "" {
		membershipType = user.MembershipStandard
	}
	if !membershipType.IsValid() {
		return uuid.Nil, user.ErrInvalidMembershipType
	}

	hash, err := password.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}
	now := u.clock.Now()

	var userID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		taken, err := tx.Users().ExistsByUsername(ctx, username.Value())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if taken {
			return ErrDuplicateUsername
		}
		taken, err = tx.Users().ExistsByEmail(ctx, email.Value())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if taken {
			return ErrDuplicateEmail
		}

		member := user.NewMember(username, email, hash, in.FullName, membershipType, u.termMonths, now)
		member.UpdateProfile(in.FullName, in.Phone, in.Address, membershipType)
		if err := tx.Users().Create(ctx, member); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		userID = member.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func (u *userUseCaseImpl) ExtendMembership(ctx context.Context, userID uuid.UUID, months int) error {
	now := u.clock.Now()

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		usr, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return orNotFound(err, ErrUserNotFound)
		}
		usr.ExtendMembership(months, now)
		if err := tx.Users().Update(ctx, usr); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (u *userUseCaseImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) error {
	membershipType := user.MembershipType(in.MembershipType)
	if !membershipType.IsValid() {
		return user.ErrInvalidMembershipType
	}

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		usr, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return orNotFound(err, ErrUserNotFound)
		}
		usr.UpdateProfile(in.FullName, in.Phone, in.Address, membershipType)
		if err := tx.Users().Update(ctx, usr); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
