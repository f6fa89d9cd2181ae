package commands

import (
	"context"

	"library-lending/internal/domain/user"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/pkg/jwt"
	"library-lending/internal/pkg/password"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTokenGeneration = errs.New("token generation failed")
	ErrTokenValidation = errs.New("token validation failed")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	UserID    uuid.UUID
	Role      user.Role
	TokenPair TokenPair
}

type AuthCommands interface {
	Login(ctx context.Context, username, plainPassword string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, jwtService: jwtService}
}

func (a *authCommandsImpl) Login(ctx context.Context, username, plainPassword string) (*LoginResult, error) {
	var usr *user.User
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Users().FindByUsername(ctx, username)
		if err != nil {
			return orNotFound(err, ErrInvalidCredentials)
		}
		usr = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := password.ComparePassword(usr.PasswordHash(), plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := a.issuePair(usr.ID(), usr.Role())
	if err != nil {
		return nil, err
	}
	return &LoginResult{UserID: usr.ID(), Role: usr.Role(), TokenPair: *pair}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	role := user.Role(claims.Role)
	if !role.IsValid() {
		return nil, ErrTokenValidation
	}
	return a.issuePair(claims.UserID, role)
}

// TokenValidator is what the auth middleware consumes to turn a bearer token
// into an identity.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, user.Role, error)
}

type jwtTokenValidator struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &jwtTokenValidator{jwtService: jwtService}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, user.Role, error) {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, ErrTokenValidation)
	}
	role := user.Role(claims.Role)
	if !role.IsValid() {
		return uuid.Nil, "", ErrTokenValidation
	}
	return claims.UserID, role, nil
}

func (a *authCommandsImpl) issuePair(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
