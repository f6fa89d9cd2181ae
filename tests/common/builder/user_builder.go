//go:build unit || integration

package builder

import (
	"time"

	"library-lending/internal/domain/user"

	"github.com/google/uuid"
)

// BaseTime is the fixed "now" all builders anchor on so tests stay
// deterministic.
var BaseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type UserBuilder struct {
	ID              uuid.UUID
	Username        string
	Email           string
	PasswordHash    string
	FullName        string
	Phone           string
	Address         string
	Role            user.Role
	MembershipType  user.MembershipType
	MembershipStart *time.Time
	MembershipEnd   *time.Time
}

func NewUserBuilder() *UserBuilder {
	start := BaseTime.AddDate(0, -1, 0)
	end := BaseTime.AddDate(1, 0, 0)
	return &UserBuilder{
		ID:              uuid.New(),
		Username:        "testmember",
		Email:           "member@example.com",
		PasswordHash:    "hashed_password",
		FullName:        "Test Member",
		Role:            user.RoleMember,
		MembershipType:  user.MembershipStandard,
		MembershipStart: &start,
		MembershipEnd:   &end,
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.Role = user.RoleAdmin
	b.MembershipStart = nil
	b.MembershipEnd = nil
	return b
}

func (b *UserBuilder) WithExpiredMembership() *UserBuilder {
	end := BaseTime.AddDate(0, 0, -1)
	b.MembershipEnd = &end
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

func (b *UserBuilder) BuildDomain() (*user.User, error) {
	username, err := user.NewUsername(b.Username)
	if err != nil {
		return nil, err
	}
	email, err := user.NewEmail(b.Email)
	if err != nil {
		return nil, err
	}
	return user.ReconstructUser(
		b.ID,
		username,
		email,
		b.PasswordHash,
		b.FullName,
		b.Phone,
		b.Address,
		b.Role,
		b.MembershipType,
		b.MembershipStart,
		b.MembershipEnd,
		BaseTime,
		BaseTime,
	), nil
}
