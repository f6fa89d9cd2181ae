package user

import (
	"time"

	"github.com/google/uuid"
)

// User is either a staff admin or a borrowing member. Admins have no
// membership window; members may only borrow and reserve while their
// membership is current.
type User struct {
	id              uuid.UUID
	username        Username
	email           Email
	passwordHash    string
	fullName        string
	phone           string
	address         string
	role            Role
	membershipType  MembershipType
	membershipStart *time.Time
	membershipEnd   *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewMember registers a member with a membership running termMonths from now.
func NewMember(username Username, email Email, passwordHash, fullName string, membershipType MembershipType, termMonths int, now time.Time) *User {
	start := now
	end := now.AddDate(0, termMonths, 0)
	return &User{
		id:              uuid.New(),
		username:        username,
		email:           email,
		passwordHash:    passwordHash,
		fullName:        fullName,
		role:            RoleMember,
		membershipType:  membershipType,
		membershipStart: &start,
		membershipEnd:   &end,
	}
}

func NewAdmin(username Username, email Email, passwordHash, fullName string) *User {
	return &User{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		fullName:     fullName,
		role:         RoleAdmin,
	}
}

func ReconstructUser(
	id uuid.UUID,
	username Username,
	email Email,
	passwordHash, fullName, phone, address string,
	role Role,
	membershipType MembershipType,
	membershipStart, membershipEnd *time.Time,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:              id,
		username:        username,
		email:           email,
		passwordHash:    passwordHash,
		fullName:        fullName,
		phone:           phone,
		address:         address,
		role:            role,
		membershipType:  membershipType,
		membershipStart: membershipStart,
		membershipEnd:   membershipEnd,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// IsEntitled reports whether the user may borrow or reserve at the given time.
// Admins are always entitled; members only while the membership runs.
func (u *User) IsEntitled(now time.Time) bool {
	if u.role == RoleAdmin {
		return true
	}
	return u.membershipEnd != nil && now.Before(*u.membershipEnd)
}

// ExtendMembership pushes the membership end out by months, counting from the
// current end or from now when the membership has already lapsed.
func (u *User) ExtendMembership(months int, now time.Time) {
	base := now
	if u.membershipEnd != nil && u.membershipEnd.After(now) {
		base = *u.membershipEnd
	}
	end := base.AddDate(0, months, 0)
	u.membershipEnd = &end
	if u.membershipStart == nil {
		start := now
		u.membershipStart = &start
	}
}

func (u *User) UpdateProfile(fullName, phone, address string, membershipType MembershipType) {
	u.fullName = fullName
	u.phone = phone
	u.address = address
	u.membershipType = membershipType
}

func (u *User) ID() uuid.UUID                  { return u.id }
func (u *User) Username() Username             { return u.username }
func (u *User) Email() Email                   { return u.email }
func (u *User) PasswordHash() string           { return u.passwordHash }
func (u *User) FullName() string               { return u.fullName }
func (u *User) Phone() string                  { return u.phone }
func (u *User) Address() string                { return u.address }
func (u *User) Role() Role                     { return u.role }
func (u *User) MembershipType() MembershipType { return u.membershipType }
func (u *User) MembershipStart() *time.Time    { return u.membershipStart }
func (u *User) MembershipEnd() *time.Time      { return u.membershipEnd }
func (u *User) CreatedAt() time.Time           { return u.createdAt }
func (u *User) UpdatedAt() time.Time           { return u.updatedAt }
