//go:build unit

package user_test

import (
	"testing"

	"library-lending/internal/domain/user"
	"library-lending/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	username, err := user.NewUsername("alice")
	require.NoError(t, err)
	email, err := user.NewEmail("alice@example.com")
	require.NoError(t, err)

	u := user.NewMember(username, email, "hash", "Alice", user.MembershipStandard, 12, builder.BaseTime)

	assert.Equal(t, user.RoleMember, u.Role())
	require.NotNil(t, u.MembershipEnd())
	assert.Equal(t, builder.BaseTime.AddDate(0, 12, 0), *u.MembershipEnd())
}

func TestIsEntitled(t *testing.T) {
	t.Run("admin is always entitled", func(t *testing.T) {
		u, err := builder.NewUserBuilder().AsAdmin().BuildDomain()
		require.NoError(t, err)

		assert.True(t, u.IsEntitled(builder.BaseTime))
	})

	t.Run("member with current membership", func(t *testing.T) {
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, u.IsEntitled(builder.BaseTime))
	})

	t.Run("member with lapsed membership", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithExpiredMembership().BuildDomain()
		require.NoError(t, err)

		assert.False(t, u.IsEntitled(builder.BaseTime))
	})

	t.Run("member with no membership end", func(t *testing.T) {
		u, err := builder.NewUserBuilder().With(func(b *builder.UserBuilder) { b.MembershipEnd = nil }).BuildDomain()
		require.NoError(t, err)

		assert.False(t, u.IsEntitled(builder.BaseTime))
	})
}

func TestExtendMembership(t *testing.T) {
	t.Run("extends from the current end", func(t *testing.T) {
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		currentEnd := *u.MembershipEnd()

		u.ExtendMembership(3, builder.BaseTime)

		assert.Equal(t, currentEnd.AddDate(0, 3, 0), *u.MembershipEnd())
	})

	t.Run("extends from now when lapsed", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithExpiredMembership().BuildDomain()
		require.NoError(t, err)

		u.ExtendMembership(3, builder.BaseTime)

		assert.Equal(t, builder.BaseTime.AddDate(0, 3, 0), *u.MembershipEnd())
		assert.True(t, u.IsEntitled(builder.BaseTime))
	})
}

func TestEmailValidation(t *testing.T) {
	cases := []struct {
		name  string
		email string
		ok    bool
	}{
		{"valid address", "valid@example.com", true},
		{"empty", "", false},
		{"missing at sign", "invalidemail.com", false},
		{"missing domain", "invalid@", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := user.NewEmail(c.email)
			if c.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, user.ErrInvalidEmail)
			}
		})
	}
}
