package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with valid inputs", func(t *testing.T) {
		user, err := NewUser("user_2abc", "An.Nguyen@Example.com", "An", "Nguyen", "https://img.example.com/a.png")
		require.NoError(t, err)

		assert.Equal(t, "user_2abc", user.ID)
		assert.Equal(t, "an.nguyen@example.com", user.Email)
		assert.Equal(t, RoleUser, user.Role)
		assert.False(t, user.IsAdmin())
	})

	t.Run("fails with empty id", func(t *testing.T) {
		_, err := NewUser("", "a@example.com", "", "", "")
		require.Error(t, err)
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "a@b"} {
			_, err := NewUser("user_2abc", email, "", "", "")
			assert.Error(t, err, email)
		}
	})
}

func TestUserSetRole(t *testing.T) {
	user, err := NewUser("user_2abc", "a@example.com", "", "", "")
	require.NoError(t, err)

	require.NoError(t, user.SetRole(RoleAdmin))
	assert.True(t, user.IsAdmin())

	assert.Error(t, user.SetRole("superuser"))
	assert.True(t, user.IsAdmin())
}

func TestUserSyncProfileKeepsRole(t *testing.T) {
	user, err := NewUser("user_2abc", "a@example.com", "An", "Nguyen", "")
	require.NoError(t, err)
	require.NoError(t, user.SetRole(RoleAdmin))

	user.SyncProfile("Binh", "Tran", "https://img.example.com/b.png")

	assert.Equal(t, "Binh", user.FirstName)
	assert.Equal(t, "Tran", user.LastName)
	assert.Equal(t, RoleAdmin, user.Role, "sync must not clobber the local role")
}

func TestUserFullName(t *testing.T) {
	user, err := NewUser("user_2abc", "a@example.com", "An", "Nguyen", "")
	require.NoError(t, err)
	assert.Equal(t, "An Nguyen", user.FullName())

	user.SyncProfile("", "Nguyen", "")
	assert.Equal(t, "Nguyen", user.FullName())
}
