package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	var user User
	require.NoError(t, user.SetPassword("hunter2hunter2"))

	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.True(t, user.CheckPassword("hunter2hunter2"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestResetToken(t *testing.T) {
	t.Run("stores a digest, not the token", func(t *testing.T) {
		var user User
		now := time.Now()

		token, err := user.GenerateResetToken(now)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		require.NotNil(t, user.ResetPasswordToken)
		assert.NotEqual(t, token, *user.ResetPasswordToken)
		assert.Equal(t, HashResetToken(token), *user.ResetPasswordToken)

		require.NotNil(t, user.ResetPasswordExpire)
		assert.Equal(t, now.Add(ResetTokenTTL), *user.ResetPasswordExpire)
	})

	t.Run("regenerating replaces the previous token", func(t *testing.T) {
		var user User
		first, err := user.GenerateResetToken(time.Now())
		require.NoError(t, err)
		second, err := user.GenerateResetToken(time.Now())
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, HashResetToken(second), *user.ResetPasswordToken)
	})

	t.Run("clear removes token and expiry", func(t *testing.T) {
		var user User
		_, err := user.GenerateResetToken(time.Now())
		require.NoError(t, err)

		user.ClearResetToken()
		assert.Nil(t, user.ResetPasswordToken)
		assert.Nil(t, user.ResetPasswordExpire)
	})
}

func TestBasisValid(t *testing.T) {
	for _, basis := range []Basis{BasisPersonal, BasisProfessional, BasisResearched, BasisOpinion, BasisOther} {
		assert.True(t, basis.Valid(), string(basis))
	}
	assert.False(t, Basis("").Valid())
	assert.False(t, Basis("Hearsay").Valid())
}
