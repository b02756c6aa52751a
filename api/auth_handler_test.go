package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Run("creates an account and returns a token", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name":     "Alice",
			"email":    "Alice@Example.com",
			"password": "password123",
		})
		requireStatus(t, recorder, http.StatusCreated)

		response := decodeBody[AuthResponse](t, recorder)
		assert.Equal(t, "Alice", response.User.Name)
		assert.Equal(t, "alice@example.com", response.User.Email)
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, 0, response.User.PostCount)

		// The token works against an authenticated route.
		me := env.do(t, http.MethodGet, "/api/auth/me", response.Token, nil)
		requireStatus(t, me, http.StatusOK)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name":     "Other Alice",
			"email":    "ALICE@example.com",
			"password": "password123",
		})
		requireStatus(t, recorder, http.StatusConflict)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"email": "alice@example.com",
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		requireStatus(t, recorder, http.StatusOK)

		response := decodeBody[AuthResponse](t, recorder)
		assert.NotEmpty(t, response.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		requireStatus(t, recorder, http.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		requireStatus(t, recorder, http.StatusUnauthorized)
	})

	t.Run("blocked account", func(t *testing.T) {
		env := newTestEnv(t)
		user, _ := env.createUser(t, "alice", false)
		user.IsBlocked = true
		require.NoError(t, env.users.Update(user))

		recorder := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		requireStatus(t, recorder, http.StatusForbidden)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("unknown email gets the generic response without mail", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodPost, "/api/auth/forgotpassword", "", map[string]string{
			"email": "nobody@example.com",
		})
		requireStatus(t, recorder, http.StatusOK)
		assert.Empty(t, env.email.sent)
	})

	t.Run("known email receives a reset link", func(t *testing.T) {
		env := newTestEnv(t)
		user, _ := env.createUser(t, "alice", false)

		recorder := env.do(t, http.MethodPost, "/api/auth/forgotpassword", "", map[string]string{
			"email": user.Email,
		})
		requireStatus(t, recorder, http.StatusOK)

		require.Len(t, env.email.sent, 1)
		assert.Equal(t, []string{user.Email}, env.email.sent[0].recipients)

		stored, err := env.users.FindByID(user.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.ResetPasswordToken)
		assert.NotNil(t, stored.ResetPasswordExpire)
	})

	t.Run("email failure clears the token", func(t *testing.T) {
		env := newTestEnv(t)
		user, _ := env.createUser(t, "alice", false)
		env.email.err = errors.New("smtp down")

		recorder := env.do(t, http.MethodPost, "/api/auth/forgotpassword", "", map[string]string{
			"email": user.Email,
		})
		requireStatus(t, recorder, http.StatusServiceUnavailable)

		stored, err := env.users.FindByID(user.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.ResetPasswordToken)
		assert.Nil(t, stored.ResetPasswordExpire)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("valid token sets a new password", func(t *testing.T) {
		env := newTestEnv(t)
		user, _ := env.createUser(t, "alice", false)

		token, err := user.GenerateResetToken(time.Now())
		require.NoError(t, err)
		require.NoError(t, env.users.Update(user))

		recorder := env.do(t, http.MethodPut, "/api/auth/resetpassword/"+token, "", map[string]string{
			"password": "newpassword456",
		})
		requireStatus(t, recorder, http.StatusOK)

		login := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    user.Email,
			"password": "newpassword456",
		})
		requireStatus(t, login, http.StatusOK)

		// The token is single-use.
		again := env.do(t, http.MethodPut, "/api/auth/resetpassword/"+token, "", map[string]string{
			"password": "yetanother789",
		})
		requireStatus(t, again, http.StatusBadRequest)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		user, _ := env.createUser(t, "alice", false)

		token, err := user.GenerateResetToken(time.Now().Add(-time.Hour))
		require.NoError(t, err)
		require.NoError(t, env.users.Update(user))

		recorder := env.do(t, http.MethodPut, "/api/auth/resetpassword/"+token, "", map[string]string{
			"password": "newpassword456",
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodPut, "/api/auth/resetpassword/bogus", "", map[string]string{
			"password": "newpassword456",
		})
		requireStatus(t, recorder, http.StatusBadRequest)
	})
}

func TestMe(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
		requireStatus(t, recorder, http.StatusUnauthorized)
	})

	t.Run("returns live stats", func(t *testing.T) {
		env := newTestEnv(t)
		user, token := env.createUser(t, "alice", false)
		env.createPost(t, user, "first", false)

		recorder := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		requireStatus(t, recorder, http.StatusOK)

		response := decodeBody[UserResponse](t, recorder)
		assert.Equal(t, user.ID, response.ID)
		assert.Equal(t, 1, response.PostCount)
	})
}
