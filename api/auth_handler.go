package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/errs"
	"github.com/unmute-world/backend/models"
	"github.com/unmute-world/backend/services"
	"github.com/unmute-world/backend/stats"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	users       database.UserStore
	engine      stats.Engine
	email       services.EmailSender
	jwtSecret   string
	frontendURL string
}

func newAuthHandler(users database.UserStore, engine stats.Engine, email services.EmailSender, jwtSecret, frontendURL string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		users:       users,
		engine:      engine,
		email:       email,
		jwtSecret:   jwtSecret,
		frontendURL: frontendURL,
	}
}

func (h authHandler) authResponse(user *models.User) (*AuthResponse, error) {
	token, err := generateToken(user.ID, h.jwtSecret)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to issue token", err)
	}
	postCount, avgRating, err := h.engine.AuthorStats(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toUserResponse(user, postCount, avgRating), Token: token}, nil
}

// signup registers a new account and logs it in.
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("signup payload"))
			return
		}
		if body.Name == "" || body.Email == "" || body.Password == "" {
			h.responder.WriteError(w, errs.NewValidationError("signup", "name, email and password are required"))
			return
		}

		if _, err := h.users.FindByEmail(body.Email); err == nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("user"))
			return
		}

		user := &models.User{
			Name:       body.Name,
			Email:      body.Email,
			ProfilePic: models.DefaultProfilePic,
			JoinDate:   time.Now(),
		}
		if err := user.SetPassword(body.Password); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}

		if err := h.users.Create(user); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "user", err))
			return
		}

		response, err := h.authResponse(user)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatusJSON(w, http.StatusCreated, response)
	}
}

// login authenticates by email and password.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("login payload"))
			return
		}

		user, err := h.users.FindByEmail(body.Email)
		if err != nil || !user.CheckPassword(body.Password) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid email or password"))
			return
		}
		if user.IsBlocked {
			h.responder.WriteError(w, errs.NewAccountBlockedError())
			return
		}

		response, err := h.authResponse(user)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

// forgotPassword emails a reset link. The response never reveals whether the
// address is registered.
func (h authHandler) forgotPassword() http.HandlerFunc {
	genericResponse := map[string]any{
		"success": true,
		"message": "If a user with that email exists, a reset link has been sent.",
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("forgot-password payload"))
			return
		}

		user, err := h.users.FindByEmail(body.Email)
		if err != nil {
			h.responder.WriteJSON(w, genericResponse)
			return
		}

		token, err := user.GenerateResetToken(time.Now())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to generate reset token", err))
			return
		}
		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "user", err))
			return
		}

		resetURL := fmt.Sprintf("%s/#/reset-password/%s", h.frontendURL, token)
		if err := h.email.Send("Unmute World - Password Reset Link", resetEmailBody(resetURL), []string{user.Email}); err != nil {
			h.logger.Error().Err(err).Msg("failed to send password reset email")

			// Clear the token so the user can request another link later.
			user.ClearResetToken()
			if updateErr := h.users.Update(user); updateErr != nil {
				h.logger.Error().Err(updateErr).Msg("failed to clear reset token after email failure")
			}

			h.responder.WriteError(w, errs.NewDependencyError("email service", err))
			return
		}

		h.responder.WriteJSON(w, genericResponse)
	}
}

// resetPassword consumes an emailed token and sets a new password.
func (h authHandler) resetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if token == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing token"))
			return
		}

		var body struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("reset-password payload"))
			return
		}
		if body.Password == "" {
			h.responder.WriteError(w, errs.NewValidationError("password", "password is required"))
			return
		}

		user, err := h.users.FindByResetToken(models.HashResetToken(token), time.Now())
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid or expired token"))
			return
		}

		if err := user.SetPassword(body.Password); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}
		user.ClearResetToken()

		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "user", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "Password has been reset successfully.",
		})
	}
}

// me returns the authenticated user's own profile with live stats.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postCount, avgRating, err := h.engine.AuthorStats(user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, toUserResponse(user, postCount, avgRating))
	}
}

func resetEmailBody(resetURL string) string {
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; line-height: 1.6;">
        <h1 style="color: #333;">Password Reset Request</h1>
        <p>You are receiving this email because you (or someone else) has requested to reset the password for your Unmute World account.</p>
        <p>Please click the button below to choose a new password. This link is valid for 15 minutes.</p>
        <div style="text-align: center; margin: 20px 0;">
          <a href="%[1]s" style="background-color: #708238; color: white; padding: 14px 25px; text-align: center; text-decoration: none; display: inline-block; border-radius: 8px; font-weight: bold;">Reset Your Password</a>
        </div>
        <p>If the button doesn't work, you can paste this link into your browser:</p>
        <p><a href="%[1]s">%[1]s</a></p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
        <p style="font-size: 0.9em; color: #555;">If you did not request this, please ignore this email and your password will remain unchanged.</p>
        <p style="font-size: 0.9em; color: #555;">Thank you,<br/>The Unmute World Team</p>
      </div>`, resetURL)
}
