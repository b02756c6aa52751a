package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/errs"
	"github.com/unmute-world/backend/models"
	"github.com/unmute-world/backend/stats"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     database.UserStore
	posts     database.PostStore
	engine    stats.Engine
}

func newUserHandler(users database.UserStore, posts database.PostStore, engine stats.Engine) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		posts:     posts,
		engine:    engine,
	}
}

// getUser returns a public profile. Malformed ids read as "no such user".
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		user, err := h.users.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "user", err))
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

// updateMe applies a partial profile update for the authenticated user.
func (h userHandler) updateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body struct {
			Name       *string `json:"name"`
			Bio        *string `json:"bio"`
			ProfilePic *string `json:"profilePic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("profile payload"))
			return
		}

		if body.Name != nil && *body.Name != "" {
			user.Name = *body.Name
		}
		if body.Bio != nil {
			if len(*body.Bio) > models.MaxBioLength {
				h.responder.WriteError(w, errs.NewValidationError("bio",
					fmt.Sprintf("bio must be at most %d characters", models.MaxBioLength)))
				return
			}
			user.Bio = *body.Bio
		}
		if body.ProfilePic != nil && *body.ProfilePic != "" {
			user.ProfilePic = *body.ProfilePic
		}

		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "user", err))
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

// changePassword verifies the current password before setting a new one.
func (h userHandler) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("password payload"))
			return
		}
		if body.NewPassword == "" {
			h.responder.WriteError(w, errs.NewValidationError("newPassword", "new password is required"))
			return
		}

		if !user.CheckPassword(body.CurrentPassword) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid current password"))
			return
		}

		if err := user.SetPassword(body.NewPassword); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}
		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "user", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "Password updated successfully.",
		})
	}
}

// getUserPosts lists a user's posts, newest first. With ?public=true the
// anonymous ones are hidden, for public profile pages.
func (h userHandler) getUserPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		posts, err := h.posts.FindByAuthor(userID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "posts", err))
			return
		}

		if r.URL.Query().Get("public") == "true" {
			visible := posts[:0]
			for _, post := range posts {
				if !post.Anonymous {
					visible = append(visible, post)
				}
			}
			posts = visible
		}

		h.responder.WriteJSON(w, toPostResponses(posts))
	}
}

// getSaved lists the authenticated user's saved posts. References to posts
// that no longer exist are silently skipped.
func (h userHandler) getSaved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ids, err := h.users.SavedPostIDs(user.ID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "saved posts", err))
			return
		}

		posts, err := h.posts.FindByIDs(ids)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostResponses(posts))
	}
}
