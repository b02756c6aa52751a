package api

import (
	"encoding/json"
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

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     database.UserStore
	posts     database.PostStore
	engine    stats.Engine
}

func newAdminHandler(users database.UserStore, posts database.PostStore, engine stats.Engine) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		posts:     posts,
		engine:    engine,
	}
}

func (h adminHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platformStats, err := h.engine.PlatformStats()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, platformStats)
	}
}

// listUsers returns every account with live stats, newest first.
func (h adminHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.users.FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "users", err))
			return
		}

		responses := make([]UserResponse, len(users))
		for i, user := range users {
			postCount, avgRating, err := h.engine.AuthorStats(user.ID)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			responses[i] = toUserResponse(user, postCount, avgRating)
		}
		h.responder.WriteJSON(w, responses)
	}
}

// toggleBlock flips a user's blocked flag. Blocked users keep their content
// but cannot authenticate.
func (h adminHandler) toggleBlock() http.HandlerFunc {
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

		user.IsBlocked = !user.IsBlocked
		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "user", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success":   true,
			"isBlocked": user.IsBlocked,
		})
	}
}

// deleteUser runs the full user-removal cascade.
func (h adminHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		if err := h.engine.DeleteUser(userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "User and associated content deleted",
		})
	}
}

// listPosts returns every post, anonymous ones included and unmasked author
// ids visible, for moderation.
func (h adminHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.posts.FindAll(database.PostFilter{})
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "posts", err))
			return
		}
		h.responder.WriteJSON(w, toPostResponses(posts))
	}
}

// updatePost applies a partial moderation edit. The frozen author snapshot
// fields are not editable.
func (h adminHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		post, err := h.posts.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "post", err))
			return
		}

		var body struct {
			Title     *string       `json:"title"`
			Content   *string       `json:"content"`
			Category  *string       `json:"category"`
			Basis     *models.Basis `json:"basis"`
			Tags      *[]string     `json:"tags"`
			Anonymous *bool         `json:"anonymous"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("post payload"))
			return
		}

		if body.Title != nil && *body.Title != "" {
			post.Title = *body.Title
		}
		if body.Content != nil && *body.Content != "" {
			post.Content = *body.Content
		}
		if body.Category != nil && *body.Category != "" {
			post.Category = *body.Category
		}
		if body.Basis != nil {
			if !body.Basis.Valid() {
				h.responder.WriteError(w, errs.NewValidationError("basis", "unknown basis value"))
				return
			}
			post.Basis = *body.Basis
		}
		if body.Tags != nil {
			post.Tags = *body.Tags
		}
		if body.Anonymous != nil {
			post.Anonymous = *body.Anonymous
		}

		if err := h.posts.Update(post); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "post", err))
			return
		}

		updated, err := h.posts.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "post", err))
			return
		}
		h.responder.WriteJSON(w, toPostResponse(updated))
	}
}

// deletePost runs the post-removal cascade.
func (h adminHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		if err := h.engine.DeletePost(postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "Post deleted",
		})
	}
}

// deleteCategory removes an unused category.
func (h adminHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("category"))
			return
		}

		if err := h.engine.DeleteCategory(categoryID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "Category deleted",
		})
	}
}
