package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/errs"
	"github.com/unmute-world/backend/models"
	"github.com/unmute-world/backend/stats"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     database.PostStore
	users     database.UserStore
	engine    stats.Engine
}

func newPostHandler(posts database.PostStore, users database.UserStore, engine stats.Engine) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
		users:     users,
		engine:    engine,
	}
}

// listPosts serves the feed: either a full-text search (?q=) ordered by
// relevance, or a filtered listing by category/tag with newest/oldest sort.
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))

		if q := query.Get("q"); q != "" {
			posts, err := h.posts.Search(q, limit)
			if err != nil {
				h.responder.WriteError(w, errs.NewDatabaseError("search", "posts", err))
				return
			}
			h.responder.WriteJSON(w, toPostResponses(posts))
			return
		}

		posts, err := h.posts.FindAll(database.PostFilter{
			Category: query.Get("category"),
			Tag:      query.Get("tag"),
			Sort:     query.Get("sort"),
			Limit:    limit,
		})
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "posts", err))
			return
		}
		h.responder.WriteJSON(w, toPostResponses(posts))
	}
}

// createPost publishes a new post, freezing the author's then-current stats
// onto it. The snapshot counts only posts existing before this one and is
// never updated again.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body struct {
			Title     string       `json:"title"`
			Content   string       `json:"content"`
			Category  string       `json:"category"`
			Basis     models.Basis `json:"basis"`
			Tags      []string     `json:"tags"`
			Anonymous bool         `json:"anonymous"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("post payload"))
			return
		}
		switch {
		case body.Title == "":
			h.responder.WriteError(w, errs.NewValidationError("title", "title is required"))
			return
		case body.Content == "":
			h.responder.WriteError(w, errs.NewValidationError("content", "content is required"))
			return
		case body.Category == "":
			h.responder.WriteError(w, errs.NewValidationError("category", "category is required"))
			return
		case !body.Basis.Valid():
			h.responder.WriteError(w, errs.NewValidationError("basis", "unknown basis value"))
			return
		}

		postCount, avgRating, err := h.engine.SnapshotAuthorStats(user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post := &models.Post{
			Title:           body.Title,
			Content:         body.Content,
			Category:        body.Category,
			Basis:           body.Basis,
			Tags:            body.Tags,
			Anonymous:       body.Anonymous,
			AuthorID:        user.ID,
			AuthorName:      user.Name,
			AuthorAvgRating: avgRating,
			AuthorPostCount: postCount,
			CreatedAt:       time.Now(),
		}
		if err := h.posts.Create(post); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "post", err))
			return
		}

		h.responder.WriteStatusJSON(w, http.StatusCreated, toPostResponse(post))
	}
}

// getPost returns a single post. Malformed ids read as "no such post".
func (h postHandler) getPost() http.HandlerFunc {
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
		h.responder.WriteJSON(w, toPostResponse(post))
	}
}

// ratePost submits the caller's 1-5 rating on a post.
func (h postHandler) ratePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		var body struct {
			Rating int `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("rating payload"))
			return
		}

		if err := h.engine.SubmitRating(postID, user.ID, body.Rating); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteStatusJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Rating submitted",
		})
	}
}

// savePost bookmarks a post for the caller. Saving twice is a conflict.
func (h postHandler) savePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}
		if _, err := h.posts.FindByID(postID); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "post", err))
			return
		}

		saved, err := h.users.IsPostSaved(user.ID, postID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("check", "saved post", err))
			return
		}
		if saved {
			h.responder.WriteError(w, errs.NewConflictError("post already saved"))
			return
		}

		if err := h.users.SavePost(user.ID, postID); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("save", "post", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"success": true})
	}
}

// unsavePost removes a bookmark; removing an absent one is a no-op success.
func (h postHandler) unsavePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		if err := h.users.UnsavePost(user.ID, postID); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("unsave", "post", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"success": true})
	}
}

func (h postHandler) isSaved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		saved, err := h.users.IsPostSaved(user.ID, postID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("check", "saved post", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"isSaved": saved})
	}
}
