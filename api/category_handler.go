package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/errs"
	"github.com/unmute-world/backend/models"
)

type categoryHandler struct {
	responder  Responder
	logger     zerolog.Logger
	categories database.CategoryStore
}

func newCategoryHandler(categories database.CategoryStore) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		categories: categories,
	}
}

func (h categoryHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categories.FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "categories", err))
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

// createCategory registers a new category name. Names are unique; the color
// defaults when omitted.
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Color       string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.Malformed("category payload"))
			return
		}
		if body.Name == "" {
			h.responder.WriteError(w, errs.NewValidationError("name", "name is required"))
			return
		}

		if _, err := h.categories.FindByName(body.Name); err == nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("category"))
			return
		}

		category := &models.Category{
			Name:        body.Name,
			Description: body.Description,
			Color:       body.Color,
		}
		if category.Color == "" {
			category.Color = models.DefaultCategoryColor
		}

		if err := h.categories.Create(category); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "category", err))
			return
		}
		h.responder.WriteStatusJSON(w, http.StatusCreated, category)
	}
}
