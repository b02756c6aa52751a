package api

import (
	"github.com/unmute-world/backend/database"
	"github.com/unmute-world/backend/services"
	"github.com/unmute-world/backend/stats"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, engine stats.Engine, email services.EmailSender, jwtSecret, frontendURL string) *routeHandlers {
	return &routeHandlers{
		authHandler:     newAuthHandler(database.UserStore(), engine, email, jwtSecret, frontendURL),
		userHandler:     newUserHandler(database.UserStore(), database.PostStore(), engine),
		postHandler:     newPostHandler(database.PostStore(), database.UserStore(), engine),
		categoryHandler: newCategoryHandler(database.CategoryStore()),
		adminHandler:    newAdminHandler(database.UserStore(), database.PostStore(), engine),
	}
}
