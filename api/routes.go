package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every endpoint under /api. Static segments like "me" are
// registered before their sibling wildcard so chi matches them first.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", handlers.authHandler.signup())
			r.Post("/login", handlers.authHandler.login())
			r.Post("/forgotpassword", handlers.authHandler.forgotPassword())
			r.Put("/resetpassword/{token}", handlers.authHandler.resetPassword())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Get("/me", handlers.authHandler.me())
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Put("/me", handlers.userHandler.updateMe())
				r.Put("/me/password", handlers.userHandler.changePassword())
				r.Get("/me/saved", handlers.userHandler.getSaved())
			})

			r.Get("/{userID}", handlers.userHandler.getUser())
			r.Get("/{userID}/posts", handlers.userHandler.getUserPosts())
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handlers.postHandler.listPosts())
			r.Get("/{postID}", handlers.postHandler.getPost())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.postHandler.createPost())
				r.Post("/{postID}/rate", handlers.postHandler.ratePost())
				r.Post("/{postID}/save", handlers.postHandler.savePost())
				r.Delete("/{postID}/save", handlers.postHandler.unsavePost())
				r.Get("/{postID}/issaved", handlers.postHandler.isSaved())
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", handlers.categoryHandler.listCategories())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Use(authMiddleware.requireAdmin)
				r.Post("/", handlers.categoryHandler.createCategory())
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Use(authMiddleware.requireAdmin)

			r.Get("/stats", handlers.adminHandler.getStats())

			r.Get("/users", handlers.adminHandler.listUsers())
			r.Post("/users/{userID}/toggle-block", handlers.adminHandler.toggleBlock())
			r.Delete("/users/{userID}", handlers.adminHandler.deleteUser())

			r.Get("/posts", handlers.adminHandler.listPosts())
			r.Put("/posts/{postID}", handlers.adminHandler.updatePost())
			r.Delete("/posts/{postID}", handlers.adminHandler.deletePost())

			r.Delete("/categories/{categoryID}", handlers.adminHandler.deleteCategory())
		})
	})
}
