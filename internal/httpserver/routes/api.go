package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

func init() { Register(registerAPI, middleware.AllowContentType("application/json")) }

// registerAPI exposes the storage adapter as JSON. It is restricted like the ops endpoints.
func registerAPI(r chi.Router, d deps.Deps) {
	api := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
	api.Get("/api/users", handlers.ListUsers(d))
	api.Get("/api/users/{id}/bookmarks", handlers.GetBookmarks(d))
	api.Put("/api/users/{id}/bookmarks", handlers.PutBookmarks(d))
	api.Delete("/api/users/{id}/bookmarks", handlers.DeleteBookmarks(d))
}
