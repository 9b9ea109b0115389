package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/travel-diary-api/docs"
	"github.com/FACorreiaa/travel-diary-api/internal/api/auth"
	"github.com/FACorreiaa/travel-diary-api/internal/api/entry"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            *auth.AuthHandler
	EntryHandler           *entry.EntryHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
}

// SetupRouter builds the application routes. Server-wide middleware (request
// id, logger, recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	corsOpts := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	// go-chi/cors allows every origin when the list is empty; with no
	// server.allowedOrigins only same-origin requests pass.
	if len(cfg.AllowedOrigins) == 0 {
		corsOpts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	r.Use(cors.Handler(corsOpts))
	// "/users/" and "/users" are the same route.
	r.Use(middleware.StripSlashes)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- Public Auth Routes ---
	r.Group(func(r chi.Router) {
		r.Post("/users", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Put("/update_profile/{userId}", cfg.AuthHandler.UpdateProfile)

		r.Get("/entries", cfg.EntryHandler.ListEntries)
		r.Get("/entries/{entryId}", cfg.EntryHandler.GetEntry)
		r.Get("/entries_by_user/{userId}", cfg.EntryHandler.ListEntriesByUser)
		r.Post("/diary_entries", cfg.EntryHandler.CreateEntry)
		r.Put("/update_entry/{entryId}", cfg.EntryHandler.UpdateEntry)
		r.Delete("/delete_entry/{entryId}", cfg.EntryHandler.DeleteEntry)
	})

	return r
}
