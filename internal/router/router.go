package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/akbarkhoja/portfolio-api/internal/api/auth"
	"github.com/akbarkhoja/portfolio-api/internal/api/blog"
	"github.com/akbarkhoja/portfolio-api/internal/api/contact"
	"github.com/akbarkhoja/portfolio-api/internal/api/project"
	"github.com/akbarkhoja/portfolio-api/internal/api/upload"
	"github.com/akbarkhoja/portfolio-api/internal/api/user"
)

// Config carries the handler and middleware dependencies for the router.
type Config struct {
	AuthHandler    *auth.AuthHandler
	BlogHandler    *blog.BlogHandler
	ProjectHandler *project.ProjectHandler
	UserHandler    *user.UserHandler
	ContactHandler *contact.ContactHandler
	UploadHandler  *upload.UploadHandler

	// Authenticate resolves the session cookie into a request principal;
	// it never rejects. RequireAdmin gates the admin surface.
	Authenticate func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler

	AllowedOrigins []string
}

// SetupRouter configures the /api surface. Server-wide middleware
// (request ID, logger, recoverer, metrics) is applied in main.go before
// mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(cfg.Authenticate)

	r.Route("/api", func(r chi.Router) {
		// Session endpoints. Login is rate limited per client IP.
		r.Route("/auth", func(r chi.Router) {
			r.With(httprate.LimitByIP(10, 1*time.Minute)).Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/session", cfg.AuthHandler.Session)
		})

		// Public reads.
		r.Get("/blog", cfg.BlogHandler.ListPublic)
		r.Get("/blog/slug/{slug}", cfg.BlogHandler.GetBySlug)
		r.Get("/blog/{id}", cfg.BlogHandler.GetByID)
		r.Get("/projects", cfg.ProjectHandler.List)
		r.Get("/projects/{id}", cfg.ProjectHandler.GetByID)

		r.With(httprate.LimitByIP(5, 1*time.Minute)).Post("/contact", cfg.ContactHandler.Submit)

		// Admin surface.
		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAdmin)

			r.Get("/blog/all", cfg.BlogHandler.ListAll)
			r.Post("/blog", cfg.BlogHandler.Create)
			r.Put("/blog/{id}", cfg.BlogHandler.Update)
			r.Delete("/blog/{id}", cfg.BlogHandler.Delete)

			r.Post("/projects", cfg.ProjectHandler.Create)
			r.Put("/projects/{id}", cfg.ProjectHandler.Update)
			r.Delete("/projects/{id}", cfg.ProjectHandler.Delete)

			r.Get("/users", cfg.UserHandler.List)
			r.Post("/users", cfg.UserHandler.Create)
			r.Put("/users/{id}", cfg.UserHandler.Update)
			r.Delete("/users/{id}", cfg.UserHandler.Delete)

			r.Post("/upload", cfg.UploadHandler.Upload)
		})
	})

	return r
}
