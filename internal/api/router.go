package api

import (
	"net/http"

	"github.com/dom/bandmates/internal/api/handlers"
	"github.com/dom/bandmates/internal/api/middleware"
	"github.com/dom/bandmates/internal/config"
	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.Metrics)
	r.Use(middleware.Session(services.Auth, services.Tokens))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cookies := middleware.Cookies{Secure: cfg.IsProduction(), TTL: cfg.SessionTTL}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Registration, services.Auth, services.Tokens, cookies)
	chatHandler := handlers.NewChatHandler(services.Conversation)
	adminHandler := handlers.NewAdminHandler(services.User)
	directoryHandler := handlers.NewDirectoryHandler(services.User)
	pageHandler := handlers.NewPageHandler()

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)

		r.With(middleware.RequireRole(services.Auth, domain.RoleAny)).Get("/me", authHandler.Me)
	})

	// Public directory
	r.Route("/api", func(r chi.Router) {
		r.Get("/bands", directoryHandler.Bands)
		r.Get("/musicians", directoryHandler.Musicians)
	})

	// Chat routes, any signed-in role
	r.Route("/chat", func(r chi.Router) {
		r.With(middleware.RequirePage(services.Auth, domain.RoleAny)).Get("/", pageHandler.Chat)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(services.Auth, domain.RoleAny))
			r.Get("/users/list", chatHandler.ListUsers)
			r.Get("/rooms", chatHandler.ListRooms)
			r.Post("/start", chatHandler.Start)
		})
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequirePage(services.Auth, domain.RoleAdmin)).Get("/dashboard", pageHandler.AdminDashboard)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(services.Auth, domain.RoleAdmin))
			r.Get("/users", adminHandler.ListUsers)
			r.Get("/users/{id}", adminHandler.GetUser)
			r.Put("/users/{id}", adminHandler.UpdateUser)
			r.Get("/delete-user/{id}", adminHandler.GetUser)
			r.Delete("/delete-user/{id}", adminHandler.DeleteUser)
		})
	})

	// Pages
	r.Get("/login", pageHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePage(services.Auth, domain.RoleAny))
		r.Get("/home", pageHandler.Home)
		r.Get("/area-personale", pageHandler.PersonalArea)
	})

	return r
}
