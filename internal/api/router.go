package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/brazzinioc/twitter-api/internal/api/handlers"
	"github.com/brazzinioc/twitter-api/internal/auth"
	"github.com/brazzinioc/twitter-api/internal/services"
	"github.com/brazzinioc/twitter-api/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	tweetService services.TweetServiceProvider,
	eventService services.EventServiceProvider,
	allowedOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	tweetHandler := handlers.NewTweetHandler(tweetService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket event feed endpoint
		r.Get("/ws", wsHandler.Serve)

		// Public endpoints
		r.Post("/signup", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/events", eventHandler.GetRecent)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)

			// Authenticated endpoints
			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware())
				r.Get("/me", userHandler.GetMe)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})

			r.Get("/{id}", userHandler.Get)
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/", tweetHandler.List)
			r.Get("/{id}", tweetHandler.Get)

			// Authenticated endpoints
			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware())
				r.Post("/", tweetHandler.Create)
				r.Put("/{id}", tweetHandler.Update)
				r.Delete("/{id}", tweetHandler.Delete)
			})
		})
	})

	return r
}
