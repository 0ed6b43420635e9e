package api

import (
	"net/http"
	"time"

	"mesto_backend/internal/api/handler"
	"mesto_backend/internal/api/middleware"
	"mesto_backend/internal/app/service"
	"mesto_backend/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
}

func NewRouter(
	tokens *security.TokenIssuer,
	authService *service.AuthService,
	userService *service.UserService,
	cardService *service.CardService,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(middleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	authenticate := middleware.Authenticate(tokens)

	// Unknown paths and unsupported methods still require a token before
	// they are reported as 404. Set before mounting so subrouters inherit it.
	notFound := authenticate(http.HandlerFunc(handler.NotFound))
	r.NotFound(notFound.ServeHTTP)
	r.MethodNotAllowed(notFound.ServeHTTP)

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Group(authHandler.RegisterRoutes)

	// Everything else is behind the auth gate
	userHandler := handler.NewUserHandler(userService)
	cardHandler := handler.NewCardHandler(cardService)
	r.Group(func(protected chi.Router) {
		protected.Use(authenticate)
		protected.Route("/users", userHandler.RegisterRoutes)
		protected.Route("/cards", cardHandler.RegisterRoutes)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
