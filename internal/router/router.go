package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/api/chat"
	"github.com/fitfeed/fitfeed/internal/api/comments"
	"github.com/fitfeed/fitfeed/internal/api/likes"
	"github.com/fitfeed/fitfeed/internal/api/posts"
	"github.com/fitfeed/fitfeed/internal/api/user"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler            *auth.HandlerImpl
	UserHandler            *user.HandlerImpl
	PostsHandler           *posts.HandlerImpl
	CommentsHandler        *comments.HandlerImpl
	LikesHandler           *likes.HandlerImpl
	ChatHandler            *chat.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes the main application router. Server-wide
// middleware (logger, requestID, recoverer) are applied before mounting
// this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes. The auth flows carry their own tokens and the
		// feed reads need no identity.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Get("/posts", cfg.PostsHandler.List)
			r.Get("/posts/{id}", cfg.PostsHandler.GetByID)
			r.Get("/posts/{id}/likes", cfg.LikesHandler.Count)
			r.Get("/comments", cfg.CommentsHandler.List)
			r.Get("/comments/{id}", cfg.CommentsHandler.GetByID)
		})

		// Protected routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/users/me", cfg.UserHandler.GetUserProfile)
			r.Put("/users/me", cfg.UserHandler.UpdateUserProfile)

			r.Post("/posts", cfg.PostsHandler.Create)
			r.Put("/posts/{id}", cfg.PostsHandler.Update)
			r.Delete("/posts/{id}", cfg.PostsHandler.Delete)

			r.Post("/comments", cfg.CommentsHandler.Create)
			r.Put("/comments/{id}", cfg.CommentsHandler.Update)
			r.Delete("/comments/{id}", cfg.CommentsHandler.Delete)

			r.Post("/likes", cfg.LikesHandler.Like)
			r.Delete("/likes", cfg.LikesHandler.Unlike)

			r.Get("/chat", cfg.ChatHandler.History)
			r.Post("/chat", cfg.ChatHandler.SendMessage)
		})
	})

	return r
}
