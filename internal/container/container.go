package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/fitfeed/fitfeed/app/db"
	"github.com/fitfeed/fitfeed/config"
	"github.com/fitfeed/fitfeed/internal/api/auth"
	"github.com/fitfeed/fitfeed/internal/api/chat"
	"github.com/fitfeed/fitfeed/internal/api/comments"
	"github.com/fitfeed/fitfeed/internal/api/likes"
	"github.com/fitfeed/fitfeed/internal/api/posts"
	"github.com/fitfeed/fitfeed/internal/api/user"
	"golang.org/x/crypto/bcrypt"
)

// Container holds all application dependencies.
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	TokenService    auth.TokenService
	AuthHandler     *auth.HandlerImpl
	UserHandler     *user.HandlerImpl
	PostsHandler    *posts.HandlerImpl
	CommentsHandler *comments.HandlerImpl
	LikesHandler    *likes.HandlerImpl
	ChatHandler     *chat.HandlerImpl
}

// NewContainer initializes the database pool and wires repositories,
// services and handlers together.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	tokenService := auth.NewJWTTokenService(cfg.JWT)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, hasher, tokenService, cfg, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	postsRepo := posts.NewPostgresPostsRepo(pool, logger)
	postsService := posts.NewPostsService(postsRepo, logger)
	postsHandler := posts.NewHandlerImpl(postsService, logger)

	commentsRepo := comments.NewPostgresCommentsRepo(pool, logger)
	commentsService := comments.NewCommentsService(commentsRepo, postsRepo, logger)
	commentsHandler := comments.NewHandlerImpl(commentsService, logger)

	likesRepo := likes.NewPostgresLikesRepo(pool, logger)
	likesService := likes.NewLikesService(likesRepo, postsRepo, logger)
	likesHandler := likes.NewHandlerImpl(likesService, logger)

	// The assistant is optional. Without an API key the chat endpoint
	// reports the assistant as unavailable instead of failing startup.
	var assistant chat.Assistant
	if cfg.AI.APIKey != "" {
		geminiAssistant, err := chat.NewGeminiAssistant(ctx, cfg.AI)
		if err != nil {
			logger.Warn("Failed to initialize chat assistant", slog.Any("error", err))
		} else {
			assistant = geminiAssistant
		}
	}
	chatRepo := chat.NewPostgresChatRepo(pool, logger)
	chatService := chat.NewChatService(chatRepo, assistant, logger)
	chatHandler := chat.NewHandlerImpl(chatService, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		TokenService:    tokenService,
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		PostsHandler:    postsHandler,
		CommentsHandler: commentsHandler,
		LikesHandler:    likesHandler,
		ChatHandler:     chatHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
