// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"sundarban-service/internal/config"
	"sundarban-service/internal/db"
	authHandler "sundarban-service/internal/handlers/auth"
	"sundarban-service/internal/middleware"
	"sundarban-service/internal/pkg/session"
	"sundarban-service/internal/pkg/token"
	"sundarban-service/internal/repository/postgres"
	authUsecase "sundarban-service/internal/service/auth"
	"sundarban-service/internal/service/email"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// Misconfiguration should fail here, not on the first login attempt.
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Session tokens -----
	tokens, err := token.NewManager(s.cfg.SessionSecret, "sundarban-admin")
	if err != nil {
		return fmt.Errorf("failed to build token manager: %w", err)
	}

	// ----- Rate limiter -----
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Email -----
	mailer := email.NewSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
		logger,
	)

	// ----- Repositories -----
	adminRepo := postgres.NewAdminRepository(pool)
	otpRepo := postgres.NewOTPRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		adminRepo,
		otpRepo,
		tokens,
		rateLimiter,
		mailer,
		s.cfg.SiteOwnerEmail,
		logger,
	)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, s.cfg.IsProduction(), logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:    authHandlerInst,
		AuthMiddleware: authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
