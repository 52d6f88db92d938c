package server

import (
	"context"
	"database/sql"
	"log"

	"github.com/gin-gonic/gin"

	googleauth "interview-backend/internal/auth"
	"interview-backend/internal/feedback"
	"interview-backend/internal/interviews"
	"interview-backend/internal/llm"
	"interview-backend/internal/llm/gemini"
	"interview-backend/internal/session"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/techicons"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), conn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				conn = nil
			}
		}
		sqlDB = conn
	}

	var llmClient llm.Client = llm.PlaceholderClient{}
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("gemini client unavailable: %v", err)
		} else {
			llmClient = client
		}
	}

	var interviewRepo interviews.Repo
	if sqlDB != nil {
		interviewRepo = &interviews.PGRepo{DB: sqlDB}
	} else {
		interviewRepo = interviews.NewMemoryRepo()
	}
	interviewSvc := interviews.NewService(interviewRepo, llmClient)
	interviewHandler := interviews.NewHandler(interviewSvc)

	var feedbackRepo feedback.Repo
	if sqlDB != nil {
		feedbackRepo = &feedback.PGRepo{DB: sqlDB}
	} else {
		feedbackRepo = feedback.NewMemoryRepo()
	}
	feedbackSvc := feedback.NewService(feedbackRepo, llmClient)
	feedbackHandler := feedback.NewHandler(feedbackSvc)

	sessionHandler := session.NewHandler(feedbackSvc, interviewSvc, cfg.VapiWorkflowID, cfg.CORSAllowOrigin)
	iconHandler := techicons.NewHandler(techicons.NewResolver())
	googleAuthSvc := googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	// Model-backed generation is the expensive path; cap it per principal.
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"GENERATE": {Rate: 0.2, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == "POST" && (c.FullPath() == "/api/v1/vapi/generate" || c.FullPath() == "/api/v1/interviews/:id/feedback") {
				return "GENERATE"
			}
			return ""
		},
	}))

	googleAuthSvc.RegisterRoutes(api)
	registerMeRoutes(api)
	interviewHandler.RegisterRoutes(api)
	feedbackHandler.RegisterRoutes(api)
	sessionHandler.RegisterRoutes(api)
	iconHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
