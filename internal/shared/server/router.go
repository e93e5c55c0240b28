package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/analyses"
	"ats-backend/internal/llm"
	"ats-backend/internal/llm/groq"
	"ats-backend/internal/recommend"
	"ats-backend/internal/shared/config"
	"ats-backend/internal/shared/metrics"
	"ats-backend/internal/shared/server/middleware"
	"ats-backend/internal/shared/server/respond"
	"ats-backend/internal/shared/storage/db"
	"ats-backend/internal/shared/storage/object"
	localstore "ats-backend/internal/shared/storage/object/local"
	s3store "ats-backend/internal/shared/storage/object/s3"
	"ats-backend/internal/shared/telemetry"
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
		generateRateLimit(),
	)

	sqlDB := connectDatabase(cfg)

	var analysisRepo analyses.Repo
	if sqlDB != nil {
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		analysisRepo = analyses.NewMemoryRepo()
	}

	store := buildObjectStore(cfg)
	client := buildLLMClient(cfg)

	analysisSvc := &analyses.Service{
		Analyzer: &analyses.Analyzer{LLM: client},
		Repo:     analysisRepo,
		Store:    store,
	}
	analysisHandler := analyses.NewHandler(analysisSvc)
	recommendHandler := recommend.NewHandler(&recommend.Service{LLM: client})

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	analysisHandler.RegisterRoutes(api)
	recommendHandler.RegisterRoutes(api)

	return r
}

// connectDatabase returns nil when the database is unavailable; callers fall
// back to in-memory history so a broken database never blocks analysis.
func connectDatabase(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	conn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Warn("db.connect_failed", map[string]any{"error": err.Error()})
		return nil
	}
	if err := db.RunMigrations(context.Background(), conn); err != nil {
		telemetry.Warn("db.migrate_failed", map[string]any{"error": err.Error()})
		conn.Close()
		return nil
	}
	return conn
}

// buildObjectStore prefers S3 when configured and falls back to the local
// directory store on any setup failure.
func buildObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err == nil {
			return store
		}
		telemetry.Warn("object_store.s3_failed", map[string]any{"error": err.Error()})
	}
	return localstore.New(cfg.LocalStoreDir)
}

// buildLLMClient returns nil when no API key is configured; the analyzer then
// serves heuristic reports only.
func buildLLMClient(cfg config.Config) llm.Client {
	if cfg.GroqAPIKey == "" {
		telemetry.Warn("llm.disabled", map[string]any{"reason": "no api key configured"})
		return nil
	}
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	return groq.NewClient(cfg.GroqAPIKey, cfg.GroqAPIURL, cfg.GroqModel, timeout)
}

// generateRateLimit throttles the generation-backed endpoints per client IP.
// Reads stay unthrottled.
func generateRateLimit() gin.HandlerFunc {
	return middleware.RateLimit(middleware.RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				return "GENERATE"
			}
			return ""
		},
		Rules: map[string]middleware.RateLimitRule{
			"GENERATE": {Rate: 1, Burst: 5},
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
