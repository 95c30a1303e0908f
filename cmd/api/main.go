// cmd/api/main.go
// Bootstraps the matching API: configuration, storage, model
// artifacts, services, router, graceful shutdown.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/auth"
	"github.com/saurabh98s/SammySwipe/internal/common/database"
	"github.com/saurabh98s/SammySwipe/internal/common/utils"
	"github.com/saurabh98s/SammySwipe/internal/config"
	"github.com/saurabh98s/SammySwipe/internal/matches"
	"github.com/saurabh98s/SammySwipe/internal/ml"
	"github.com/saurabh98s/SammySwipe/internal/profile"
)

func main() {
	// No .env file is fine; environment variables take over.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("configuration validation failed: " + err.Error())
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	logger.Info("starting matching API",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is optional: without it the recommendations endpoint just
	// loses its degraded-read cache.
	var redisClient *redis.Client
	if client, err := database.NewRedisClientFromURL(cfg.RedisURL); err != nil {
		logger.Warn("redis unavailable, score caching disabled", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	artifact, err := ml.LoadArtifact(cfg.ModelPath)
	if err != nil {
		logger.Fatal("failed to load model artifact", zap.Error(err))
	}
	if artifact == nil {
		logger.Warn("no trained model artifact, scoring deterministically",
			zap.String("path", cfg.ModelPath))
	} else {
		logger.Info("model artifact loaded",
			zap.String("path", cfg.ModelPath),
			zap.Time("trained_at", artifact.TrainedAt))
	}

	profileRepo := profile.NewPostgresRepository(db)
	matchRepo := matches.NewRepository(db)

	analyzer := ml.NewMetadataAnalyzer(artifact, logger)
	classifier := ml.NewClassifierFromArtifact(artifact, logger)
	aggregator := ml.NewAggregator(cfg.ScoreFloor, cfg.ScoreCeil)

	cache := matches.NewScoreCache(redisClient, cfg.ScoreCacheTTL)
	engine := matches.NewEngine(profileRepo, aggregator, classifier, analyzer, cache, cfg.CandidateLimit, logger)
	stats := matches.NewStatisticsAggregator(matchRepo, logger)

	hub := matches.NewHub(logger)
	go hub.Run()

	service := matches.NewService(matchRepo, profileRepo, engine, stats, hub, logger)
	handler := matches.NewHandler(service, logger)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.MessageResponse(w, "ok", http.StatusOK)
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	matches.RegisterRoutes(router, handler, hub, authMiddleware)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger
}

// runMigrations creates the tables this service owns. Profile CRUD
// lives in a collaborator service; the columns here are the superset
// this service reads and writes.
func runMigrations(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		gender TEXT,
		age INT,
		bio TEXT,
		interests TEXT[] NOT NULL DEFAULT '{}',
		location TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		profile_photo TEXT,
		personality_traits JSONB,
		login_frequency INT NOT NULL DEFAULT 0,
		profile_updates INT NOT NULL DEFAULT 0,
		message_count INT NOT NULL DEFAULT 0,
		activity_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		profile_completeness DOUBLE PRECISION NOT NULL DEFAULT 0,
		cluster INT NOT NULL DEFAULT -1,
		likes_sent INT NOT NULL DEFAULT 0,
		dislikes_sent INT NOT NULL DEFAULT 0,
		mutual_matches INT NOT NULL DEFAULT 0,
		incoming_likes INT NOT NULL DEFAULT 0,
		match_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		statistics_updated_at TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS relationship_edges (
		from_id UUID NOT NULL REFERENCES profiles(id),
		to_id UUID NOT NULL REFERENCES profiles(id),
		status TEXT NOT NULL DEFAULT 'pending',
		score DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		accepted_at TIMESTAMPTZ,
		rejected_at TIMESTAMPTZ,
		PRIMARY KEY (from_id, to_id),
		CHECK (from_id <> to_id)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_to_status ON relationship_edges (to_id, status);

	CREATE TABLE IF NOT EXISTS raw_social_data (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES profiles(id),
		payload TEXT NOT NULL,
		ingested_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	_, err := db.Exec(schema)
	return err
}
