package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectraviewer/internal/api"
	"github.com/RMahshie/spectraviewer/internal/api/handlers"
	"github.com/RMahshie/spectraviewer/internal/config"
	"github.com/RMahshie/spectraviewer/internal/metrics"
	"github.com/RMahshie/spectraviewer/internal/processing"
	"github.com/RMahshie/spectraviewer/internal/repository/postgres"
	"github.com/RMahshie/spectraviewer/internal/storage"
	"github.com/RMahshie/spectraviewer/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.Server.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.PingContext(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := postgres.CreateSchema(startupCtx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema")
	}
	cancelStartup()

	// Storage
	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    cfg.AWS.S3Bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 service")
	}

	scanRepo := postgres.NewPostgresScanRepository(db)
	processingSvc := processing.NewProcessingService(s3Service, scanRepo, metrics.New(prometheus.DefaultRegisterer))

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("SpectraViewer API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, scanRepo, s3Service, processingSvc, handlers.Options{
		MaxUploadBytes: cfg.Processing.MaxUploadBytes,
		DefaultHigh:    cfg.Processing.FilterDefaultHigh,
	})

	router.Handle("/metrics", promhttp.Handler())

	// Serve OpenAPI spec at /api/docs
	router.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		spec, err := humaAPI.OpenAPI().MarshalJSON()
		if err != nil {
			http.Error(w, "Failed to generate OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Write(spec)
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting SpectraViewer API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
