package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telephonyinc/incident-forecaster/internal/artifacts"
	"github.com/telephonyinc/incident-forecaster/internal/cache"
	"github.com/telephonyinc/incident-forecaster/internal/config"
	apperrors "github.com/telephonyinc/incident-forecaster/internal/errors"
	"github.com/telephonyinc/incident-forecaster/internal/history"
	"github.com/telephonyinc/incident-forecaster/internal/inference"
	"github.com/telephonyinc/incident-forecaster/internal/middleware"
	"github.com/telephonyinc/incident-forecaster/internal/monitoring"
	"github.com/telephonyinc/incident-forecaster/internal/schema"
	"github.com/telephonyinc/incident-forecaster/internal/security"
	"github.com/telephonyinc/incident-forecaster/internal/types"
)

// server bundles everything the handlers need. All fields are read-only
// after startup; the engine internally swaps its context atomically.
type server struct {
	cfg      *config.Config
	engine   *inference.Engine
	store    *artifacts.Store
	history  *history.Store
	cache    *cache.Cache
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	security *security.SecurityMiddleware
}

const dateLayout = "2006-01-02"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store := artifacts.NewStore(cfg.DataDir)
	ctx, err := loadContext(store)
	if err != nil {
		// No correct prediction is possible without model, scaler and
		// schema. Train first, then serve.
		slog.Error("Failed to load inference artifacts", "error", err, "data_dir", cfg.DataDir)
		os.Exit(1)
	}

	historyStore, err := history.NewStore(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize prediction history", "error", err)
		os.Exit(1)
	}
	defer historyStore.Close()

	appMetrics, registry := monitoring.NewMetrics()

	srv := &server{
		cfg:      cfg,
		engine:   inference.NewEngine(ctx),
		store:    store,
		history:  historyStore,
		cache:    cache.NewCache(cfg.CacheTTL),
		metrics:  appMetrics,
		logger:   monitoring.NewLogger(),
		security: security.NewSecurityMiddleware(securityConfig(cfg)),
	}

	r := srv.setupRouter(registry)

	slog.Info("Inference context loaded",
		"schema_columns", ctx.Schema.Len(),
		"assignment_groups", len(ctx.Schema.Groups()))

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func securityConfig(cfg *config.Config) security.SecurityConfig {
	return security.SecurityConfig{
		MaxGroupLength:    cfg.MaxGroupLength,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		RequestTimeout:    cfg.RequestTimeout,
	}
}

// loadContext reads the persisted artifacts and assembles a validated
// inference context.
func loadContext(store *artifacts.Store) (*inference.Context, error) {
	sc, scaler, m, err := store.Load()
	if err != nil {
		return nil, err
	}
	return inference.NewContext(sc, scaler, m)
}

// setupRouter wires middleware and routes. Shared with the handler tests so
// they exercise exactly what production serves.
func (s *server) setupRouter(registry *prometheus.Registry) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) == 1 && s.cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	compression := middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig())
	r.Use(compression.Handler())

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))

	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	r.Use(s.security.SecurityHeaders)
	r.Use(s.security.RequestTimeout)
	r.Use(s.security.ValidateContentType)
	r.Use(s.security.RateLimitByIP)

	r.Use(s.cache.Middleware(s.metrics))

	r.GET("/health", s.handleHealth)
	r.GET("/groups", s.handleGroups)
	r.GET("/history", s.handleHistory)
	r.POST("/predict", s.handlePredict)
	r.POST("/admin/reload", s.handleReload)

	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return r
}

func (s *server) handleHealth(c *gin.Context) {
	ctx := s.engine.Current()

	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"timestamp":         time.Now().Format(time.RFC3339),
		"schema_columns":    ctx.Schema.Len(),
		"assignment_groups": len(ctx.Schema.Groups()),
		"cache_entries":     s.cache.Size(),
	})
}

// handleGroups lists the assignment groups the loaded schema can predict
// for, so clients can offer valid choices instead of guessing.
func (s *server) handleGroups(c *gin.Context) {
	ctx := s.engine.Current()

	c.JSON(http.StatusOK, gin.H{
		"assignment_groups": ctx.Schema.Groups(),
	})
}

func (s *server) handleHistory(c *gin.Context) {
	limit := s.cfg.HistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := s.history.Recent(limit)
	if err != nil {
		appErr := apperrors.NewInternalError("failed to read prediction history", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": entries,
		"count":       len(entries),
	})
}

func (s *server) handlePredict(c *gin.Context) {
	start := time.Now()

	var req types.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("request must include date and assignment_group")
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	req.AssignmentGroup = strings.TrimSpace(req.AssignmentGroup)
	if err := s.security.ValidateGroupLabel(req.AssignmentGroup); err != nil {
		appErr := apperrors.NewValidationError(err.Error())
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	// Date validation happens before any feature construction.
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		s.metrics.CountPrediction(monitoring.OutcomeInvalidDate)
		appErr := apperrors.NewInvalidDateError(req.Date, err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	dist, err := s.engine.Predict(date, req.AssignmentGroup)
	if err != nil {
		var unknownErr *schema.UnknownCategoryError
		if stderrors.As(err, &unknownErr) {
			s.metrics.CountPrediction(monitoring.OutcomeUnknownGroup)
			appErr := apperrors.NewUnknownCategoryError(unknownErr.Label)
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		s.metrics.CountPrediction(monitoring.OutcomeFailed)
		appErr := apperrors.NewPredictorError(err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	s.metrics.CountPrediction(monitoring.OutcomeServed)

	dateStr := date.Format(dateLayout)
	cacheHit := c.GetBool("cache_hit")
	s.logger.PredictionLogger(dateStr, req.AssignmentGroup, dist, time.Since(start), cacheHit)

	// Record asynchronously; history must never block or fail a response.
	go func(date, group string, dist inference.Distribution) {
		if _, err := s.history.Record(date, group, dist); err != nil {
			slog.Warn("Failed to record prediction", "error", err)
		}
	}(dateStr, req.AssignmentGroup, dist)

	c.JSON(http.StatusOK, types.PredictResponse{
		Date:            dateStr,
		AssignmentGroup: req.AssignmentGroup,
		Predictions:     dist,
	})
}

// handleReload re-reads artifacts from disk and swaps them into the engine
// as one unit. Requests in flight finish against the old context.
func (s *server) handleReload(c *gin.Context) {
	start := time.Now()

	ctx, err := loadContext(s.store)
	if err != nil {
		appErr := apperrors.NewArtifactError("inference context", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	s.engine.Swap(ctx)
	s.cache.Clear()
	s.metrics.ContextReloads.Inc()
	s.logger.ReloadLogger(ctx.Schema.Len(), len(ctx.Schema.Groups()), time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"status":            "reloaded",
		"schema_columns":    ctx.Schema.Len(),
		"assignment_groups": len(ctx.Schema.Groups()),
	})
}
