package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/shopspring/decimal"

	analyticsapp "fake-review-detector/internal/application/analytics"
	reviewapp "fake-review-detector/internal/application/review"
	"fake-review-detector/internal/domain/review"
	"fake-review-detector/internal/infrastructure/cache/redis"
	"fake-review-detector/internal/infrastructure/database/postgres"
	"fake-review-detector/internal/infrastructure/http/router"
	"fake-review-detector/internal/infrastructure/ml"
	"fake-review-detector/internal/interfaces/http/handler"
	"fake-review-detector/internal/pkg/config"
	"fake-review-detector/internal/pkg/logger"
)

const version = "1.0.0"

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Warning: Could not load config file, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer zlog.Sync()

	log.Printf("Starting Fake Review Detection API v%s", version)
	log.Printf("Server will listen on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Load trained model artifacts. The API cannot classify without
	// them, so a missing model is fatal rather than a degraded mode.
	predictor, err := ml.LoadPredictor(cfg.Model.Dir, cfg.Model.Version)
	if err != nil {
		log.Fatalf("Could not load model artifacts from %s: %v (run cmd/train first)", cfg.Model.Dir, err)
	}
	log.Printf("Loaded model version %s from %s", predictor.ModelVersion(), cfg.Model.Dir)

	// Review classification service with configured policy
	reviewService := review.NewService(predictor)
	reviewService.SetPolicy(review.Policy{
		SuspiciousThreshold: decimal.NewFromFloat(cfg.Policy.SuspiciousThreshold),
		HighProbThreshold:   decimal.NewFromFloat(cfg.Policy.HighProbThreshold),
		ShortTextLength:     cfg.Policy.ShortTextLength,
	})

	// Database connection
	var dbClient *postgres.Client
	var history review.HistoryRepository

	dbClient, err = postgres.NewClient(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Printf("Warning: Database connection failed (history kept in memory): %v", err)
		dbClient = nil
		history = NewMemoryHistoryRepository()
	} else {
		log.Printf("Connected to PostgreSQL at %s:%d", cfg.Database.Host, cfg.Database.Port)
		if err := dbClient.Migrate(); err != nil {
			log.Printf("Warning: Schema migration failed: %v", err)
		}
		history = postgres.NewHistoryRepository(dbClient)
	}

	// Redis connection
	var redisClient *redis.Client
	var resultStore reviewapp.ResultStore

	redisClient, err = redis.NewClient(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Printf("Warning: Redis connection failed (bulk downloads disabled): %v", err)
		redisClient = nil
	} else {
		log.Printf("Connected to Redis at %s:%d", cfg.Redis.Host, cfg.Redis.Port)
		resultStore = redis.NewBulkResultStore(redisClient, cfg.Bulk.ResultTTL)
	}

	// Initialize use cases
	predictUseCase := reviewapp.NewPredictReviewUseCase(reviewService, history, zlog)
	bulkUseCase := reviewapp.NewBulkProcessUseCase(predictUseCase, resultStore, zlog, cfg.Bulk.MaxRows)
	reportUseCase := analyticsapp.NewReportUseCase(history, cfg.Model.Dir)

	// Initialize handlers
	reviewHandler := handler.NewReviewHandler(predictUseCase, cfg.Batch.MaxSize)
	bulkHandler := handler.NewBulkHandler(bulkUseCase)
	analyticsHandler := handler.NewAnalyticsHandler(reportUseCase)

	var dbHealthChecker handler.HealthChecker
	var redisHealthChecker handler.HealthChecker
	if dbClient != nil {
		dbHealthChecker = dbClient
	}
	if redisClient != nil {
		redisHealthChecker = redisClient
	}
	healthHandler := handler.NewHealthHandler(dbHealthChecker, redisHealthChecker, version, predictor.ModelVersion())

	// Create router
	r := router.NewRouter(reviewHandler, bulkHandler, analyticsHandler, healthHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Close connections
	if dbClient != nil {
		dbClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("Server stopped")
}

// MemoryHistoryRepository implements review.HistoryRepository for
// standalone mode (when the database is not available). Predictions
// live only as long as the process.
type MemoryHistoryRepository struct {
	mu          sync.RWMutex
	predictions []*review.Prediction
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

func (r *MemoryHistoryRepository) Save(ctx context.Context, p *review.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictions = append(r.predictions, p)
	return nil
}

func (r *MemoryHistoryRepository) List(ctx context.Context, filter review.ListFilter) ([]*review.Prediction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*review.Prediction
	for _, p := range r.predictions {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PerPage
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryHistoryRepository) CountByStatus(ctx context.Context) (map[review.Status]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[review.Status]int64)
	for _, p := range r.predictions {
		counts[p.Status]++
	}
	return counts, nil
}

func (r *MemoryHistoryRepository) CategoryBreakdown(ctx context.Context) ([]review.CategoryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCategory := make(map[string]*review.CategoryStats)
	for _, p := range r.predictions {
		stats, ok := byCategory[p.Category]
		if !ok {
			stats = &review.CategoryStats{Category: p.Category}
			byCategory[p.Category] = stats
		}
		stats.Total++
		if p.IsFake() {
			stats.Fake++
		}
	}

	result := make([]review.CategoryStats, 0, len(byCategory))
	for _, stats := range byCategory {
		if stats.Total > 0 {
			stats.FakeRate = float64(stats.Fake) / float64(stats.Total)
		}
		result = append(result, *stats)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (r *MemoryHistoryRepository) TimingBreakdown(ctx context.Context) ([]review.TimingBucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byBucket := make(map[string]*review.TimingBucket)
	for _, p := range r.predictions {
		name := review.TimingBucketFor(p.DaysAfterPurchase)
		bucket, ok := byBucket[name]
		if !ok {
			bucket = &review.TimingBucket{Bucket: name}
			byBucket[name] = bucket
		}
		bucket.Total++
		if p.IsFake() {
			bucket.Fake++
		}
	}

	var result []review.TimingBucket
	for _, name := range review.TimingBuckets {
		if bucket, ok := byBucket[name]; ok {
			result = append(result, *bucket)
		}
	}
	return result, nil
}

func (r *MemoryHistoryRepository) VerificationBreakdown(ctx context.Context) (*review.VerificationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &review.VerificationStats{}
	for _, p := range r.predictions {
		group := &stats.Unverified
		if p.VerifiedPurchase {
			group = &stats.Verified
		}
		group.Total++
		if p.IsFake() {
			group.Fake++
		}
	}
	return stats, nil
}
