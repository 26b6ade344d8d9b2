package main

import (
	"context"
	"time"

	blogconfig "github.com/ianfinch/blog-tweet/internal/config"
	"github.com/ianfinch/blog-tweet/internal/credentials"
	"github.com/ianfinch/blog-tweet/internal/handlers"
	"github.com/ianfinch/blog-tweet/internal/notify"
	"github.com/ianfinch/blog-tweet/internal/promo"
	"github.com/ianfinch/blog-tweet/internal/social"
	"github.com/ianfinch/blog-tweet/internal/store"
	"github.com/ianfinch/blog-tweet/pkg/config"
	"github.com/ianfinch/blog-tweet/pkg/database"
	"github.com/ianfinch/blog-tweet/pkg/logging"
	"github.com/ianfinch/blog-tweet/pkg/middleware"
	"github.com/ianfinch/blog-tweet/pkg/monitoring"
	"github.com/ianfinch/blog-tweet/pkg/redis"
	"github.com/ianfinch/blog-tweet/pkg/server"
	"github.com/ianfinch/blog-tweet/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("blog-tweet")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting blog-tweet (blog promotion service)")

	cfg := blogconfig.LoadConfig()

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	// Connect to Redis for posting credentials
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := redis.NewClient(redisCtx, redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	redisCancel()
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer func() { _ = redisClient.Close() }()

	// Kafka publisher for run notifications
	publisher, err := notify.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Kafka publisher")
	}
	defer func() { _ = publisher.Close() }()

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("blog-tweet", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("blog-tweet", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(publisher.Client()))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL":   cfg.DatabaseURL,
		"SOCIAL_API_URL": cfg.SocialAPIURL,
		"BLOG_BASE_URL":  cfg.BlogBaseURL,
		"SERVICE_TOKEN":  cfg.ServiceToken,
	}))

	// Wire the promotion pipeline
	templateStore := store.New(db, logger)
	credentialStore := credentials.New(redisClient, cfg.CredentialsKey)
	socialClient := social.NewClient(cfg.SocialAPIURL)

	pipeline := promo.NewPipeline(
		templateStore,
		templateStore,
		credentialStore,
		socialClient,
		publisher,
		promo.NewSelector(nil),
		promo.Config{
			BlogBaseURL:  cfg.BlogBaseURL,
			ClientTag:    cfg.ClientTag,
			RecentWindow: cfg.RecentWindow,
		},
		logger,
	)

	// Setup router with unified monitoring (health/metrics only)
	router := server.SetupServiceRouter(logger, "blog-tweet", healthChecker, metricsCollector)

	runs := metricsCollector.NewCounter(
		"runs_total",
		"Total promotion runs by outcome",
		[]string{"outcome"},
	)
	runHandler := handlers.NewRunHandler(pipeline, 60*time.Second, logger, &handlers.PromoMetrics{Runs: runs})

	v1 := router.Group("/v1", middleware.ServiceAuthMiddleware(cfg.ServiceToken))
	v1.POST("/promo/run", runHandler.Handle)

	// Start HTTP server with graceful shutdown
	serverConfig := server.DefaultConfig("blog-tweet", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}
