package main

import (
	"context"

	"github.com/cicero78M/recap-engine/internal/engine"
	"github.com/cicero78M/recap-engine/internal/handlers"
	"github.com/cicero78M/recap-engine/internal/scope"
	"github.com/cicero78M/recap-engine/internal/store"
	"github.com/cicero78M/recap-engine/pkg/config"
	"github.com/cicero78M/recap-engine/pkg/database"
	"github.com/cicero78M/recap-engine/pkg/logging"
	"github.com/cicero78M/recap-engine/pkg/monitoring"
	"github.com/cicero78M/recap-engine/pkg/server"
	"github.com/cicero78M/recap-engine/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("adjutant")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Adjutant (Engagement Compliance Aggregation Engine)")

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = config.GetEnv("DATABASE_URL", "")
	dbConfig.QueryTimeout = config.GetEnvDuration("QUERY_TIMEOUT", dbConfig.QueryTimeout)
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()

	// Provision the reference tables when running against a fresh database
	if config.GetEnvBool("APPLY_SCHEMA", false) {
		if err := database.ApplySchema(context.Background(), db, logger); err != nil {
			logger.WithError(err).Fatal("Failed to apply database schema")
		}
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("adjutant", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("adjutant", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": config.GetEnv("DATABASE_URL", ""),
	}))

	// Optional VIP priority rules for the compliance listing sort
	var rules []engine.PriorityRule
	if path := config.GetEnv("PRIORITY_RULES_FILE", ""); path != "" {
		loaded, err := engine.LoadPriorityRules(path)
		if err != nil {
			logger.WithError(err).WithField("path", path).Fatal("Failed to load priority rules")
		}
		rules = loaded
		logger.WithField("rules", len(rules)).Info("Priority rules loaded")
	}

	st := store.New(db, logger, dbConfig.QueryTimeout)
	eng := engine.New(engine.Config{
		Store:         st,
		Scopes:        scope.NewResolver(st, logger),
		Logger:        logger,
		Location:      config.GetLocation(logger),
		PriorityRules: rules,
		Fanout:        config.GetEnvInt("FETCH_FANOUT", 0),
		Metrics:       metricsCollector,
	})

	// Initialize handlers
	handlers.Init(eng, logger)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "adjutant", healthChecker, metricsCollector)

	// Read-only aggregation endpoints
	api := router.Group("/api")
	{
		api.GET("/recap", handlers.GetRecap)
		api.GET("/leaderboard", handlers.GetLeaderboard)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("adjutant", "18090")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
