package main

import (
	"flag"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/nnamdio/bookverse/config"
	_ "github.com/nnamdio/bookverse/docs"
	"github.com/nnamdio/bookverse/handler"
	"github.com/nnamdio/bookverse/internal/jsonlog"
	"github.com/nnamdio/bookverse/repository"
	"github.com/nnamdio/bookverse/repository/postgres"
	"github.com/nnamdio/bookverse/service"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

// @title Bookverse API
// @version 1.0
// @description This is an API service for a book catalog with aggregated review ratings.
// @BasePath /
func main() {
	// Initialize configuration
	var cfg config.Config
	var configFile string
	flag.StringVar(&configFile, "config", "", "Path to YAML configuration file")
	flag.IntVar(&cfg.Server.Port, "port", 4000, "API server port")
	flag.StringVar(&cfg.Server.Env, "env", "development", "Environment(development|staging|production)")
	flag.StringVar(&cfg.Logging.Level, "log-level", "info", "Minimum log level(debug|info|error)")

	// Read the database connection pool settings into the config. An empty
	// DSN selects the in-memory store, which is useful for development and
	// demos.
	flag.StringVar(&cfg.Database.DSN, "db-dsn", os.Getenv("DSN"), "PostgreSQL DSN (empty for in-memory store)")
	flag.IntVar(&cfg.Database.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.Database.MaxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.Database.MaxIdleTime, "db-max-idle-time", "15m", "PostgreSQL max connection idle time")
	flag.StringVar(&cfg.Database.MigrationsPath, "db-migrations-path", "./migrations", "Path to schema migrations")

	// Read the SMTP server settings into the config
	flag.StringVar(&cfg.Smtp.Host, "smtp-host", os.Getenv("SMTPHOST"), "SMTP host")
	flag.IntVar(&cfg.Smtp.Port, "smtp-port", 25, "SMTP port")
	flag.StringVar(&cfg.Smtp.Username, "smtp-username", os.Getenv("SMTPUSERNAME"), "SMTP username")
	flag.StringVar(&cfg.Smtp.Password, "smtp-password", os.Getenv("SMTPPASSWORD"), "SMTP password")
	flag.StringVar(&cfg.Smtp.Sender, "smtp-sender", "Bookverse <no-reply@bookverse.example>", "SMTP sender")
	flag.StringVar(&cfg.Smtp.Recipient, "smtp-recipient", os.Getenv("SMTPRECIPIENT"), "Catalog maintainer notification recipient")

	// Read AWS S3 settings into the config
	flag.StringVar(&cfg.S3.AccessKeyID, "s3-access-key", os.Getenv("AWSACCESSKEYID"), "S3 access key ID")
	flag.StringVar(&cfg.S3.SecretAccessKey, "s3-secret", os.Getenv("AWSSECRETACCESSKEY"), "S3 secret access key")
	flag.StringVar(&cfg.S3.Region, "s3-region", os.Getenv("AWSS3REGION"), "S3 Region")
	flag.StringVar(&cfg.S3.Bucket, "s3-bucket", os.Getenv("AWSS3BUCKET"), "S3 bucket")

	// Read the rate limiter settings into the config
	flag.Float64Var(&cfg.Limiter.RPS, "limiter-rps", 4, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.Limiter.Burst, "limiter-burst", 8, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.Limiter.Enabled, "limiter-enabled", true, "Enable rate limiter")

	// Read the metrics and debug endpoint settings into the config
	flag.BoolVar(&cfg.Metrics.Enabled, "metrics-enabled", true, "Enable request-level metrics")
	flag.StringVar(&cfg.BasicAuth.Username, "basic-auth-username", os.Getenv("BASICAUTHUSERNAME"), "Basic auth username for /debug/vars")
	flag.StringVar(&cfg.BasicAuth.Password, "basic-auth-password", os.Getenv("BASICAUTHPASSWORD"), "Basic auth password for /debug/vars")

	// Process the -cors-trusted-origin command line flag
	flag.Func("cors-trusted-origin", "Trusted CORS origin (space separated)", func(s string) error {
		cfg.Cors.TrustedOrigins = strings.Fields(s)
		return nil
	})

	flag.Parse()

	logger := jsonlog.New(os.Stdout, jsonlog.ParseLevel(cfg.Logging.Level))

	// A configuration file, when given, overrides the flag defaults.
	if configFile != "" {
		err := config.LoadFile(configFile, &cfg)
		if err != nil {
			logger.PrintFatal(err, map[string]string{"file": configFile})
		}
		logger = jsonlog.New(os.Stdout, jsonlog.ParseLevel(cfg.Logging.Level))
	}

	// Initialize the repository. Without a DSN the app runs entirely from
	// memory; with one, a PostgreSQL pool is opened and pending schema
	// migrations are applied.
	var repo repository.Repository
	if cfg.Database.DSN == "" {
		repo = repository.NewMemory()
		logger.PrintInfo("using in-memory store", nil)
	} else {
		db, err := postgres.OpenDBConn(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer db.Close()
		logger.PrintInfo("database connection pool established", nil)
		err = postgres.Migrate(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		logger.PrintInfo("database migrations applied", nil)
		repo = repository.New(db)
	}

	// Other shared resources: waitgroup and the materialized genre cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, []string](30 * time.Minute))
	go cache.Start()

	// Application layers
	service := service.New(cfg, &wg, logger, repo)
	handler := handler.New(cfg, logger, cache, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err := app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
