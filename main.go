package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/clover/config"
	clientrepo "github.com/Ramsey-B/clover/internal/repositories/client"
	invoicerepo "github.com/Ramsey-B/clover/internal/repositories/invoice"
	platformrepo "github.com/Ramsey-B/clover/internal/repositories/platform"
	reportingrepo "github.com/Ramsey-B/clover/internal/repositories/reporting"
	transactionrepo "github.com/Ramsey-B/clover/internal/repositories/transaction"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/importer"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/logger"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/reports"
	clientroutes "github.com/Ramsey-B/clover/pkg/routes/client"
	"github.com/Ramsey-B/clover/pkg/routes/health"
	importroutes "github.com/Ramsey-B/clover/pkg/routes/imports"
	invoiceroutes "github.com/Ramsey-B/clover/pkg/routes/invoice"
	platformroutes "github.com/Ramsey-B/clover/pkg/routes/platform"
	reportroutes "github.com/Ramsey-B/clover/pkg/routes/reports"
	transactionroutes "github.com/Ramsey-B/clover/pkg/routes/transaction"
	"github.com/Ramsey-B/clover/pkg/startup"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/tracing/exporters"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, flush, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer flush()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := setupTracing(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Error("Failed to set up tracing")
	}
	if shutdownTracing != nil {
		defer shutdownTracing(context.Background())
	}

	app, err := buildApp(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("Failed to build application")
		os.Exit(1)
	}

	boot := startup.NewStartup(appLogger, cfg.StartupMaxAttempts)
	for _, dep := range app.dependencies() {
		boot.AddDependency(dep)
	}

	if err := boot.Start(ctx); err != nil {
		appLogger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	app.health.SetReady(true)
	appLogger.WithField("port", cfg.Port).Info("Service started")

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")
	app.health.SetReady(false)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := boot.Stop(stopCtx); err != nil {
		appLogger.WithError(err).Error("Shutdown did not complete cleanly")
		os.Exit(1)
	}
}

// app holds the wired service graph.
type app struct {
	cfg      config.Config
	logger   ectologger.Logger
	sqlDB    *sqlx.DB
	echo     *echo.Echo
	consumer *kafka.Consumer
	producer *kafka.Producer
	health   *health.Checker
}

func buildApp(cfg config.Config, appLogger ectologger.Logger) (*app, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)
	sqlDB, err := sqlx.Open(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	db := database.NewDatabaseInstance(sqlDB, appLogger)

	clients := clientrepo.NewRepository(db, appLogger)
	platforms := platformrepo.NewRepository(db, appLogger)
	invoices := invoicerepo.NewRepository(db, appLogger)
	transactions := transactionrepo.NewRepository(db, appLogger)
	reporting := reportingrepo.NewRepository(db, appLogger)

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, appLogger)
	emitter := events.NewEmitter(producer, appLogger)

	pipeline := importer.NewPipeline(db, clients, invoices, platforms, transactions, appLogger)
	reportService := reports.NewService(reporting, appLogger)

	// consumerHealth stays a nil interface when the consumer is disabled; a
	// typed-nil *kafka.Consumer would defeat the checker's nil guard.
	var consumer *kafka.Consumer
	var consumerHealth health.ConsumerHealth
	if cfg.KafkaConsumerEnabled {
		consumer = kafka.NewConsumer(cfg, appLogger, importer.NewKafkaHandler(pipeline, emitter, appLogger))
		consumerHealth = consumer
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(appLogger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(appLogger))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	healthChecker := health.NewChecker(db, consumerHealth, version)
	healthChecker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	clientroutes.NewHandler(clients, appLogger).Register(api.Group("/clients"))
	platformroutes.NewHandler(platforms, appLogger).Register(api.Group("/platforms"))
	invoiceroutes.NewHandler(invoices, appLogger).Register(api.Group("/invoices"))
	transactionroutes.NewHandler(transactions, appLogger).Register(api.Group("/transactions"))
	importroutes.NewHandler(pipeline, emitter, appLogger, cfg.ImportMaxFileBytes).Register(api.Group("/imports"))
	reportroutes.NewHandler(reportService, appLogger).Register(api.Group("/reports"))

	return &app{
		cfg:      cfg,
		logger:   appLogger,
		sqlDB:    sqlDB,
		echo:     e,
		consumer: consumer,
		producer: producer,
		health:   healthChecker,
	}, nil
}

func (a *app) dependencies() []startup.StartupDependency {
	deps := []startup.StartupDependency{
		&dependency{
			name: "database",
			start: func(ctx context.Context) error {
				return a.sqlDB.PingContext(ctx)
			},
			stop: func(ctx context.Context) error {
				return a.sqlDB.Close()
			},
		},
		&dependency{
			name:      "migrations",
			dependsOn: []string{"database"},
			start: func(ctx context.Context) error {
				driver, err := postgres.WithInstance(a.sqlDB.DB, &postgres.Config{})
				if err != nil {
					return fmt.Errorf("failed to create migration driver: %w", err)
				}
				svc := database.NewMigrationService(a.logger, &database.MigrationConfig{
					MigrationFolderPath: a.cfg.DatabaseMigrationFolderPath,
					Version:             uint(a.cfg.DatabaseMigrationVersion),
					Force:               a.cfg.DatabaseMigrationForce,
					AutoRollback:        a.cfg.DatabaseMigrationAutoRollback,
				})
				return svc.Migrate(a.cfg.DatabaseName, driver)
			},
			stop: func(ctx context.Context) error { return nil },
		},
		&dependency{
			name:      "http-server",
			dependsOn: []string{"database", "migrations"},
			start: func(ctx context.Context) error {
				a.echo.Server.ReadTimeout = time.Duration(a.cfg.HttpServerReadTimeoutSeconds) * time.Second
				a.echo.Server.WriteTimeout = time.Duration(a.cfg.HttpServerWriteTimeoutSeconds) * time.Second
				a.echo.Server.IdleTimeout = time.Duration(a.cfg.HttpServerIdleTimeoutSeconds) * time.Second
				a.echo.Server.ReadHeaderTimeout = time.Duration(a.cfg.ReadHeaderTimeoutSeconds) * time.Second
				a.echo.Server.MaxHeaderBytes = a.cfg.MaxHeaderBytes

				go func() {
					if err := a.echo.Start(fmt.Sprintf(":%d", a.cfg.Port)); err != nil && err != http.ErrServerClosed {
						a.logger.WithError(err).Error("HTTP server stopped unexpectedly")
					}
				}()
				return nil
			},
			stop: func(ctx context.Context) error {
				return a.echo.Shutdown(ctx)
			},
		},
	}

	if a.consumer != nil {
		deps = append(deps, &dependency{
			name:      "kafka-consumer",
			dependsOn: []string{"database", "migrations"},
			start: func(ctx context.Context) error {
				return a.consumer.Start(ctx)
			},
			stop: func(ctx context.Context) error {
				return a.consumer.Stop()
			},
		})
	}

	deps = append(deps, &dependency{
		name: "kafka-producer",
		start: func(ctx context.Context) error {
			return nil
		},
		stop: func(ctx context.Context) error {
			return a.producer.Close()
		},
	})

	return deps
}

// dependency adapts plain start/stop funcs to the startup interface.
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string                 { return d.name }
func (d *dependency) DependsOn() []string             { return d.dependsOn }
func (d *dependency) Start(ctx context.Context) error { return d.start(ctx) }
func (d *dependency) Stop(ctx context.Context) error  { return d.stop(ctx) }

func setupTracing(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	if !cfg.OTLPEnabled {
		tracing.SetTracer(otel.Tracer(cfg.AppName))
		return nil, nil
	}

	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Insecure: cfg.OTLPInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	return tp.Shutdown, nil
}
