package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/core/services"
	"github.com/mikopo/ledger_service/internal/events"
	"github.com/mikopo/ledger_service/internal/handlers"
	"github.com/mikopo/ledger_service/internal/middleware"
	"github.com/mikopo/ledger_service/internal/repositories/database/pgsql"
	"github.com/mikopo/ledger_service/pkg/config"
	"github.com/mikopo/ledger_service/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories and services
	repos := pgsql.NewRepositoryProvider(dbPool)

	accountSvc := services.NewChartOfAccountsService(repos.AccountRepo, cfg.SystemTenantID)
	balanceSvc := services.NewBalanceService(repos.BalanceRepo, repos.JournalRepo, accountSvc)

	journalOpts := []services.JournalServiceOption{services.WithBalanceRefresher(balanceSvc)}

	// Messaging is optional: without a broker the ledger still serves its HTTP API.
	var amqpChannel *amqp.Channel
	if cfg.AMQPURL != "" {
		amqpConn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer amqpConn.Close()

		amqpChannel, err = amqpConn.Channel()
		if err != nil {
			logger.Error("Failed to open AMQP channel", slog.String("error", err.Error()))
			os.Exit(1)
		}

		publisher, err := events.NewAMQPPublisher(amqpChannel, cfg.EventsExchange)
		if err != nil {
			logger.Error("Failed to declare events exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}
		journalOpts = append(journalOpts, services.WithPublisher(publisher))
	}

	journalSvc := services.NewJournalService(repos.JournalRepo, accountSvc, journalOpts...)
	trialBalanceSvc := services.NewTrialBalanceService(accountSvc, balanceSvc)

	serviceContainer := &portssvc.ServiceContainer{
		Account:      accountSvc,
		Journal:      journalSvc,
		Balance:      balanceSvc,
		TrialBalance: trialBalanceSvc,
	}

	if amqpChannel != nil {
		consumer := events.NewConsumer(amqpChannel, cfg.EventsQueue, events.NewMapper(accountSvc, nil), journalSvc, logger, cfg.EventRetryMax, cfg.EventRetryDelay)
		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Event consumer stopped", slog.String("error", err.Error()))
				stop()
			}
		}()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations before the server starts
// serving traffic. It uses a temporary database/sql connection via the pgx
// stdlib driver so migrate and the application pool share one driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
