package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/saturnino-fabrica-de-software/bundyclock/internal/api"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/audit"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/config"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/database"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/face"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/lock"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/repository"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/service"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type stores struct {
	employees  service.EmployeeRepositoryInterface
	ledger     service.AttendanceLedger
	embeddings service.FaceEmbeddingRepositoryInterface
	pool       *pgxpool.Pool
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger.Info("starting BundyClock API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("ledger", cfg.LedgerBackend),
		slog.String("lock", cfg.LockBackend),
		slog.String("face_provider", cfg.FaceProvider),
		slog.String("timezone", loc.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if st.pool != nil {
		defer st.pool.Close()
	}

	locker, closeLocker, err := newLocker(ctx, cfg, st.pool, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	verifier, err := face.NewVerifier(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create face verifier: %w", err)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	auditLogger := audit.NewSlogLogger(logger)

	attendanceService := service.NewAttendanceService(st.employees, st.ledger, locker, verifier, logger).
		WithLocation(loc).
		WithLockWait(cfg.LockWait).
		WithAudit(auditLogger).
		WithPublisher(hub)
	if st.pool != nil {
		// postgres locks hand their transaction to the ledger
		attendanceService.WithTxLedger(func(tx pgx.Tx) service.AttendanceLedger {
			return repository.NewAttendanceRepository(tx)
		})
	}
	faceService := service.NewFaceService(st.employees, st.embeddings, verifier, logger).
		WithAudit(auditLogger).
		WithPublisher(hub)

	deps := &api.Dependencies{
		Attendance:     attendanceService,
		Employees:      service.NewEmployeeService(st.employees),
		Faces:          faceService,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.ClockRateLimit,
		RateBurst:      cfg.ClockRateBurst,
	}
	// only set when present so the interface is never a typed nil
	if st.pool != nil {
		deps.DB = st.pool
	}

	router := api.NewRouter(logger, deps)
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.LedgerBackend == config.LedgerMemory {
		logger.Warn("using in-memory ledger, attendance is lost on restart")
		return &stores{
			employees:  repository.NewMemoryEmployeeRepository(),
			ledger:     repository.NewMemoryAttendanceRepository(),
			embeddings: repository.NewMemoryFaceEmbeddingRepository(),
		}, nil
	}

	if cfg.AutoMigrate {
		if err := database.MigrateUp(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &stores{
		employees:  repository.NewEmployeeRepository(pool),
		ledger:     repository.NewAttendanceRepository(pool),
		embeddings: repository.NewFaceEmbeddingRepository(pool),
		pool:       pool,
	}, nil
}

func newLocker(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (lock.Locker, func(), error) {
	switch cfg.LockBackend {
	case config.LockRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return lock.NewRedisLocker(client, cfg.LockTTL, logger), func() { _ = client.Close() }, nil

	case config.LockPostgres:
		return lock.NewPostgresLocker(pool, logger), func() {}, nil

	default:
		return lock.NewKeyedMutex(), func() {}, nil
	}
}
