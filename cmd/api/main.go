package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-lite-go/internal/config"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-lite-go/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/hris-lite-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-lite-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-lite-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-lite-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hris-lite-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hris-lite-go/internal/service/employee"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"

	shutdownTimeout = 10 * time.Second
)

type recordStore struct {
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	tx         database.Transactor
	pinger     appHTTP.StorePinger
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := setupLogger(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Separate registry so tests and the process never share collectors
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	store, err := openStore(ctx, cfg, appMetrics)
	if err != nil {
		return err
	}
	defer store.close()
	logger.Info("Record store ready", "driver", cfg.Store.Driver)

	queryCache := cache.New(cfg.Cache.TTL, appMetrics)
	hub := sse.NewHub()
	eventsHandler := appHTTP.NewEventsHandler(hub)
	queryCache.OnInvalidate(eventsHandler.PublishInvalidation)
	queryCache.OnInvalidate(func(prefix string) {
		logger.Debug("Query cache view invalidated", "view", prefix)
	})

	scheduler := cron.NewScheduler(logger)
	cron.RegisterCacheSweep(scheduler, queryCache, cfg.Cache.SweepInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	employeeSvc := employeeService.NewEmployeeService(store.tx, store.employees, store.attendance, queryCache, appMetrics, logger)
	attendanceSvc := attendanceService.NewAttendanceService(store.attendance, store.employees, queryCache, appMetrics, logger)
	dashboardSvc := dashboardService.NewDashboardService(employeeSvc, attendanceSvc, cfg.App.Location, time.Now)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Logger:         logger,
			Metrics:        reg,
			Health:         appHTTP.NewHealthChecker(store.pinger, cfg.Store.Driver, logger),
		},
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
		eventsHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts end on shutdown so event streams return
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, appMetrics *metrics.Metrics) (*recordStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		s := memory.NewStore()
		return &recordStore{
			employees:  memory.NewEmployeeRepository(s),
			attendance: memory.NewAttendanceRepository(s),
			tx:         memory.NewTransactor(s),
			pinger:     appHTTP.StorePingFunc(func(context.Context) error { return nil }),
			close:      func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return &recordStore{
			employees:  postgresql.NewEmployeeRepository(db, appMetrics),
			attendance: postgresql.NewAttendanceRepository(db, appMetrics),
			tx:         postgresql.NewTransactor(db),
			pinger:     db,
			close:      db.Close,
		}, nil
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env, level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}

	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envDev, envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       logLevel,
				ReplaceAttr: httplog.SchemaECS.Concise(env == envProd).ReplaceAttr,
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}),
		)
	}

	return logger.With(
		slog.String("app", "hris-lite"),
		slog.String("env", env),
	)
}
