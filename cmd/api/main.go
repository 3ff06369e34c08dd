package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/staffsync/hrops-backend-go/internal/config"
	appHTTP "github.com/staffsync/hrops-backend-go/internal/handler/http"
	"github.com/staffsync/hrops-backend-go/internal/pkg/cron"
	"github.com/staffsync/hrops-backend-go/internal/pkg/database"
	"github.com/staffsync/hrops-backend-go/internal/pkg/jwt"
	"github.com/staffsync/hrops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/staffsync/hrops-backend-go/internal/service/attendance"
	employeeService "github.com/staffsync/hrops-backend-go/internal/service/employee"
	"github.com/staffsync/hrops-backend-go/internal/service/importer"
	leaveService "github.com/staffsync/hrops-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	balanceService := leaveService.NewBalanceService(leaveBalanceRepo)
	requestService := leaveService.NewRequestService(db, leaveRequestRepo, balanceService)
	attendanceSvc := attendanceService.NewService(db, attendanceRepo, employeeRepo)
	importEngine := importer.NewEngine(employeeRepo)
	employeeSvc := employeeService.NewService(employeeRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		jwtService,
		appHTTP.NewLeaveHandler(requestService, balanceService),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewImportHandler(importEngine),
		appHTTP.NewEmployeeHandler(employeeSvc),
	)

	scheduler := cron.NewScheduler()
	if cfg.Sweep.Enabled {
		sweeps := cron.NewSweepJobs(
			requestService,
			attendanceSvc,
			db,
			time.Duration(cfg.Sweep.IntervalHours)*time.Hour,
		)
		sweeps.RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server running", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Log.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		}
	}

	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrops-backend"),
		slog.String("env", cfg.App.Env),
	)
}
