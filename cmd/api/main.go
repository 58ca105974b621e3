package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/app"
	"github.com/davidmro/tutoring_core/internal/config"
	"github.com/davidmro/tutoring_core/internal/controller"
	"github.com/davidmro/tutoring_core/internal/repository"
	"github.com/davidmro/tutoring_core/internal/repository/base"
	"github.com/davidmro/tutoring_core/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Database unreachable", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	tx := base.NewTxRunner(pool)
	periodRepo := repository.NewPeriodRepository(pool)
	weekRepo := repository.NewWeekRepository(pool)
	blockRepo := repository.NewTimeBlockRepository(pool)
	classroomRepo := repository.NewClassroomRepository(pool)
	personRepo := repository.NewPersonRepository(pool)
	reasonRepo := repository.NewReasonRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	assignmentRepo := repository.NewTutorAssignmentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	studentRepo := repository.NewStudentAttendanceRepository(pool)

	calendarSvc := service.NewCalendarService(tx, periodRepo, weekRepo, logger)
	sessionSvc := service.NewSessionService(tx, classroomRepo, blockRepo, weekRepo, sessionRepo, attendanceRepo, logger)
	tutorSvc := service.NewTutorService(tx, classroomRepo, personRepo, assignmentRepo, logger)
	attendanceSvc := service.NewAttendanceService(tx, sessionRepo, weekRepo, assignmentRepo, reasonRepo, personRepo, attendanceRepo, logger)
	statsSvc := service.NewStatsService(tx, sessionRepo, attendanceRepo, studentRepo, classroomRepo, blockRepo, personRepo, logger)

	ctrl := controller.NewController(calendarSvc, sessionSvc, tutorSvc, attendanceSvc, statsSvc, logger)
	server := app.NewServer(cfg.HTTPAddr, ctrl, pool, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}
