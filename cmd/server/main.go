// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/gurkanbulca/taskapi/internal/config"
	"github.com/gurkanbulca/taskapi/internal/database"
	"github.com/gurkanbulca/taskapi/internal/handler"
	"github.com/gurkanbulca/taskapi/internal/health"
	"github.com/gurkanbulca/taskapi/internal/middleware"
	"github.com/gurkanbulca/taskapi/internal/repository"
	"github.com/gurkanbulca/taskapi/internal/service"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

const (
	healthInterval  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Connecting to %s...", cfg.Database.Driver)
	db, err := database.Open(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	if cfg.Server.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to run auto migration: %v", err)
		}
	}

	var errorLog io.Writer
	if cfg.Server.ErrorLogPath != "" {
		f, err := os.OpenFile(cfg.Server.ErrorLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open error log: %v", err)
		}
		defer f.Close()
		errorLog = f
	}

	// Initialize services
	passwordManager := auth.NewPasswordManager().WithPolicy(cfg.Password.Policy())
	sessionManager := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.Duration)
	securityLogger := service.NewSecurityLogger(nil)

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	verifier := service.NewCredentialVerifier(userRepo, passwordManager)
	guard := service.NewGuard(taskRepo, securityLogger)
	taskService := service.NewTaskService(taskRepo, verifier, guard, securityLogger, service.TaskServiceConfig{
		PageSize:    cfg.API.PageSize,
		MaxPageSize: cfg.API.MaxPageSize,
	})
	userService := service.NewUserService(userRepo, verifier, passwordManager, securityLogger)

	e := handler.NewServer(handler.Deps{
		Tasks:    taskService,
		Users:    userService,
		Sessions: middleware.NewSessions(sessionManager, cfg.Session.CookieName, cfg.Session.CookieSecure, securityLogger),
		Logger:   log.Default(),
		ErrorLog: errorLog,
	})

	// gRPC serves health checks only
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := health.NewChecker(db, healthInterval)
	grpcServer := grpc.NewServer()
	checker.Register(grpcServer)
	if cfg.Server.EnableReflection {
		reflection.Register(grpcServer)
		log.Println("gRPC reflection enabled (disable in production)")
	}
	go checker.Run(ctx)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	go func() {
		log.Printf("gRPC health server listening on port %s", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	go func() {
		log.Printf("🚀 Task API listening on port %s", cfg.Server.HTTPPort)
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("📴 Shutting down server...")
	checker.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	log.Println("✅ Server shutdown complete")
}
