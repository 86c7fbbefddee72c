package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"classtrack/internal/attendance"
	"classtrack/internal/classes"
	"classtrack/internal/config"
	"classtrack/internal/httpapi"
	"classtrack/internal/reports"
	"classtrack/internal/store"
	"classtrack/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.InitSchema(ctx, db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	if !redisClient.Healthy(ctx) {
		log.Println("warning: redis not reachable, code lookups will hit the database")
	}

	userRepo := users.NewRepository(db.Client)
	userSvc := users.NewService(userRepo)
	if err := userSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("warning: admin bootstrap failed: %v", err)
	}

	registry := classes.NewRegistry(classes.NewRepository(db.Client), redisClient.Client, cfg.CodeTTL)
	ledger := attendance.NewLedger(attendance.NewRepository(db.Client), registry, userSvc)
	engine := reports.NewEngine(reports.NewRepository(db.Client))

	router := httpapi.NewRouter(cfg, httpapi.Deps{
		Users:    userSvc,
		Registry: registry,
		Ledger:   ledger,
		Reports:  engine,
		DBHealthy: func(ctx context.Context) bool {
			return db.Client.PingContext(ctx) == nil
		},
		RedisHealthy: redisClient.Healthy,
	})

	srv := httpapi.NewHTTPServer(cfg.HTTPPort, router)

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}
