package main

import (
	"log"

	"mindboard/internal/auth"
	"mindboard/internal/config"
	"mindboard/internal/db"
	"mindboard/internal/logging"
	"mindboard/internal/router"
	"mindboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level)
	gin.SetMode(cfg.Server.Mode)
	if gin.Mode() == gin.ReleaseMode && cfg.Auth.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is not set; tokens are signed with the built-in development secret and can be forged")
	}

	gdb, err := db.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.Migrate(gdb, logger); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	users := services.NewUserService(gdb, services.WithLogger(logger))
	r := router.New(router.Deps{
		Users:         users,
		Articles:      services.NewArticleService(gdb, services.WithLogger(logger)),
		Comments:      services.NewCommentService(gdb, services.WithLogger(logger)),
		Reports:       services.NewReportService(gdb, users),
		Forms:         services.NewFormService(gdb),
		Tokens:        auth.NewIssuer(auth.Config{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.TTL()}),
		SessionSecret: cfg.Auth.SessionSecret,
		Logger:        logger,
	})

	logger.Info("server starting", "port", cfg.Server.Port, "mode", cfg.Server.Mode)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
