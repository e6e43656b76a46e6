package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/pkg/config"
	"github.com/eduspace/course-server-go/pkg/database"
	"github.com/eduspace/course-server-go/pkg/database/migrations"
	"github.com/eduspace/course-server-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Failed to get SQL DB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		appLogger.Error("Failed to ping database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Database connection established")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		appLogger.Error("Failed to create pgcrypto extension", slog.String("error", err.Error()))
		os.Exit(1)
	}

	migrations.Register("create-core-schema", database.Migrate)
	migrations.Register("index-course-roster", func(db *gorm.DB) error {
		// GIN index speeds up the roster membership checks behind
		// GET /api/courses/enrolled and enroll's guard predicate.
		return db.Exec(`CREATE INDEX IF NOT EXISTS idx_courses_students ON courses USING GIN (students)`).Error
	})

	if err := migrations.Run(db, appLogger); err != nil {
		appLogger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Database migrations completed successfully")
}
