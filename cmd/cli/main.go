package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/akeren/go-waitlist-api/config"
	"github.com/akeren/go-waitlist-api/domain/waitlist"
	"github.com/akeren/go-waitlist-api/internal/log"
	schema "github.com/akeren/go-waitlist-api/migrations"
	"github.com/akeren/go-waitlist-api/pkg/migrations"
	"github.com/akeren/go-waitlist-api/pkg/utils"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := runMigrate(logger); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("Database migrations completed")

	case "stats":
		if err := runStats(logger); err != nil {
			logger.Error("Failed to read waitlist stats", "error", err.Error())
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runMigrate(logger *log.Logger) error {
	db, err := config.NewDatabase(logger, config.NewDBConfigFromEnv())
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}

	migrationCfg := migrations.Config{Logger: logger}
	if dir := utils.GetEnvTrimmed("MIGRATIONS_DIR"); dir != "" {
		migrationCfg.Dir = dir
	} else {
		migrationCfg.FS = schema.FS
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return migrations.Up(ctx, sqlDB, migrationCfg)
}

func runStats(logger *log.Logger) error {
	db, err := config.NewDatabase(logger, config.NewDBConfigFromEnv())
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	return writeStats(db, logger, os.Stdout)
}

func writeStats(db *gorm.DB, logger *log.Logger, out io.Writer) error {
	service := waitlist.NewWaitlistServiceFactory(db, logger, waitlist.ServiceOptions{}).CreateService()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := service.Count(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate  Apply the SQL migrations (embedded, or MIGRATIONS_DIR when set) and exit")
	fmt.Println("  stats    Print the number of waitlist registrations as JSON")
}
