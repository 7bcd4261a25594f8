package database

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"finance-insights-be/models"
)

// ConnectFinance opens the read-only connection to the finance database.
// Its schema (transactions, categories, merchants, budgets) is owned by
// the upstream transaction and budget services, so no migration runs here.
func ConnectFinance() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	db, err := open(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect finance database: %w", err)
	}

	log.Info().Msg("Connected to finance database")
	return db, nil
}

// ConnectInsights opens the connection used for chat logs. It falls back
// to DATABASE_URL when no dedicated INSIGHTS_DATABASE_URL is configured,
// and migrates the chat_logs table this service owns.
func ConnectInsights() (*gorm.DB, error) {
	dsn := os.Getenv("INSIGHTS_DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, fmt.Errorf("INSIGHTS_DATABASE_URL environment variable not set")
	}

	db, err := open(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect insights database: %w", err)
	}

	if err := db.AutoMigrate(&models.ChatLog{}); err != nil {
		return nil, fmt.Errorf("migrate insights database: %w", err)
	}

	log.Info().Msg("Connected to insights database")
	return db, nil
}

func open(dsn string) (*gorm.DB, error) {
	if !strings.Contains(dsn, "sslmode") {
		dsn += "?sslmode=require" // Fixes Supabase connection refusal
	}

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}
