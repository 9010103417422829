package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection. A local sqlite file (WAL mode) is used
// unless tursoURL points at a remote libsql database.
func Initialize(dbPath, tursoURL, tursoToken, environment string) error {
	var err error

	// Determine log level based on environment
	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Warn
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	if tursoURL != "" {
		dsn := tursoURL
		if tursoToken != "" {
			dsn += "?authToken=" + tursoToken
		}
		conn, openErr := sql.Open("libsql", dsn)
		if openErr != nil {
			return fmt.Errorf("failed to open libsql connection: %w", openErr)
		}
		DB, err = gorm.Open(&sqlite.Dialector{Conn: conn}, gormConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to turso database: %w", err)
		}
		log.Println("Database connection established (turso)")
		return nil
	}

	// Enable WAL mode for better concurrency support
	DB, err = gorm.Open(sqlite.Open(dbPath+"?_journal_mode=WAL"), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established (WAL mode enabled)")
	return nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
