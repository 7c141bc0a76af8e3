package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"catalogo/internal/config"
	"catalogo/internal/models"
)

// Connect opens the catalog database, bounds its connection pool, and runs
// the schema migration. The target database is created first if it does not
// exist yet, so a fresh environment comes up without manual steps.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if err := ensureDatabaseExists(cfg); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn(cfg, cfg.Name)), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// ensureDatabaseExists creates the target database through the maintenance
// database when it is missing. A concurrent creation racing us is fine; the
// duplicate error is ignored.
func ensureDatabaseExists(cfg config.DatabaseConfig) error {
	admin, err := gorm.Open(postgres.Open(dsn(cfg, "postgres")), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to maintenance database: %w", err)
	}
	sqlDB, err := admin.DB()
	if err != nil {
		return fmt.Errorf("failed to access maintenance connection: %w", err)
	}
	defer sqlDB.Close()

	var count int64
	if err := admin.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", cfg.Name).Scan(&count).Error; err != nil {
		return fmt.Errorf("failed to check for database %s: %w", cfg.Name, err)
	}
	if count > 0 {
		return nil
	}

	safeName := strings.ReplaceAll(cfg.Name, `"`, `""`)
	if err := admin.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, safeName)).Error; err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return fmt.Errorf("failed to create database %s: %w", cfg.Name, err)
	}
	return nil
}

func dsn(cfg config.DatabaseConfig, dbName string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, dbName,
	)
}
