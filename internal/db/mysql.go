package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	mysqlmigrate "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/lexify/document-scanner/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func serverDSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort)
}

func databaseDSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&multiStatements=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// EnsureDatabase creates the configured database if it does not exist yet.
// It connects at the server level, so it works on a fresh MySQL instance.
func EnsureDatabase(cfg *config.Config) error {
	conn, err := sql.Open("mysql", serverDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open server connection: %w", err)
	}
	defer conn.Close()

	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET 'utf8mb4'", cfg.DBName)
	if _, err := conn.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
	}

	return nil
}

// NewMySQLDB opens a sqlx connection to the configured database.
func NewMySQLDB(cfg *config.Config) (*sqlx.DB, error) {
	database, err := sqlx.Connect("mysql", databaseDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database, nil
}

// RunMigrations applies the embedded schema migrations. Safe to call on
// every process start; an already-current schema is not an error.
func RunMigrations(database *sqlx.DB, cfg *config.Config) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := mysqlmigrate.WithInstance(database.DB, &mysqlmigrate.Config{
		DatabaseName: cfg.DBName,
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
