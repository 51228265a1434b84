package store

import (
	"embed"
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sebayufm/notulen/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type implStore struct {
	db *gorm.DB
}

// New wraps an open database in a Store.
func New(db *gorm.DB) Store {
	return &implStore{db: db}
}

// NewPostgresDB opens the PostgreSQL connection pool. SQL statements are
// logged only at debug level.
func NewPostgresDB(cfg config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	gormLogger := gormlogger.Default.LogMode(gormlogger.Warn)
	if logLevel == "debug" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database object: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrations returns the embedded schema migrations.
func Migrations() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}
}

// Migrate applies pending migrations and returns how many ran.
func Migrate(db *gorm.DB) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("get database object: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", Migrations(), migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	return n, nil
}

func (s *implStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database object: %w", err)
	}
	return sqlDB.Close()
}
