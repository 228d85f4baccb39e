package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/authkeeper/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// Option customizes the gorm configuration.
type Option func(*gorm.Config)

// WithLogLevel overrides the gorm log level (Warn by default).
func WithLogLevel(level logger.LogLevel) Option {
	return func(c *gorm.Config) {
		c.Logger = newLogger(level)
	}
}

// newLogger writes through the standard logger. A missing row is an expected
// lookup result, so it is not logged.
func newLogger(level logger.LogLevel) logger.Interface {
	return logger.New(log.Default(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger: newLogger(logger.Warn),
		// Map driver-specific constraint errors onto gorm.ErrDuplicatedKey
		TranslateError: true,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared
	sqlDB.SetMaxOpenConns(1)

	database := &Database{DB: db}
	if err := database.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

// Migrate creates or updates the schema.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.Account{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
