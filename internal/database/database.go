package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"okr-tracker-api/internal/models"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options selects the backing database
type Options struct {
	Driver   string // sqlite or postgres
	DSN      string
	LogLevel slog.Level
	Logger   *slog.Logger
}

// Open connects to the configured database and runs migrations
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(opts.Logger, opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Driver == "sqlite" {
		// sqlite serializes writers; one connection keeps in-memory databases shared
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// InitDB opens the database and stores it in DB
func InitDB(opts Options) error {
	db, err := Open(opts)
	if err != nil {
		return err
	}
	DB = db
	if opts.Logger != nil {
		opts.Logger.Info("database connected and migrated", slog.String("driver", opts.Driver))
	}
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}

// Migrate creates or updates the four tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the database answers
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite", "":
		// glebarez/sqlite is a pure Go implementation (no CGO required)
		return sqlite.Open(dsn), nil
	case "postgres":
		// lib/pq registers the "postgres" database/sql driver used here
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

type gormWriter struct {
	log *slog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Debug(fmt.Sprintf(format, args...), slog.String("component", "gorm"))
}

func newGormLogger(log *slog.Logger, level slog.Level) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	gormLevel := logger.Warn
	if level <= slog.LevelDebug {
		gormLevel = logger.Info
	}
	return logger.New(gormWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
