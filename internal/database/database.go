// Package database opens the configured storage backend and hands back repositories.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"printstudio/internal/config"
	"printstudio/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CloseFunc releases the connection opened by Open.
type CloseFunc func(ctx context.Context) error

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*repositories.Set, CloseFunc, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverPostgres:
		return openGORM(postgres.Open(cfg.DSN), cfg, log)
	case config.DriverSQLite:
		return openGORM(sqlite.Open(cfg.DSN), cfg, log)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*repositories.Set, CloseFunc, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.MongoURL)
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	set, err := repositories.NewMongoSet(connectCtx, client.Database(cfg.Name))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	log.Info("database connected", "driver", cfg.Driver, "database", cfg.Name)
	return set, client.Disconnect, nil
}

// gormLogger sends GORM's warnings through log. Lookups that find nothing are expected
// (unknown usernames, free slugs) and are not reported.
func gormLogger(log *slog.Logger) logger.Interface {
	return logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func openGORM(dialector gorm.Dialector, cfg config.DatabaseConfig, log *slog.Logger) (*repositories.Set, CloseFunc, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger(log),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	set, err := repositories.NewGORMSet(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	log.Info("database connected", "driver", cfg.Driver)
	return set, func(context.Context) error { return sqlDB.Close() }, nil
}
