package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/stupid-simple/pinpack/database"
)

// Writes are guarded by database.Database.DryRun, reads still run in dry run mode.
func newSQLite(path string, logger zerolog.Logger) (*gorm.DB, error) {
	cli, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: dbLogger(logger),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := cli.AutoMigrate(database.Models()...); err != nil {
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}

	return cli, nil
}

func openDatabase(path string, logger zerolog.Logger, dryRun bool) (*database.Database, error) {
	cli, err := newSQLite(path, logger)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	return &database.Database{
		Cli:    cli,
		Logger: logger,
		DryRun: dryRun,
	}, nil
}

const slowQueryThreshold = 200 * time.Millisecond

// dblog routes gorm logs to zerolog. Statements are traced, slow ones are warned
// about, and missing records are not treated as errors.
type dblog struct {
	parent zerolog.Logger
}

func (d *dblog) Error(_ context.Context, msg string, args ...any) {
	d.parent.Error().Msgf(msg, args...)
}

func (d *dblog) Info(_ context.Context, msg string, args ...any) {
	d.parent.Info().Msgf(msg, args...)
}

func (d *dblog) Warn(_ context.Context, msg string, args ...any) {
	d.parent.Warn().Msgf(msg, args...)
}

// LogMode implements logger.Interface.
func (d *dblog) LogMode(lvl logger.LogLevel) logger.Interface {
	zl := zerolog.Disabled
	switch lvl {
	case logger.Info:
		zl = zerolog.InfoLevel
	case logger.Warn:
		zl = zerolog.WarnLevel
	case logger.Error:
		zl = zerolog.ErrorLevel
	}
	return &dblog{parent: d.parent.Level(zl)}
}

// Trace implements logger.Interface.
func (d *dblog) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)

	var e *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		e = d.parent.Error().Err(err)
	case elapsed > slowQueryThreshold:
		e = d.parent.Warn().Dur("threshold", slowQueryThreshold)
	default:
		e = d.parent.Trace()
	}
	if !e.Enabled() {
		return
	}

	sql, rows := fc()
	e.Str("sql", sql).
		Int64("rows_affected", rows).
		Float64("seconds", elapsed.Seconds()).
		Msg("database query")
}

func dbLogger(logger zerolog.Logger) logger.Interface {
	return &dblog{
		parent: logger.With().Str("component", "database").Logger(),
	}
}
