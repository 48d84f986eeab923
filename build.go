package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/database"
	"github.com/stupid-simple/pinpack/packagejob"
	"github.com/stupid-simple/pinpack/settings"
	"github.com/stupid-simple/pinpack/storage"
)

func buildCommand(ctx context.Context, args Command, logger zerolog.Logger) error {
	flags := args.Build
	if flags.DryRun {
		logger = logger.With().Bool("dryrun", true).Logger()
	}
	if flags.Project != "" && (flags.Database == "" || flags.User == "") {
		return errors.New("a project requires --database and --user")
	}

	var db *database.Database
	if flags.Database != "" {
		var err error
		db, err = openDatabase(flags.Database, logger, flags.DryRun)
		if err != nil {
			return err
		}
	}

	var (
		s   settings.PackageSettings
		err error
	)
	if flags.Project != "" {
		s, err = projectSettings(ctx, db, flags.User, flags.Project)
	} else {
		s, err = inputSettings(flags.InputFlags, logger)
	}
	if err != nil {
		return err
	}
	s, err = applyCompressionOverride(s, flags.Compression)
	if err != nil {
		return err
	}

	inputs, err := parseInputs(flags.File, flags.Custom)
	if err != nil {
		return err
	}

	var store *storage.PackageStore
	if flags.Upload {
		store, err = storage.NewPackageStoreFromEnv(ctx, logger)
		if err != nil {
			return err
		}
		if store == nil {
			return storage.ErrNotConfigured
		}
	}

	outcome, err := packagejob.Build(
		ctx,
		packagejob.Params{
			TablePath: flags.Table,
			TableName: flags.Name,
			Inputs:    inputs,
			Settings:  s,
			OutputDir: flags.Output,
			DB:        db,
			Store:     store,
			Logger:    logger,
		},
		packagejob.WithDryRun(flags.DryRun),
		packagejob.WithOverwrite(flags.Overwrite),
		packagejob.WithMaxSize(flags.MaxSize.Size),
		packagejob.WithStorePatterns(flags.Store),
		packagejob.WithProgress(progressLogger(logger)),
	)
	if err != nil {
		return err
	}

	for _, skipped := range outcome.Skipped {
		logger.Info().Str("file", skipped.Name).Str("category", string(skipped.Category)).Msg("left out of package")
	}
	if outcome.URL != "" {
		logger.Info().Str("url", outcome.URL).Msg("package available")
	}
	return nil
}

func projectSettings(ctx context.Context, db *database.Database, userID string, projectID string) (settings.PackageSettings, error) {
	project, err := db.GetProject(ctx, userID, projectID)
	if err != nil {
		return settings.PackageSettings{}, err
	}
	s, err := project.PackageSettings()
	if err != nil {
		return settings.PackageSettings{}, fmt.Errorf("project %s has invalid settings: %w", project.ID, err)
	}
	return s, nil
}

func inputSettings(flags InputFlags, logger zerolog.Logger) (settings.PackageSettings, error) {
	registry, err := newRegistry(flags.TemplateDir, logger)
	if err != nil {
		return settings.PackageSettings{}, err
	}
	return packagejob.ResolveSettings(registry, flags.Settings, flags.Template)
}

func applyCompressionOverride(s settings.PackageSettings, level string) (settings.PackageSettings, error) {
	switch l := settings.CompressionLevel(level); l {
	case "":
	case settings.CompressionNone, settings.CompressionFast, settings.CompressionNormal, settings.CompressionMaximum:
		s.CompressionLevel = l
	default:
		return s, fmt.Errorf("unknown compression level %q", level)
	}
	return s, nil
}

// tableNameMarker at the end of a custom file argument renames the file after the table.
const tableNameMarker = ":table"

// parseInputs reads CATEGORY=PATH and LOCATION=PATH[:table] arguments.
func parseInputs(files []string, custom []string) ([]packagejob.Input, error) {
	inputs := make([]packagejob.Input, 0, len(files)+len(custom))
	for _, arg := range files {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid file %q, expected CATEGORY=PATH", arg)
		}
		category, err := settings.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if category == settings.CategoryCustom {
			return nil, fmt.Errorf("invalid file %q, custom files are added with --custom", arg)
		}
		inputs = append(inputs, packagejob.Input{Category: category, Path: path})
	}
	for _, arg := range custom {
		location, path, ok := strings.Cut(arg, "=")
		path, useTableName := strings.CutSuffix(path, tableNameMarker)
		if !ok || location == "" || path == "" {
			return nil, fmt.Errorf("invalid custom file %q, expected LOCATION=PATH[%s]", arg, tableNameMarker)
		}
		inputs = append(inputs, packagejob.Input{
			Category:     settings.CategoryCustom,
			Path:         path,
			Location:     location,
			UseTableName: useTableName,
		})
	}
	return inputs, nil
}

// progressLogger logs build progress at most once per second, and always logs completion.
func progressLogger(logger zerolog.Logger) func(percent float64) {
	sampled := logger.Sample(&zerolog.BurstSampler{
		Burst:  1,
		Period: time.Second,
	})
	return func(percent float64) {
		if percent >= 100 {
			logger.Info().Float64("percent", percent).Msg("package progress")
			return
		}
		sampled.Info().Float64("percent", percent).Msg("package progress")
	}
}
