// Package packagejob loads the files of a package from disk, builds it and
// optionally records and publishes it.
package packagejob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/database"
	"github.com/stupid-simple/pinpack/fileutils"
	"github.com/stupid-simple/pinpack/settings"
	"github.com/stupid-simple/pinpack/storage"
	"github.com/stupid-simple/pinpack/ziparchiver"
)

// Input is an additional file read from disk.
type Input struct {
	Category settings.Category
	Path     string

	// Only used by the custom category.
	Location     string
	UseTableName bool
}

func (i Input) MarshalZerologObject(e *zerolog.Event) {
	e.Str("category", string(i.Category))
	e.Str("path", i.Path)
	if i.Location != "" {
		e.Str("location", i.Location)
	}
}

type Params struct {
	TablePath string
	TableName string // Replaces the name derived from the table file when set.
	Inputs    []Input
	Settings  settings.PackageSettings
	OutputDir string
	DB        *database.Database   // Can be nil.
	Store     *storage.PackageStore // Can be nil.
	Logger    zerolog.Logger
}

// Outcome is a built package and, when published, its URL.
type Outcome struct {
	*ziparchiver.Result
	URL string
}

// Build loads the table and input files, then writes the package into the output directory.
func Build(ctx context.Context, params Params, opts ...Option) (*Outcome, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := params.Logger.With().Str("table", params.TablePath).Str("dest", params.OutputDir).Logger()
	startTime := time.Now()
	logger.Info().Msg("starting package build")
	defer func() {
		tookSeconds := time.Since(startTime).Seconds()
		if ctx.Err() != nil {
			logger.Info().Float64("seconds", tookSeconds).Msg("package build cancelled")
		} else {
			logger.Info().Float64("seconds", tookSeconds).Msg("package build done")
		}
	}()

	if !o.dryRun {
		if err := fileutils.EnsureOutputDir(params.OutputDir); err != nil {
			return nil, err
		}
	}

	ws, err := LoadWorkingSet(params, o.maxSize, logger)
	if err != nil {
		return nil, err
	}

	generateOpts := []ziparchiver.GenerateOption{
		ziparchiver.WithDryRun(o.dryRun),
		ziparchiver.WithOverwrite(o.overwrite),
		ziparchiver.WithStoreRules(ziparchiver.StoreRules(o.storePatterns...)),
	}
	if o.onProgress != nil {
		generateOpts = append(generateOpts, ziparchiver.WithProgress(o.onProgress))
	}
	if params.DB != nil {
		generateOpts = append(generateOpts, ziparchiver.WithRegisterPackage(params.DB))
	}

	result, err := ziparchiver.GenerateToDir(ctx, params.OutputDir, ws.Table(), ws.Files(), params.Settings, logger, generateOpts...)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Result: result}
	if params.Store != nil && !o.dryRun {
		outcome.URL, err = params.Store.Upload(ctx, result.Path, string(result.GameType))
		if err != nil {
			return outcome, fmt.Errorf("package written but not published: %w", err)
		}
		logger.Info().Str("url", outcome.URL).Msg("package published")
	}

	return outcome, nil
}

// LoadWorkingSet opens the table and input files of params.
// Inputs that cannot be used are reported together.
func LoadWorkingSet(params Params, maxSize int64, logger zerolog.Logger) (*asset.WorkingSet, error) {
	ws := asset.NewWorkingSet(asset.WithMaxSize(maxSize))

	tableAsset, err := asset.Open(params.TablePath)
	if err != nil {
		return nil, fmt.Errorf("could not open table file: %w", err)
	}
	table, err := ws.SetTable(tableAsset)
	if err != nil {
		return nil, err
	}
	if params.TableName != "" {
		table.Name = params.TableName
	}
	logger.Debug().Object("table", table).Msg("loaded table file")

	var errs []error
	for _, in := range params.Inputs {
		a, err := asset.Open(in.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("could not open %s: %w", in.Path, err))
			continue
		}
		if err := asset.CheckCategory(a.Name(), in.Category); err != nil {
			// Accepted extensions only guide uploads, the file is still packaged.
			logger.Warn().Err(err).Object("input", in).Msg("unexpected file type")
		}

		var f asset.AdditionalFile
		if in.Category == settings.CategoryCustom {
			f, err = ws.AddCustom(a, in.Location, in.UseTableName)
		} else {
			f, err = ws.Add(a, in.Category)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("could not add %s: %w", in.Path, err))
			continue
		}
		logger.Debug().Object("file", f).Msg("loaded file")
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return ws, nil
}
