package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/database"
	"github.com/stupid-simple/pinpack/fileutils"
)

func packagesListCommand(ctx context.Context, args Command, out io.Writer, logger zerolog.Logger) error {
	flags := args.Packages.List
	db, err := openDatabase(flags.Database, logger, false)
	if err != nil {
		return err
	}

	findOpts := []database.FindPackagesOptions{}
	if flags.Table != "" {
		findOpts = append(findOpts, database.WithFindPackagesTableName(flags.Table))
	}
	if flags.BySize {
		findOpts = append(findOpts, database.WithFindPackagesOrderBy(database.FindPackagesOrderBySize))
	}
	if flags.Limit > 0 {
		findOpts = append(findOpts, database.WithFindPackagesLimit(flags.Limit))
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tTABLE\tTYPE\tFILES\tSIZE\tPACKED\tCREATED")
	for p := range db.FindPackages(ctx, findOpts...) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.Path,
			p.TableName,
			p.GameType,
			p.EntryCount,
			units.HumanSize(float64(p.Size)),
			units.HumanSize(float64(p.CompressedSize)),
			p.CreatedAt.Local().Format(time.DateTime),
		)
	}
	return w.Flush()
}

func packagesCleanCommand(ctx context.Context, args Command, logger zerolog.Logger) error {
	flags := args.Packages.Clean
	if flags.Keep < 0 {
		return fmt.Errorf("keep must not be negative")
	}
	if flags.DryRun {
		logger = logger.With().Bool("dryrun", true).Logger()
	}

	startTime := time.Now()
	logger.Info().Msg("starting cleaning old package files")
	defer func() {
		tookSeconds := time.Since(startTime).Seconds()
		if ctx.Err() != nil {
			logger.Info().Float64("seconds", tookSeconds).Msg("cleaning cancelled")
		} else {
			logger.Info().Float64("seconds", tookSeconds).Msg("cleaning done")
		}
	}()

	db, err := openDatabase(flags.Database, logger, flags.DryRun)
	if err != nil {
		return err
	}

	return cleanPackages(ctx, cleanParams{
		tableName: flags.Table,
		keep:      flags.Keep,
		dryRun:    flags.DryRun,
		db:        db,
		logger:    logger,
	})
}

type cleanParams struct {
	tableName string
	keep      int
	dryRun    bool
	db        *database.Database
	logger    zerolog.Logger
}

// cleanPackages forgets packages whose file is gone, then deletes all but the
// newest p.keep packages of each table.
func cleanPackages(ctx context.Context, p cleanParams) error {
	findOpts := []database.FindPackagesOptions{}
	if p.tableName != "" {
		findOpts = append(findOpts, database.WithFindPackagesTableName(p.tableName))
	}

	missing := []string{}
	byTable := map[string][]database.PackageSummary{}
	for pkg := range p.db.FindPackages(ctx, findOpts...) {
		if !fileutils.Exists(pkg.Path) {
			p.logger.Info().Str("path", pkg.Path).Msg("package file is gone")
			missing = append(missing, pkg.Path)
			continue
		}
		byTable[pkg.TableName] = append(byTable[pkg.TableName], pkg)
	}
	if ctx.Err() != nil {
		return nil
	}

	if err := p.db.ForgetPackages(ctx, missing); err != nil {
		return fmt.Errorf("error forgetting missing packages: %w", err)
	}

	// Packages are listed oldest first.
	outdated := []database.PackageSummary{}
	for _, packages := range byTable {
		if len(packages) > p.keep {
			outdated = append(outdated, packages[:len(packages)-p.keep]...)
		}
	}
	if len(outdated) == 0 {
		p.logger.Info().Msg("no old packages found")
		return nil
	}

	paths := make([]string, 0, len(outdated))
	for _, pkg := range outdated {
		p.logger.Info().
			Str("path", pkg.Path).
			Str("table", pkg.TableName).
			Int64("files_size", pkg.Size).
			Int("files_count", pkg.EntryCount).
			Msg("found old package")
		paths = append(paths, pkg.Path)
	}

	if err := p.db.ForgetPackages(ctx, paths); err != nil {
		return fmt.Errorf("error deleting old packages from registry: %w", err)
	}
	if p.dryRun {
		return nil
	}

	totalSizeFreed := int64(0)
	filesDeleted := 0
	for _, path := range paths {
		stat, err := os.Stat(path)
		if err != nil {
			p.logger.Error().Err(err).Str("path", path).Msg("failed to stat old package file")
			continue
		}

		if err := os.Remove(path); err != nil {
			p.logger.Error().Err(err).Str("path", path).
				Int64("size", stat.Size()).
				Msg("failed to delete old package file")
		} else {
			p.logger.Info().Str("path", path).Int64("size", stat.Size()).Msg("deleted old package file")
			totalSizeFreed += stat.Size()
			filesDeleted++
		}
	}

	if totalSizeFreed > 0 {
		p.logger.Info().
			Int("files_deleted", filesDeleted).
			Int64("total_freed", totalSizeFreed).
			Msg("deleted old package files")
	}
	return nil
}
