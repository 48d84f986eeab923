package ziparchiver

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/woozymasta/pathrules"

	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/fileutils"
	"github.com/stupid-simple/pinpack/layout"
	"github.com/stupid-simple/pinpack/media"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
	"github.com/stupid-simple/pinpack/ziparchiver/zipwriter"
)

var ErrMissingTableFile = errors.New("missing table file")

// Generate writes the package of table and files into out.
//
// The table file comes first, followed by files in the given order. Files whose
// location resolves to nothing are left out. A failing image or video step is
// logged and the original file is written instead.
func Generate(
	ctx context.Context,
	table *asset.TableFile,
	files []asset.AdditionalFile,
	s settings.PackageSettings,
	out io.Writer,
	logger zerolog.Logger,
	opts ...GenerateOption,
) (*Result, error) {
	if table == nil {
		return nil, ErrMissingTableFile
	}
	o := newGenerateOptions(s, opts)

	var zipFile *zipwriter.ZipFile
	if o.dryRun {
		zipFile = zipwriter.NewNullZipFile(zipOptions(table, s)...)
	} else {
		zipFile = zipwriter.NewZipWriter(out, zipOptions(table, s)...)
	}

	return generate(ctx, table, files, s, zipFile, logger, o)
}

// GenerateToDir writes the package into dir, named after the table.
// Nothing is left behind in dir when generation fails.
func GenerateToDir(
	ctx context.Context,
	dir string,
	table *asset.TableFile,
	files []asset.AdditionalFile,
	s settings.PackageSettings,
	logger zerolog.Logger,
	opts ...GenerateOption,
) (*Result, error) {
	if table == nil {
		return nil, ErrMissingTableFile
	}
	o := newGenerateOptions(s, opts)

	path := filepath.Join(dir, pathbuilder.PackageFileName(table.Name))
	var zipFile *zipwriter.ZipFile
	if o.dryRun {
		zipFile = zipwriter.NewNullZipFile(zipOptions(table, s)...)
	} else {
		zipFile = zipwriter.NewLazyZipFile(path, append(zipOptions(table, s), zipwriter.WithOverwrite(o.overwrite))...)
	}

	result, err := generate(ctx, table, files, s, zipFile, logger, o)
	if err != nil {
		if delErr := zipFile.Delete(); delErr != nil {
			logger.Warn().Err(delErr).Str("path", path).Msg("could not remove incomplete package")
		}
		return nil, err
	}
	return result, nil
}

func zipOptions(table *asset.TableFile, s settings.PackageSettings) []zipwriter.Option {
	return []zipwriter.Option{
		zipwriter.WithDeflateLevel(s.CompressionLevel.DeflateLevel()),
		zipwriter.WithComment(fmt.Sprintf("%s (%s)", table.Name, table.Type.DisplayName())),
	}
}

type plannedEntry struct {
	placement layout.Placement
	source    asset.Asset
	category  settings.Category
	table     bool
}

func generate(
	ctx context.Context,
	table *asset.TableFile,
	files []asset.AdditionalFile,
	s settings.PackageSettings,
	zipFile *zipwriter.ZipFile,
	logger zerolog.Logger,
	o generateOptions,
) (*Result, error) {
	logger = logger.With().Str("table", table.Name).Logger()
	if zipFile.Path() != "" {
		logger = logger.With().Str("package", zipFile.Path()).Logger()
	}

	startTime := time.Now()
	logger.Info().Int("files", len(files)).Str("compression", string(s.CompressionLevel)).Msg("generating package")

	var storeMatcher *pathrules.Matcher
	if len(o.storeRules) > 0 {
		var err error
		storeMatcher, err = pathrules.NewMatcher(o.storeRules, pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		})
		if err != nil {
			return nil, fmt.Errorf("invalid store rules: %w", err)
		}
	}

	plan, skipped, err := planEntries(ctx, table, files, s, logger, o)
	if err != nil {
		logger.Info().Float64("seconds", time.Since(startTime).Seconds()).Msg("cancelled package generation")
		return nil, err
	}

	if err := zipFile.Open(); err != nil {
		return nil, fmt.Errorf("could not open package: %w", err)
	}
	defer func() {
		if err := zipFile.Close(); err != nil {
			logger.Warn().Err(err).Msg("could not close package")
		}
	}()

	result := &Result{
		TableName: table.Name,
		GameType:  table.Type,
		Skipped:   skipped,
	}
	if !o.dryRun {
		result.Path = zipFile.Path()
	}

	var total int64
	for _, p := range plan {
		total += p.source.Size()
	}
	progress := newProgressTracker(total, o.onProgress)

	headers := make([]*zip.FileHeader, 0, len(plan))
	for _, p := range plan {
		if ctx.Err() != nil {
			logger.Info().
				Int("written", len(result.Entries)).
				Float64("seconds", time.Since(startTime).Seconds()).
				Msg("cancelled package generation")
			return nil, ctx.Err()
		}

		header := &zip.FileHeader{
			Name:     p.placement.Path,
			Modified: p.source.ModTime(),
			Method:   zip.Deflate,
		}
		if header.Modified.IsZero() {
			header.Modified = startTime
		}
		if s.CompressionLevel.Store() || (storeMatcher != nil && storeMatcher.Included(p.placement.Path, false)) {
			header.Method = zip.Store
		}
		header.SetMode(0o644)

		w, err := zipFile.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("could not add %s to package: %w", p.placement.Path, err)
		}
		entry, err := writeEntry(p, w, progress, logger)
		if err != nil {
			return nil, fmt.Errorf("could not write %s: %w", p.placement.Path, err)
		}
		entry.Method = header.Method
		entry.ModTime = header.Modified

		headers = append(headers, header)
		result.Entries = append(result.Entries, entry)
	}

	if err := zipFile.Close(); err != nil {
		return nil, fmt.Errorf("could not finish package: %w", err)
	}
	// Sizes are known once the writer has flushed each entry.
	for i, header := range headers {
		result.Entries[i].CompressedSize = int64(header.CompressedSize64)
	}
	progress.finish()

	if o.registerPackage != nil && !o.dryRun {
		if err := o.registerPackage.RegisterPackage(ctx, result); err != nil {
			logger.Error().Err(err).Msg("could not register package")
		}
	}

	logger.Info().
		Object("result", result).
		Float64("seconds", time.Since(startTime).Seconds()).
		Msg("done generating package")
	return result, nil
}

// planEntries resolves the placement of every input and runs media processing.
func planEntries(
	ctx context.Context,
	table *asset.TableFile,
	files []asset.AdditionalFile,
	s settings.PackageSettings,
	logger zerolog.Logger,
	o generateOptions,
) ([]plannedEntry, []SkippedFile, error) {
	plan := make([]plannedEntry, 0, len(files)+1)
	var skipped []SkippedFile

	// A later input resolving to an already planned path takes over its slot.
	planned := make(map[string]int, len(files)+1)
	add := func(e plannedEntry) {
		i, ok := planned[e.placement.Path]
		if !ok {
			planned[e.placement.Path] = len(plan)
			plan = append(plan, e)
			return
		}
		logger.Warn().
			Str("path", e.placement.Path).
			Str("replaced", plan[i].source.Name()).
			Str("file", e.source.Name()).
			Msg("two inputs resolve to the same entry path, keeping the later one")
		plan[i] = e
	}

	if placement, ok := layout.Table(table, s); ok {
		add(plannedEntry{
			placement: placement,
			source:    table.Asset,
			table:     true,
		})
	} else {
		logger.Info().Bool("include_table_file", s.IncludeTableFile).Msg("table file left out of package")
		skipped = append(skipped, SkippedFile{Name: table.Asset.Name(), Table: true})
	}

	for _, f := range files {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		placement, ok := layout.File(f, table, s)
		if !ok {
			logger.Debug().Object("file", f).Msg("no location for file, skipping")
			skipped = append(skipped, SkippedFile{Name: f.OriginalName, Category: f.Category})
			continue
		}

		source := f.Asset
		if processor := o.processorFor(f.Category); processor != nil {
			processed, err := processor.Process(ctx, f.Asset)
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			if err != nil {
				logger.Warn().Err(err).Object("file", f).Msg("could not process file, using it as it is")
			}
			if processed != nil {
				source = processed
			}
		}

		add(plannedEntry{
			placement: placement,
			source:    source,
			category:  f.Category,
		})
	}

	return plan, skipped, nil
}

func (o generateOptions) processorFor(c settings.Category) media.Processor {
	switch {
	case c.IsImage():
		return o.imageProcessor
	case c.IsVideo():
		return o.videoProcessor
	default:
		return nil
	}
}

func writeEntry(p plannedEntry, w io.Writer, progress *progressTracker, logger zerolog.Logger) (Entry, error) {
	reader, err := p.source.Open()
	if err != nil {
		return Entry{}, err
	}
	startTime := time.Now()
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close input file")
		}
	}()

	size, hash, err := fileutils.CopyHashed(progress.writer(w), reader)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Path:     p.placement.Path,
		Source:   p.source.Name(),
		Category: p.category,
		Table:    p.table,
		Size:     size,
		Hash:     hash,
	}
	logger.Debug().Object("entry", entry).Float64("seconds", time.Since(startTime).Seconds()).Msg("added entry")
	return entry, nil
}
