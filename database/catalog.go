package database

import (
	"context"
	"fmt"
	"iter"
	"time"

	"gorm.io/gorm"

	"github.com/stupid-simple/pinpack/ziparchiver"
)

// PackageSummary is a catalogued package with totals over its entries.
type PackageSummary struct {
	Path           string
	TableName      string
	GameType       string
	CreatedAt      time.Time
	Size           int64
	CompressedSize int64
	EntryCount     int
}

// RegisterPackage records a generated package and its entries.
// A package registered again under the same path replaces the previous record.
func (d *Database) RegisterPackage(ctx context.Context, pkg *ziparchiver.Result) error {
	logger := d.Logger.With().Str("package", pkg.Path).Logger()
	logger.Info().Int("entries", len(pkg.Entries)).Msg("register package")

	if d.DryRun {
		logger.Info().Msg("dry run, package not recorded")
		return nil
	}

	d.Lock.Lock()
	defer d.Lock.Unlock()

	err := d.Cli.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("package_path = ?", pkg.Path).Delete(&PackageEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous entries: %w", err)
		}
		if err := tx.Where("path = ?", pkg.Path).Delete(&Package{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous package: %w", err)
		}

		record := &Package{
			Path:      pkg.Path,
			TableName: pkg.TableName,
			GameType:  string(pkg.GameType),
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		for _, e := range pkg.Entries {
			if err := tx.Create(&PackageEntry{
				PackagePath:    record.Path,
				Path:           e.Path,
				Source:         e.Source,
				Category:       string(e.Category),
				Hash:           int64(e.Hash),
				Size:           e.Size,
				CompressedSize: e.CompressedSize,
				ModTime:        e.ModTime,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug().Msg("done registering package")
	return nil
}

func (d *Database) FindPackages(ctx context.Context, opts ...FindPackagesOptions) iter.Seq[PackageSummary] {
	o := findPackagesOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(PackageSummary) bool) {
		offset := 0
		remaining := o.limit
		for {
			var thisBatchSize int
			if remaining > 0 {
				thisBatchSize = min(remaining, iterateBatchSize)
			} else {
				thisBatchSize = iterateBatchSize
			}

			query := d.Cli.WithContext(ctx).Table("package").
				Select("package.path, package.table_name, package.game_type, package.created_at, " +
					"COALESCE(SUM(package_entry.size), 0) AS size, " +
					"COALESCE(SUM(package_entry.compressed_size), 0) AS compressed_size, " +
					"COUNT(package_entry.path) AS entry_count").
				Joins("LEFT JOIN package_entry ON package.path = package_entry.package_path").
				Group("package.path, package.table_name, package.game_type, package.created_at")

			if o.tableName != "" {
				query = query.Where("package.table_name = ?", o.tableName)
			}

			if o.order != nil && *o.order == FindPackagesOrderBySize {
				query = query.Order("size")
			} else {
				query = query.Order("package.created_at")
			}

			query = query.Limit(thisBatchSize).Offset(offset)

			var packages []PackageSummary
			d.Lock.Lock()
			err := query.Find(&packages).Error
			d.Lock.Unlock()

			if err != nil {
				d.Logger.Error().Err(err).Msg("error fetching packages from database")
				return
			}
			for _, p := range packages {
				if ctx.Err() != nil {
					return
				}
				if !yield(p) {
					return
				}
			}
			if len(packages) < thisBatchSize {
				return
			}
			if remaining > 0 {
				remaining -= thisBatchSize
				if remaining <= 0 {
					return
				}
			}

			offset += thisBatchSize
		}
	}
}

// FindEntries returns the entries of a package in archive path order.
func (d *Database) FindEntries(ctx context.Context, packagePath string) ([]PackageEntry, error) {
	d.Lock.Lock()
	defer d.Lock.Unlock()

	entries := []PackageEntry{}
	err := d.Cli.WithContext(ctx).
		Where("package_path = ?", packagePath).
		Order("path").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ForgetPackages removes packages and their entries from the catalog.
// Package files are left untouched.
func (d *Database) ForgetPackages(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	d.Lock.Lock()
	defer d.Lock.Unlock()

	if d.DryRun {
		d.Logger.Info().Strs("paths", paths).Msg("dry run, packages not forgotten")
		return nil
	}

	return d.Cli.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("package_path IN ?", paths).Delete(&PackageEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete package entries: %w", err)
		}

		res := tx.Where("path IN ?", paths).Delete(&Package{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete packages: %w", res.Error)
		}

		d.Logger.Info().Int64("count", res.RowsAffected).Msg("packages forgotten")
		return nil
	})
}
