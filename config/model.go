package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/settings"
)

type Config struct {
	Jobs []PackageJob `json:"jobs,omitempty"`
}

// PackageJob describes a package rebuilt by the daemon.
type PackageJob struct {
	Name         string       `json:"name,omitempty"`
	TablePath    string       `json:"table"`
	TableName    string       `json:"table_name,omitempty"`
	Files        []JobFile    `json:"files,omitempty"`
	Template     string       `json:"template,omitempty"`
	SettingsFile string       `json:"settings_file,omitempty"`
	OutputDir    string       `json:"output_dir"`
	Store        []string     `json:"store,omitempty"`
	MaxSize      SizeArgument `json:"max_size,omitempty"`
	Upload       bool         `json:"upload,omitempty"`
	Enable       bool         `json:"enable"`
	Schedule     string       `json:"cron"`
}

// JobFile is one additional file of a job. Location and UseTableName are only
// read for the custom category.
type JobFile struct {
	Category     string `json:"category"`
	Path         string `json:"path"`
	Location     string `json:"location,omitempty"`
	UseTableName bool   `json:"use_table_name,omitempty"`
}

// ID names the job in logs and schedules.
func (j PackageJob) ID() string {
	if j.Name != "" {
		return j.Name
	}
	return j.TablePath
}

// Validate reports every problem of the job at once.
func (j PackageJob) Validate() error {
	var errs []error
	if j.TablePath == "" {
		errs = append(errs, errors.New("table is required"))
	}
	if j.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if j.Template != "" && j.SettingsFile != "" {
		errs = append(errs, errors.New("template and settings_file are exclusive"))
	}
	for i, f := range j.Files {
		if f.Path == "" {
			errs = append(errs, fmt.Errorf("files[%d]: path is required", i))
		}
		if _, err := settings.ParseCategory(f.Category); err != nil {
			errs = append(errs, fmt.Errorf("files[%d]: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("job %s: %w", j.ID(), err)
	}
	return nil
}

func (j PackageJob) MarshalZerologObject(e *zerolog.Event) {
	e.Str("job", j.ID())
	e.Str("table", j.TablePath)
	e.Str("output_dir", j.OutputDir)
	e.Int("files", len(j.Files))
	e.Bool("enable", j.Enable)
	e.Str("schedule", j.Schedule)

	if j.Template != "" {
		e.Str("template", j.Template)
	}
	if j.SettingsFile != "" {
		e.Str("settings_file", j.SettingsFile)
	}
	if j.MaxSize.Size > 0 {
		e.Int64("max_size", j.MaxSize.Size)
	}
	if len(j.Store) > 0 {
		e.Strs("store", j.Store)
	}
}
