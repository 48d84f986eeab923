package packagejob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/config"
	"github.com/stupid-simple/pinpack/settings"
)

// ResolveSettings picks the settings of a build: the settings file when set,
// then the template, then the defaults.
func ResolveSettings(registry *settings.Registry, settingsFile string, template string) (settings.PackageSettings, error) {
	if settingsFile != "" && template != "" {
		return settings.PackageSettings{}, errors.New("a settings file and a template cannot be used together")
	}
	if settingsFile != "" {
		s, err := settings.LoadFile(settingsFile)
		if err != nil {
			return settings.PackageSettings{}, fmt.Errorf("could not load settings file %s: %w", settingsFile, err)
		}
		return s, nil
	}
	if template != "" {
		s, ok := registry.Get(template)
		if !ok {
			return settings.PackageSettings{}, fmt.Errorf("%w: %s", settings.ErrTemplateNotFound, template)
		}
		return s, nil
	}
	return settings.Defaults(), nil
}

// RegisterTemplateDir adds every .json document in dir to registry, named
// after the file. Invalid documents are logged and left out.
func RegisterTemplateDir(registry *settings.Registry, dir string, logger zerolog.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		if err := registerTemplateFile(registry, id, path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping template")
			continue
		}
		logger.Debug().Str("template", id).Str("path", path).Msg("registered template")
		registered++
	}
	return registered, nil
}

func registerTemplateFile(registry *settings.Registry, id string, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return registry.Register(id, f)
}

// InputsFromConfig converts the files of a configured job.
func InputsFromConfig(files []config.JobFile) ([]Input, error) {
	inputs := make([]Input, 0, len(files))
	for _, f := range files {
		category, err := settings.ParseCategory(f.Category)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{
			Category:     category,
			Path:         f.Path,
			Location:     f.Location,
			UseTableName: f.UseTableName,
		})
	}
	return inputs, nil
}
