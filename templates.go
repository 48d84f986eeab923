package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/packagejob"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

// newRegistry returns the built-in templates plus the ones found in templateDir.
func newRegistry(templateDir string, logger zerolog.Logger) (*settings.Registry, error) {
	registry := settings.NewRegistry()
	if templateDir == "" {
		return registry, nil
	}
	count, err := packagejob.RegisterTemplateDir(registry, templateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("could not read template directory: %w", err)
	}
	logger.Debug().Str("dir", templateDir).Int("count", count).Msg("loaded templates")
	return registry, nil
}

func templatesCommand(args Command, out io.Writer, logger zerolog.Logger) error {
	registry, err := newRegistry(args.Templates.TemplateDir, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPRESSION\tTABLE LOCATION")
	for _, id := range registry.IDs() {
		s, _ := registry.Get(id)
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, s.CompressionLevel, s.TableFileSettings.Location)
	}
	return w.Flush()
}

func settingsExportCommand(args Command, stdout io.Writer, logger zerolog.Logger) (err error) {
	flags := args.Settings.Export
	registry, err := newRegistry(flags.TemplateDir, logger)
	if err != nil {
		return err
	}
	s, err := packagejob.ResolveSettings(registry, "", flags.Template)
	if err != nil {
		return err
	}

	if flags.Output == "" {
		return settings.ExportJSON(stdout, s)
	}

	f, err := os.Create(flags.Output)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := settings.ExportJSON(f, s); err != nil {
		return err
	}
	logger.Info().Str("path", flags.Output).Msg("settings exported")
	return nil
}

// settingsCheckCommand prints where each category lands for every game type.
func settingsCheckCommand(args Command, out io.Writer) error {
	s, err := settings.LoadFile(args.Settings.Check.File)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "compression\t%s\n", s.CompressionLevel)
	fmt.Fprintf(w, "include table file\t%t\n", s.IncludeTableFile)
	fmt.Fprintf(w, "convert images\t%t\n", s.ConvertImages)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "FILE\tTABLE NAME\tVISUAL PINBALL X\tFUTURE PINBALL")
	printRule := func(name string, rule settings.FileLocationSettings) {
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\n",
			name,
			rule.UseTableName,
			describeLocation(rule.Location, pathbuilder.GameTypeVPX),
			describeLocation(rule.Location, pathbuilder.GameTypeFP),
		)
	}
	printRule("table", s.TableFileSettings)
	for _, c := range settings.Categories() {
		printRule(string(c), s.Rule(c))
	}
	return w.Flush()
}

func describeLocation(template string, gameType pathbuilder.GameType) string {
	location := pathbuilder.ResolveLocation(template, gameType)
	if location == "" {
		return "(skipped)"
	}
	return location
}
