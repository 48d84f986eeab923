package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/database"
	"github.com/stupid-simple/pinpack/packagejob"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

func projectCreateCommand(ctx context.Context, args Command, out io.Writer, logger zerolog.Logger) error {
	flags := args.Project.Create
	db, err := openDatabase(flags.Database, logger, false)
	if err != nil {
		return err
	}

	registry, err := newRegistry(flags.TemplateDir, logger)
	if err != nil {
		return err
	}
	s, err := packagejob.ResolveSettings(registry, flags.Settings, flags.Template)
	if err != nil {
		return err
	}

	project, err := db.CreateProject(ctx, flags.User, flags.Name, pathbuilder.GameType(flags.GameType), s)
	if err != nil {
		return err
	}
	logger.Info().Object("project", project).Msg("project created")
	_, err = fmt.Fprintln(out, project.ID)
	return err
}

func projectListCommand(ctx context.Context, args Command, out io.Writer, logger zerolog.Logger) error {
	flags := args.Project.List
	db, err := openDatabase(flags.Database, logger, false)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tUPDATED")
	for project := range db.ListProjects(ctx, flags.User) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", project.ID, project.Name, project.GameType, project.UpdatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func projectShowCommand(ctx context.Context, args Command, out io.Writer, logger zerolog.Logger) error {
	flags := args.Project.Show
	db, err := openDatabase(flags.Database, logger, false)
	if err != nil {
		return err
	}

	project, err := db.GetProject(ctx, flags.User, flags.ID)
	if err != nil {
		return err
	}
	s, err := project.PackageSettings()
	if err != nil {
		return fmt.Errorf("project %s has invalid settings: %w", project.ID, err)
	}

	fmt.Fprintf(out, "%s (%s)\n", project.Name, pathbuilder.GameType(project.GameType).DisplayName())
	return settings.ExportJSON(out, s)
}

func projectUpdateCommand(ctx context.Context, args Command, logger zerolog.Logger) error {
	flags := args.Project.Update
	db, err := openDatabase(flags.Database, logger, false)
	if err != nil {
		return err
	}

	update := database.ProjectUpdate{}
	if flags.Name != "" {
		update.Name = &flags.Name
	}
	if flags.GameType != "" {
		gameType := pathbuilder.GameType(flags.GameType)
		if gameType != pathbuilder.GameTypeVPX && gameType != pathbuilder.GameTypeFP {
			return fmt.Errorf("unknown game type %q", flags.GameType)
		}
		update.GameType = &gameType
	}
	if flags.Settings != "" {
		s, err := settings.LoadFile(flags.Settings)
		if err != nil {
			return err
		}
		update.Settings = &s
	}

	project, err := db.UpdateProject(ctx, flags.User, flags.ID, update)
	if err != nil {
		return err
	}
	logger.Info().Object("project", project).Msg("project updated")
	return nil
}

func projectDeleteCommand(ctx context.Context, args Command, logger zerolog.Logger) error {
	flags := args.Project.Delete
	db, err := openDatabase(flags.Database, logger, false)
	if err != nil {
		return err
	}
	return db.DeleteProject(ctx, flags.User, flags.ID)
}
