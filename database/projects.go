package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

// PackageSettings decodes the settings stored with the project.
func (p *Project) PackageSettings() (settings.PackageSettings, error) {
	return settings.ImportJSON(bytes.NewReader(p.Settings))
}

func (p *Project) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", p.ID)
	e.Str("user", p.UserID)
	e.Str("name", p.Name)
	e.Str("game_type", p.GameType)
}

// ProjectUpdate holds the fields to change. Nil fields are kept.
type ProjectUpdate struct {
	Name     *string
	GameType *pathbuilder.GameType
	Settings *settings.PackageSettings
}

func (d *Database) CreateProject(
	ctx context.Context,
	userID string,
	name string,
	gameType pathbuilder.GameType,
	s settings.PackageSettings,
) (*Project, error) {
	doc, err := settings.MarshalExport(s)
	if err != nil {
		return nil, err
	}

	project := &Project{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     name,
		GameType: string(gameType),
		Settings: datatypes.JSON(doc),
	}

	d.Lock.Lock()
	defer d.Lock.Unlock()

	d.Logger.Debug().Object("project", project).Msg("create project")
	if err := d.Cli.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("could not create project: %w", err)
	}
	return project, nil
}

func (d *Database) GetProject(ctx context.Context, userID string, id string) (*Project, error) {
	d.Lock.Lock()
	defer d.Lock.Unlock()

	return d.getProject(d.Cli.WithContext(ctx), userID, id)
}

func (d *Database) getProject(tx *gorm.DB, userID string, id string) (*Project, error) {
	project := &Project{}
	err := tx.Where("id = ? AND user_id = ?", id, userID).First(project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns the projects of a user, most recently updated first.
func (d *Database) ListProjects(ctx context.Context, userID string) iter.Seq[Project] {
	return func(yield func(Project) bool) {
		offset := 0
		for {
			projects := []Project{}

			d.Lock.Lock()
			err := d.Cli.WithContext(ctx).
				Where("user_id = ?", userID).
				Order("updated_at DESC").
				Limit(iterateBatchSize).
				Offset(offset).
				Find(&projects).Error
			d.Lock.Unlock()

			if err != nil {
				d.Logger.Error().Err(err).Msg("error fetching projects from database")
				return
			}
			for _, p := range projects {
				if ctx.Err() != nil {
					return
				}
				if !yield(p) {
					return
				}
			}
			if len(projects) < iterateBatchSize {
				return
			}
			offset += iterateBatchSize
		}
	}
}

func (d *Database) UpdateProject(ctx context.Context, userID string, id string, update ProjectUpdate) (*Project, error) {
	d.Lock.Lock()
	defer d.Lock.Unlock()

	var project *Project
	err := d.Cli.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = d.getProject(tx, userID, id)
		if err != nil {
			return err
		}

		if update.Name != nil {
			project.Name = *update.Name
		}
		if update.GameType != nil {
			project.GameType = string(*update.GameType)
		}
		if update.Settings != nil {
			doc, err := settings.MarshalExport(*update.Settings)
			if err != nil {
				return err
			}
			project.Settings = datatypes.JSON(doc)
		}

		d.Logger.Debug().Object("project", project).Msg("update project")
		return tx.Save(project).Error
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (d *Database) DeleteProject(ctx context.Context, userID string, id string) error {
	d.Lock.Lock()
	defer d.Lock.Unlock()

	res := d.Cli.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Project{})
	if res.Error != nil {
		return fmt.Errorf("could not delete project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	d.Logger.Info().Str("id", id).Msg("project deleted")
	return nil
}
