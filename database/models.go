package database

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a saved settings snapshot owned by a user.
// Settings holds the document written by settings.ExportJSON.
type Project struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Name      string
	GameType  string
	Settings  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Package is a generated package file.
type Package struct {
	Path      string `gorm:"primaryKey"`
	TableName string `gorm:"index"`
	GameType  string
	CreatedAt time.Time
}

type PackageEntry struct {
	PackagePath    string  `gorm:"primaryKey"`
	Path           string  `gorm:"primaryKey"`
	Package        Package `gorm:"foreignKey:PackagePath"`
	Source         string
	Category       string
	Hash           int64
	Size           int64
	CompressedSize int64
	ModTime        time.Time
	CreatedAt      time.Time
}

// Models lists every model to migrate.
func Models() []any {
	return []any{&Project{}, &Package{}, &PackageEntry{}}
}
