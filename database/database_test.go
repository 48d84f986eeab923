package database_test

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/stupid-simple/pinpack/database"
)

// Helper to set up an in-memory SQLite database
func setupTestDB(t *testing.T) *database.Database {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	// Perform database migrations
	err = gormDB.AutoMigrate(database.Models()...)
	require.NoError(t, err)

	return &database.Database{
		Lock:   sync.Mutex{},
		Cli:    gormDB,
		Logger: zerolog.Nop(),
		DryRun: false,
	}
}
