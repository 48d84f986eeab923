package database

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const iterateBatchSize = 50

var ErrProjectNotFound = errors.New("project not found")

type Database struct {
	Lock   sync.Mutex
	Cli    *gorm.DB
	Logger zerolog.Logger
	DryRun bool
}
