package asset

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/stupid-simple/pinpack/pathbuilder"
)

var tableExt = regexp.MustCompile(`(?i)\.(vpx|fp)$`)

// TableFile is the game table being packaged.
type TableFile struct {
	Asset Asset
	// Name is the display name. It defaults to the file name without its extension
	// and may be changed until the package is generated.
	Name string
	Type pathbuilder.GameType
}

// NewTableFile classifies a table file by its extension.
func NewTableFile(a Asset) (*TableFile, error) {
	gameType, ok := pathbuilder.GameTypeFromFileName(a.Name())
	if !ok {
		return nil, fmt.Errorf("%w: %s, expected .vpx or .fp", ErrUnsupportedTableType, a.Name())
	}
	return &TableFile{
		Asset: a,
		Name:  tableExt.ReplaceAllString(a.Name(), ""),
		Type:  gameType,
	}, nil
}

func (t *TableFile) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", t.Name)
	e.Str("type", string(t.Type))
	e.Object("file", t.Asset)
}
