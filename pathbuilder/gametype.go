package pathbuilder

import "strings"

type GameType string

const (
	GameTypeVPX GameType = "vpx"
	GameTypeFP  GameType = "fp"
)

const (
	visualPinballX = "Visual Pinball X"
	futurePinball  = "Future Pinball"
)

// DisplayName returns the name used for the game type inside location templates.
func (g GameType) DisplayName() string {
	if g == GameTypeVPX {
		return visualPinballX
	}
	return futurePinball
}

// GameTypeFromFileName classifies a table file by its extension.
func GameTypeFromFileName(name string) (GameType, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".vpx"):
		return GameTypeVPX, true
	case strings.HasSuffix(lower, ".fp"):
		return GameTypeFP, true
	default:
		return "", false
	}
}
