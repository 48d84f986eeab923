package pathbuilder

import (
	"regexp"
	"strings"
)

var driveLetter = regexp.MustCompile(`^[A-Za-z]:$`)

// ResolveLocation turns a location template into a slash separated directory for gameType.
//
// Any game type name found in the template is replaced with the name of gameType, so a
// template written for one game type also serves the other. An empty template resolves
// to an empty path, meaning the file is left out of the package.
func ResolveLocation(template string, gameType GameType) string {
	if template == "" {
		return ""
	}
	name := gameType.DisplayName()
	location := strings.NewReplacer(visualPinballX, name, futurePinball, name).Replace(template)
	return strings.ReplaceAll(location, `\`, "/")
}

// SplitLocation returns the portable directory segments of a resolved location.
// Empty, "." and ".." segments and a leading drive letter are dropped.
func SplitLocation(location string) []string {
	raw := strings.Split(strings.ReplaceAll(location, `\`, "/"), "/")
	segments := make([]string, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		if i == 0 && driveLetter.MatchString(s) {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

// EntryPath joins a resolved location and a filename into an archive entry path.
func EntryPath(location string, fileName string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(fileName)
	if name == "" || name == "." || name == ".." {
		name = "_"
	}
	segments := append(SplitLocation(location), name)
	return strings.Join(segments, "/")
}
