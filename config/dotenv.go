package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env.local then .env from dir.
// Variables already set in the environment are never replaced, and .env.local
// wins over .env. Returns the files that were loaded.
func LoadDotEnv(dir string) ([]string, error) {
	var loaded []string
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	if len(loaded) == 0 {
		return nil, nil
	}
	if err := godotenv.Load(loaded...); err != nil {
		return nil, err
	}
	return loaded, nil
}
