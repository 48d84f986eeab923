package config

import (
	"encoding/json"
	"errors"
	"os"
)

func LoadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	var errs []error
	for _, job := range cfg.Jobs {
		errs = append(errs, job.Validate())
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
