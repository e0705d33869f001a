package config

import (
	"fmt"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/samber/lo"
)

var (
	mu       sync.Mutex
	instance Config
)

// Load reads the given YAML or .env files in order, then the process environment.
// Later sources override earlier ones and empty paths are skipped. The first successful
// load is reused until Reset.
func Load(configPaths ...string) (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	cfg := &config{}
	for _, path := range lo.Compact(configPaths) {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	instance = cfg
	return instance, nil
}

// Reset drops the loaded configuration so the next Load reads the sources again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}
