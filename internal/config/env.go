package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds ambient process configuration taken from the environment.
// Persisted user settings live in Settings; Env only covers knobs that
// depend on the machine the engine runs on.
type Env struct {
	ConfigDir   string        `envconfig:"PROMPTTOOL_CONFIG_DIR"`
	LogLevel    string        `envconfig:"PROMPTTOOL_LOG_LEVEL" default:"info"`
	LogDev      bool          `envconfig:"PROMPTTOOL_LOG_DEV" default:"false"`
	SettleDelay time.Duration `envconfig:"PROMPTTOOL_SETTLE_DELAY" default:"50ms"`
}

// LoadEnv loads ambient configuration from environment variables.
func LoadEnv() (*Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	return &e, nil
}

// ResolveConfigDir returns the directory holding config.json, falling back
// to the platform user config dir when no override is set.
func (e *Env) ResolveConfigDir() (string, error) {
	if e.ConfigDir != "" {
		return e.ConfigDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, "prompttool"), nil
}
