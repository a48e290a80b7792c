// Package config loads AGT_* settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "AGT"

// Config embeds its sections so every variable keeps a flat AGT_<NAME> key.
type Config struct {
	ListerConfig
	SandboxConfig
	AgentConfig
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ListerConfig struct {
	Suffix  string   `envconfig:"SUFFIX" default:".py"`
	Exclude []string `envconfig:"EXCLUDE"`
}

type SandboxConfig struct {
	// ReadRoot bounds list_files; empty means the working directory.
	ReadRoot string `envconfig:"READ_ROOT"`
}

type AgentConfig struct {
	Model        string `envconfig:"MODEL" default:"claude-3-7-sonnet-latest"`
	MaxTokens    int64  `envconfig:"MAX_TOKENS" default:"1024"`
	ArtifactsDir string `envconfig:"ARTIFACTS_DIR" default:".agent"`
	SessionFile  string `envconfig:"SESSION_FILE"`
	ObserveJSON  bool   `envconfig:"OBSERVE_JSON" default:"false"`
	MaxToolSteps int    `envconfig:"MAX_TOOL_STEPS" default:"8"`
}

// SessionPath returns the session file, defaulting to session.yaml in ArtifactsDir.
func (a AgentConfig) SessionPath() string {
	if a.SessionFile != "" {
		return a.SessionFile
	}
	return filepath.Join(a.ArtifactsDir, "session.yaml")
}

// Load reads envFile (if it exists) into the process environment and then
// decodes AGT_* variables. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("AGT_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.MaxToolSteps <= 0 {
		return fmt.Errorf("AGT_MAX_TOOL_STEPS must be positive, got %d", c.MaxToolSteps)
	}
	return nil
}
