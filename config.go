package blockterm

import (
	"fmt"
	"os"
	"regexp"

	"github.com/kelseyhightower/envconfig"
)

// SessionConfig holds the knobs for a session: which shell to run and
// where, the initial screen size, scrollback depth, and the prompt
// pattern for heuristic block detection.
type SessionConfig struct {
	Shell           string `envconfig:"BLOCKTERM_SHELL" default:""`
	WorkingDir      string `envconfig:"BLOCKTERM_WORKDIR" default:""`
	Rows            int    `envconfig:"BLOCKTERM_ROWS" default:"24"`
	Cols            int    `envconfig:"BLOCKTERM_COLS" default:"80"`
	ScrollbackLines int    `envconfig:"BLOCKTERM_SCROLLBACK_LINES" default:"10000"`
	PromptPattern   string `envconfig:"BLOCKTERM_PROMPT_PATTERN" default:""`
}

// DefaultSessionConfig returns the built-in defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Rows:            DEFAULT_ROWS,
		Cols:            DEFAULT_COLS,
		ScrollbackLines: 10000,
	}
}

// ConfigFromEnv loads session configuration from BLOCKTERM_*
// environment variables, e.g. BLOCKTERM_SHELL or BLOCKTERM_ROWS.
func ConfigFromEnv() (SessionConfig, error) {
	var cfg SessionConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return SessionConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ResolveShell returns the configured shell, falling back to $SHELL,
// then /bin/bash, then /bin/sh.
func (c SessionConfig) ResolveShell() string {
	if c.Shell != "" {
		return c.Shell
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if _, err := os.Stat("/bin/bash"); err == nil {
		return "/bin/bash"
	}
	return "/bin/sh"
}

// PromptRegexp compiles the configured prompt pattern. An empty
// pattern selects DefaultPromptPattern.
func (c SessionConfig) PromptRegexp() (*regexp.Regexp, error) {
	if c.PromptPattern == "" {
		return DefaultPromptPattern, nil
	}

	re, err := regexp.Compile(c.PromptPattern)
	if err != nil {
		return nil, fmt.Errorf("prompt pattern: %w", err)
	}
	return re, nil
}
