package blockterm

import (
	"strings"
	"testing"
)

func TestDefaultSessionConfig(t *testing.T) {
	cfg := DefaultSessionConfig()

	if cfg.Rows != 24 {
		t.Errorf("Rows = %d, want 24", cfg.Rows)
	}
	if cfg.Cols != 80 {
		t.Errorf("Cols = %d, want 80", cfg.Cols)
	}
	if cfg.ScrollbackLines != 10000 {
		t.Errorf("ScrollbackLines = %d, want 10000", cfg.ScrollbackLines)
	}
	if cfg.Shell != "" {
		t.Errorf("Shell = %q, want empty", cfg.Shell)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("BLOCKTERM_SHELL", "/bin/zsh")
	t.Setenv("BLOCKTERM_WORKDIR", "/tmp")
	t.Setenv("BLOCKTERM_ROWS", "40")
	t.Setenv("BLOCKTERM_COLS", "120")
	t.Setenv("BLOCKTERM_SCROLLBACK_LINES", "500")
	t.Setenv("BLOCKTERM_PROMPT_PATTERN", "^>>> ")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}

	if cfg.Shell != "/bin/zsh" {
		t.Errorf("Shell = %q, want /bin/zsh", cfg.Shell)
	}
	if cfg.WorkingDir != "/tmp" {
		t.Errorf("WorkingDir = %q, want /tmp", cfg.WorkingDir)
	}
	if cfg.Rows != 40 {
		t.Errorf("Rows = %d, want 40", cfg.Rows)
	}
	if cfg.Cols != 120 {
		t.Errorf("Cols = %d, want 120", cfg.Cols)
	}
	if cfg.ScrollbackLines != 500 {
		t.Errorf("ScrollbackLines = %d, want 500", cfg.ScrollbackLines)
	}
	if cfg.PromptPattern != "^>>> " {
		t.Errorf("PromptPattern = %q, want ^>>> ", cfg.PromptPattern)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}

	if cfg.Rows != 24 {
		t.Errorf("Rows = %d, want 24", cfg.Rows)
	}
	if cfg.Cols != 80 {
		t.Errorf("Cols = %d, want 80", cfg.Cols)
	}
	if cfg.ScrollbackLines != 10000 {
		t.Errorf("ScrollbackLines = %d, want 10000", cfg.ScrollbackLines)
	}
}

func TestConfigFromEnvInvalidInt(t *testing.T) {
	t.Setenv("BLOCKTERM_ROWS", "not-a-number")

	if _, err := ConfigFromEnv(); err == nil {
		t.Error("expected error for non-numeric BLOCKTERM_ROWS")
	}
}

func TestResolveShellExplicit(t *testing.T) {
	cfg := SessionConfig{Shell: "/usr/bin/fish"}

	if got := cfg.ResolveShell(); got != "/usr/bin/fish" {
		t.Errorf("ResolveShell() = %q, want /usr/bin/fish", got)
	}
}

func TestResolveShellFromEnv(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")

	cfg := SessionConfig{}
	if got := cfg.ResolveShell(); got != "/bin/zsh" {
		t.Errorf("ResolveShell() = %q, want /bin/zsh", got)
	}
}

func TestResolveShellFallback(t *testing.T) {
	t.Setenv("SHELL", "")

	cfg := SessionConfig{}
	got := cfg.ResolveShell()
	if !strings.HasPrefix(got, "/") {
		t.Errorf("ResolveShell() = %q, want an absolute path", got)
	}
}

func TestPromptRegexpDefault(t *testing.T) {
	cfg := SessionConfig{}

	re, err := cfg.PromptRegexp()
	if err != nil {
		t.Fatalf("PromptRegexp: %v", err)
	}
	if re != DefaultPromptPattern {
		t.Error("expected the default prompt pattern for empty config")
	}
}

func TestPromptRegexpCustom(t *testing.T) {
	cfg := SessionConfig{PromptPattern: "^>>> "}

	re, err := cfg.PromptRegexp()
	if err != nil {
		t.Fatalf("PromptRegexp: %v", err)
	}
	if !re.MatchString(">>> print(1)") {
		t.Error("expected custom pattern to match its prompt")
	}
	if re.MatchString("$ ls") {
		t.Error("expected custom pattern to not match a shell prompt")
	}
}

func TestPromptRegexpInvalid(t *testing.T) {
	cfg := SessionConfig{PromptPattern: "["}

	if _, err := cfg.PromptRegexp(); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
