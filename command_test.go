package blockterm

import (
	"reflect"
	"testing"
)

func TestTokenizeCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple", "echo hello", []string{"echo", "hello"}},
		{"multiple args", "ls -la /tmp", []string{"ls", "-la", "/tmp"}},
		{"double quotes", `echo "hello world"`, []string{"echo", "hello world"}},
		{"single quotes", `echo 'hello world'`, []string{"echo", "hello world"}},
		{"single quote inside double", `echo "it's fine"`, []string{"echo", "it's fine"}},
		{"double quote inside single", `echo 'say "hi"'`, []string{"echo", `say "hi"`}},
		{"escaped space", `echo hello\ world`, []string{"echo", "hello world"}},
		{"escaped quote inside quotes", `echo "hello\" world"`, []string{"echo", `hello" world`}},
		{"unterminated quote", `echo "unterminated`, []string{"echo", "unterminated"}},
		{"tab separator", "ls\t-la", []string{"ls", "-la"}},
		{"collapsed spaces", "ls   -la", []string{"ls", "-la"}},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"trailing backslash", `echo \`, []string{"echo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizeCommand(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("tokenizeCommand(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand("git commit -m 'initial commit'")

	if cmd.Raw != "git commit -m 'initial commit'" {
		t.Errorf("Raw = %q, want original input", cmd.Raw)
	}

	expected := []string{"git", "commit", "-m", "initial commit"}
	if !reflect.DeepEqual(cmd.Tokens, expected) {
		t.Errorf("Tokens = %v, want %v", cmd.Tokens, expected)
	}
}

func TestCommandProgram(t *testing.T) {
	cmd := NewCommand("docker run -it ubuntu bash")

	if got := cmd.Program(); got != "docker" {
		t.Errorf("Program() = %q, want %q", got, "docker")
	}
}

func TestCommandProgramEmpty(t *testing.T) {
	cmd := NewCommand("")

	if got := cmd.Program(); got != "" {
		t.Errorf("Program() = %q, want empty string", got)
	}
}

func TestCommandArgs(t *testing.T) {
	cmd := NewCommand("grep -rn pattern .")

	expected := []string{"-rn", "pattern", "."}
	if got := cmd.Args(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Args() = %v, want %v", got, expected)
	}
}

func TestCommandArgsNone(t *testing.T) {
	cmd := NewCommand("pwd")

	if got := cmd.Args(); got != nil {
		t.Errorf("Args() = %v, want nil", got)
	}
}

func TestCommandEmpty(t *testing.T) {
	if !NewCommand("").Empty() {
		t.Error("expected empty command for empty input")
	}
	if !NewCommand("   ").Empty() {
		t.Error("expected empty command for whitespace input")
	}
	if NewCommand("ls").Empty() {
		t.Error("expected non-empty command")
	}
}

func TestCommandString(t *testing.T) {
	cmd := NewCommand("make test")

	if got := cmd.String(); got != "make test" {
		t.Errorf("String() = %q, want %q", got, "make test")
	}
}

func TestCommandWorkingDir(t *testing.T) {
	cmd := NewCommand("ls")
	cmd.WorkingDir = "/home/user/project"

	if cmd.WorkingDir != "/home/user/project" {
		t.Errorf("WorkingDir = %q, want %q", cmd.WorkingDir, "/home/user/project")
	}

	// Tokenization unaffected by working dir
	if cmd.Program() != "ls" {
		t.Errorf("Program() = %q, want %q", cmd.Program(), "ls")
	}
}
