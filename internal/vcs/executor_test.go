package vcs

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"
	"time"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"42\n41:aaa\n\n", []string{"42", "41:aaa", ""}},
	}
	for _, tt := range tests {
		if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitRawLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"-old\r\n+new\r\n", []string{"-old\r", "+new\r"}},
		{"a\n\n", []string{"a", ""}},
	}
	for _, tt := range tests {
		if got := SplitRawLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitRawLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestCommandExecutorOutputAndLines(t *testing.T) {
	requireProgram(t, "printf")
	e := NewCommandExecutor("printf", 0)
	cmd := NewCommand(`first\nsecond\n`)

	out, err := e.Output(context.Background(), t.TempDir(), cmd)
	if err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if out != "first\nsecond\n" {
		t.Errorf("Output() = %q", out)
	}

	lines, err := e.Lines(context.Background(), t.TempDir(), cmd)
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if want := []string{"first", "second"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("Lines() = %q, want %q", lines, want)
	}
}

func TestCommandExecutorStream(t *testing.T) {
	requireProgram(t, "printf")
	e := NewCommandExecutor("printf", 0)

	var buf bytes.Buffer
	if err := e.Stream(context.Background(), t.TempDir(), NewCommand(`\000\001raw`), &buf); err != nil {
		t.Fatalf("Stream() error: %v", err)
	}
	if want := []byte{0, 1, 'r', 'a', 'w'}; !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Stream() wrote %v, want %v", buf.Bytes(), want)
	}
}

func TestCommandExecutorNonZeroExit(t *testing.T) {
	requireProgram(t, "false")
	e := NewCommandExecutor("false", 0)

	_, err := e.Output(context.Background(), t.TempDir(), NewCommand(""))
	if !errors.Is(err, ToolError) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("expected ExitError with code 1, got %v", err)
	}
}

func TestCommandExecutorTimeout(t *testing.T) {
	requireProgram(t, "sleep")
	e := NewCommandExecutor("sleep", 50*time.Millisecond)

	_, err := e.Output(context.Background(), t.TempDir(), NewCommand("5"))
	if !errors.Is(err, ToolError) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected ToolError wrapping DeadlineExceeded, got %v", err)
	}
	if IsExitError(err) {
		t.Errorf("timeout reported as exit error: %v", err)
	}
}

func TestCommandExecutorMissingProgram(t *testing.T) {
	e := NewCommandExecutor("hgview-no-such-program", 0)

	_, err := e.Lines(context.Background(), t.TempDir(), NewCommand("log"))
	if !errors.Is(err, ToolError) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if IsExitError(err) {
		t.Errorf("missing program reported as exit error: %v", err)
	}
}
