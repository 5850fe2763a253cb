package executor

import (
	"context"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	out, err := New().Execute(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Execute() = %q, want %q", out, "hello")
	}
}

func TestExecuteFailureIncludesStderr(t *testing.T) {
	_, err := New().Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail for non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Execute() error = %v, want stderr in message", err)
	}
}

func TestLastLines(t *testing.T) {
	in := "a\nb\nc\nd"
	if got := lastLines(in, 2); got != "c\nd" {
		t.Errorf("lastLines() = %q, want %q", got, "c\nd")
	}
	if got := lastLines(in, 10); got != in {
		t.Errorf("lastLines() = %q, want %q", got, in)
	}
}
