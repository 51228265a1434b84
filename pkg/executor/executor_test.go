package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx := context.Background()
	out, err := New().Execute(ctx, "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Execute() = %q, want %q", out, "hello")
	}
}

func TestExecuteFailureCarriesStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx := context.Background()
	_, err := New().Execute(ctx, "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail for non-zero exit")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error %T is not *CommandError", err)
	}
	if cmdErr.Stderr != "boom" {
		t.Errorf("Stderr = %q, want %q", cmdErr.Stderr, "boom")
	}
	if !strings.Contains(err.Error(), "stderr: boom") {
		t.Errorf("Error() = %q, want stderr included", err.Error())
	}
}

func TestExecuteInDir(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := New().ExecuteInDir(context.Background(), dir, "sh", "-c", "ls")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if strings.TrimSpace(out) != "marker.txt" {
		t.Errorf("ExecuteInDir() listed %q, want marker.txt", out)
	}
}
