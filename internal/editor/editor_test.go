package editor

import (
	"os/exec"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Setenv("EDITOR", "nano")

	if got := NewEditor("code --wait").Resolve(); got != "code --wait" {
		t.Errorf("Resolve() = %q, want configured editor", got)
	}
	if got := NewEditor("").Resolve(); got != "nano" {
		t.Errorf("Resolve() = %q, want $EDITOR", got)
	}

	t.Setenv("EDITOR", "")
	if got := NewEditor("").Resolve(); got != "vim" {
		t.Errorf("Resolve() = %q, want vim fallback", got)
	}
}

func TestEdit_UnchangedContent(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	got, err := NewEditor("true").Edit("keep this\n")
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if got != "keep this" {
		t.Errorf("Edit() = %q, want %q", got, "keep this")
	}
}

func TestEdit_EditorFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	if _, err := NewEditor("false").Edit("x"); err == nil {
		t.Fatal("expected error when the editor exits non-zero")
	}
}
