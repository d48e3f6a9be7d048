package editor

import (
	"os"
	"os/exec"
	"strings"
)

// Editor opens card descriptions in the user's text editor.
type Editor struct {
	configured string
}

// NewEditor creates an Editor. configured comes from settings and may be empty.
func NewEditor(configured string) *Editor {
	return &Editor{configured: configured}
}

// Resolve returns the editor command to use.
// Order: settings > $EDITOR > vim
func (e *Editor) Resolve() string {
	// 1. Settings
	if e.configured != "" {
		return e.configured
	}

	// 2. Environment variable
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// 3. Default
	return "vim"
}

// Edit opens the editor with the given content and returns the edited content
// without its trailing newline.
func (e *Editor) Edit(content string) (string, error) {
	// Create temp file
	tmpFile, err := os.CreateTemp("", "kanboard-card-*.md")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	// Write content
	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// Open editor
	// Settings may carry flags, e.g. "code --wait"
	args := strings.Fields(e.Resolve())
	if len(args) == 0 {
		args = []string{"vim"}
	}
	cmd := exec.Command(args[0], append(args[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	// Read back content
	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(edited), "\n"), nil
}
