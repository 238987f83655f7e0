package launchd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kickingvegas/clocktalk/internal/render"
)

// FileName returns "<label>.plist".
func FileName(label string) string { return label + ".plist" }

// WriteFile writes d as an XML plist named after its label inside dir and
// returns the path. The file appears only once fully written.
func WriteFile(dir string, d Descriptor) (string, error) {
	data, err := render.Marshal(d, render.XML)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(d.Label))

	tmp, err := os.CreateTemp(filepath.Dir(path), ".genclocktalkd-*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}
