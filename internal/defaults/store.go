// Package defaults drives the macOS defaults(1) command, which reads and
// imports preference domains.
package defaults

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kickingvegas/clocktalk/internal/render"
	logx "github.com/kickingvegas/clocktalk/pkg/logx"
)

// DefaultCommand is where macOS ships defaults(1).
const DefaultCommand = "/usr/bin/defaults"

// Runner executes an external command and returns its exit status.
// err is set only when the command could not be run at all.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (exitCode int, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), nil
	}
	return -1, err
}

// CommandError reports a defaults(1) invocation that failed.
type CommandError struct {
	Args     []string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	line := strings.Join(e.Args, " ")
	if e.Err != nil {
		return fmt.Sprintf("call to defaults failed: %s: %v", line, e.Err)
	}
	return fmt.Sprintf("call to defaults failed (exit %d): %s", e.ExitCode, line)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Store reads and writes one preference domain.
type Store struct {
	Command string // defaults(1) path; DefaultCommand when empty
	Domain  string
	Runner  Runner // ExecRunner when nil
	TempDir string // os.TempDir() when empty
	Log     logx.Logger

	Stdout, Stderr io.Writer
}

func (s *Store) command() string {
	if c := strings.TrimSpace(s.Command); c != "" {
		return c
	}
	return DefaultCommand
}

func (s *Store) runner() Runner {
	if s.Runner != nil {
		return s.Runner
	}
	return ExecRunner{}
}

func (s *Store) writers() (io.Writer, io.Writer) {
	out, errw := s.Stdout, s.Stderr
	if out == nil {
		out = io.Discard
	}
	if errw == nil {
		errw = io.Discard
	}
	return out, errw
}

func (s *Store) run(ctx context.Context, args ...string) error {
	name := s.command()
	out, errw := s.writers()
	s.Log.Debug("running defaults", logx.String("cmd", name), logx.Strings("args", args))

	code, err := s.runner().Run(ctx, name, args, out, errw)
	if err != nil || code != 0 {
		return &CommandError{Args: append([]string{name}, args...), ExitCode: code, Err: err}
	}
	return nil
}

// Read prints the current contents of the domain to Stdout.
func (s *Store) Read(ctx context.Context) error {
	return s.run(ctx, "read", s.Domain)
}

// ImportOptions tune Import.
type ImportOptions struct {
	// KeepCopy, when set, receives a copy of the imported plist once defaults
	// has accepted it. A failed import leaves nothing behind.
	KeepCopy string
}

// Import writes doc to a temporary XML plist and imports it into the domain.
// The temporary file is removed on every return path.
func (s *Store) Import(ctx context.Context, doc any, opts ImportOptions) error {
	data, err := render.Marshal(doc, render.XML)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.TempDir, "clocktalk_*.plist")
	if err != nil {
		return fmt.Errorf("create temp plist: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.Log.Warn("temp plist not removed", logx.String("path", path), logx.Err(rmErr))
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp plist: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp plist: %w", err)
	}

	if err := s.run(ctx, "import", s.Domain, path); err != nil {
		return err
	}

	if keep := strings.TrimSpace(opts.KeepCopy); keep != "" {
		if err := os.WriteFile(keep, data, 0o644); err != nil {
			return fmt.Errorf("keep plist copy: %w", err)
		}
		s.Log.Debug("kept plist copy", logx.String("path", keep))
	}
	return nil
}
