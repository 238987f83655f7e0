// Package cli implements the clocktalk and genclocktalkd command lines.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kickingvegas/clocktalk/internal/config"
	"github.com/kickingvegas/clocktalk/internal/defaults"
	"github.com/kickingvegas/clocktalk/internal/validate"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError is a command line that could not be parsed.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error to the process exit status. A failed defaults(1)
// call propagates its own status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *defaults.CommandError
	if errors.As(err, &ce) && ce.ExitCode > 0 {
		return ce.ExitCode
	}
	var ue *UsageError
	var me *validate.MissingInputError
	var pe *validate.ParseError
	var re *validate.RangeError
	if errors.As(err, &ue) || errors.As(err, &me) || errors.As(err, &pe) || errors.As(err, &re) {
		return ExitUsage
	}
	return ExitFailure
}

func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "error: %v\n", err)
	return ExitCode(err)
}

// Short and long spellings share one variable: -e and -enable.

func boolVar(fs *flag.FlagSet, p *bool, short, long, usage string) {
	fs.BoolVar(p, short, false, usage)
	fs.BoolVar(p, long, false, "alias for -"+short)
}

func stringVar(fs *flag.FlagSet, p *string, short, long, def, usage string) {
	fs.StringVar(p, short, def, usage)
	fs.StringVar(p, long, def, "alias for -"+short)
}

func valueVar(fs *flag.FlagSet, v flag.Value, short, long, usage string) {
	fs.Var(v, short, usage)
	fs.Var(v, long, "alias for -"+short)
}

// listFlag collects repeated values; each value may itself hold several
// entries separated by commas or spaces.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		*l = append(*l, f)
	}
	return nil
}

// parseFlags runs fs.Parse and turns failures into *UsageError. It returns
// flag.ErrHelp unchanged for -h.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &UsageError{Err: err}
	}
	return nil
}

// parseInterleaved is parseFlags that hands each positional argument to
// positional and keeps parsing flags after it.
func parseInterleaved(fs *flag.FlagSet, args []string, positional func(string)) error {
	for {
		if err := parseFlags(fs, args); err != nil {
			return err
		}
		if fs.NArg() == 0 {
			return nil
		}
		positional(fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// parseOptionalFloat returns nil for an empty string.
func parseOptionalFloat(iv validate.Interval, name, raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	f, err := iv.Parse(name, raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ProcessEnv reads the home and working directories of the current process.
// It is the only place the commands consult the environment.
func ProcessEnv() config.Env {
	home, _ := os.UserHomeDir()
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return config.Env{Home: home, Cwd: cwd}
}
