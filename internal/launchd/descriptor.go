// Package launchd generates the launchd(8) job that runs clocktalk at fixed
// times of day.
package launchd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kickingvegas/clocktalk/internal/prefs"
	"github.com/kickingvegas/clocktalk/internal/validate"
)

// Trigger is one StartCalendarInterval entry.
type Trigger struct {
	Hour   int `plist:"Hour" json:"Hour"`
	Minute int `plist:"Minute" json:"Minute"`
}

func (t Trigger) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// Descriptor is a launchd job definition.
type Descriptor struct {
	StartCalendarInterval []Trigger `plist:"StartCalendarInterval" json:"StartCalendarInterval"`
	WorkingDirectory      string    `plist:"WorkingDirectory" json:"WorkingDirectory"`
	ProgramArguments      []string  `plist:"ProgramArguments" json:"ProgramArguments"`
	Label                 string    `plist:"Label" json:"Label"`
}

// ParseTime parses "HH:MM". Hour and minute are integers; their calendar
// range is left to launchd.
func ParseTime(s string) (Trigger, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Trigger{}, &validate.ParseError{What: "time", Input: s, Err: fmt.Errorf("want HH:MM")}
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Trigger{}, &validate.ParseError{What: "time", Input: s, Err: fmt.Errorf("hour is not an integer")}
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Trigger{}, &validate.ParseError{What: "time", Input: s, Err: fmt.Errorf("minute is not an integer")}
	}
	return Trigger{Hour: h, Minute: m}, nil
}

// ParseTimes parses each entry with ParseTime, keeping order.
func ParseTimes(ss []string) ([]Trigger, error) {
	out := make([]Trigger, 0, len(ss))
	for _, s := range ss {
		t, err := ParseTime(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Invocation holds the clocktalk flags baked into the job.
// Volume is nil when no --volume should be passed.
type Invocation struct {
	Execute bool
	Enable  bool
	Period  prefs.Period
	Volume  *float64
}

// Args returns the argument vector for executable, in a fixed order:
// executable, --execute, --enable, --period <p>, --volume <v>.
func (inv Invocation) Args(executable string) []string {
	args := []string{executable}
	if inv.Execute {
		args = append(args, "--execute")
	}
	if inv.Enable {
		args = append(args, "--enable")
	}
	args = append(args, "--period", inv.Period.String())
	if inv.Volume != nil {
		args = append(args, "--volume", formatVolume(*inv.Volume))
	}
	return args
}

// formatVolume writes the shortest decimal for v, keeping one decimal place
// on whole numbers: 1 is "1.0", 0.75 is "0.75".
func formatVolume(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Request is the input to Generate.
type Request struct {
	Times      []string
	Executable string
	WorkDir    string
	Label      string
	Invocation Invocation
}

// Generate builds the descriptor for req.
func Generate(req Request) (Descriptor, error) {
	if err := validate.Required("label", req.Label); err != nil {
		return Descriptor{}, err
	}
	if err := validate.Required("path to clocktalk", req.Executable); err != nil {
		return Descriptor{}, err
	}
	if len(req.Times) == 0 {
		return Descriptor{}, &validate.MissingInputError{Name: "time"}
	}
	triggers, err := ParseTimes(req.Times)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		StartCalendarInterval: triggers,
		WorkingDirectory:      req.WorkDir,
		ProgramArguments:      req.Invocation.Args(req.Executable),
		Label:                 req.Label,
	}, nil
}
