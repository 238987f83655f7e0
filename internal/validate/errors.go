package validate

import (
	"fmt"
	"strings"
)

// ParseError reports input that is not in the expected textual form
// (a float, an HH:MM time stamp, ...).
type ParseError struct {
	What  string // "float", "time", ...
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("invalid %s %q", e.What, e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Bound identifies one side of an Interval.
type Bound int

const (
	Lower Bound = 1 << iota
	Upper
)

// RangeError reports a value outside its Interval. Violated holds the
// bound(s) that rejected it; NaN violates both.
type RangeError struct {
	Name     string
	Value    float64
	Interval Interval
	Violated Bound
}

func (e *RangeError) Error() string {
	if e == nil {
		return ""
	}
	var sides []string
	if e.Violated&Lower != 0 {
		sides = append(sides, "lower")
	}
	if e.Violated&Upper != 0 {
		sides = append(sides, "upper")
	}
	name := e.Name
	if name == "" {
		name = "value"
	}
	return fmt.Sprintf("%s %v must be within %s (violates %s bound)",
		name, e.Value, e.Interval, strings.Join(sides, " and "))
}

// MissingInputError reports a required input that was not supplied.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	if e == nil {
		return ""
	}
	return e.Name + " is required"
}

// Required returns a *MissingInputError when v is blank.
func Required(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return &MissingInputError{Name: name}
	}
	return nil
}
