// Package validate holds the small set of input checks shared by the
// clocktalk commands: bounded floats and required values.
package validate

import (
	"math"
	"strconv"
	"strings"
)

// Interval is a real interval whose ends are independently open or closed.
type Interval struct {
	Min, Max       float64
	MinInc, MaxInc bool
}

// Closed returns [min, max].
func Closed(min, max float64) Interval {
	return Interval{Min: min, Max: max, MinInc: true, MaxInc: true}
}

// String renders the interval in the usual notation, e.g. "(0, 1]".
func (iv Interval) String() string {
	var b strings.Builder
	if iv.MinInc {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	b.WriteString(strconv.FormatFloat(iv.Min, 'f', -1, 64))
	b.WriteString(", ")
	b.WriteString(strconv.FormatFloat(iv.Max, 'f', -1, 64))
	if iv.MaxInc {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// violated returns the bounds f falls outside of, or 0 if f is a member.
func (iv Interval) violated(f float64) Bound {
	if math.IsNaN(f) {
		return Lower | Upper
	}
	var v Bound
	if f < iv.Min || (!iv.MinInc && f == iv.Min) {
		v |= Lower
	}
	if f > iv.Max || (!iv.MaxInc && f == iv.Max) {
		v |= Upper
	}
	return v
}

// Contains reports whether f lies within the interval.
func (iv Interval) Contains(f float64) bool { return iv.violated(f) == 0 }

// Check returns a *RangeError naming name when f is outside the interval.
func (iv Interval) Check(name string, f float64) error {
	if v := iv.violated(f); v != 0 {
		return &RangeError{Name: name, Value: f, Interval: iv, Violated: v}
	}
	return nil
}

// Parse converts s to a float and checks it against the interval.
func (iv Interval) Parse(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ParseError{What: "float", Input: s, Err: errorCause(err)}
	}
	if err := iv.Check(name, f); err != nil {
		return 0, err
	}
	return f, nil
}

// Float parses value and checks it against the interval described by the
// remaining arguments. It fails with *ParseError or *RangeError.
func Float(value string, lower, upper float64, lowerInclusive, upperInclusive bool) (float64, error) {
	iv := Interval{Min: lower, Max: upper, MinInc: lowerInclusive, MaxInc: upperInclusive}
	return iv.Parse("", value)
}

// errorCause drops strconv's "strconv.ParseFloat: parsing ..." prefix.
func errorCause(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
