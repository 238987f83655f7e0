package prefs

import (
	"fmt"
	"strings"
)

// Period is how often the time is announced.
type Period int

const (
	Hour Period = iota
	HalfHour
	QuarterHour

	numPeriods
)

type periodInfo struct {
	name       string // command-line name
	identifier string // TimeAnnouncementsIntervalIdentifier value
}

// Indexed by Period. Every Period below numPeriods needs an entry.
var periods = [numPeriods]periodInfo{
	Hour:        {name: "hour", identifier: "EveryHourInterval"},
	HalfHour:    {name: "half", identifier: "EveryHalfHourInterval"},
	QuarterHour: {name: "quarter", identifier: "EveryQuarterHourInterval"},
}

func (p Period) valid() bool { return p >= 0 && p < numPeriods }

// String returns the command-line name ("hour", "half", "quarter").
func (p Period) String() string {
	if !p.valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periods[p].name
}

// Identifier returns the preference-store interval identifier.
func (p Period) Identifier() string {
	if !p.valid() {
		return ""
	}
	return periods[p].identifier
}

// PeriodNames lists the accepted command-line names in declaration order.
func PeriodNames() []string {
	out := make([]string, 0, len(periods))
	for _, pi := range periods {
		out = append(out, pi.name)
	}
	return out
}

// ParsePeriod maps a command-line name to a Period.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, pi := range periods {
		if pi.name == s {
			return Period(p), nil
		}
	}
	return Hour, fmt.Errorf("invalid period %q (choose from %s)", s, strings.Join(PeriodNames(), ", "))
}

// Set implements flag.Value.
func (p *Period) Set(s string) error {
	v, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
