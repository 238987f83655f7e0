package launchd

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// NextFire returns the earliest time after now at which any trigger fires.
// A trigger outside the calendar range (hour 0-23, minute 0-59) is an error
// here even though Generate accepts it.
func NextFire(triggers []Trigger, now time.Time) (time.Time, error) {
	if len(triggers) == 0 {
		return time.Time{}, errors.New("no triggers")
	}
	var next time.Time
	for _, t := range triggers {
		sched, err := cron.ParseStandard(fmt.Sprintf("%d %d * * *", t.Minute, t.Hour))
		if err != nil {
			return time.Time{}, fmt.Errorf("trigger %s: %w", t, err)
		}
		n := sched.Next(now)
		if next.IsZero() || n.Before(next) {
			next = n
		}
	}
	return next, nil
}
