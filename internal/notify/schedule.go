package notify

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

// Checkpoint is a fixed daily wall-clock time.
type Checkpoint struct {
	Hour   int
	Minute int
}

func (c Checkpoint) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the checkpoint on the calendar day of t, in t's location.
func (c Checkpoint) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// ParseCheckpoints parses "HH:MM" values.
func ParseCheckpoints(values []string) ([]Checkpoint, error) {
	out := make([]Checkpoint, 0, len(values))
	for _, v := range values {
		t, err := time.Parse("15:04", v)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid checkpoint %q", v)
		}
		out = append(out, Checkpoint{Hour: t.Hour(), Minute: t.Minute()})
	}
	return out, nil
}

// InScheduledWindow reports whether now is within tolerance of any checkpoint.
func InScheduledWindow(now time.Time, checkpoints []Checkpoint, tolerance time.Duration) bool {
	for _, c := range checkpoints {
		d := now.Sub(c.On(now))
		if d < 0 {
			d = -d
		}
		if d <= tolerance {
			return true
		}
	}
	return false
}
