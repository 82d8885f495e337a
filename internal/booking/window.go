package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nekogravitycat/slot-booker/internal/site"
)

const dateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour, Minute, Second int
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" in 24h form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On combines t with the civil date d.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// Window is the span of wall-clock time in which a slot may start.
type Window struct {
	TargetDate time.Time // civil date, midnight
	Start      time.Time
	End        time.Time
	Days       int // calendar days the timetable fetch must cover
}

// ComputeWindow resolves the booking window for today+daysAhead. When end is at or
// before start the window runs into the following day and the fetch covers two days.
func ComputeWindow(today time.Time, daysAhead int, start, end TimeOfDay) (Window, error) {
	if daysAhead < 0 {
		return Window{}, ErrNegativeDaysAhead
	}

	target := civilDate(today).AddDate(0, 0, daysAhead)
	w := Window{
		TargetDate: target,
		Start:      start.On(target),
		End:        end.On(target),
		Days:       1,
	}
	if end.seconds() <= start.seconds() {
		w.End = end.On(target.AddDate(0, 0, 1))
		w.Days = 2
	}
	return w, nil
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// FetchEnd is the exclusive end of the timetable range.
func (w Window) FetchEnd() time.Time {
	return w.TargetDate.AddDate(0, 0, w.Days)
}

func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start site.Timestamp `json:"start"`
		End   site.Timestamp `json:"end"`
		Days  int            `json:"days"`
	}{
		Start: site.Timestamp{Time: w.Start},
		End:   site.Timestamp{Time: w.End},
		Days:  w.Days,
	})
}

// civilDate drops the clock and zone of t, keeping its calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
