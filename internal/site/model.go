package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nekogravitycat/slot-booker/internal/pkg/apperror"
)

var (
	ErrMissingCredentials = apperror.New(apperror.KindConfiguration, http.StatusInternalServerError, "missing booking site email or password")
	ErrLoginTokenMissing  = apperror.New(apperror.KindAuthentication, http.StatusBadGateway, "login page has no request verification token")
	ErrLoginRejected      = apperror.New(apperror.KindAuthentication, http.StatusBadGateway, "booking site rejected the login")
	ErrUnexpectedResponse = apperror.New(apperror.KindTransport, http.StatusBadGateway, "unexpected response from booking site")
)

// WallClockLayout is the vendor's timestamp format. It carries no zone: values are
// wall-clock times at the centre.
const WallClockLayout = "2006-01-02T15:04:05"

// Timestamp is a vendor wall-clock time. The parsed value is stored in UTC purely as a
// carrier for the wall clock; comparisons are only meaningful against other wall-clock values.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	WallClockLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(WallClockLayout))
}

// ParseTimestamp parses a vendor timestamp, dropping any zone designator but keeping the wall clock.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if p, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: time.Date(p.Year(), p.Month(), p.Day(), p.Hour(), p.Minute(), p.Second(), 0, time.UTC)}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Scalar keeps a JSON number or string verbatim. The vendor is not consistent about
// which it sends for fields such as Duration.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	default:
		*s = Scalar(data)
	}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(s), 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func (s Scalar) String() string {
	return string(s)
}

// Location is a node of the filtered location hierarchy.
type Location struct {
	ID       int        `json:"Id"`
	Name     string     `json:"Name"`
	Children []Location `json:"Children"`
}

// Category is an activity category offered at a location.
type Category struct {
	ID   int    `json:"ResourceSubTypeCategoryId"`
	Name string `json:"Name"`
}

// Activity is a bookable activity type within a category.
type Activity struct {
	ID   int    `json:"ResourceSubTypeId"`
	Name string `json:"Name"`
}

// Slot is one bookable timetable row.
type Slot struct {
	ActivityID                       int       `json:"ActivityId"`
	ActivityName                     string    `json:"ActivityName"`
	FacilityID                       int       `json:"FacilityId"`
	FacilityName                     string    `json:"FacilityName"`
	ProductID                        int       `json:"ProductId"`
	SlotID                           int       `json:"SlotId"`
	StartTime                        Timestamp `json:"StartTime"`
	Duration                         Scalar    `json:"Duration"`
	AvailableSlots                   int       `json:"AvailableSlots"`
	ResourceLocationSelectionEnabled bool      `json:"ResourceLocationSelectionEnabled"`
}

// TimetableQuery selects timetable rows. Start and End are civil dates; End is exclusive.
type TimetableQuery struct {
	ActivityIDs []int
	FacilityIDs []int
	Start       time.Time
	End         time.Time
}

type timetableResponse struct {
	Snapshots []struct {
		Rows []Slot `json:"SportsHallTimetableRows"`
	} `json:"SportsHallActivitySnapshots"`
}

// Response is the raw outcome of a mutating basket call.
type Response struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body,omitempty"`
}
