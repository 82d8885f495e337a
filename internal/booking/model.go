package booking

import (
	"encoding/json"
	"net/http"

	"github.com/nekogravitycat/slot-booker/internal/pkg/apperror"
	"github.com/nekogravitycat/slot-booker/internal/site"
)

var (
	ErrInvalidTimeOfDay  = apperror.New(apperror.KindInvalidInput, http.StatusBadRequest, "time of day must be HH:MM or HH:MM:SS (24h)")
	ErrNegativeDaysAhead = apperror.New(apperror.KindInvalidInput, http.StatusBadRequest, "days ahead must not be negative")
	ErrInvalidActivity   = apperror.New(apperror.KindInvalidInput, http.StatusBadRequest, "activity id must be positive")
	ErrInvalidSpan       = apperror.New(apperror.KindInvalidInput, http.StatusBadRequest, "days must be at least 1")
	ErrUnknownLocation   = apperror.New(apperror.KindInvalidInput, http.StatusNotFound, "location not found in hierarchy")
)

const ReasonNoAvailability = "No available slots in window"

// Outcome tags a booking result.
type Outcome string

const (
	OutcomeBooked         Outcome = "booked"
	OutcomeDryRun         Outcome = "dry_run"
	OutcomeNoAvailability Outcome = "no_availability"
	OutcomeFailed         Outcome = "failed"
)

// Protocol steps, as reported on failures.
const (
	StepResolveResource = "resolve_resource"
	StepReserve         = "reserve"
	StepKeepAlive       = "keep_alive"
	StepConfirm         = "confirm"
)

// Resource is the court or sector pinned for a booking.
type Resource struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// FindRequest describes one find-and-book attempt.
type FindRequest struct {
	ActivityID  int
	DaysAhead   int
	WindowStart string // HH:MM, 24h
	WindowEnd   string // HH:MM, 24h; at or before WindowStart means the window runs past midnight
	DryRun      bool
	LocationID  int // zero searches every location
}

// SlotQuery describes a slot export over a span of days.
type SlotQuery struct {
	DaysAhead  int
	Days       int
	ActivityID int // zero means every activity
	LocationID int // zero means every location
}

// BookingStep records what the booking protocol did, or would do in a dry run.
type BookingStep struct {
	DryRun          bool              `json:"dry_run"`
	BookURL         string            `json:"book_url,omitempty"`
	Params          map[string]string `json:"params,omitempty"`
	BookResponse    string            `json:"book_response,omitempty"`
	KeepAliveStatus int               `json:"keep_alive_status,omitempty"`
	KeepAliveError  string            `json:"keep_alive_error,omitempty"`
	ConfirmStatus   int               `json:"confirm_status,omitempty"`
	FailedStep      string            `json:"failed_step,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// Result is the structured outcome of FindAndBook.
type Result struct {
	RunID       string          `json:"run_id"`
	Outcome     Outcome         `json:"outcome"`
	Booked      bool            `json:"booked"`
	DryRun      bool            `json:"dry_run"`
	Reason      string          `json:"reason,omitempty"`
	TargetDate  string          `json:"target_date"`
	Window      Window          `json:"window"`
	LocationID  int             `json:"location_id,omitempty"`
	Slot        *site.Slot      `json:"slot,omitempty"`
	Resource    *Resource       `json:"resource,omitempty"`
	ResourceRaw json.RawMessage `json:"resource_raw,omitempty"`
	Booking     *BookingStep    `json:"booking,omitempty"`
}
