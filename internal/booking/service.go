package booking

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booker/internal/site"
)

type Service interface {
	// FindAndBook books the earliest available slot in the requested window.
	// Failures of the booking steps are reported on the Result, not as errors.
	FindAndBook(ctx context.Context, req FindRequest) (*Result, error)
	// FetchSlots returns every timetable row in the requested span.
	FetchSlots(ctx context.Context, q SlotQuery) ([]site.Slot, error)
	// Today is the current civil date at the centre.
	Today() time.Time
}

type service struct {
	auth   site.Authenticator
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// NewService creates the booking engine. now and loc define "today"; nil values fall
// back to time.Now and UTC.
func NewService(auth site.Authenticator, now func() time.Time, loc *time.Location, logger *zap.Logger) Service {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		auth:   auth,
		now:    now,
		loc:    loc,
		logger: logger.With(zap.String("component", "booking")),
	}
}

func (s *service) Today() time.Time {
	return civilDate(s.now().In(s.loc))
}

func (s *service) FetchSlots(ctx context.Context, q SlotQuery) ([]site.Slot, error) {
	if q.DaysAhead < 0 {
		return nil, ErrNegativeDaysAhead
	}
	if q.Days < 1 {
		return nil, ErrInvalidSpan
	}

	sess, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	start := s.Today().AddDate(0, 0, q.DaysAhead)
	return s.collectSlots(ctx, sess, start, start.AddDate(0, 0, q.Days), q.ActivityID, q.LocationID)
}

// collectSlots walks locations, categories and activities and gathers their timetables.
// activityID and locationID of zero match everything.
func (s *service) collectSlots(ctx context.Context, sess site.Session, start, end time.Time, activityID, locationID int) ([]site.Slot, error) {
	locs, err := sess.LocationHierarchy(ctx)
	if err != nil {
		return nil, err
	}

	type key struct{ activity, facility int }
	seen := map[key]bool{}
	matchedLocation := false
	var slots []site.Slot

	for _, loc := range locs {
		if locationID != 0 && loc.ID != locationID {
			continue
		}
		matchedLocation = true

		facilityID, err := sess.FacilityID(ctx, loc.ID)
		if err != nil {
			return nil, err
		}
		cats, err := sess.ActivityCategories(ctx, loc.ID)
		if err != nil {
			return nil, err
		}

		for _, cat := range cats {
			acts, err := sess.Activities(ctx, cat.ID, loc.ID)
			if err != nil {
				return nil, err
			}
			for _, a := range acts {
				if activityID != 0 && a.ID != activityID {
					continue
				}
				// The same activity can be listed under several categories.
				k := key{a.ID, facilityID}
				if seen[k] {
					continue
				}
				seen[k] = true

				rows, err := sess.Timetable(ctx, site.TimetableQuery{
					ActivityIDs: []int{a.ID},
					FacilityIDs: []int{facilityID},
					Start:       start,
					End:         end,
				})
				if err != nil {
					return nil, err
				}
				slots = append(slots, rows...)
			}
		}
	}

	if locationID != 0 && !matchedLocation {
		return nil, ErrUnknownLocation
	}

	s.logger.Debug("slots collected",
		zap.Int("count", len(slots)),
		zap.Int("activity_id", activityID),
		zap.Int("location_id", locationID),
	)
	return slots, nil
}

func (s *service) FindAndBook(ctx context.Context, req FindRequest) (*Result, error) {
	if req.ActivityID <= 0 {
		return nil, ErrInvalidActivity
	}
	start, err := ParseTimeOfDay(req.WindowStart)
	if err != nil {
		return nil, err
	}
	end, err := ParseTimeOfDay(req.WindowEnd)
	if err != nil {
		return nil, err
	}

	// The window decides the fetch range, so it is fixed before any network call.
	window, err := ComputeWindow(s.Today(), req.DaysAhead, start, end)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:      uuid.NewString(),
		DryRun:     req.DryRun,
		TargetDate: window.TargetDate.Format(dateLayout),
		Window:     window,
		LocationID: req.LocationID,
	}
	log := s.logger.With(zap.String("run_id", result.RunID), zap.Int("activity_id", req.ActivityID))
	log.Info("find and book started",
		zap.String("target_date", result.TargetDate),
		zap.Int("fetch_days", window.Days),
		zap.Bool("dry_run", req.DryRun),
	)

	sess, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := s.collectSlots(ctx, sess, window.TargetDate, window.FetchEnd(), req.ActivityID, req.LocationID)
	if err != nil {
		return nil, err
	}

	chosen, ok := SelectSlot(slots, req.ActivityID, window)
	if !ok {
		log.Info("no availability", zap.Int("fetched", len(slots)))
		result.Outcome = OutcomeNoAvailability
		result.Reason = ReasonNoAvailability
		return result, nil
	}
	result.Slot = &chosen
	log = log.With(zap.Int("slot_id", chosen.SlotID), zap.Time("start", chosen.StartTime.Time))

	if chosen.ResourceLocationSelectionEnabled {
		raw, err := sess.ResourceLocations(ctx, chosen)
		if err != nil {
			return s.fail(log, result, &BookingStep{DryRun: req.DryRun}, StepResolveResource, err), nil
		}
		result.ResourceRaw = raw
		result.Resource = SelectResource(raw)
	}

	params := ReserveParams(chosen, result.Resource)

	if req.DryRun {
		result.Outcome = OutcomeDryRun
		result.Booking = &BookingStep{
			DryRun:  true,
			BookURL: sess.ReserveURL(),
			Params:  flattenParams(params),
		}
		log.Info("dry run prepared")
		return result, nil
	}

	return s.book(ctx, log, sess, result, params), nil
}

// book runs reserve, keep-alive and confirm in order. A confirm failure leaves the
// reservation in the basket; nothing is rolled back.
func (s *service) book(ctx context.Context, log *zap.Logger, sess site.Session, result *Result, params url.Values) *Result {
	step := &BookingStep{}

	reserved, err := sess.Reserve(ctx, params)
	if err != nil {
		return s.fail(log, result, step, StepReserve, err)
	}
	step.BookResponse = reserved.Body
	log.Info("slot reserved", zap.Int("status", reserved.StatusCode))

	if alive, err := sess.KeepAlive(ctx); err != nil {
		log.Warn("basket keep-alive failed", zap.Error(err))
		step.KeepAliveError = err.Error()
	} else {
		step.KeepAliveStatus = alive.StatusCode
	}

	confirmed, err := sess.Confirm(ctx)
	if err != nil {
		result = s.fail(log, result, step, StepConfirm, err)
		result.Reason += "; the reservation may still be held in the basket"
		return result
	}
	step.ConfirmStatus = confirmed.StatusCode

	result.Outcome = OutcomeBooked
	result.Booked = true
	result.Booking = step
	log.Info("booking confirmed", zap.Int("status", confirmed.StatusCode))
	return result
}

func (s *service) fail(log *zap.Logger, result *Result, step *BookingStep, name string, err error) *Result {
	log.Error("booking step failed", zap.String("step", name), zap.Error(err))
	step.FailedStep = name
	step.Error = err.Error()
	result.Outcome = OutcomeFailed
	result.Booked = false
	result.Reason = name + " failed"
	result.Booking = step
	return result
}
