package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booker/internal/booking"
)

// ClubPolicy is the recurring club booking: one activity, alternating between two
// locations by ISO week parity of the target date.
type ClubPolicy struct {
	ActivityID         int
	OddWeekLocationID  int
	EvenWeekLocationID int
	DaysAhead          int
}

// DefaultClubPolicy is badminton, Park Road on odd weeks and Garston on even weeks.
var DefaultClubPolicy = ClubPolicy{
	ActivityID:         254,
	OddWeekLocationID:  144,
	EvenWeekLocationID: 3,
	DaysAhead:          7,
}

// ClubRequest is a club booking attempt. A nil DaysAhead uses the policy default.
type ClubRequest struct {
	WindowStart string
	WindowEnd   string
	DaysAhead   *int
	DryRun      bool
}

type Service interface {
	ClubBooking(ctx context.Context, req ClubRequest) (*booking.Result, error)
}

type service struct {
	bookings booking.Service
	policy   ClubPolicy
	logger   *zap.Logger
}

func NewService(bookings booking.Service, policy ClubPolicy, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		bookings: bookings,
		policy:   policy,
		logger:   logger.With(zap.String("component", "workflow")),
	}
}

// PickLocationID returns odd when the ISO week of date is odd, even otherwise.
func PickLocationID(date time.Time, odd, even int) int {
	_, week := date.ISOWeek()
	if week%2 == 1 {
		return odd
	}
	return even
}

func (s *service) ClubBooking(ctx context.Context, req ClubRequest) (*booking.Result, error) {
	daysAhead := s.policy.DaysAhead
	if req.DaysAhead != nil {
		daysAhead = *req.DaysAhead
	}
	if daysAhead < 0 {
		return nil, booking.ErrNegativeDaysAhead
	}

	target := s.bookings.Today().AddDate(0, 0, daysAhead)
	locationID := PickLocationID(target, s.policy.OddWeekLocationID, s.policy.EvenWeekLocationID)

	_, week := target.ISOWeek()
	s.logger.Info("club booking",
		zap.String("target_date", target.Format("2006-01-02")),
		zap.Int("iso_week", week),
		zap.Int("location_id", locationID),
	)

	return s.bookings.FindAndBook(ctx, booking.FindRequest{
		ActivityID:  s.policy.ActivityID,
		DaysAhead:   daysAhead,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		DryRun:      req.DryRun,
		LocationID:  locationID,
	})
}
