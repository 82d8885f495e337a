package activity

import (
	"context"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booker/internal/pkg/apperror"
	"github.com/nekogravitycat/slot-booker/internal/site"
)

var ErrUnknownLocation = apperror.New(apperror.KindInvalidInput, http.StatusNotFound, "location not found in hierarchy")

type Service interface {
	// List enumerates every activity at every location, sorted by name then id.
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

type service struct {
	auth   site.Authenticator
	logger *zap.Logger
}

func NewService(auth site.Authenticator, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{auth: auth, logger: logger.With(zap.String("component", "activity"))}
}

func (s *service) List(ctx context.Context, filter Filter) ([]Entry, error) {
	sess, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	locs, err := sess.LocationHierarchy(ctx)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	matched := false
	for _, loc := range locs {
		if filter.LocationID != 0 && loc.ID != filter.LocationID {
			continue
		}
		matched = true

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
				entries = append(entries, Entry{
					ActivityID:   a.ID,
					ActivityName: a.Name,
					LocationID:   loc.ID,
					LocationName: loc.Name,
					CategoryID:   cat.ID,
					CategoryName: cat.Name,
				})
			}
		}
	}
	if filter.LocationID != 0 && !matched {
		return nil, ErrUnknownLocation
	}

	Sort(entries)
	s.logger.Debug("activities listed", zap.Int("count", len(entries)), zap.Int("location_id", filter.LocationID))
	return entries, nil
}

// Sort orders entries by activity name, then activity id. Equal keys keep their order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ActivityName != entries[j].ActivityName {
			return entries[i].ActivityName < entries[j].ActivityName
		}
		return entries[i].ActivityID < entries[j].ActivityID
	})
}
