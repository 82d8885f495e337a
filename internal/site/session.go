package site

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/slot-booker/internal/pkg/apperror"
)

const (
	hierarchyPath    = "/enterprise/filteredlocationhierarchy"
	facilityPath     = "/enterprise/FacilityLocation"
	categoriesPath   = "/enterprise/Bookings/ActivitySubTypeCategories"
	activitiesPath   = "/enterprise/Bookings/ActivitySubTypes"
	timetablePath    = "/enterprise/BookingsCentre/SportsHallTimeTable"
	resourcePath     = "/enterprise/BookingsCentre/GetResourceLocation"
	reservePath      = "/enterprise/BookingsCentre/BookSportsHallSlot"
	basketExpiryPath = "/enterprise/universalbasket/updatebasketexpiry"
	confirmPath      = "/enterprise/cart/confirmbasket"

	timetableRangeLayout = "2006-01-02T15:04:05.000Z"
)

// Session is an authenticated handle on the booking site.
// Implementations are not safe for concurrent use.
type Session interface {
	LocationHierarchy(ctx context.Context) ([]Location, error)
	FacilityID(ctx context.Context, locationID int) (int, error)
	ActivityCategories(ctx context.Context, locationID int) ([]Category, error)
	Activities(ctx context.Context, categoryID, locationID int) ([]Activity, error)
	Timetable(ctx context.Context, q TimetableQuery) ([]Slot, error)

	// ResourceLocations returns the raw court/sector candidates for a slot.
	ResourceLocations(ctx context.Context, slot Slot) (json.RawMessage, error)
	Reserve(ctx context.Context, params url.Values) (*Response, error)
	KeepAlive(ctx context.Context) (*Response, error)
	Confirm(ctx context.Context) (*Response, error)

	// ReserveURL is the absolute URL Reserve submits to.
	ReserveURL() string
}

type httpSession struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	cache     *lru.Cache[string, []byte]
	logger    *zap.Logger
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	xhr         bool
}

type response struct {
	status   int
	body     string
	finalURL *url.URL
}

// send performs one request. Any status outside 2xx is a transport error.
func (s *httpSession) send(ctx context.Context, r request) (*response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, apperror.Wrap(err, apperror.KindTransport, http.StatusBadGateway, "request cancelled")
	}

	target := s.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.xhr {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("site request failed", zap.String("method", r.method), zap.String("path", r.path), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.KindTransport, http.StatusBadGateway, "booking site request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindTransport, http.StatusBadGateway, "failed to read booking site response")
	}

	s.logger.Debug("site request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.Wrap(
			fmt.Errorf("%s %s: status %d", r.method, r.path, resp.StatusCode),
			apperror.KindTransport, http.StatusBadGateway, "booking site returned an error",
		)
	}

	return &response{status: resp.StatusCode, body: string(body), finalURL: resp.Request.URL}, nil
}

// getJSON decodes a GET response into out. Catalog lookups are cached for the session's lifetime.
func (s *httpSession) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	key := path + "?" + query.Encode()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("site cache hit", zap.String("key", key))
			return decode(cached, path, out)
		}
	}

	resp, err := s.send(ctx, request{method: http.MethodGet, path: path, query: query, xhr: true})
	if err != nil {
		return err
	}

	raw := []byte(resp.body)
	if err := decode(raw, path, out); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Add(key, raw)
	}
	return nil
}

func decode(raw []byte, path string, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return apperror.Wrap(fmt.Errorf("%s: %w", path, err), apperror.KindTransport, http.StatusBadGateway, ErrUnexpectedResponse.Message)
	}
	return nil
}

// LocationHierarchy returns the centres below the hierarchy root.
func (s *httpSession) LocationHierarchy(ctx context.Context) ([]Location, error) {
	var roots []Location
	if err := s.getJSON(ctx, hierarchyPath, nil, &roots); err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, apperror.Wrap(fmt.Errorf("%s: empty hierarchy", hierarchyPath), apperror.KindTransport, http.StatusBadGateway, ErrUnexpectedResponse.Message)
	}
	return roots[0].Children, nil
}

func (s *httpSession) FacilityID(ctx context.Context, locationID int) (int, error) {
	var ids []int
	q := url.Values{"request": {strconv.Itoa(locationID)}}
	if err := s.getJSON(ctx, facilityPath, q, &ids); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, apperror.Wrap(fmt.Errorf("%s: no facility for location %d", facilityPath, locationID), apperror.KindTransport, http.StatusBadGateway, ErrUnexpectedResponse.Message)
	}
	return ids[0], nil
}

func (s *httpSession) ActivityCategories(ctx context.Context, locationID int) ([]Category, error) {
	var cats []Category
	q := url.Values{"LocationIds": {strconv.Itoa(locationID)}}
	if err := s.getJSON(ctx, categoriesPath, q, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *httpSession) Activities(ctx context.Context, categoryID, locationID int) ([]Activity, error) {
	var acts []Activity
	q := url.Values{
		"ResourceSubTypeCategoryId": {strconv.Itoa(categoryID)},
		"LocationIds":               {strconv.Itoa(locationID)},
	}
	if err := s.getJSON(ctx, activitiesPath, q, &acts); err != nil {
		return nil, err
	}
	return acts, nil
}

// Timetable is not cached: availability changes between calls.
func (s *httpSession) Timetable(ctx context.Context, q TimetableQuery) ([]Slot, error) {
	query := url.Values{
		"Activities":        {joinInts(q.ActivityIDs)},
		"BookingFacilities": {joinInts(q.FacilityIDs)},
		"Start":             {q.Start.Format(timetableRangeLayout)},
		"End":               {q.End.Format(timetableRangeLayout)},
	}

	resp, err := s.send(ctx, request{method: http.MethodGet, path: timetablePath, query: query, xhr: true})
	if err != nil {
		return nil, err
	}

	var tt timetableResponse
	if err := decode([]byte(resp.body), timetablePath, &tt); err != nil {
		return nil, err
	}

	var slots []Slot
	for _, snap := range tt.Snapshots {
		slots = append(slots, snap.Rows...)
	}
	return slots, nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
