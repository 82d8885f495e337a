package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nekogravitycat/slot-booker/internal/pkg/apperror"
)

type resourceLocationModel struct {
	SlotID     int    `json:"SlotId"`
	FacilityID int    `json:"FacilityId"`
	ActivityID int    `json:"ActivityId"`
	StartTime  string `json:"StartTime"`
	Duration   Scalar `json:"Duration"`
}

func (s *httpSession) ResourceLocations(ctx context.Context, slot Slot) (json.RawMessage, error) {
	payload := map[string][]resourceLocationModel{
		"models": {{
			SlotID:     slot.SlotID,
			FacilityID: slot.FacilityID,
			ActivityID: slot.ActivityID,
			StartTime:  slot.StartTime.Format("2006-01-02 15:04:05"),
			Duration:   slot.Duration,
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource location request: %w", err)
	}

	resp, err := s.send(ctx, request{
		method:      http.MethodPost,
		path:        resourcePath,
		body:        bytes.NewReader(body),
		contentType: "application/json",
		xhr:         true,
	})
	if err != nil {
		return nil, withStep(err, "resolve_resource")
	}

	raw := json.RawMessage(strings.TrimSpace(resp.body))
	if !json.Valid(raw) {
		return nil, withStep(ErrUnexpectedResponse, "resolve_resource")
	}
	return raw, nil
}

func (s *httpSession) Reserve(ctx context.Context, params url.Values) (*Response, error) {
	resp, err := s.send(ctx, request{method: http.MethodGet, path: reservePath, query: params, xhr: true})
	if err != nil {
		return nil, withStep(err, "reserve")
	}
	return &Response{StatusCode: resp.status, Body: resp.body}, nil
}

// KeepAlive extends the basket expiry. Callers treat failures as best-effort.
func (s *httpSession) KeepAlive(ctx context.Context) (*Response, error) {
	resp, err := s.send(ctx, request{method: http.MethodPut, path: basketExpiryPath, xhr: true})
	if err != nil {
		return nil, withStep(err, "keep_alive")
	}
	return &Response{StatusCode: resp.status, Body: resp.body}, nil
}

func (s *httpSession) Confirm(ctx context.Context) (*Response, error) {
	resp, err := s.send(ctx, request{
		method:      http.MethodPost,
		path:        confirmPath,
		body:        strings.NewReader("{}"),
		contentType: "application/json",
		xhr:         true,
	})
	if err != nil {
		return nil, withStep(err, "confirm")
	}
	return &Response{StatusCode: resp.status, Body: resp.body}, nil
}

func (s *httpSession) ReserveURL() string {
	return s.baseURL + reservePath
}

// withStep attributes err to a basket step so callers can report which call failed.
func withStep(err error, step string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.WithStep(step)
	}
	return apperror.Wrap(err, apperror.KindTransport, http.StatusBadGateway, "booking site request failed").WithStep(step)
}
