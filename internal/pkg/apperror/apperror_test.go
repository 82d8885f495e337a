package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	base := errors.New("502 Bad Gateway")
	err := Wrap(base, KindTransport, http.StatusBadGateway, "booking site request failed").WithStep("confirm")

	assert.Equal(t, "confirm: booking site request failed: 502 Bad Gateway", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestKindAndStepThroughWrapping(t *testing.T) {
	inner := Wrap(errors.New("eof"), KindTransport, http.StatusBadGateway, "request failed").WithStep("reserve")
	outer := fmt.Errorf("find and book: %w", inner)

	assert.Equal(t, KindTransport, KindOf(outer))
	assert.Equal(t, "reserve", StepOf(outer))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "", StepOf(errors.New("plain")))
}

func TestWithStepDoesNotMutateSentinel(t *testing.T) {
	sentinel := New(KindAuthentication, http.StatusUnauthorized, "login rejected")
	_ = sentinel.WithStep("login")

	assert.Empty(t, sentinel.Step)
}
