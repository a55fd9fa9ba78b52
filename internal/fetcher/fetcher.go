// Package fetcher reads single controller variables, either live over HTTP or
// from a mock generator.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heating_monitor/internal/models"
)

// ErrMissingValue is returned when the controller response has no value element.
var ErrMissingValue = errors.New("invalid XML response: missing value element")

// FetchError is the only error kind produced by a Fetcher.
type FetchError struct {
	Address    string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("variable %s: %v", e.Address, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher returns the current value of one controller variable.
type Fetcher interface {
	Fetch(ctx context.Context, address string, cfg models.Config) (models.Reading, error)
}

// DurationObserver receives the duration of every fetch. Implemented by metrics.
type DurationObserver interface {
	ObserveFetch(mode string, d time.Duration, err error)
}

const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Switch selects the mock or live fetcher per call from cfg.UseMock.
type Switch struct {
	mock     Fetcher
	live     Fetcher
	observer DurationObserver
}

func NewSwitch(mock, live Fetcher, observer DurationObserver) *Switch {
	return &Switch{mock: mock, live: live, observer: observer}
}

func (s *Switch) Fetch(ctx context.Context, address string, cfg models.Config) (models.Reading, error) {
	mode, f := ModeLive, s.live
	if cfg.UseMock {
		mode, f = ModeMock, s.mock
	}
	start := time.Now()
	r, err := f.Fetch(ctx, address, cfg)
	if s.observer != nil {
		s.observer.ObserveFetch(mode, time.Since(start), err)
	}
	return r, err
}
