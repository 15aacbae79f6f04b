package glimpse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRegion is returned when a search region does not overlap the
	// screen, typically because a window moved off-screen. It is never retried.
	ErrInvalidRegion = errors.New("invalid search region")

	// ErrAssetNotFound is returned when a template file does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrSafetyAbort is returned when the pointer is parked in a screen
	// corner, the operator's signal to stop injecting input.
	ErrSafetyAbort = errors.New("safety abort: pointer in screen corner")
)

// LocateError reports a template that no configuration in a policy could
// find.
type LocateError struct {
	Asset    string
	Region   Region
	Attempts []Attempt
}

// Attempt records one configuration tried by the Locator.
type Attempt struct {
	Config MatchConfig
	Err    error
}

func (e *LocateError) Error() string {
	where := "whole screen"
	if e.Region != (Region{}) {
		where = "region " + e.Region.String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s not found in %s", e.Asset, where)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n    tried %v: %v", a.Config, a.Err)
	}
	return b.String()
}

// Unwrap returns the error of the last attempt.
func (e *LocateError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}
