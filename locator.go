package glimpse

import (
	"errors"
	"fmt"
	"image"

	"github.com/cboone/glimpse/internal/imgmatch"
)

// Locator finds template images on screen. It does not depend on
// testing.TB, so tools outside go test can use it too.
type Locator struct {
	driver Driver
	assets *AssetStore
}

// NewLocator returns a Locator that captures through d and loads templates
// from assets.
func NewLocator(d Driver, assets *AssetStore) *Locator {
	return &Locator{driver: d, assets: assets}
}

// Assets returns the Locator's asset store.
func (l *Locator) Assets() *AssetStore {
	return l.assets
}

// SearchRegion resolves a requested region against the screen. The zero
// Region becomes the whole screen; anything else is clamped, and an empty
// result is ErrInvalidRegion.
func (l *Locator) SearchRegion(r Region) (Region, error) {
	w, h, err := l.driver.ScreenSize()
	if err != nil {
		return Region{}, fmt.Errorf("screen size: %w", err)
	}
	if r == (Region{}) {
		return Region{Width: w, Height: h}, nil
	}
	clamped := r.ClampTo(w, h)
	if clamped.Empty() {
		return clamped, fmt.Errorf("%w: %v clamps to %v on a %dx%d screen", ErrInvalidRegion, r, clamped, w, h)
	}
	return clamped, nil
}

// Locate searches for asset within region, trying each configuration of
// policy in order. It returns *LocateError when every configuration fails.
func (l *Locator) Locate(asset string, policy Policy, region Region) (Match, error) {
	tpl, err := l.assets.Load(asset)
	if err != nil {
		return Match{}, err
	}

	search, err := l.SearchRegion(region)
	if err != nil {
		return Match{}, err
	}

	locErr := &LocateError{Asset: asset, Region: region}
	for _, cfg := range policy {
		m, err := l.try(asset, tpl, cfg, search)
		if err == nil {
			return m, nil
		}
		locErr.Attempts = append(locErr.Attempts, Attempt{Config: cfg, Err: err})
	}
	if len(policy) == 0 {
		locErr.Attempts = append(locErr.Attempts, Attempt{Err: errors.New("empty match policy")})
	}
	return Match{}, locErr
}

func (l *Locator) try(asset string, tpl image.Image, cfg MatchConfig, search Region) (Match, error) {
	shot, err := l.driver.Capture(search)
	if err != nil {
		return Match{}, fmt.Errorf("capture: %w", err)
	}

	res, err := imgmatch.Find(shot, tpl, imgmatch.Options{
		Confidence: cfg.Confidence,
		Grayscale:  cfg.Grayscale,
	})
	if err != nil {
		return Match{}, err
	}

	// Drivers may return captures anchored at the origin or at the region
	// corner; translate into screen coordinates either way.
	box := res.Bounds.Sub(shot.Bounds().Min).Add(image.Pt(search.X, search.Y))
	return Match{
		Asset:  asset,
		Box:    regionOf(box),
		Score:  res.Score,
		Config: cfg,
	}, nil
}

// Capture grabs region (the zero Region means the whole screen).
func (l *Locator) Capture(region Region) (*Screen, error) {
	search, err := l.SearchRegion(region)
	if err != nil {
		return nil, err
	}
	img, err := l.driver.Capture(search)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return newScreen(img, search), nil
}
