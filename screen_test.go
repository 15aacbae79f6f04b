package glimpse

import (
	"testing"
	"time"

	"github.com/cboone/glimpse/internal/config"
)

func TestRegionClampTo(t *testing.T) {
	tests := []struct {
		name string
		in   Region
		want Region
	}{
		{"inside", Region{X: 10, Y: 10, Width: 20, Height: 20}, Region{X: 10, Y: 10, Width: 20, Height: 20}},
		{"negative corner", Region{X: -8, Y: -8, Width: 100, Height: 50}, Region{X: 0, Y: 0, Width: 92, Height: 42}},
		{"overhanging", Region{X: 300, Y: 190, Width: 50, Height: 50}, Region{X: 300, Y: 190, Width: 20, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.ClampTo(320, 200); got != tt.want {
				t.Errorf("ClampTo = %v, want %v", got, tt.want)
			}
		})
	}

	if got := (Region{X: 400, Y: 0, Width: 10, Height: 10}).ClampTo(320, 200); !got.Empty() {
		t.Errorf("off-screen region clamped to %v, want empty", got)
	}
}

func TestRegionGeometry(t *testing.T) {
	r := Region{X: 170, Y: 50, Width: 28, Height: 12}
	if c := r.Center(); c != (Point{X: 184, Y: 56}) {
		t.Errorf("Center = %v", c)
	}
	if !r.Contains(r.Center()) {
		t.Error("region does not contain its center")
	}
	if r.Contains(Point{X: 198, Y: 50}) {
		t.Error("right edge is exclusive")
	}
}

func TestInCorner(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{1, 1}, true},
		{Point{319, 0}, true},
		{Point{0, 199}, true},
		{Point{318, 198}, true},
		{Point{0, 100}, false},
		{Point{160, 0}, false},
		{Point{160, 100}, false},
	}
	for _, tt := range tests {
		if got := inCorner(tt.p, 320, 200); got != tt.want {
			t.Errorf("inCorner(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	if got := sanitizeName("TestReplace/positive_replace_once"); got != "TestReplace_positive_replace_once" {
		t.Errorf("sanitizeName = %q", got)
	}
	if got := len(sanitizeName(string(make([]byte, 200)))); got != 80 {
		t.Errorf("sanitizeName length = %d, want 80", got)
	}
	if got := assetStem("ui_elements/find_next_button.png"); got != "find_next_button" {
		t.Errorf("assetStem = %q", got)
	}
	if got := artifactPath("shots", "debug"); got != "shots/debug.png" {
		t.Errorf("artifactPath = %q", got)
	}
}

func TestCombo(t *testing.T) {
	if got := Ctrl('H').String(); got != "ctrl+h" {
		t.Errorf("Ctrl('H') = %q", got)
	}
	if got := Alt(F4).String(); got != "alt+f4" {
		t.Errorf("Alt(F4) = %q", got)
	}
	if got := Chord(Home, ModCtrl, ModShift).String(); got != "ctrl+shift+home" {
		t.Errorf("Chord = %q", got)
	}
}

func TestResolveOptions(t *testing.T) {
	t.Run("environment fills unset options", func(t *testing.T) {
		opts := defaultOptions()
		opts.driver = nopDriver{}
		resolveOptions(&opts, &config.Config{
			AssetDir:      "env-assets",
			ArtifactDir:   "env-shots",
			ActionDelay:   250 * time.Millisecond,
			LaunchTimeout: 3 * time.Second,
		})
		if opts.assetDir != "env-assets" || opts.artifactDir != "env-shots" {
			t.Errorf("dirs = %q, %q", opts.assetDir, opts.artifactDir)
		}
		if opts.actionDelay != 250*time.Millisecond || opts.launchTimeout != 3*time.Second {
			t.Errorf("delays = %v, %v", opts.actionDelay, opts.launchTimeout)
		}
	})

	t.Run("options win over environment", func(t *testing.T) {
		opts := defaultOptions()
		for _, o := range []Option{WithDriver(nopDriver{}), WithAssetDir("mine"), WithActionDelay(time.Second), WithPollInterval(time.Millisecond)} {
			o(&opts)
		}
		resolveOptions(&opts, &config.Config{AssetDir: "env-assets", ActionDelay: 250 * time.Millisecond})
		if opts.assetDir != "mine" || opts.actionDelay != time.Second {
			t.Errorf("assetDir = %q, actionDelay = %v", opts.assetDir, opts.actionDelay)
		}
		if opts.pollInterval != minPollInterval {
			t.Errorf("pollInterval = %v, want clamp to %v", opts.pollInterval, minPollInterval)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		opts := defaultOptions()
		opts.driver = nopDriver{}
		resolveOptions(&opts, &config.Config{})
		if opts.assetDir != defaultAssetDir || opts.artifactDir != defaultArtifactDir {
			t.Errorf("dirs = %q, %q", opts.assetDir, opts.artifactDir)
		}
		if opts.actionDelay != defaultActionDelay || opts.launchTimeout != defaultLaunchTimeout {
			t.Errorf("delays = %v, %v", opts.actionDelay, opts.launchTimeout)
		}
	})
}

// nopDriver satisfies Driver for option tests that never touch the desktop.
type nopDriver struct{ Driver }
