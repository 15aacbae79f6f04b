package glimpse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
)

// ExpectImage checks that asset is visible inside win, using the indicator
// policy. The search area is saved as debug_validation_search_region.png
// first; on failure the screen is saved as error_validation_failed_<asset>.png
// and the test fails.
func (d *Doc) ExpectImage(asset string, win Window) Match {
	d.t.Helper()
	return d.ExpectImageIn(asset, win.Bounds)
}

// ExpectImageIn is ExpectImage for an explicit screen region.
func (d *Doc) ExpectImageIn(asset string, region Region) Match {
	d.t.Helper()

	search, err := d.app.locator.SearchRegion(region)
	if err != nil {
		d.diagnostic("error_window_region_invalid.png", Region{})
		d.t.Fatalf("glimpse: expect-image: VALIDATION FAILED: %s: %v", asset, err)
	}
	d.diagnostic("debug_validation_search_region.png", search)

	m, err := d.app.locator.Locate(asset, IndicatorPolicy, search)
	if err != nil {
		d.diagnostic(fmt.Sprintf("error_validation_failed_%s.png", assetStem(asset)), Region{})
		d.t.Fatalf("glimpse: expect-image: VALIDATION FAILED: indicator %v", err)
	}
	d.t.Logf("glimpse: validation passed: %v", m)
	return m
}

// Text reads the full contents of the focused input through the clipboard:
// select all, copy, read. In the main window that is the document. Line
// endings are normalized to "\n".
func (d *Doc) Text() string {
	d.t.Helper()
	drv := d.app.driver
	if err := drv.WriteClipboard(""); err != nil {
		d.t.Logf("glimpse: text: clear clipboard: %v", err)
	}
	d.Hotkey(Ctrl('a'), After(200*time.Millisecond))
	d.Hotkey(Ctrl('c'), After(300*time.Millisecond))
	got, err := drv.ReadClipboard()
	if err != nil {
		d.t.Fatalf("glimpse: text: read clipboard: %v", err)
	}
	return normalizeNewlines(got)
}

// ExpectText fails the test unless the document's text equals want.
func (d *Doc) ExpectText(want string) {
	d.t.Helper()
	got := d.Text()
	if diff := cmp.Diff(normalizeNewlines(want), got); diff != "" {
		d.t.Fatalf("glimpse: expect-text: mismatch\nexpected: %q\nactual:   %q\n(-want +got):\n%s", want, got, diff)
	}
}

// ExpectNoWindow fails the test if any window is accepted by m.
func (d *Doc) ExpectNoWindow(m WindowMatcher) {
	d.t.Helper()
	if wins := d.Windows(m); len(wins) > 0 {
		d.t.Fatalf("glimpse: expect-no-window: %s matched %v", describe(m), wins[0])
	}
}

// ExpectActive fails the test unless the foreground window is accepted by m.
func (d *Doc) ExpectActive(m WindowMatcher) Window {
	d.t.Helper()
	w := d.ActiveWindow()
	if ok, desc := m(w); !ok {
		d.t.Fatalf("glimpse: expect-active: %v does not match %s", w, desc)
	}
	return w
}

// CaptureArtifact saves a full-screen PNG named name into the artifact
// directory and fails the test if the file was not written.
func (d *Doc) CaptureArtifact(name string) string {
	d.t.Helper()
	path, err := d.app.captureTo(name, Region{})
	if err != nil {
		d.t.Fatalf("glimpse: capture %s: %v", name, err)
	}
	d.t.Logf("glimpse: saved %s", path)
	return path
}

// diagnostic saves a best-effort screenshot. Failures are logged only.
func (d *Doc) diagnostic(name string, region Region) {
	path, err := d.app.captureTo(name, region)
	if err != nil {
		if errors.Is(err, ErrInvalidRegion) {
			path, err = d.app.captureTo(name, Region{})
		}
		if err != nil {
			d.t.Logf("glimpse: diagnostic %s: %v", name, err)
			return
		}
	}
	d.t.Logf("glimpse: diagnostic screenshot %s", path)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
