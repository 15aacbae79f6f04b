package glimpse

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// Doc is one test's view of an App: a fresh document opened by NewDocument
// and closed without saving when the test ends. All input goes through a
// Doc so that failures are reported against the right test.
type Doc struct {
	t   testing.TB
	app *App
}

// NewDocument opens a new empty document in the main window and registers
// a cleanup on t that closes it, discarding its contents. The cleanup logs
// problems instead of failing t.
func (a *App) NewDocument(t testing.TB) *Doc {
	t.Helper()

	d := &Doc{t: t, app: a}
	if _, err := a.activateMain(); err != nil {
		t.Fatalf("glimpse: new document: %v", err)
	}
	d.requireSafe("new document")
	if err := a.tap(a.opts.newDocument); err != nil {
		t.Fatalf("glimpse: new document: %s: %v", a.opts.newDocument, err)
	}
	a.sleep(a.opts.actionDelay)
	a.state = FileOpen
	t.Cleanup(d.close)
	return d
}

// close dismisses stray dialogs and closes the document without saving.
func (d *Doc) close() {
	a := d.app
	main, err := a.mainWindow()
	if err != nil {
		d.t.Logf("glimpse: close document: %v", err)
		return
	}

	if active, ok, _ := a.driver.ActiveWindow(); ok && active.ID != main.ID {
		d.t.Logf("glimpse: close document: dismissing %v", active)
		_ = a.driver.Tap(Escape)
		a.sleep(300 * time.Millisecond)
		if still, ok, _ := a.driver.ActiveWindow(); ok && still.ID == active.ID {
			if err := a.driver.CloseWindow(still); err != nil {
				d.t.Logf("glimpse: close document: close %v: %v", still, err)
			}
			a.sleep(300 * time.Millisecond)
		}
	}

	if _, err := a.activateMain(); err != nil {
		d.t.Logf("glimpse: close document: %v", err)
		return
	}
	if err := a.tap(a.opts.closeDocument); err != nil {
		d.t.Logf("glimpse: close document: %s: %v", a.opts.closeDocument, err)
		return
	}
	a.sleep(500 * time.Millisecond)
	// Only a document with changes raises a save prompt. Without one the
	// discard key would be typed into the next tab, so it is sent only when
	// a window other than the main one has focus.
	if active, ok, _ := a.driver.ActiveWindow(); ok && active.ID != main.ID {
		if err := a.driver.Tap(a.opts.discardKey); err != nil {
			d.t.Logf("glimpse: close document: discard: %v", err)
		}
		a.sleep(500 * time.Millisecond)
	}
	a.state = FileClosed
}

// App returns the application the document belongs to.
func (d *Doc) App() *App {
	return d.app
}

// Type enters text at the focus, one keystroke per character.
func (d *Doc) Type(text string, opts ...InputOption) {
	d.t.Helper()
	io := d.inputOptions(opts)
	d.requireSafe("type")
	if err := d.app.driver.Type(text, d.app.scaled(io.interval)); err != nil {
		d.t.Fatalf("glimpse: type: %v", err)
	}
	d.app.sleep(io.settle)
}

// Press taps each key in turn.
func (d *Doc) Press(keys ...Key) {
	d.t.Helper()
	d.requireSafe("press")
	for _, k := range keys {
		if err := d.app.driver.Tap(k); err != nil {
			d.t.Fatalf("glimpse: press %q: %v", k, err)
		}
	}
	d.app.sleep(d.app.opts.actionDelay)
}

// Tap presses a single key with its own settle delay.
func (d *Doc) Tap(k Key, opts ...InputOption) {
	d.t.Helper()
	io := d.inputOptions(opts)
	d.requireSafe("press")
	if err := d.app.driver.Tap(k); err != nil {
		d.t.Fatalf("glimpse: press %q: %v", k, err)
	}
	d.app.sleep(io.settle)
}

// Hotkey sends a key combination such as Ctrl('h').
func (d *Doc) Hotkey(c Combo, opts ...InputOption) {
	d.t.Helper()
	io := d.inputOptions(opts)
	d.requireSafe("hotkey")
	if err := d.app.tap(c); err != nil {
		d.t.Fatalf("glimpse: hotkey %s: %v", c, err)
	}
	d.app.sleep(io.settle)
}

// Click clicks at p.
func (d *Doc) Click(p Point, opts ...InputOption) {
	d.t.Helper()
	io := d.inputOptions(opts)
	d.requireSafe("click")
	if err := d.app.driver.Click(p); err != nil {
		d.t.Fatalf("glimpse: click %v: %v", p, err)
	}
	d.app.sleep(io.settle)
}

// ClickAsset locates asset within region and clicks its center. A failed
// lookup is fatal, exactly as with Locate.
func (d *Doc) ClickAsset(asset string, policy Policy, region Region, opts ...InputOption) Match {
	d.t.Helper()
	m := d.Locate(asset, policy, region)
	d.Click(m.Center(), opts...)
	return m
}

// Locate finds asset within region (the zero Region means the whole
// screen). On failure it saves a screenshot of the search area and fails
// the test with every configuration that was tried.
func (d *Doc) Locate(asset string, policy Policy, region Region) Match {
	d.t.Helper()
	m, err := d.app.locator.Locate(asset, policy, region)
	if err == nil {
		d.t.Logf("glimpse: locate: %v", m)
		return m
	}

	switch {
	case errors.Is(err, ErrAssetNotFound):
		d.diagnostic(fmt.Sprintf("error_source_ui_image_not_found_%s.png", assetStem(asset)), Region{})
		d.t.Fatalf("glimpse: locate: %v", err)
	case errors.Is(err, ErrInvalidRegion):
		d.diagnostic("error_window_region_invalid.png", Region{})
		d.t.Fatalf("glimpse: locate: %s: %v", asset, err)
	}
	d.diagnostic(fmt.Sprintf("error_%s_not_found_%s.png", assetStem(asset), sanitizeName(d.t.Name())), region)
	d.t.Fatalf("glimpse: locate: %v", err)
	return Match{}
}

// RequireAssets fails the test unless every named template exists in the
// asset directory. A full-screen diagnostic is saved for the first missing
// one.
func (d *Doc) RequireAssets(names ...string) {
	d.t.Helper()
	store := d.app.locator.Assets()
	for _, name := range names {
		if store.Exists(name) {
			continue
		}
		d.diagnostic(fmt.Sprintf("error_source_ui_image_not_found_%s.png", assetStem(name)), Region{})
		d.t.Fatalf("glimpse: assets: %s: %v", store.Path(name), ErrAssetNotFound)
	}
}

// TryLocate is Locate without the failure: it reports whether asset was
// found.
func (d *Doc) TryLocate(asset string, policy Policy, region Region) (Match, bool) {
	d.t.Helper()
	m, err := d.app.locator.Locate(asset, policy, region)
	if err != nil {
		d.t.Logf("glimpse: locate: %v", err)
		return Match{}, false
	}
	return m, true
}

// ActiveWindow returns the foreground window, failing the test if there is
// none.
func (d *Doc) ActiveWindow() Window {
	d.t.Helper()
	w, ok, err := d.app.driver.ActiveWindow()
	if err != nil {
		d.t.Fatalf("glimpse: active window: %v", err)
	}
	if !ok {
		d.t.Fatalf("glimpse: active window: no window has focus")
	}
	return w
}

// Windows returns the top-level windows accepted by m, or every window when
// m is nil.
func (d *Doc) Windows(m WindowMatcher) []Window {
	d.t.Helper()
	wins, err := d.app.driver.Windows()
	if err != nil {
		d.t.Fatalf("glimpse: windows: %v", err)
	}
	if m == nil {
		return wins
	}
	var out []Window
	for _, w := range wins {
		if ok, _ := m(w); ok {
			out = append(out, w)
		}
	}
	return out
}

// WaitForWindow blocks until a window accepted by m exists, or fails the
// test after the timeout.
func (d *Doc) WaitForWindow(m WindowMatcher, opts ...WaitOption) Window {
	d.t.Helper()
	wo := waitOptions{timeout: d.app.opts.timeout, pollInterval: d.app.opts.pollInterval}
	for _, o := range opts {
		o(&wo)
	}
	if wo.timeout < 0 {
		d.t.Fatalf("glimpse: wait for window: timeout must be >= 0, got %v", wo.timeout)
	}
	if wo.timeout == 0 {
		wo.timeout = d.app.opts.timeout
	}
	if wo.pollInterval <= 0 {
		wo.pollInterval = d.app.opts.pollInterval
	}
	if wo.pollInterval < minPollInterval {
		wo.pollInterval = minPollInterval
	}
	w, err := d.app.waitForWindow(m, wo.timeout, wo.pollInterval)
	if err != nil {
		d.t.Fatalf("glimpse: wait for window: %v", err)
	}
	return w
}

// Activate brings w to the foreground.
func (d *Doc) Activate(w Window) {
	d.t.Helper()
	d.requireSafe("activate")
	if err := d.app.driver.Activate(w); err != nil {
		d.t.Fatalf("glimpse: activate %v: %v", w, err)
	}
	d.app.sleep(300 * time.Millisecond)
}

// MainWindow returns the application's main window.
func (d *Doc) MainWindow() Window {
	d.t.Helper()
	w, err := d.app.mainWindow()
	if err != nil {
		d.t.Fatalf("glimpse: main window: %v", err)
	}
	return w
}

// ActivateMain brings the main window to the foreground and returns it.
func (d *Doc) ActivateMain() Window {
	d.t.Helper()
	d.requireSafe("activate")
	w, err := d.app.activateMain()
	if err != nil {
		d.t.Fatalf("glimpse: main window: %v", err)
	}
	return w
}

// Settle sleeps for d, scaled like every other delay.
func (d *Doc) Settle(dur time.Duration) {
	d.app.sleep(dur)
}

// Screen captures region (the zero Region means the whole screen).
func (d *Doc) Screen(region Region) *Screen {
	d.t.Helper()
	scr, err := d.app.locator.Capture(region)
	if err != nil {
		d.t.Fatalf("glimpse: screen: %v", err)
	}
	return scr
}

// ClearField selects everything in the focused input and deletes it.
func (d *Doc) ClearField() {
	d.t.Helper()
	d.Hotkey(Ctrl('a'), After(200*time.Millisecond))
	d.Press(Delete)
}

func (d *Doc) inputOptions(opts []InputOption) inputOptions {
	io := inputOptions{}
	for _, o := range opts {
		o(&io)
	}
	if !io.hasSettle {
		io.settle = d.app.opts.actionDelay
	}
	return io
}

// requireSafe aborts the test when the pointer sits in a screen corner.
// Moving the mouse there is the operator's way to stop a run.
func (d *Doc) requireSafe(op string) {
	d.t.Helper()
	if !d.app.opts.failSafe {
		return
	}
	p, err := d.app.driver.Pointer()
	if err != nil {
		return
	}
	w, h, err := d.app.driver.ScreenSize()
	if err != nil {
		return
	}
	if inCorner(p, w, h) {
		d.t.Fatalf("glimpse: safety-abort: pointer at %v during %s: %v", p, op, ErrSafetyAbort)
	}
}
