package glimpse

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cboone/glimpse/internal/config"
)

// State is a step in an App's lifecycle.
type State int

// Lifecycle states. FileOpen and FileClosed repeat once per document.
const (
	NotLaunched State = iota
	Launching
	Ready
	FileOpen
	FileClosed
	Closing
	Terminated
)

var stateNames = [...]string{"NotLaunched", "Launching", "Ready", "FileOpen", "FileClosed", "Closing", "Terminated"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// App is a handle to a GUI application under test. It is created with Launch
// and torn down automatically via t.Cleanup on the test that launched it.
//
// An App is meant to be launched once by a top-level test and shared by its
// subtests, each of which opens its own document with NewDocument. App is
// not safe for concurrent use: do not call t.Parallel in those subtests.
type App struct {
	t       testing.TB
	driver  Driver
	locator *Locator
	proc    Process
	owned   bool
	opts    options
	state   State
}

// Launch starts the application and waits for its main window, then
// activates and maximizes it. Any failure is fatal to t, so a suite-level
// test stops before its subtests run.
//
// When the process exits immediately after launch, the application was most
// likely already running; Launch then attaches to the existing window and
// leaves the process alone on teardown.
func Launch(t testing.TB, executable string, userOpts ...Option) *App {
	t.Helper()

	opts := defaultOptions()
	for _, o := range userOpts {
		o(&opts)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("glimpse: launch: %v", err)
	}
	resolveOptions(&opts, cfg)
	exe := resolveExecutable(t, executable, cfg)

	if opts.mainTitle == "" {
		t.Fatalf("glimpse: launch: no main window title configured (use WithMainTitle)")
	}
	if err := ensureDirs(opts.assetDir, opts.artifactDir); err != nil {
		t.Fatalf("%v", err)
	}

	app := &App{
		t:       t,
		driver:  opts.driver,
		locator: NewLocator(opts.driver, NewAssetStore(opts.assetDir)),
		opts:    opts,
		state:   Launching,
	}

	t.Logf("glimpse: launch: starting %s", exe)
	proc, err := app.driver.Start(exe)
	if err != nil {
		t.Fatalf("glimpse: launch: %v", err)
	}
	app.sleep(opts.attachWindow)
	if proc.Running() {
		app.proc = proc
		app.owned = true
	} else {
		t.Logf("glimpse: launch: process exited at once, attaching to the running instance")
	}

	win, err := app.waitForWindow(TitleIn(Titles(opts.mainTitle)), opts.launchTimeout, opts.pollInterval)
	if err != nil {
		app.killOwned()
		t.Fatalf("glimpse: launch: %v", err)
	}
	t.Logf("glimpse: launch: found window %v", win)

	if err := app.driver.Activate(win); err != nil {
		app.killOwned()
		t.Fatalf("glimpse: launch: activate: %v", err)
	}
	app.sleep(opts.actionDelay / 2)
	if err := app.driver.Maximize(win); err != nil {
		app.killOwned()
		t.Fatalf("glimpse: launch: maximize: %v", err)
	}
	app.sleep(opts.actionDelay / 2)

	app.state = Ready
	t.Cleanup(app.teardown)
	return app
}

// State returns the current lifecycle state.
func (a *App) State() State {
	return a.state
}

// Driver returns the desktop driver.
func (a *App) Driver() Driver {
	return a.driver
}

// Locator returns the App's template locator.
func (a *App) Locator() *Locator {
	return a.locator
}

// ArtifactDir returns the directory screenshots are written to.
func (a *App) ArtifactDir() string {
	return a.opts.artifactDir
}

// MainTitle returns the label identifying the main window.
func (a *App) MainTitle() string {
	return a.opts.mainTitle
}

// ActionDelay returns the default settle delay, before scaling.
func (a *App) ActionDelay() time.Duration {
	return a.opts.actionDelay
}

// Settle sleeps for d, scaled by the delay scale.
func (a *App) Settle(d time.Duration) {
	a.sleep(d)
}

// Owned reports whether the App started the process itself.
func (a *App) Owned() bool {
	return a.owned
}

// mainWindow looks the main window up by title. The window behind the
// prompt of a closing application may share the title; the first match is
// the one Launch maximized.
func (a *App) mainWindow() (Window, error) {
	wins, err := a.driver.Windows()
	if err != nil {
		return Window{}, err
	}
	set := Titles(a.opts.mainTitle)
	for _, w := range wins {
		if set.Matches(w.Title) {
			return w, nil
		}
	}
	return Window{}, fmt.Errorf("no window with title containing %q", a.opts.mainTitle)
}

// activateMain brings the main window to the foreground if it is not
// already there.
func (a *App) activateMain() (Window, error) {
	main, err := a.mainWindow()
	if err != nil {
		return Window{}, err
	}
	if active, ok, err := a.driver.ActiveWindow(); err == nil && ok && active.ID == main.ID {
		return main, nil
	}
	if err := a.driver.Activate(main); err != nil {
		return Window{}, fmt.Errorf("activate %v: %w", main, err)
	}
	a.sleep(300 * time.Millisecond)
	return main, nil
}

func (a *App) waitForWindow(m WindowMatcher, timeout, poll time.Duration) (Window, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		wins, err := a.driver.Windows()
		if err == nil {
			for _, w := range wins {
				if ok, _ := m(w); ok {
					return w, nil
				}
			}
		} else {
			lastErr = err
		}
		if time.Now().After(deadline) {
			msg := fmt.Sprintf("timed out after %v waiting for %s", timeout, describe(m))
			if lastErr != nil {
				msg += fmt.Sprintf(" (last error: %v)", lastErr)
			}
			return Window{}, errors.New(msg)
		}
		time.Sleep(poll)
	}
}

// teardown closes the application without saving. Errors are logged and
// never fail the test.
func (a *App) teardown() {
	a.state = Closing
	defer func() { a.state = Terminated }()

	if err := a.closeWindows(); err != nil {
		a.t.Logf("glimpse: teardown: %v", err)
	}
	if !a.owned || !a.proc.Running() {
		return
	}

	a.t.Logf("glimpse: teardown: terminating process %d", a.proc.Pid())
	if err := a.proc.Terminate(); err != nil {
		a.t.Logf("glimpse: teardown: terminate: %v", err)
	}
	if err := a.proc.Wait(a.opts.closeTimeout); err != nil {
		a.t.Logf("glimpse: teardown: %v; killing", err)
		a.killOwned()
	}
}

// closeWindows sends the close shortcut and dismisses the save prompt.
func (a *App) closeWindows() error {
	main, err := a.activateMain()
	if err != nil {
		return err
	}

	if err := a.tap(a.opts.closeApp); err != nil {
		return fmt.Errorf("close shortcut: %w", err)
	}
	a.sleep(time.Second)

	discard := func() {
		if err := a.driver.Tap(a.opts.discardKey); err != nil {
			a.t.Logf("glimpse: teardown: discard key: %v", err)
		}
	}

	prompt, found := a.findSavePrompt(main)
	switch {
	case !found:
		a.t.Logf("glimpse: teardown: no save prompt detected, pressing %q as fallback", a.opts.discardKey)
		discard()
	case a.opts.savePrompt.asset == "":
		discard()
	default:
		m, err := a.locator.Locate(a.opts.savePrompt.asset, DismissPolicy, prompt.Bounds)
		if err != nil {
			a.t.Logf("glimpse: teardown: save prompt %q: %v; pressing %q", prompt.Title, err, a.opts.discardKey)
			discard()
			break
		}
		if err := a.driver.Click(m.Center()); err != nil {
			a.t.Logf("glimpse: teardown: click %s: %v", m.Asset, err)
			discard()
			break
		}
		a.t.Logf("glimpse: teardown: clicked %s", m.Asset)
	}
	a.sleep(500 * time.Millisecond)
	return nil
}

// findSavePrompt returns a window other than main whose title is one of the
// save-prompt titles.
func (a *App) findSavePrompt(main Window) (Window, bool) {
	if len(a.opts.savePrompt.titles) == 0 {
		return Window{}, false
	}
	wins, err := a.driver.Windows()
	if err != nil {
		a.t.Logf("glimpse: teardown: list windows: %v", err)
		return Window{}, false
	}
	for _, w := range wins {
		if w.ID != main.ID && a.opts.savePrompt.titles.Matches(w.Title) {
			return w, true
		}
	}
	return Window{}, false
}

func (a *App) killOwned() {
	if a.owned && a.proc != nil && a.proc.Running() {
		if err := a.proc.Kill(); err != nil {
			a.t.Logf("glimpse: kill: %v", err)
		}
	}
}

func (a *App) tap(c Combo) error {
	return a.driver.Tap(c.Key, c.Mods...)
}

func (a *App) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * a.opts.delayScale)
}

func (a *App) sleep(d time.Duration) {
	if s := a.scaled(d); s > 0 {
		time.Sleep(s)
	}
}

// captureTo writes a full-screen PNG named name into the artifact directory
// and returns its path.
func (a *App) captureTo(name string, region Region) (string, error) {
	scr, err := a.locator.Capture(region)
	if err != nil {
		return "", err
	}
	path := artifactPath(a.opts.artifactDir, name)
	if err := writePNG(path, scr.Image()); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("screenshot was not created: %w", err)
	}
	return path, nil
}
