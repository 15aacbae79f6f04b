package glimpse

import "time"

type options struct {
	driver        Driver
	mainTitle     string
	assetDir      string
	artifactDir   string
	actionDelay   time.Duration
	delayScale    float64
	launchTimeout time.Duration
	attachWindow  time.Duration
	closeTimeout  time.Duration
	timeout       time.Duration
	pollInterval  time.Duration
	failSafe      bool
	savePrompt    savePrompt
	newDocument   Combo
	closeDocument Combo
	closeApp      Combo
	discardKey    Key
}

type savePrompt struct {
	asset  string
	titles TitleSet
}

// Option configures an App created by Launch.
type Option func(*options)

// WithDriver sets the desktop driver. Defaults to the robotgo driver for
// the current display.
func WithDriver(d Driver) Option {
	return func(o *options) {
		o.driver = d
	}
}

// WithMainTitle sets the label that identifies the application's main
// window. Matching is case-insensitive substring matching.
func WithMainTitle(title string) Option {
	return func(o *options) {
		o.mainTitle = title
	}
}

// WithAssetDir sets the directory template images are loaded from.
// The GLIMPSE_ASSETS environment variable is used when unset.
func WithAssetDir(dir string) Option {
	return func(o *options) {
		o.assetDir = dir
	}
}

// WithArtifactDir sets the directory screenshots are written to.
// The GLIMPSE_ARTIFACTS environment variable is used when unset.
func WithArtifactDir(dir string) Option {
	return func(o *options) {
		o.artifactDir = dir
	}
}

// WithActionDelay sets the settle delay that follows every input action.
// The GLIMPSE_ACTION_DELAY environment variable is used when unset.
func WithActionDelay(d time.Duration) Option {
	return func(o *options) {
		o.actionDelay = d
	}
}

// WithDelayScale multiplies every settle delay and fixed wait. A scale of 0
// removes them, which is only sensible with a simulated desktop.
func WithDelayScale(f float64) Option {
	return func(o *options) {
		o.delayScale = f
	}
}

// WithLaunchTimeout sets how long Launch waits for the main window.
// The GLIMPSE_LAUNCH_TIMEOUT environment variable is used when unset.
func WithLaunchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.launchTimeout = d
	}
}

// WithTimeout sets the default timeout for WaitForWindow.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithPollInterval sets the default polling interval for window waits.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithFailSafe enables or disables the corner safety abort. Enabled by
// default.
func WithFailSafe(enabled bool) Option {
	return func(o *options) {
		o.failSafe = enabled
	}
}

// WithSavePrompt describes the "save changes?" prompt the application shows
// on close: the template of its discard button and the titles it may carry.
// Teardown clicks the button, or presses the discard key when it cannot be
// found.
func WithSavePrompt(asset string, titles TitleSet) Option {
	return func(o *options) {
		o.savePrompt = savePrompt{asset: asset, titles: titles}
	}
}

// WithDocumentShortcuts overrides the new-document, close-document and
// discard keys used around each test. Defaults: Ctrl+N, Ctrl+W, "n".
func WithDocumentShortcuts(newDoc, closeDoc Combo, discard Key) Option {
	return func(o *options) {
		o.newDocument = newDoc
		o.closeDocument = closeDoc
		o.discardKey = discard
	}
}

// InputOption configures a single input action.
type InputOption func(*inputOptions)

type inputOptions struct {
	settle    time.Duration
	hasSettle bool
	interval  time.Duration
}

// After overrides the settle delay that follows one action.
func After(d time.Duration) InputOption {
	return func(o *inputOptions) {
		o.settle = d
		o.hasSettle = true
	}
}

// Interval sets the pause between typed characters.
func Interval(d time.Duration) InputOption {
	return func(o *inputOptions) {
		o.interval = d
	}
}

// WaitOption configures a single WaitForWindow call.
type WaitOption func(*waitOptions)

type waitOptions struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// WithinTimeout overrides the timeout for a single wait call.
// A value of 0 means "use defaults". Negative values cause t.Fatal.
func WithinTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.timeout = d
	}
}

// WithWaitPollInterval overrides the polling interval for a single wait call.
// Positive values under 10ms are clamped to 10ms.
func WithWaitPollInterval(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.pollInterval = d
	}
}

const (
	defaultAssetDir      = "ui_elements"
	defaultArtifactDir   = "test_screenshots"
	defaultActionDelay   = 700 * time.Millisecond
	defaultLaunchTimeout = 10 * time.Second
	defaultAttachWindow  = time.Second
	defaultCloseTimeout  = 3 * time.Second
	defaultTimeout       = 5 * time.Second
	defaultPollInterval  = 100 * time.Millisecond
	minPollInterval      = 10 * time.Millisecond
)

func defaultOptions() options {
	return options{
		delayScale:    1,
		attachWindow:  defaultAttachWindow,
		closeTimeout:  defaultCloseTimeout,
		timeout:       defaultTimeout,
		pollInterval:  defaultPollInterval,
		failSafe:      true,
		newDocument:   Ctrl('n'),
		closeDocument: Ctrl('w'),
		closeApp:      Alt(F4),
		discardKey:    Char('n'),
	}
}
