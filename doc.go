// Package glimpse provides black-box testing for desktop GUI applications.
//
// glimpse launches a real application, injects keystrokes and clicks,
// finds controls on screen by template image matching, and performs
// assertions through the standard [testing.TB] interface. It targets
// applications with no automation API: everything is driven the way a user
// would drive it.
//
// # Quick Start
//
//	func TestEditor(t *testing.T) {
//		app := glimpse.Launch(t, "/opt/editor/editor",
//			glimpse.WithMainTitle("Editor"),
//		)
//		t.Run("type", func(t *testing.T) {
//			doc := app.NewDocument(t)
//			doc.Type("hello")
//			doc.ExpectText("hello")
//		})
//	}
//
// Cleanup is automatic through t.Cleanup; there is no Close method.
//
// # Lifecycle
//
// [Launch] starts the application once per top-level test and waits for its
// main window, which it activates and maximizes. If the process exits at
// once, the application was already running and Launch attaches to the
// existing window instead. Teardown closes the application, dismisses its
// "save changes?" prompt without saving, and terminates the process it
// started.
//
// [App.NewDocument] gives each subtest a fresh document. When the subtest
// ends its document is closed without saving and stray dialogs are
// dismissed, so the next subtest starts from a clean main window.
//
// Subtests share one desktop and must not call t.Parallel.
//
// # Locating Controls
//
// Controls are found by template images stored in an asset directory
// (default "ui_elements", or GLIMPSE_ASSETS). A [Policy] is an ordered list
// of [MatchConfig] values; the [Locator] tries each in turn and succeeds on
// the first that finds the template. The built-in policies are
// [ControlPolicy] for buttons and menu items, [IndicatorPolicy] for result
// markers, and [DismissPolicy] for buttons on prompts. Each tries a
// grayscale match first and then a color match.
//
// Searches may be restricted to a window's bounds. Regions are clamped to
// the screen; one that lies entirely off-screen is [ErrInvalidRegion] and is
// never retried.
//
// # Validation
//
// Results are checked two ways. [Doc.ExpectImage] looks for an indicator
// template inside a window. [Doc.ExpectText] reads the document through the
// clipboard and compares it with the expected text. Both save diagnostic
// screenshots to the artifact directory (default "test_screenshots", or
// GLIMPSE_ARTIFACTS) before failing.
//
// # Safety
//
// Moving the pointer into a screen corner aborts the running test before
// the next input action. Disable with [WithFailSafe].
//
// # Configuration
//
// Options passed to Launch take precedence over the environment. A .env
// file in the working directory is loaded first if present.
//
//   - GLIMPSE_EDITOR: application to launch when none is given
//   - GLIMPSE_ASSETS, GLIMPSE_ARTIFACTS: asset and artifact directories
//   - GLIMPSE_ACTION_DELAY: settle delay after each action (default 0.7s)
//   - GLIMPSE_LAUNCH_TIMEOUT: wait for the main window (default 10s)
//   - GLIMPSE_UPDATE=1: rewrite golden files used by [Doc.MatchSnapshot]
//
// Without an application to launch, Launch skips the test.
//
// # Requirements
//
//   - Go 1.24+
//   - a graphical session (robotgo needs X11, Windows or macOS)
//   - cgo, for screen capture and input injection
//
// The [Driver] interface separates the package from the display; tests of
// code built on glimpse can supply a simulated desktop with [WithDriver].
package glimpse
