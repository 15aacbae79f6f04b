package glimpse

import (
	"image"
	"time"
)

// Driver is the boundary between glimpse and the desktop: process launch,
// window control, input injection, screen capture and the clipboard.
//
// The default Driver talks to the real display through robotgo. Tests can
// supply their own with WithDriver.
type Driver interface {
	// Start launches the executable with no arguments.
	Start(executable string) (Process, error)

	// Windows lists the current top-level windows.
	Windows() ([]Window, error)
	// ActiveWindow returns the foreground window. ok is false when there is
	// none.
	ActiveWindow() (w Window, ok bool, err error)
	Activate(w Window) error
	Maximize(w Window) error
	CloseWindow(w Window) error

	ScreenSize() (width, height int, err error)
	// Capture returns the pixels of r in screen coordinates. The returned
	// image's bounds may start at the origin or at r's corner.
	Capture(r Region) (image.Image, error)

	Click(p Point) error
	Pointer() (Point, error)
	// Type sends text as keystrokes, pausing interval between characters.
	Type(text string, interval time.Duration) error
	// Tap presses key while holding mods.
	Tap(key Key, mods ...Key) error

	ReadClipboard() (string, error)
	WriteClipboard(text string) error
}

// Process is a launched application.
type Process interface {
	Pid() int
	Running() bool
	Terminate() error
	Kill() error
	// Wait blocks until the process exits or timeout elapses.
	Wait(timeout time.Duration) error
}
