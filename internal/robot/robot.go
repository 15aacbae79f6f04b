// Package robot provides low-level desktop automation: input injection,
// window control, screen capture and clipboard access. It wraps robotgo and
// atotto/clipboard and is internal to the glimpse package.
package robot

import (
	"fmt"
	"image"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/go-vgo/robotgo"
)

// Runner executes desktop operations against the current display.
type Runner struct {
	// typeChunk bounds how many runes are sent per robotgo.TypeStr call when
	// no per-character interval is requested.
	typeChunk int

	windows windowList
}

// New creates a Runner bound to the current display.
func New() *Runner {
	return &Runner{typeChunk: 64}
}

// Error represents a failed desktop operation.
type Error struct {
	Op  string
	Arg string
	Err error
}

func (e *Error) Error() string {
	if e.Arg != "" {
		return fmt.Sprintf("robot %s %s failed: %v", e.Op, e.Arg, e.Err)
	}
	return fmt.Sprintf("robot %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WindowInfo describes a top-level window.
type WindowInfo struct {
	// Handle is the native window handle: an HWND, an X11 window id or a
	// CoreGraphics window id. Windows of one process share PID but never
	// Handle. A negative Handle stands for the main window of process
	// -Handle, used where the platform cannot list a process's windows.
	Handle              int
	PID                 int
	Title               string
	X, Y, Width, Height int
}

// ID identifies the window among every window on the display.
func (w WindowInfo) ID() int {
	return w.Handle
}

// describe fills in the bounds of the window with the given handle.
func describe(handle, pid int, title string) WindowInfo {
	x, y, w, h := robotgo.GetBounds(handle, 1)
	return WindowInfo{Handle: handle, PID: pid, Title: title, X: x, Y: y, Width: w, Height: h}
}

// target splits a Handle into the value robotgo expects and whether that
// value is a native handle rather than a process id.
func target(handle int) (id int, native bool) {
	if handle < 0 {
		return -handle, false
	}
	return handle, true
}

// Start launches the executable without arguments and returns the process.
func (r *Runner) Start(executable string) (*Process, error) {
	if _, err := os.Stat(executable); err != nil {
		if _, lookErr := exec.LookPath(executable); lookErr != nil {
			return nil, &Error{Op: "start", Arg: executable, Err: err}
		}
	}
	cmd := exec.Command(executable)
	if err := cmd.Start(); err != nil {
		return nil, &Error{Op: "start", Arg: executable, Err: err}
	}
	r.windows.started(executable)
	p := &Process{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

// Windows lists the titled top-level windows on the display.
func (r *Runner) Windows() ([]WindowInfo, error) {
	out, err := r.windows.list()
	if err != nil {
		return nil, &Error{Op: "list-windows", Err: err}
	}
	return out, nil
}

// Active returns the foreground window.
func (r *Runner) Active() (WindowInfo, error) {
	handle := robotgo.GetHandle()
	if handle == 0 {
		return WindowInfo{}, &Error{Op: "active-window", Err: fmt.Errorf("no foreground window")}
	}
	info := describe(handle, robotgo.GetPid(), robotgo.GetTitle(handle, 1))
	r.windows.observe(info)
	return info, nil
}

// Activate brings the window with the given handle to the foreground.
func (r *Runner) Activate(handle int) error {
	id, native := target(handle)
	var err error
	if native {
		err = robotgo.ActivePid(id, 1)
	} else {
		err = robotgo.ActivePid(id)
	}
	if err != nil {
		return &Error{Op: "activate", Arg: fmt.Sprint(handle), Err: err}
	}
	return nil
}

// Maximize maximizes the window with the given handle.
func (r *Runner) Maximize(handle int) {
	if id, native := target(handle); native {
		robotgo.MaxWindow(id, true, 1)
	} else {
		robotgo.MaxWindow(id, true)
	}
}

// Close asks the window with the given handle to close.
func (r *Runner) Close(handle int) {
	if id, native := target(handle); native {
		robotgo.CloseWindow(id, 1)
	} else {
		robotgo.CloseWindow(id)
	}
}

// ScreenSize returns the main display size in pixels.
func (r *Runner) ScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}

// Capture grabs the given screen rectangle.
func (r *Runner) Capture(x, y, w, h int) (image.Image, error) {
	bit := robotgo.CaptureScreen(x, y, w, h)
	if bit == nil {
		return nil, &Error{Op: "capture", Arg: fmt.Sprintf("(%d, %d, %d, %d)", x, y, w, h), Err: fmt.Errorf("no bitmap returned")}
	}
	defer robotgo.FreeBitmap(bit)
	return robotgo.ToImage(bit), nil
}

// Click moves the pointer to (x, y) and clicks the left button.
func (r *Runner) Click(x, y int) {
	robotgo.Move(x, y)
	robotgo.Click("left", false)
}

// Pointer returns the current pointer position.
func (r *Runner) Pointer() (x, y int) {
	return robotgo.Location()
}

// Type sends text as keystrokes, pausing interval between characters.
func (r *Runner) Type(text string, interval time.Duration) {
	if interval <= 0 {
		runes := []rune(text)
		for len(runes) > 0 {
			n := min(len(runes), r.typeChunk)
			robotgo.TypeStr(string(runes[:n]))
			runes = runes[n:]
		}
		return
	}
	for _, c := range text {
		robotgo.TypeStr(string(c))
		time.Sleep(interval)
	}
}

// Tap presses and releases key while holding mods.
func (r *Runner) Tap(key string, mods ...string) error {
	args := make([]interface{}, len(mods))
	for i, m := range mods {
		args[i] = m
	}
	if err := robotgo.KeyTap(key, args...); err != nil {
		return &Error{Op: "key-tap", Arg: strings.Join(append(mods, key), "+"), Err: err}
	}
	return nil
}

// ReadClipboard returns the clipboard's plain-text content.
func (r *Runner) ReadClipboard() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", &Error{Op: "read-clipboard", Err: err}
	}
	return s, nil
}

// WriteClipboard replaces the clipboard's content.
func (r *Runner) WriteClipboard(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return &Error{Op: "write-clipboard", Err: err}
	}
	return nil
}

// Process is a launched application process.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// Pid returns the process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Running reports whether the process has not exited yet.
func (p *Process) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Terminate asks the process to exit.
func (p *Process) Terminate() error {
	if !p.Running() {
		return nil
	}
	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		// Windows has no SIGINT for GUI processes.
		return p.Kill()
	}
	return nil
}

// Kill forcibly stops the process.
func (p *Process) Kill() error {
	if !p.Running() {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil {
		return &Error{Op: "kill", Arg: fmt.Sprint(p.Pid()), Err: err}
	}
	return nil
}

// Wait blocks until the process exits or timeout elapses.
func (p *Process) Wait(timeout time.Duration) error {
	select {
	case <-p.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("process %d still running after %v", p.Pid(), timeout)
	}
}
