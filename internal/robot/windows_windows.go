//go:build windows

package robot

import (
	"strings"
	"sync"

	"github.com/go-vgo/robotgo"
	"golang.org/x/sys/windows"
)

var (
	// enumMu guards enumFound while EnumWindows runs enumProc.
	enumMu    sync.Mutex
	enumFound []windows.HWND

	// The runtime hands out a limited number of callbacks, so there is
	// exactly one.
	enumProc = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		if windows.IsWindowVisible(hwnd) {
			enumFound = append(enumFound, hwnd)
		}
		return 1
	})
)

// windowList enumerates the visible top-level windows. Notepad++ hides
// its Find and Replace dialog on close instead of destroying it, so
// invisible windows are left out.
type windowList struct{}

func (l *windowList) list() ([]WindowInfo, error) {
	enumMu.Lock()
	enumFound = enumFound[:0]
	err := windows.EnumWindows(enumProc, nil)
	handles := append([]windows.HWND(nil), enumFound...)
	enumMu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []WindowInfo
	for _, hwnd := range handles {
		title := robotgo.GetTitle(int(hwnd), 1)
		if strings.TrimSpace(title) == "" {
			continue
		}
		var pid uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
			continue
		}
		out = append(out, describe(int(hwnd), int(pid), title))
	}
	return out, nil
}

func (l *windowList) started(string) {}

func (l *windowList) observe(WindowInfo) {}
