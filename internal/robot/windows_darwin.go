//go:build darwin

package robot

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/go-vgo/robotgo"
)

// windowList tracks windows of the processes this Runner started. robotgo
// cannot list the windows of a process on macOS, so every window that has
// been seen in the foreground is remembered by handle, and a process with
// no remembered window is reported through its main window.
type windowList struct {
	mu    sync.Mutex
	names []string
	seen  map[int]int // handle to pid
}

func (l *windowList) started(executable string) {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(executable), filepath.Ext(executable)))
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.names, name) {
		l.names = append(l.names, name)
	}
}

func (l *windowList) observe(info WindowInfo) {
	if info.Handle <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remember(info.Handle, info.PID)
}

func (l *windowList) remember(handle, pid int) {
	if l.seen == nil {
		l.seen = make(map[int]int)
	}
	l.seen[handle] = pid
}

func (l *windowList) list() ([]WindowInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pids := make(map[int]bool)
	for _, name := range l.names {
		ids, err := robotgo.FindIds(name)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			pids[id] = true
		}
	}
	if handle := robotgo.GetHandle(); handle > 0 {
		l.remember(handle, robotgo.GetPid())
	}

	var out []WindowInfo
	covered := make(map[int]bool)
	for handle, pid := range l.seen {
		title := robotgo.GetTitle(handle, 1)
		if strings.TrimSpace(title) == "" {
			delete(l.seen, handle)
			continue
		}
		covered[pid] = true
		out = append(out, describe(handle, pid, title))
	}
	for pid := range pids {
		if covered[pid] {
			continue
		}
		title := robotgo.GetTitle(pid)
		if strings.TrimSpace(title) == "" {
			continue
		}
		x, y, w, h := robotgo.GetBounds(pid)
		out = append(out, WindowInfo{Handle: -pid, PID: pid, Title: title, X: x, Y: y, Width: w, Height: h})
	}
	slices.SortFunc(out, func(a, b WindowInfo) int { return a.Handle - b.Handle })
	return out, nil
}
