//go:build !darwin && !windows

package robot

import (
	"strings"
	"sync"

	"github.com/go-vgo/robotgo"
	"github.com/robotn/xgbutil"
	"github.com/robotn/xgbutil/ewmh"
)

// windowList reads the window manager's client list, which holds every
// mapped top-level window of every process.
type windowList struct {
	once sync.Once
	xu   *xgbutil.XUtil
	err  error
}

func (l *windowList) conn() (*xgbutil.XUtil, error) {
	l.once.Do(func() {
		l.xu, l.err = xgbutil.NewConn()
	})
	return l.xu, l.err
}

func (l *windowList) list() ([]WindowInfo, error) {
	xu, err := l.conn()
	if err != nil {
		return nil, err
	}
	clients, err := ewmh.ClientListGet(xu)
	if err != nil {
		return nil, err
	}
	var out []WindowInfo
	for _, win := range clients {
		title, err := ewmh.WmNameGet(xu, win)
		if err != nil || title == "" {
			title = robotgo.GetTitle(int(win), 1)
		}
		if strings.TrimSpace(title) == "" {
			continue
		}
		// Windows without _NET_WM_PID report pid 0.
		pid, _ := ewmh.WmPidGet(xu, win)
		out = append(out, describe(int(win), int(pid), title))
	}
	return out, nil
}

func (l *windowList) started(string) {}

func (l *windowList) observe(WindowInfo) {}
