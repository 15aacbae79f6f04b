package glimpse

import (
	"fmt"
	"image"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cboone/glimpse/internal/config"
	"github.com/cboone/glimpse/internal/robot"
)

// resolveExecutable determines the application path by checking, in order:
// 1. the executable argument to Launch
// 2. GLIMPSE_EDITOR environment variable
//
// With neither set the test is skipped: there is nothing to drive.
func resolveExecutable(t testing.TB, configured string, cfg *config.Config) string {
	t.Helper()

	if configured != "" {
		return configured
	}
	if cfg.Editor != "" {
		return cfg.Editor
	}
	t.Skipf("glimpse: launch: no application configured (set %s)", config.EnvEditor)
	return ""
}

// resolveOptions fills unset options from the environment, then defaults.
func resolveOptions(opts *options, cfg *config.Config) {
	if opts.assetDir == "" {
		opts.assetDir = firstNonEmpty(cfg.AssetDir, defaultAssetDir)
	}
	if opts.artifactDir == "" {
		opts.artifactDir = firstNonEmpty(cfg.ArtifactDir, defaultArtifactDir)
	}
	if opts.actionDelay == 0 {
		opts.actionDelay = cfg.ActionDelay
		if opts.actionDelay == 0 {
			opts.actionDelay = defaultActionDelay
		}
	}
	if opts.launchTimeout == 0 {
		opts.launchTimeout = cfg.LaunchTimeout
		if opts.launchTimeout == 0 {
			opts.launchTimeout = defaultLaunchTimeout
		}
	}
	if opts.pollInterval < minPollInterval {
		opts.pollInterval = minPollInterval
	}
	if opts.driver == nil {
		opts.driver = NewRobotDriver()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ensureDirs creates the asset and artifact directories if absent.
func ensureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("glimpse: launch: failed to create %s: %w", d, err)
		}
	}
	return nil
}

// sanitizeName replaces characters that are not filesystem-safe.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}

// assetStem returns an asset's file name without directory or extension.
func assetStem(asset string) string {
	base := asset
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// cornerSlack is how close to a screen corner the pointer must be to trigger
// the safety abort.
const cornerSlack = 1

// inCorner reports whether p is parked in a corner of a width x height screen.
func inCorner(p Point, width, height int) bool {
	nearX := p.X <= cornerSlack || p.X >= width-1-cornerSlack
	nearY := p.Y <= cornerSlack || p.Y >= height-1-cornerSlack
	return nearX && nearY
}

// robotDriver adapts internal/robot to the Driver interface.
type robotDriver struct {
	r *robot.Runner
}

// NewRobotDriver returns a Driver for the current display.
func NewRobotDriver() Driver {
	return &robotDriver{r: robot.New()}
}

func (d *robotDriver) Start(executable string) (Process, error) {
	p, err := d.r.Start(executable)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (d *robotDriver) Windows() ([]Window, error) {
	infos, err := d.r.Windows()
	if err != nil {
		return nil, err
	}
	out := make([]Window, len(infos))
	for i, info := range infos {
		out[i] = windowOf(info)
	}
	return out, nil
}

func (d *robotDriver) ActiveWindow() (Window, bool, error) {
	info, err := d.r.Active()
	if err != nil {
		return Window{}, false, nil
	}
	return windowOf(info), true, nil
}

func (d *robotDriver) Activate(w Window) error {
	return d.r.Activate(w.ID)
}

func (d *robotDriver) Maximize(w Window) error {
	d.r.Maximize(w.ID)
	return nil
}

func (d *robotDriver) CloseWindow(w Window) error {
	d.r.Close(w.ID)
	return nil
}

func (d *robotDriver) ScreenSize() (int, int, error) {
	w, h := d.r.ScreenSize()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("robot reported screen size %dx%d", w, h)
	}
	return w, h, nil
}

func (d *robotDriver) Capture(r Region) (image.Image, error) {
	return d.r.Capture(r.X, r.Y, r.Width, r.Height)
}

func (d *robotDriver) Click(p Point) error {
	d.r.Click(p.X, p.Y)
	return nil
}

func (d *robotDriver) Pointer() (Point, error) {
	x, y := d.r.Pointer()
	return Point{X: x, Y: y}, nil
}

func (d *robotDriver) Type(text string, interval time.Duration) error {
	d.r.Type(text, interval)
	return nil
}

func (d *robotDriver) Tap(key Key, mods ...Key) error {
	ms := make([]string, len(mods))
	for i, m := range mods {
		ms[i] = string(m)
	}
	return d.r.Tap(string(key), ms...)
}

func (d *robotDriver) ReadClipboard() (string, error) {
	return d.r.ReadClipboard()
}

func (d *robotDriver) WriteClipboard(text string) error {
	return d.r.WriteClipboard(text)
}

// windowOf converts a native window. Dialogs share their owner's PID, so
// the ID comes from the window handle.
func windowOf(info robot.WindowInfo) Window {
	return Window{
		ID:     info.ID(),
		PID:    info.PID,
		Title:  info.Title,
		Bounds: Region{X: info.X, Y: info.Y, Width: info.Width, Height: info.Height},
	}
}
