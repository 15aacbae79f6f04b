// Package fakedesk is a simulated desktop running a small Notepad++
// look-alike. It implements glimpse.Driver, so the glimpse and notepadpp
// packages can be tested without a display.
//
// The editor supports what the suite drives: typing with auto-indent, new
// and closed tabs, the Search menu, a Replace dialog with Find Next,
// Replace, Replace All and Close, and a save prompt on closing dirty
// documents. Controls are drawn with the images returned by Template.
package fakedesk

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/cboone/glimpse"
	"github.com/cboone/glimpse/internal/robot"
	"github.com/cboone/glimpse/notepadpp"
)

// Window IDs.
const (
	MainID   = 1
	DialogID = 2
	PromptID = 3
)

// Native handles are allocated like X11 window ids: from a client's
// resource base, in steps.
const (
	handleBase   = 0x3a00000
	handleStride = 0x25
)

const (
	dialogTitle = "Replace"
	promptTitle = "Save file"
)

type findStatus int

const (
	statusNone findStatus = iota
	statusFound
	statusNotFound
)

// replaceDialog is the open Replace dialog.
type replaceDialog struct {
	focus int // 0: Find what, 1: Replace with
}

// savePrompt is an open "save changes?" prompt. discard runs when the
// user declines to save.
type savePrompt struct {
	discard func()
}

// Option configures a Desktop.
type Option func(*Desktop)

// WithRunningInstance starts the Desktop with the editor already running.
// Start then behaves like a second launch that hands over to the running
// instance and exits at once.
func WithRunningInstance() Option {
	return func(d *Desktop) {
		d.launch()
	}
}

// WithoutMainWindow makes the editor start without ever showing a window.
func WithoutMainWindow() Option {
	return func(d *Desktop) {
		d.noWindow = true
	}
}

// WithStartError makes Start fail with err.
func WithStartError(err error) Option {
	return func(d *Desktop) {
		d.startErr = err
	}
}

// WithHiddenAssets keeps the named controls from being drawn, so they
// cannot be located.
func WithHiddenAssets(names ...string) Option {
	return func(d *Desktop) {
		for _, n := range names {
			d.hidden[n] = true
		}
	}
}

// WithNativeWindows reports windows the way the desktop driver does: each
// window is described by its native handle and converted with
// robot.WindowInfo.ID, while every window shares the editor's process id.
func WithNativeWindows() Option {
	return func(d *Desktop) {
		d.native = true
	}
}

// Desktop is a simulated display with one editor application.
// It is safe for concurrent use.
type Desktop struct {
	mu sync.Mutex

	startErr error
	noWindow bool
	hidden   map[string]bool
	native   bool

	running   bool
	mainShown bool
	pid       int
	nextPID   int
	main      image.Rectangle
	active    int
	pointer   glimpse.Point
	clipboard string

	docs []*document
	cur  int

	menuOpen   bool
	dialog     *replaceDialog
	fields     [2]field
	status     findStatus
	prompt     *savePrompt
	events     []string
	keystrokes int
}

// New returns a Desktop with the pointer in the middle of the screen.
func New(opts ...Option) *Desktop {
	d := &Desktop{
		hidden:  make(map[string]bool),
		nextPID: 4200,
		pointer: glimpse.Point{X: ScreenWidth / 2, Y: ScreenHeight / 2},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// launch starts the editor. Callers hold d.mu or own d exclusively.
func (d *Desktop) launch() {
	d.nextPID++
	d.pid = d.nextPID
	d.running = true
	d.mainShown = !d.noWindow
	d.main = mainStart
	d.docs = []*document{{name: "new 1"}}
	d.cur = 0
	if d.mainShown {
		d.active = MainID
	}
	d.record("launch")
}

// quit ends the editor. Callers hold d.mu.
func (d *Desktop) quit() {
	if !d.running {
		return
	}
	d.running = false
	d.mainShown = false
	d.dialog = nil
	d.prompt = nil
	d.menuOpen = false
	d.active = 0
	d.docs = nil
	d.record("quit")
}

func (d *Desktop) record(event string) {
	d.events = append(d.events, event)
}

// Events returns what the editor did, in order: launch, new, close,
// prompt, discard, find:found, find:not-found, replace, replace-all:<n>,
// dialog:open, dialog:close and quit.
func (d *Desktop) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

// Running reports whether the editor is running.
func (d *Desktop) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Text returns the current document's text.
func (d *Desktop) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if doc := d.doc(); doc != nil {
		return string(doc.text)
	}
	return ""
}

// Documents returns the names of the open tabs.
func (d *Desktop) Documents() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, len(d.docs))
	for i, doc := range d.docs {
		names[i] = doc.name
	}
	return names
}

// SetPointer moves the pointer without clicking.
func (d *Desktop) SetPointer(p glimpse.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pointer = p
}

// MoveMainWindow moves the main window so its corner is at p.
func (d *Desktop) MoveMainWindow(p glimpse.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.main = d.main.Sub(d.main.Min).Add(image.Pt(p.X, p.Y))
}

// Keystrokes returns the number of characters typed so far.
func (d *Desktop) Keystrokes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keystrokes
}

func (d *Desktop) doc() *document {
	if d.cur < 0 || d.cur >= len(d.docs) {
		return nil
	}
	return d.docs[d.cur]
}

func (d *Desktop) mainTitle() string {
	doc := d.doc()
	if doc == nil {
		return notepadpp.MainTitle
	}
	prefix := ""
	if doc.dirty {
		prefix = "*"
	}
	return prefix + doc.name + " - " + notepadpp.MainTitle
}

func (d *Desktop) windows() []glimpse.Window {
	if !d.running || !d.mainShown {
		return nil
	}
	wins := []glimpse.Window{d.window(MainID, d.mainTitle(), d.main)}
	if d.dialog != nil {
		wins = append(wins, d.window(DialogID, dialogTitle, dialogRect))
	}
	if d.prompt != nil {
		wins = append(wins, d.window(PromptID, promptTitle, promptRect))
	}
	return wins
}

func (d *Desktop) window(id int, title string, r image.Rectangle) glimpse.Window {
	if !d.native {
		return glimpse.Window{ID: id, PID: d.pid, Title: title, Bounds: regionOf(r)}
	}
	info := robot.WindowInfo{
		Handle: handleBase + id*handleStride,
		PID:    d.pid,
		Title:  title,
		X:      r.Min.X,
		Y:      r.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
	return glimpse.Window{
		ID:     info.ID(),
		PID:    info.PID,
		Title:  info.Title,
		Bounds: glimpse.Region{X: info.X, Y: info.Y, Width: info.Width, Height: info.Height},
	}
}

// local maps a reported window ID back to MainID, DialogID or PromptID.
// It returns 0 for IDs that name no window.
func (d *Desktop) local(id int) int {
	if !d.native {
		return id
	}
	off := id - handleBase
	if off <= 0 || off%handleStride != 0 {
		return 0
	}
	return off / handleStride
}

func regionOf(r image.Rectangle) glimpse.Region {
	return glimpse.Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Start launches the editor.
func (d *Desktop) Start(executable string) (glimpse.Process, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		return nil, d.startErr
	}
	if executable == "" {
		return nil, errors.New("fakedesk: empty executable")
	}
	if d.running {
		d.nextPID++
		return &process{d: d, pid: d.nextPID, handedOver: true}, nil
	}
	d.launch()
	return &process{d: d, pid: d.pid}, nil
}

func (d *Desktop) Windows() ([]glimpse.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windows(), nil
}

func (d *Desktop) ActiveWindow() (glimpse.Window, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.windows() {
		if d.local(w.ID) == d.active {
			return w, true, nil
		}
	}
	return glimpse.Window{}, false, nil
}

func (d *Desktop) Activate(w glimpse.Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.local(w.ID)
	if !d.exists(id) {
		return fmt.Errorf("fakedesk: no window %d", w.ID)
	}
	d.menuOpen = false
	if d.prompt != nil {
		// The prompt is modal.
		d.active = PromptID
		return nil
	}
	d.active = id
	return nil
}

// exists reports whether the window with local id is shown.
func (d *Desktop) exists(id int) bool {
	if id == 0 {
		return false
	}
	for _, w := range d.windows() {
		if d.local(w.ID) == id {
			return true
		}
	}
	return false
}

func (d *Desktop) Maximize(w glimpse.Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.exists(d.local(w.ID)) {
		return fmt.Errorf("fakedesk: no window %d", w.ID)
	}
	if d.local(w.ID) == MainID {
		d.main = image.Rect(0, 0, ScreenWidth, ScreenHeight)
	}
	return nil
}

func (d *Desktop) CloseWindow(w glimpse.Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch id := d.local(w.ID); {
	case !d.exists(id):
		return fmt.Errorf("fakedesk: no window %d", w.ID)
	case id == PromptID:
		d.cancelPrompt()
	case id == DialogID:
		d.closeDialog()
	default:
		d.closeApp()
	}
	return nil
}

func (d *Desktop) ScreenSize() (int, int, error) {
	return ScreenWidth, ScreenHeight, nil
}

// Capture returns the pixels of r, anchored at the origin.
func (d *Desktop) Capture(r glimpse.Region) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("fakedesk: empty capture region %v", r)
	}
	d.mu.Lock()
	screen := d.render()
	d.mu.Unlock()

	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	xdraw.Draw(out, out.Bounds(), screen, image.Pt(r.X, r.Y), xdraw.Src)
	return out, nil
}

func (d *Desktop) Click(p glimpse.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pointer = p
	if !d.running {
		return nil
	}
	pt := image.Pt(p.X, p.Y)

	for _, c := range d.controls() {
		if pt.In(c.rect) {
			d.press(c.asset)
			return nil
		}
	}

	switch {
	case d.prompt != nil:
		// Modal: clicks elsewhere are ignored.
	case d.dialog != nil && pt.In(dialogRect):
		d.active = DialogID
	case pt.In(d.main):
		d.menuOpen = false
		d.active = MainID
	}
	return nil
}

// press performs the action of a clicked control. Callers hold d.mu.
func (d *Desktop) press(asset string) {
	switch asset {
	case notepadpp.AssetSearchMenu:
		d.active = MainID
		d.menuOpen = !d.menuOpen
	case notepadpp.AssetReplaceSubmenu:
		d.openDialog()
	case notepadpp.AssetFindNext:
		d.active = DialogID
		d.findNext()
	case notepadpp.AssetReplaceAction:
		d.active = DialogID
		d.replaceOne()
	case notepadpp.AssetReplaceAll:
		d.active = DialogID
		d.replaceAll()
	case notepadpp.AssetReplaceDialogClose:
		d.closeDialog()
	case notepadpp.AssetDontSave:
		d.discard()
	}
}

func (d *Desktop) Pointer() (glimpse.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pointer, nil
}

// Type sends each rune as a keystroke. The interval is not simulated.
func (d *Desktop) Type(text string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range text {
		d.keystrokes++
		switch r {
		case '\n':
			d.key(string(glimpse.Enter), nil)
		case '\t':
			d.key(string(glimpse.Tab), nil)
		default:
			d.char(r)
		}
	}
	return nil
}

func (d *Desktop) Tap(key glimpse.Key, mods ...glimpse.Key) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	ms := make(map[string]bool, len(mods))
	for _, m := range mods {
		ms[string(m)] = true
	}
	d.key(string(key), ms)
	return nil
}

func (d *Desktop) ReadClipboard() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clipboard, nil
}

func (d *Desktop) WriteClipboard(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clipboard = text
	return nil
}

// char types one printable rune into the focused input. Callers hold d.mu.
func (d *Desktop) char(r rune) {
	if !d.running {
		return
	}
	d.menuOpen = false
	switch d.active {
	case PromptID:
		if r == 'n' || r == 'N' {
			d.discard()
		}
	case DialogID:
		d.fields[d.dialog.focus].insert([]rune{r})
	case MainID:
		if doc := d.doc(); doc != nil {
			doc.insert([]rune{r})
			d.status = statusNone
		}
	}
}

// key handles a named key with modifiers. Callers hold d.mu.
func (d *Desktop) key(k string, mods map[string]bool) {
	if !d.running {
		return
	}
	ctrl, alt, shift := mods["ctrl"] || mods["cmd"], mods["alt"], mods["shift"]

	if alt && k == "f4" {
		switch d.active {
		case DialogID:
			d.closeDialog()
		case PromptID:
			d.cancelPrompt()
		default:
			d.closeApp()
		}
		return
	}

	switch d.active {
	case PromptID:
		d.promptKey(k)
	case DialogID:
		d.dialogKey(k, ctrl, shift)
	case MainID:
		d.mainKey(k, ctrl, shift)
	}
}

func (d *Desktop) promptKey(k string) {
	switch k {
	case "n":
		d.discard()
	case "esc", "enter":
		d.cancelPrompt()
	}
}

func (d *Desktop) dialogKey(k string, ctrl, shift bool) {
	f := &d.fields[d.dialog.focus]
	switch {
	case ctrl && k == "a":
		f.selected = true
	case ctrl && k == "c":
		d.clipboard = f.String()
	case ctrl && k == "v":
		f.insert([]rune(d.clipboard))
	case ctrl:
	case k == "esc":
		d.closeDialog()
	case k == "tab":
		d.dialog.focus = 1 - d.dialog.focus
		d.fields[d.dialog.focus].selected = true
	case k == "enter":
		d.findNext()
	case k == "backspace":
		f.erase()
	case k == "delete":
		if f.selected {
			f.erase()
		}
	case k == "space":
		f.insert([]rune{' '})
	case len([]rune(k)) == 1:
		f.insert([]rune(caseOf(k, shift)))
	}
}

func (d *Desktop) mainKey(k string, ctrl, shift bool) {
	doc := d.doc()
	if doc == nil {
		return
	}
	d.menuOpen = false
	switch {
	case ctrl && k == "n":
		d.newDocument()
	case ctrl && k == "w":
		d.closeDocument()
	case ctrl && k == "a":
		doc.selectAll()
	case ctrl && k == "c":
		if doc.anchor != doc.caret {
			d.clipboard = doc.copyText()
		}
	case ctrl && k == "v":
		doc.insert([]rune(strings.ReplaceAll(d.clipboard, "\r\n", "\n")))
	case ctrl && k == "home":
		doc.setCaret(0)
	case ctrl && k == "end":
		doc.setCaret(len(doc.text))
	case ctrl && (k == "h" || k == "f"):
		d.openDialog()
	case ctrl:
	case k == "enter":
		doc.newline()
	case k == "tab":
		doc.insert([]rune{'\t'})
	case k == "space":
		doc.insert([]rune{' '})
	case k == "backspace":
		doc.backspace()
	case k == "delete":
		doc.deleteForward()
	case k == "home":
		doc.home()
	case k == "end":
		doc.end()
	case k == "esc":
	case len([]rune(k)) == 1:
		doc.insert([]rune(caseOf(k, shift)))
	}
}

func caseOf(k string, shift bool) string {
	if shift {
		return strings.ToUpper(k)
	}
	return k
}

func (d *Desktop) newDocument() {
	d.docs = append(d.docs, &document{name: d.freeName()})
	d.cur = len(d.docs) - 1
	d.status = statusNone
	d.record("new")
}

// freeName returns "new N" for the lowest N not in use.
func (d *Desktop) freeName() string {
	used := make(map[string]bool, len(d.docs))
	for _, doc := range d.docs {
		used[doc.name] = true
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("new %d", n)
		if !used[name] {
			return name
		}
	}
}

func (d *Desktop) closeDocument() {
	doc := d.doc()
	remove := func() {
		d.docs = append(d.docs[:d.cur], d.docs[d.cur+1:]...)
		if len(d.docs) == 0 {
			d.docs = []*document{{name: "new 1"}}
		}
		if d.cur >= len(d.docs) {
			d.cur = len(d.docs) - 1
		}
		d.status = statusNone
		d.record("close")
	}
	if doc.dirty {
		d.openPrompt(remove)
		return
	}
	remove()
}

func (d *Desktop) closeApp() {
	for _, doc := range d.docs {
		if doc.dirty {
			d.openPrompt(d.quit)
			return
		}
	}
	d.quit()
}

func (d *Desktop) openPrompt(discard func()) {
	d.prompt = &savePrompt{discard: discard}
	d.active = PromptID
	d.record("prompt")
}

func (d *Desktop) discard() {
	p := d.prompt
	if p == nil {
		return
	}
	d.prompt = nil
	d.active = MainID
	d.record("discard")
	p.discard()
}

func (d *Desktop) cancelPrompt() {
	d.prompt = nil
	d.active = MainID
	if d.dialog != nil {
		d.active = DialogID
	}
}

func (d *Desktop) openDialog() {
	d.menuOpen = false
	if d.dialog == nil {
		d.dialog = &replaceDialog{}
		d.record("dialog:open")
	}
	d.dialog.focus = 0
	d.fields[0].selected = true
	d.status = statusNone
	d.active = DialogID
}

func (d *Desktop) closeDialog() {
	if d.dialog == nil {
		return
	}
	d.dialog = nil
	d.active = MainID
	d.record("dialog:close")
}

func (d *Desktop) findNext() {
	doc := d.doc()
	if doc != nil && doc.findNext(d.fields[0].String()) {
		d.status = statusFound
		d.record("find:found")
		return
	}
	d.status = statusNotFound
	d.record("find:not-found")
}

func (d *Desktop) replaceOne() {
	doc := d.doc()
	if doc == nil {
		return
	}
	if doc.replace(d.fields[0].String(), d.fields[1].String()) {
		d.record("replace")
	}
	d.status = statusNone
}

func (d *Desktop) replaceAll() {
	doc := d.doc()
	if doc == nil {
		return
	}
	n := doc.replaceAll(d.fields[0].String(), d.fields[1].String())
	d.status = statusNone
	d.record(fmt.Sprintf("replace-all:%d", n))
}

// process is the handle returned by Start.
type process struct {
	d          *Desktop
	pid        int
	handedOver bool
}

func (p *process) Pid() int {
	return p.pid
}

func (p *process) Running() bool {
	if p.handedOver {
		return false
	}
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	return p.d.running && p.d.pid == p.pid
}

func (p *process) Terminate() error {
	return p.Kill()
}

func (p *process) Kill() error {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	if !p.handedOver && p.d.pid == p.pid {
		p.d.quit()
	}
	return nil
}

func (p *process) Wait(timeout time.Duration) error {
	if p.Running() {
		return fmt.Errorf("fakedesk: process %d still running after %v", p.pid, timeout)
	}
	return nil
}
