package fakedesk

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/cboone/glimpse/notepadpp"
)

// Screen size of every Desktop.
const (
	ScreenWidth  = 320
	ScreenHeight = 200
)

// Window geometry.
var (
	mainStart   = image.Rect(20, 20, 220, 170)
	dialogRect  = image.Rect(160, 40, 310, 160)
	promptRect  = image.Rect(90, 70, 230, 130)
	menuPanel   = image.Rect(0, 0, 60, 12)
	submenuRect = image.Rect(4, 12, 40, 28)
)

// Control positions, relative to the owning window's corner.
var layout = map[string]image.Point{
	notepadpp.AssetSearchMenu:         {8, 2},
	notepadpp.AssetReplaceSubmenu:     {8, 14},
	notepadpp.AssetFindSuccess:        {12, 120},
	notepadpp.AssetFindNext:           {10, 10},
	notepadpp.AssetReplaceAction:      {10, 28},
	notepadpp.AssetReplaceAll:         {10, 46},
	notepadpp.AssetReplaceDialogClose: {110, 10},
	notepadpp.AssetFindNotFound:       {10, 64},
	notepadpp.AssetDontSave:           {10, 30},
}

var sizes = map[string]image.Point{
	notepadpp.AssetSearchMenu:     {24, 10},
	notepadpp.AssetReplaceSubmenu: {24, 10},
	notepadpp.AssetFindSuccess:    {36, 10},
	notepadpp.AssetFindNotFound:   {36, 10},
}

var (
	desktopColor = color.RGBA{58, 110, 165, 255}
	windowColor  = color.RGBA{240, 240, 240, 255}
	dialogColor  = color.RGBA{225, 225, 225, 255}
	menuColor    = color.RGBA{250, 250, 250, 255}
)

// Template returns the deterministic image of a control. The pixels are
// noise seeded by the name, so every control is unique on screen.
func Template(name string) *image.RGBA {
	size, ok := sizes[name]
	if !ok {
		size = image.Pt(28, 12)
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	state := h.Sum32() | 1

	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	for i := 0; i < len(img.Pix); i += 4 {
		// xorshift32
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		img.Pix[i] = uint8(state)
		img.Pix[i+1] = uint8(state >> 8)
		img.Pix[i+2] = uint8(state >> 16)
		img.Pix[i+3] = 255
	}
	return img
}

// WriteAssets writes the templates of names (every suite asset when names
// is empty) as PNG files into dir.
func WriteAssets(dir string, names ...string) error {
	if len(names) == 0 {
		names = notepadpp.AllAssets
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range names {
		if err := writePNG(filepath.Join(dir, name), Template(name)); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// control is a clickable template drawn on screen.
type control struct {
	asset string
	rect  image.Rectangle
}

func placed(asset string, origin image.Point) control {
	at := origin.Add(layout[asset])
	size := sizes[asset]
	if size == (image.Point{}) {
		size = image.Pt(28, 12)
	}
	return control{asset: asset, rect: image.Rectangle{Min: at, Max: at.Add(size)}}
}

// controls returns the visible controls, topmost first. Callers hold d.mu.
func (d *Desktop) controls() []control {
	if !d.running || !d.mainShown {
		return nil
	}
	var out []control
	if d.prompt != nil {
		out = append(out, placed(notepadpp.AssetDontSave, promptRect.Min))
	}
	if d.dialog != nil {
		out = append(out,
			placed(notepadpp.AssetFindNext, dialogRect.Min),
			placed(notepadpp.AssetReplaceAction, dialogRect.Min),
			placed(notepadpp.AssetReplaceAll, dialogRect.Min),
			placed(notepadpp.AssetReplaceDialogClose, dialogRect.Min),
		)
		if d.status == statusNotFound {
			out = append(out, placed(notepadpp.AssetFindNotFound, dialogRect.Min))
		}
	}
	if d.menuOpen {
		out = append(out, placed(notepadpp.AssetReplaceSubmenu, d.main.Min))
	}
	out = append(out, placed(notepadpp.AssetSearchMenu, d.main.Min))
	if d.status == statusFound {
		out = append(out, placed(notepadpp.AssetFindSuccess, d.main.Min))
	}
	return out
}

// render paints the whole screen. Callers hold d.mu.
func (d *Desktop) render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	fill(img, img.Bounds(), desktopColor)
	if !d.running || !d.mainShown {
		return img
	}

	fill(img, d.main, windowColor)
	fill(img, menuPanel.Add(d.main.Min), menuColor)
	if d.menuOpen {
		fill(img, submenuRect.Add(d.main.Min), menuColor)
	}
	if d.dialog != nil {
		fill(img, dialogRect, dialogColor)
	}
	if d.prompt != nil {
		fill(img, promptRect, dialogColor)
	}

	cs := d.controls()
	for i := len(cs) - 1; i >= 0; i-- {
		if d.hidden[cs[i].asset] {
			continue
		}
		xdraw.Draw(img, cs[i].rect, Template(cs[i].asset), image.Point{}, xdraw.Src)
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	xdraw.Draw(img, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}
