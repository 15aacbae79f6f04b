package glimpse

import (
	"fmt"
	"image"
)

// Point is a position in screen coordinates.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Region is a screen rectangle given by its top-left corner and size.
// The zero Region means "the whole screen" wherever a search region is
// accepted.
type Region struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Center returns the middle of the region.
func (r Region) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r.
func (r Region) Contains(p Point) bool {
	return p.In(r.Rect())
}

// ClampTo intersects r with a screen of the given size. The result may be
// empty when the region lies off-screen.
func (r Region) ClampTo(width, height int) Region {
	return regionOf(r.Rect().Intersect(image.Rect(0, 0, width, height)))
}

func (r Region) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

func regionOf(rect image.Rectangle) Region {
	return Region{X: rect.Min.X, Y: rect.Min.Y, Width: rect.Dx(), Height: rect.Dy()}
}

// In reports whether p lies inside rect.
func (p Point) In(rect image.Rectangle) bool {
	return image.Pt(p.X, p.Y).In(rect)
}

// Window is a snapshot of a top-level window. It is not a live handle:
// look the window up again by title whenever fresh geometry is needed.
type Window struct {
	// ID is unique per window. Dialogs and prompts share the PID of the
	// application that opened them.
	ID     int
	PID    int
	Title  string
	Bounds Region
}

func (w Window) String() string {
	return fmt.Sprintf("%q %v", w.Title, w.Bounds)
}

// Screen is an immutable capture of part of the display.
type Screen struct {
	img    image.Image
	region Region
}

func newScreen(img image.Image, region Region) *Screen {
	return &Screen{img: img, region: region}
}

// Image returns the captured pixels.
func (s *Screen) Image() image.Image {
	return s.img
}

// Region returns the screen rectangle that was captured.
func (s *Screen) Region() Region {
	return s.region
}

// Size returns the width and height of the capture.
func (s *Screen) Size() (width, height int) {
	return s.region.Width, s.region.Height
}
