// Package imgmatch finds a template image inside a larger image using
// zero-mean normalized cross-correlation, the same score OpenCV reports as
// TM_CCOEFF_NORMED. It is internal to the glimpse package.
package imgmatch

import (
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned when no position reaches the requested confidence.
	ErrNotFound = errors.New("template not found")

	// ErrTemplateTooLarge is returned when the template does not fit inside
	// the search image.
	ErrTemplateTooLarge = errors.New("template larger than search image")

	// ErrEmptyImage is returned when either image has no pixels.
	ErrEmptyImage = errors.New("empty image")
)

// DefaultConfidence is used when Options.Confidence is zero.
const DefaultConfidence = 0.999

// flatTolerance is the largest mean difference, in 8-bit levels, at which two
// uniform patches still count as equal.
const flatTolerance = 1.0

// Options configures a single Find call.
type Options struct {
	// Confidence is the minimum score in [0, 1] a position must reach.
	Confidence float64
	// Grayscale compares luminance only instead of the three colour channels.
	Grayscale bool
}

// Result describes the best position found.
type Result struct {
	// Bounds is the template rectangle in the search image's coordinates.
	Bounds image.Rectangle
	// Score is the correlation at Bounds, in [-1, 1].
	Score float64
}

// Find returns the best match of needle inside haystack. When the best score
// is below the configured confidence the returned error wraps ErrNotFound and
// the Result still carries the best candidate.
func Find(haystack, needle image.Image, opts Options) (Result, error) {
	confidence := opts.Confidence
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	hb, nb := haystack.Bounds(), needle.Bounds()
	if hb.Empty() || nb.Empty() {
		return Result{}, ErrEmptyImage
	}
	if nb.Dx() > hb.Dx() || nb.Dy() > hb.Dy() {
		return Result{}, fmt.Errorf("%w: template %dx%d, image %dx%d",
			ErrTemplateTooLarge, nb.Dx(), nb.Dy(), hb.Dx(), hb.Dy())
	}

	hay := newPlanes(haystack, opts.Grayscale)
	tpl := newTemplate(newPlanes(needle, opts.Grayscale))
	sums := newIntegrals(hay)

	rows := hay.height - tpl.height + 1
	cols := hay.width - tpl.width + 1

	workers := runtime.GOMAXPROCS(0)
	if workers > rows {
		workers = rows
	}
	band := (rows + workers - 1) / workers
	best := make([]candidate, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			local := candidate{score: math.Inf(-1)}
			for y := w * band; y < (w+1)*band && y < rows; y++ {
				for x := 0; x < cols; x++ {
					s := score(hay, tpl, sums, x, y)
					if s > local.score {
						local = candidate{x: x, y: y, score: s}
					}
				}
			}
			best[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	// Bands are ordered top to bottom, so a strict comparison keeps the
	// first position in row-major order on ties.
	top := candidate{score: math.Inf(-1)}
	for _, c := range best {
		if c.score > top.score {
			top = c
		}
	}

	res := Result{
		Bounds: image.Rect(top.x, top.y, top.x+tpl.width, top.y+tpl.height).Add(hb.Min),
		Score:  top.score,
	}
	if top.score < confidence {
		return res, fmt.Errorf("%w: best score %.3f below confidence %.3f", ErrNotFound, top.score, confidence)
	}
	return res, nil
}

type candidate struct {
	x, y  int
	score float64
}

// planes holds an image as one (grayscale) or three (RGB) float channels,
// row-major, with values in [0, 255].
type planes struct {
	width, height int
	ch            [][]float64
}

func newPlanes(img image.Image, gray bool) *planes {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Copy(rgba, image.Point{}, img, b, xdraw.Src, nil)
	}

	w, h := b.Dx(), b.Dy()
	n := 1
	if !gray {
		n = 3
	}
	p := &planes{width: w, height: h, ch: make([][]float64, n)}
	for c := range p.ch {
		p.ch[c] = make([]float64, w*h)
	}

	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < w; x++ {
			r := float64(row[x*4])
			g := float64(row[x*4+1])
			bl := float64(row[x*4+2])
			i := y*w + x
			if gray {
				p.ch[0][i] = 0.299*r + 0.587*g + 0.114*bl
				continue
			}
			p.ch[0][i] = r
			p.ch[1][i] = g
			p.ch[2][i] = bl
		}
	}
	return p
}

// template is a needle with its per-channel mean removed.
type template struct {
	width, height int
	centered      [][]float64
	means         []float64
	energy        float64
}

func newTemplate(p *planes) *template {
	t := &template{
		width:    p.width,
		height:   p.height,
		centered: make([][]float64, len(p.ch)),
		means:    make([]float64, len(p.ch)),
	}
	n := float64(p.width * p.height)
	for c, vals := range p.ch {
		var sum float64
		for _, v := range vals {
			sum += v
		}
		mean := sum / n
		t.means[c] = mean
		t.centered[c] = make([]float64, len(vals))
		for i, v := range vals {
			d := v - mean
			t.centered[c][i] = d
			t.energy += d * d
		}
	}
	return t
}

// integrals are summed-area tables of values and squared values, one pair
// per channel, sized (width+1)*(height+1).
type integrals struct {
	stride int
	sum    [][]float64
	sq     [][]float64
}

func newIntegrals(p *planes) *integrals {
	stride := p.width + 1
	in := &integrals{
		stride: stride,
		sum:    make([][]float64, len(p.ch)),
		sq:     make([][]float64, len(p.ch)),
	}
	for c, vals := range p.ch {
		s := make([]float64, stride*(p.height+1))
		q := make([]float64, stride*(p.height+1))
		for y := 0; y < p.height; y++ {
			var rowSum, rowSq float64
			for x := 0; x < p.width; x++ {
				v := vals[y*p.width+x]
				rowSum += v
				rowSq += v * v
				s[(y+1)*stride+x+1] = s[y*stride+x+1] + rowSum
				q[(y+1)*stride+x+1] = q[y*stride+x+1] + rowSq
			}
		}
		in.sum[c] = s
		in.sq[c] = q
	}
	return in
}

func (in *integrals) rect(table []float64, x, y, w, h int) float64 {
	s := in.stride
	return table[(y+h)*s+x+w] - table[y*s+x+w] - table[(y+h)*s+x] + table[y*s+x]
}

func score(hay *planes, tpl *template, sums *integrals, x, y int) float64 {
	n := float64(tpl.width * tpl.height)

	var num, winEnergy float64
	flatMatch := true
	for c := range hay.ch {
		sum := sums.rect(sums.sum[c], x, y, tpl.width, tpl.height)
		sq := sums.rect(sums.sq[c], x, y, tpl.width, tpl.height)
		winEnergy += sq - sum*sum/n
		if math.Abs(sum/n-tpl.means[c]) > flatTolerance {
			flatMatch = false
		}

		vals := hay.ch[c]
		cent := tpl.centered[c]
		for ty := 0; ty < tpl.height; ty++ {
			hrow := vals[(y+ty)*hay.width+x:]
			trow := cent[ty*tpl.width:]
			for tx := 0; tx < tpl.width; tx++ {
				num += trow[tx] * hrow[tx]
			}
		}
	}

	const eps = 1e-9
	switch {
	case tpl.energy < eps && winEnergy < eps:
		if flatMatch {
			return 1
		}
		return 0
	case tpl.energy < eps || winEnergy < eps:
		return 0
	}
	return num / math.Sqrt(tpl.energy*winEnergy)
}
