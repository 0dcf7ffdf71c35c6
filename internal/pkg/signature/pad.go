// Package signature captures freehand signatures and turns them into PNG images.
package signature

import (
	"errors"
	"sync"
)

var (
	ErrEmpty    = errors.New("signature is empty")
	ErrBadImage = errors.New("signature image is not a valid png")
)

const (
	DefaultWidth  = 600
	DefaultHeight = 200
	MaxWidth      = 2000
	MaxHeight     = 1000
	penWidth      = 2.5
)

type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type Stroke []Point

// Pad is a drawing surface. Once a signature has been saved the pad is
// read-only until Replace is called.
type Pad struct {
	mu       sync.Mutex
	width    int
	height   int
	strokes  []Stroke
	savedURL string
}

// NewPad sizes the surface, using the defaults for non-positive values and
// capping at MaxWidth x MaxHeight.
func NewPad(width, height int) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Pad{width: min(width, MaxWidth), height: min(height, MaxHeight)}
}

// Draw appends a stroke. Ignored while the pad holds a saved signature.
func (p *Pad) Draw(s Stroke) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.savedURL != "" || len(s) == 0 {
		return
	}
	cp := make(Stroke, len(s))
	copy(cp, s)
	p.strokes = append(p.strokes, cp)
}

// Clear wipes the drawing. It has no effect once the signature was saved.
func (p *Pad) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.savedURL != "" {
		return
	}
	p.strokes = nil
}

func (p *Pad) Empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strokes) == 0
}

func (p *Pad) Saved() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.savedURL, p.savedURL != ""
}

func (p *Pad) MarkSaved(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.savedURL = url
}

// Replace drops the saved signature and returns to an empty drawing surface.
func (p *Pad) Replace() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.savedURL = ""
	p.strokes = nil
}

// Rasterize renders the strokes to a PNG with a transparent background.
func (p *Pad) Rasterize() ([]byte, error) {
	p.mu.Lock()
	strokes := make([]Stroke, len(p.strokes))
	copy(strokes, p.strokes)
	w, h := p.width, p.height
	p.mu.Unlock()

	if len(strokes) == 0 {
		return nil, ErrEmpty
	}
	return render(w, h, strokes)
}
