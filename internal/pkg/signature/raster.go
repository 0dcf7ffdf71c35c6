package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/vector"
)

func render(w, h int, strokes []Stroke) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	ink := image.NewUniform(color.Black)
	z := vector.NewRasterizer(w, h)

	clamp := func(pt Point) Point {
		pt.X = float32(math.Max(0, math.Min(float64(w), float64(pt.X))))
		pt.Y = float32(math.Max(0, math.Min(float64(h), float64(pt.Y))))
		return pt
	}

	for _, s := range strokes {
		if len(s) == 1 {
			c := clamp(s[0])
			z.Reset(w, h)
			dot(z, c)
			z.Draw(dst, dst.Bounds(), ink, image.Point{})
			continue
		}
		for i := 1; i < len(s); i++ {
			a, b := clamp(s[i-1]), clamp(s[i])
			z.Reset(w, h)
			if !segment(z, a, b) {
				dot(z, a)
			}
			z.Draw(dst, dst.Bounds(), ink, image.Point{})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// segment adds a quad of penWidth around a->b. It reports false for a zero-length segment.
func segment(z *vector.Rasterizer, a, b Point) bool {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	l := math.Hypot(dx, dy)
	if l == 0 {
		return false
	}
	nx := float32(-dy / l * penWidth / 2)
	ny := float32(dx / l * penWidth / 2)

	z.MoveTo(a.X+nx, a.Y+ny)
	z.LineTo(b.X+nx, b.Y+ny)
	z.LineTo(b.X-nx, b.Y-ny)
	z.LineTo(a.X-nx, a.Y-ny)
	z.ClosePath()
	return true
}

func dot(z *vector.Rasterizer, c Point) {
	r := float32(penWidth / 2)
	z.MoveTo(c.X-r, c.Y-r)
	z.LineTo(c.X+r, c.Y-r)
	z.LineTo(c.X+r, c.Y+r)
	z.LineTo(c.X-r, c.Y+r)
	z.ClosePath()
}

const dataURLPrefix = "data:image/png;base64,"

// FromDataURL accepts a client-rasterized signature. Blank images, fully
// transparent or fully white, are rejected with ErrEmpty.
func FromDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, dataURLPrefix) {
		return nil, ErrBadImage
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, dataURLPrefix))
	if err != nil {
		return nil, ErrBadImage
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil || !fits(cfg.Width, cfg.Height) {
		return nil, ErrBadImage
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrBadImage
	}
	if Blank(img) {
		return nil, ErrEmpty
	}
	return raw, nil
}

func fits(w, h int) bool {
	return w > 0 && h > 0 && w <= MaxWidth && h <= MaxHeight
}

// Blank reports whether no pixel carries visible ink.
func Blank(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			if r < 0xf000 || g < 0xf000 || bl < 0xf000 {
				return false
			}
		}
	}
	return true
}

// Input is a signature as posted by a client: strokes drawn on a pad of the
// given size, or an already rasterized PNG data URL.
type Input struct {
	Strokes []Stroke `json:"strokes"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	DataURL string   `json:"data_url"`
}

// PNG returns the image bytes, failing with ErrEmpty when nothing was drawn
// and with ErrBadImage when the pad exceeds MaxWidth x MaxHeight.
func (in Input) PNG() ([]byte, error) {
	if in.DataURL != "" {
		return FromDataURL(in.DataURL)
	}
	if in.Width > MaxWidth || in.Height > MaxHeight {
		return nil, ErrBadImage
	}
	pad := NewPad(in.Width, in.Height)
	for _, s := range in.Strokes {
		pad.Draw(s)
	}
	out, err := pad.Rasterize()
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	if Blank(img) {
		return nil, ErrEmpty
	}
	return out, nil
}
