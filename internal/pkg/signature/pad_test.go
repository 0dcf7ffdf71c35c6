package signature

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stroke() Stroke {
	return Stroke{{X: 10, Y: 10}, {X: 80, Y: 40}, {X: 150, Y: 20}}
}

func TestPad_RasterizeEmpty(t *testing.T) {
	p := NewPad(0, 0)
	assert.True(t, p.Empty())

	_, err := p.Rasterize()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestPad_RasterizeDrawsInk(t *testing.T) {
	p := NewPad(200, 60)
	p.Draw(stroke())

	out, err := p.Rasterize()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 60), img.Bounds())
	assert.False(t, Blank(img))
}

func TestPad_ClearIsNoopOnceSaved(t *testing.T) {
	p := NewPad(200, 60)
	p.Draw(stroke())
	p.Clear()
	assert.True(t, p.Empty())

	p.Draw(stroke())
	p.MarkSaved("https://cdn/sig.png")
	p.Clear()
	assert.False(t, p.Empty())

	url, ok := p.Saved()
	assert.True(t, ok)
	assert.Equal(t, "https://cdn/sig.png", url)

	// drawing is ignored while saved
	p.Draw(stroke())

	p.Replace()
	_, ok = p.Saved()
	assert.False(t, ok)
	assert.True(t, p.Empty())
}

func encodeDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestFromDataURL(t *testing.T) {
	transparent := image.NewRGBA(image.Rect(0, 0, 20, 20))

	white := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			white.Set(x, y, color.White)
		}
	}

	inked := image.NewRGBA(image.Rect(0, 0, 20, 20))
	inked.Set(5, 5, color.Black)

	_, err := FromDataURL(encodeDataURL(t, transparent))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = FromDataURL(encodeDataURL(t, white))
	assert.ErrorIs(t, err, ErrEmpty)

	out, err := FromDataURL(encodeDataURL(t, inked))
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = FromDataURL("data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, ErrBadImage)

	_, err = FromDataURL(dataURLPrefix + "not-base64!")
	assert.ErrorIs(t, err, ErrBadImage)
}

func TestInput_PNG(t *testing.T) {
	_, err := Input{}.PNG()
	assert.ErrorIs(t, err, ErrEmpty)

	out, err := Input{Strokes: []Stroke{stroke()}, Width: 200, Height: 60}.PNG()
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	// a single tap still leaves a mark
	out, err = Input{Strokes: []Stroke{{{X: 30, Y: 30}}}}.PNG()
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestInput_PNGRejectsOversizedPad(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"huge", Input{Strokes: []Stroke{{{X: 1, Y: 1}, {X: 5, Y: 5}}}, Width: 1 << 30, Height: 1 << 30}},
		{"too wide", Input{Strokes: []Stroke{stroke()}, Width: MaxWidth + 1, Height: 100}},
		{"too tall", Input{Strokes: []Stroke{stroke()}, Width: 100, Height: MaxHeight + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.PNG()
			assert.ErrorIs(t, err, ErrBadImage)
		})
	}

	out, err := Input{Strokes: []Stroke{stroke()}, Width: MaxWidth, Height: MaxHeight}.PNG()
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, cfg.Width)
	assert.Equal(t, MaxHeight, cfg.Height)
}

func TestNewPad_CapsSize(t *testing.T) {
	p := NewPad(1<<30, 1<<30)
	p.Draw(stroke())

	out, err := p.Rasterize()
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, cfg.Width)
	assert.Equal(t, MaxHeight, cfg.Height)
}

// withHeaderSize rewrites the IHDR dimensions of an encoded png.
func withHeaderSize(t *testing.T, raw []byte, w, h uint32) []byte {
	t.Helper()
	out := append([]byte(nil), raw...)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestFromDataURL_RejectsOversizedHeader(t *testing.T) {
	inked := image.NewRGBA(image.Rect(0, 0, 4, 4))
	inked.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, inked))

	huge := withHeaderSize(t, buf.Bytes(), 40000, 40000)
	_, err := FromDataURL(dataURLPrefix + base64.StdEncoding.EncodeToString(huge))
	assert.ErrorIs(t, err, ErrBadImage)

	wide := image.NewRGBA(image.Rect(0, 0, MaxWidth+1, 1))
	wide.Set(0, 0, color.Black)
	_, err = FromDataURL(encodeDataURL(t, wide))
	assert.ErrorIs(t, err, ErrBadImage)
}
