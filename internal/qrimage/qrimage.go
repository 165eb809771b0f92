// Package qrimage rasterizes QR symbols into PNG images and their base64
// text form for inline embedding.
package qrimage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/redmonkez12/qrprofile/internal/qrcode"
)

// QuietZone is the blank border around the symbol, in modules.
const QuietZone = 4

const (
	DefaultModuleSize = 8
	MaxModuleSize     = 64
)

// ErrRender wraps every rendering failure. No partial image is ever returned
// alongside it.
var ErrRender = errors.New("qr image render failed")

var palette = color.Palette{color.White, color.Black}

// Image is a rendered symbol.
type Image struct {
	PNG    []byte
	Base64 string
	// Width is the side length in pixels, quiet zone included.
	Width int
}

// DataURI returns the image as a data: URI usable as an <img> src.
func (i Image) DataURI() string {
	return "data:image/png;base64," + i.Base64
}

// Render draws each module as a moduleSize x moduleSize block, surrounded by
// the quiet zone, and encodes the raster as a 1-bit PNG.
func Render(sym *qrcode.Symbol, moduleSize int) (Image, error) {
	if sym == nil {
		return Image{}, fmt.Errorf("%w: nil symbol", ErrRender)
	}
	if moduleSize < 1 || moduleSize > MaxModuleSize {
		return Image{}, fmt.Errorf("%w: module size %d outside [1, %d]", ErrRender, moduleSize, MaxModuleSize)
	}

	width := (sym.Size() + 2*QuietZone) * moduleSize
	img := image.NewPaletted(image.Rect(0, 0, width, width), palette)
	for y := 0; y < width; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width]
		my := y/moduleSize - QuietZone
		for x := range row {
			if sym.Dark(x/moduleSize-QuietZone, my) {
				row[x] = 1
			}
		}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("%w: encode png: %w", ErrRender, err)
	}

	return Image{
		PNG:    buf.Bytes(),
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:  width,
	}, nil
}

// Decode reverses the base64 step, returning the PNG bytes.
func Decode(b64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	return raw, nil
}
