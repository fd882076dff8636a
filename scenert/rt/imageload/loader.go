// Package imageload decodes texture files into tightly packed RGB or RGBA
// bitmaps ready for upload.
package imageload

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/gekko3d/deskscene/scenert/rt/core"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader implements core.ImageLoader on top of the registered image decoders.
type Loader struct {
	// FlipVertically stores rows bottom-up, matching texture coordinates
	// whose v axis points up.
	FlipVertically bool
}

func NewLoader() *Loader {
	return &Loader{FlipVertically: true}
}

func (l *Loader) Load(path string) (*core.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := l.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func (l *Loader) Decode(r io.Reader) (*core.Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%s image has no pixels", format)
	}

	channels := Channels(src)
	out := &core.Image{Width: b.Dx(), Height: b.Dy(), Channels: channels}
	if channels != 3 && channels != 4 {
		// Reported by the registry, which owns the format policy.
		return out, nil
	}
	out.Pix = pack(src, channels, l.FlipVertically)
	return out, nil
}

// Channels reports how many channels a decoded image carries in its source
// file: 1 for grayscale, 3 for opaque color and 4 for color with alpha.
func Channels(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	case *image.RGBA:
		// png decodes truecolor files without alpha to RGBA; tiff uses it for
		// associated alpha.
		if m.Opaque() {
			return 3
		}
		return 4
	case *image.RGBA64:
		if m.Opaque() {
			return 3
		}
		return 4
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA:
		return 4
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

func pack(src image.Image, channels int, flip bool) []byte {
	switch m := src.(type) {
	case *image.NRGBA:
		return packNRGBA(m, channels, flip)
	case *image.YCbCr:
		return packYCbCr(m, channels, flip)
	}
	return packAny(src, channels, flip)
}

// dstRow maps source row y to its offset in the packed output.
func dstRow(y, w, h, channels int, flip bool) int {
	if flip {
		y = h - 1 - y
	}
	return y * w * channels
}

func packNRGBA(src *image.NRGBA, channels int, flip bool) []byte {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*channels)
	for y := 0; y < h; y++ {
		line := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		off := dstRow(y, w, h, channels, flip)
		if channels == 4 {
			copy(pix[off:off+w*4], line[:w*4])
			continue
		}
		for x := 0; x < w; x++ {
			pix[off] = line[x*4]
			pix[off+1] = line[x*4+1]
			pix[off+2] = line[x*4+2]
			off += 3
		}
	}
	return pix
}

func packYCbCr(src *image.YCbCr, channels int, flip bool) []byte {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*channels)
	for y := 0; y < h; y++ {
		off := dstRow(y, w, h, channels, flip)
		for x := 0; x < w; x++ {
			yi := src.YOffset(b.Min.X+x, b.Min.Y+y)
			ci := src.COffset(b.Min.X+x, b.Min.Y+y)
			r, g, bl := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
			pix[off] = r
			pix[off+1] = g
			pix[off+2] = bl
			if channels == 4 {
				pix[off+3] = 0xff
			}
			off += channels
		}
	}
	return pix
}

func packAny(src image.Image, channels int, flip bool) []byte {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*channels)
	for y := 0; y < h; y++ {
		off := dstRow(y, w, h, channels, flip)
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			pix[off] = c.R
			pix[off+1] = c.G
			pix[off+2] = c.B
			if channels == 4 {
				pix[off+3] = c.A
			}
			off += channels
		}
	}
	return pix
}
