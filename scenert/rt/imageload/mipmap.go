package imageload

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gekko3d/deskscene/scenert/rt/core"
)

// ToRGBA expands a packed RGB or RGBA bitmap into an image.RGBA with
// straight alpha. Rows keep their stored order.
func ToRGBA(img *core.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	n := img.Width * img.Height
	for i := 0; i < n; i++ {
		s := i * img.Channels
		d := i * 4
		out.Pix[d] = img.Pix[s]
		out.Pix[d+1] = img.Pix[s+1]
		out.Pix[d+2] = img.Pix[s+2]
		if img.Channels == 4 {
			out.Pix[d+3] = img.Pix[s+3]
		} else {
			out.Pix[d+3] = 0xff
		}
	}
	return out
}

// MipLevels is the length of a full chain down to 1x1.
func MipLevels(w, h int) int {
	n := 1
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		n++
	}
	return n
}

// MipChain returns level 0 and every successively halved level as RGBA
// images. Each level is resampled from the one above it.
func MipChain(img *core.Image) []*image.RGBA {
	base := ToRGBA(img)
	chain := make([]*image.RGBA, 0, MipLevels(img.Width, img.Height))
	chain = append(chain, base)

	w, h := img.Width, img.Height
	prev := base
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		prev = transform.Resize(prev, w, h, transform.Linear)
		chain = append(chain, prev)
	}
	return chain
}
