package imageload

import (
	"testing"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/stretchr/testify/assert"
)

func TestMipLevels(t *testing.T) {
	assert.Equal(t, 1, MipLevels(1, 1))
	assert.Equal(t, 3, MipLevels(4, 4))
	assert.Equal(t, 4, MipLevels(8, 2))
	assert.Equal(t, 11, MipLevels(1024, 512))
}

func TestMipChain(t *testing.T) {
	img := &core.Image{Width: 4, Height: 2, Channels: 3, Pix: make([]byte, 4*2*3)}
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	chain := MipChain(img)
	assert.Len(t, chain, 3)
	assert.Equal(t, 4, chain[0].Bounds().Dx())
	assert.Equal(t, 2, chain[1].Bounds().Dx())
	assert.Equal(t, 1, chain[1].Bounds().Dy())
	assert.Equal(t, 1, chain[2].Bounds().Dx())

	// Uniform input stays uniform and opaque at every level.
	last := chain[2]
	assert.InDelta(t, 200, int(last.Pix[0]), 1)
	assert.Equal(t, uint8(0xff), last.Pix[3])
}

func TestToRGBA(t *testing.T) {
	img := &core.Image{Width: 1, Height: 1, Channels: 4, Pix: []byte{1, 2, 3, 4}}
	assert.Equal(t, []byte{1, 2, 3, 4}, ToRGBA(img).Pix)
}
