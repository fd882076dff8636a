package opengl

import (
	"fmt"

	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// pixelFormat returns the internal and client formats for a packed image.
func pixelFormat(channels int) (internal int32, format uint32, err error) {
	switch channels {
	case 3:
		return gl.RGB8, gl.RGB, nil
	case 4:
		return gl.RGBA8, gl.RGBA, nil
	}
	return 0, 0, fmt.Errorf("%w: %d channels", core.ErrUnsupportedFormat, channels)
}

// Textures implements core.TextureDevice with GL texture objects.
type Textures struct {
	names map[core.TextureHandle]uint32
}

func NewTextures() *Textures {
	return &Textures{names: make(map[core.TextureHandle]uint32)}
}

func (t *Textures) CreateTexture(img *core.Image) (core.TextureHandle, error) {
	internal, format, err := pixelFormat(img.Channels)
	if err != nil {
		return "", err
	}
	if len(img.Pix) < img.Width*img.Height*img.Channels {
		return "", fmt.Errorf("texture data is %d bytes, want %d", len(img.Pix), img.Width*img.Height*img.Channels)
	}

	var name uint32
	gl.GenTextures(1, &name)
	gl.BindTexture(gl.TEXTURE_2D, name)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// RGB rows are not 4-byte aligned for odd widths.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(img.Width), int32(img.Height), 0, format, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	h := core.NewTextureHandle()
	t.names[h] = name
	return h, nil
}

func (t *Textures) BindTexture(unit int, h core.TextureHandle) error {
	name, ok := t.names[h]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownHandle, h)
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, name)
	return nil
}

func (t *Textures) DeleteTexture(h core.TextureHandle) error {
	name, ok := t.names[h]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownHandle, h)
	}
	gl.DeleteTextures(1, &name)
	delete(t.names, h)
	return nil
}

func (t *Textures) Len() int {
	return len(t.names)
}
