package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/imageload"
)

type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	group   *wgpu.BindGroup
}

func (t *gpuTexture) release() {
	if t.group != nil {
		t.group.Release()
	}
	t.view.Release()
	t.texture.Release()
}

// Textures implements core.TextureDevice. Each texture carries its own
// bind group for group 1; binding it to a unit makes draws that select
// that unit use the group.
type Textures struct {
	device  *wgpu.Device
	queue   *wgpu.Queue
	layout  *wgpu.BindGroupLayout
	sampler *wgpu.Sampler

	textures map[core.TextureHandle]*gpuTexture
	units    map[int32]core.TextureHandle
	white    *gpuTexture
}

func newTextures(device *wgpu.Device, layout *wgpu.BindGroupLayout) (*Textures, error) {
	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	t := &Textures{
		device:   device,
		queue:    device.GetQueue(),
		layout:   layout,
		sampler:  sampler,
		textures: make(map[core.TextureHandle]*gpuTexture),
		units:    make(map[int32]core.TextureHandle),
	}
	// Untextured draws still need a group 1; they never sample it.
	t.white, err = t.upload("white", &core.Image{Width: 1, Height: 1, Channels: 4, Pix: []byte{255, 255, 255, 255}})
	if err != nil {
		sampler.Release()
		return nil, err
	}
	return t, nil
}

func (t *Textures) upload(label string, img *core.Image) (*gpuTexture, error) {
	chain := imageload.MipChain(img)
	texture, err := t.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(img.Width), Height: uint32(img.Height), DepthOrArrayLayers: 1},
		MipLevelCount: uint32(len(chain)),
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	for level, mip := range chain {
		w, h := mip.Bounds().Dx(), mip.Bounds().Dy()
		extent := wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}
		err = t.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  texture,
				MipLevel: uint32(level),
				Aspect:   wgpu.TextureAspectAll,
			},
			mip.Pix,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(mip.Stride),
				RowsPerImage: uint32(h),
			},
			&extent,
		)
		if err != nil {
			texture.Release()
			return nil, fmt.Errorf("write mip level %d: %w", level, err)
		}
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	group, err := t.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: t.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: t.sampler},
		},
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, err
	}
	return &gpuTexture{texture: texture, view: view, group: group}, nil
}

func (t *Textures) CreateTexture(img *core.Image) (core.TextureHandle, error) {
	if img.Channels != 3 && img.Channels != 4 {
		return "", fmt.Errorf("%w: %d channels", core.ErrUnsupportedFormat, img.Channels)
	}
	h := core.NewTextureHandle()
	tex, err := t.upload(string(h), img)
	if err != nil {
		return "", err
	}
	t.textures[h] = tex
	return h, nil
}

func (t *Textures) BindTexture(unit int, h core.TextureHandle) error {
	if _, ok := t.textures[h]; !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownHandle, h)
	}
	t.units[int32(unit)] = h
	return nil
}

func (t *Textures) DeleteTexture(h core.TextureHandle) error {
	tex, ok := t.textures[h]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownHandle, h)
	}
	tex.release()
	delete(t.textures, h)
	for unit, bound := range t.units {
		if bound == h {
			delete(t.units, unit)
		}
	}
	return nil
}

// group returns the bind group for a texture unit, or the white texture
// when nothing is bound there.
func (t *Textures) group(unit int32) *wgpu.BindGroup {
	if h, ok := t.units[unit]; ok {
		return t.textures[h].group
	}
	return t.white.group
}

func (t *Textures) Len() int {
	return len(t.textures)
}

func (t *Textures) release() {
	for h, tex := range t.textures {
		tex.release()
		delete(t.textures, h)
	}
	clear(t.units)
	t.white.release()
	t.sampler.Release()
}
