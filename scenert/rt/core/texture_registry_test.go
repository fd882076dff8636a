package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(capacity int, paths ...string) (*TextureRegistry, *fakeDevice, *captureLogger) {
	loader := &fakeLoader{images: make(map[string]*Image)}
	for _, p := range paths {
		loader.images[p] = rgbImage()
	}
	dev := newFakeDevice()
	log := &captureLogger{}
	return NewTextureRegistry(dev, loader, capacity, log), dev, log
}

func TestTextureRegistry_RegisterAndFind(t *testing.T) {
	reg, dev, _ := newTestRegistry(0, "a.jpg", "b.jpg", "c.png")

	require.NoError(t, reg.Register("a.jpg", "a"))
	require.NoError(t, reg.Register("b.jpg", "b"))
	require.NoError(t, reg.Register("c.png", "c"))

	for i, tag := range []string{"a", "b", "c"} {
		slot, ok := reg.FindSlot(tag)
		assert.True(t, ok)
		assert.Equal(t, i, slot)

		h, ok := reg.FindHandle(tag)
		assert.True(t, ok)
		assert.Equal(t, dev.created[i], h)
	}
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, MaxTextureSlots, reg.Capacity())
}

func TestTextureRegistry_NotFound(t *testing.T) {
	reg, _, _ := newTestRegistry(0, "a.jpg")
	require.NoError(t, reg.Register("a.jpg", "a"))

	slot, ok := reg.FindSlot("missing")
	assert.False(t, ok)
	assert.Equal(t, NotFound, slot)

	h, ok := reg.FindHandle("missing")
	assert.False(t, ok)
	assert.Empty(t, h)
}

func TestTextureRegistry_Capacity(t *testing.T) {
	var paths []string
	for i := 0; i <= MaxTextureSlots; i++ {
		paths = append(paths, fmt.Sprintf("t%02d.jpg", i))
	}
	reg, dev, log := newTestRegistry(0, paths...)

	for i := 0; i < MaxTextureSlots; i++ {
		require.NoError(t, reg.Register(paths[i], fmt.Sprintf("t%02d", i)))
	}
	err := reg.Register(paths[MaxTextureSlots], "overflow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))

	// Earlier registrations are untouched and nothing was uploaded for the overflow.
	assert.Equal(t, MaxTextureSlots, reg.Len())
	assert.Len(t, dev.created, MaxTextureSlots)
	slot, ok := reg.FindSlot("t15")
	assert.True(t, ok)
	assert.Equal(t, 15, slot)
	_, ok = reg.FindSlot("overflow")
	assert.False(t, ok)
	assert.Len(t, log.errors, 1)
}

func TestTextureRegistry_LoadFailure(t *testing.T) {
	reg, dev, log := newTestRegistry(0)

	err := reg.Register("textures/missing.jpg", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "textures/missing.jpg")
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, dev.created)
	assert.Len(t, log.errors, 1)
}

func TestTextureRegistry_UnsupportedChannels(t *testing.T) {
	for _, channels := range []int{1, 2} {
		loader := &fakeLoader{images: map[string]*Image{
			"gray.png": {Width: 4, Height: 4, Channels: channels, Pix: make([]byte, 16*channels)},
		}}
		dev := newFakeDevice()
		reg := NewTextureRegistry(dev, loader, 0, nil)

		err := reg.Register("gray.png", "gray")
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), "channels=%d", channels)
		assert.Empty(t, dev.created, "no upload for %d channels", channels)
		assert.Equal(t, 0, reg.Len())
	}
}

func TestTextureRegistry_DeviceFailure(t *testing.T) {
	reg, dev, _ := newTestRegistry(0, "a.jpg")
	dev.createErr = errors.New("out of memory")

	err := reg.Register("a.jpg", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
	assert.Equal(t, 0, reg.Len())
}

func TestTextureRegistry_DuplicateTagFirstWins(t *testing.T) {
	reg, _, log := newTestRegistry(0, "a.jpg", "b.jpg")

	require.NoError(t, reg.Register("a.jpg", "dup"))
	require.NoError(t, reg.Register("b.jpg", "dup"))

	slot, ok := reg.FindSlot("dup")
	assert.True(t, ok)
	assert.Equal(t, 0, slot)
	assert.Equal(t, 2, reg.Len())
	assert.Len(t, log.warns, 1)
}

func TestTextureRegistry_BindAll(t *testing.T) {
	reg, dev, _ := newTestRegistry(0, "a.jpg", "b.jpg")
	require.NoError(t, reg.Register("a.jpg", "a"))
	require.NoError(t, reg.Register("b.jpg", "b"))

	require.NoError(t, reg.BindAll())
	assert.Equal(t, dev.created[0], dev.bound[0])
	assert.Equal(t, dev.created[1], dev.bound[1])
}

func TestTextureRegistry_ReleaseAllOnce(t *testing.T) {
	reg, dev, _ := newTestRegistry(0, "a.jpg", "b.jpg")
	require.NoError(t, reg.Register("a.jpg", "a"))
	require.NoError(t, reg.Register("b.jpg", "b"))

	require.NoError(t, reg.ReleaseAll())
	require.NoError(t, reg.ReleaseAll())

	for _, h := range dev.created {
		assert.Equal(t, 1, dev.deleted[h], "handle %s", h)
	}
	assert.Equal(t, 0, reg.Len())
	_, ok := reg.FindSlot("a")
	assert.False(t, ok)
}

func TestTextureRegistry_ReleaseEmpty(t *testing.T) {
	reg, dev, _ := newTestRegistry(0)
	assert.NoError(t, reg.ReleaseAll())
	assert.Empty(t, dev.deleted)
}

func TestTextureRegistry_EntriesIsCopy(t *testing.T) {
	reg, _, _ := newTestRegistry(4, "a.jpg")
	require.NoError(t, reg.Register("a.jpg", "a"))

	entries := reg.Entries()
	entries[0].Tag = "changed"

	_, ok := reg.FindSlot("a")
	assert.True(t, ok)
	assert.Equal(t, "a", reg.Entries()[0].Tag)
	assert.Equal(t, 4, reg.Capacity())
}
