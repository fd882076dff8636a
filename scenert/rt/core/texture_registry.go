package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	// MaxTextureSlots is the number of texture units every GL 3.3+ driver
	// guarantees to the fragment stage.
	MaxTextureSlots = 16

	// NotFound is the slot reported for tags that were never registered.
	NotFound = -1
)

// TextureHandle is an opaque reference to a texture owned by a TextureDevice.
type TextureHandle string

func NewTextureHandle() TextureHandle {
	return TextureHandle(uuid.NewString())
}

type TextureEntry struct {
	Tag      string
	Path     string
	Handle   TextureHandle
	Slot     int
	Width    int
	Height   int
	Channels int
}

// TextureRegistry maps tags to uploaded textures. Registration order is the
// texture unit order: the n-th registered texture is bound to unit n.
type TextureRegistry struct {
	device   TextureDevice
	loader   ImageLoader
	capacity int
	entries  []TextureEntry
	byTag    map[string]int
	log      Logger
}

func NewTextureRegistry(device TextureDevice, loader ImageLoader, capacity int, log Logger) *TextureRegistry {
	if capacity <= 0 {
		capacity = MaxTextureSlots
	}
	return &TextureRegistry{
		device:   device,
		loader:   loader,
		capacity: capacity,
		byTag:    make(map[string]int),
		log:      orNop(log),
	}
}

// Register decodes the image at path, uploads it and files it under tag.
// A failed registration leaves earlier entries untouched.
func (r *TextureRegistry) Register(path, tag string) error {
	if len(r.entries) >= r.capacity {
		err := fmt.Errorf("register texture %q: %w (%d slots)", tag, ErrCapacityExceeded, r.capacity)
		r.log.Errorf("%v", err)
		return err
	}

	img, err := r.loader.Load(path)
	if err != nil {
		err = fmt.Errorf("register texture %q: could not load image %s: %w", tag, path, err)
		r.log.Errorf("%v", err)
		return err
	}
	if img.Channels != 3 && img.Channels != 4 {
		err = fmt.Errorf("register texture %q: %w: %d channels in %s", tag, ErrUnsupportedFormat, img.Channels, path)
		r.log.Errorf("%v", err)
		return err
	}

	handle, err := r.device.CreateTexture(img)
	if err != nil {
		err = fmt.Errorf("register texture %q: %w", tag, err)
		r.log.Errorf("%v", err)
		return err
	}

	slot := len(r.entries)
	r.entries = append(r.entries, TextureEntry{
		Tag:      tag,
		Path:     path,
		Handle:   handle,
		Slot:     slot,
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
	})
	if first, dup := r.byTag[tag]; dup {
		// First registration keeps winning lookups.
		r.log.Warnf("texture tag %q registered again in slot %d; lookups resolve to slot %d", tag, slot, first)
	} else {
		r.byTag[tag] = slot
	}

	r.log.Infof("loaded texture %s from %s: %dx%d, %d channels, slot %d", tag, path, img.Width, img.Height, img.Channels, slot)
	return nil
}

// BindAll binds every registered texture to the unit equal to its slot.
func (r *TextureRegistry) BindAll() error {
	var errs []error
	for _, e := range r.entries {
		if err := r.device.BindTexture(e.Slot, e.Handle); err != nil {
			errs = append(errs, fmt.Errorf("bind texture %q to unit %d: %w", e.Tag, e.Slot, err))
		}
	}
	return errors.Join(errs...)
}

func (r *TextureRegistry) FindHandle(tag string) (TextureHandle, bool) {
	i, ok := r.byTag[tag]
	if !ok {
		return "", false
	}
	return r.entries[i].Handle, true
}

// FindSlot returns the texture unit for tag, or NotFound.
func (r *TextureRegistry) FindSlot(tag string) (int, bool) {
	i, ok := r.byTag[tag]
	if !ok {
		return NotFound, false
	}
	return r.entries[i].Slot, true
}

// ReleaseAll deletes every registered texture exactly once and empties the
// registry. Calling it again is a no-op.
func (r *TextureRegistry) ReleaseAll() error {
	var errs []error
	for _, e := range r.entries {
		if err := r.device.DeleteTexture(e.Handle); err != nil {
			errs = append(errs, fmt.Errorf("release texture %q: %w", e.Tag, err))
		}
	}
	r.entries = nil
	clear(r.byTag)
	return errors.Join(errs...)
}

func (r *TextureRegistry) Len() int {
	return len(r.entries)
}

func (r *TextureRegistry) Capacity() int {
	return r.capacity
}

func (r *TextureRegistry) Entries() []TextureEntry {
	out := make([]TextureEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
