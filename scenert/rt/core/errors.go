package core

import "errors"

var (
	ErrCapacityExceeded  = errors.New("texture registry is full")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTextureNotFound   = errors.New("texture tag not registered")
	ErrMaterialNotFound  = errors.New("material tag not defined")
	ErrUnknownHandle     = errors.New("unknown texture handle")
	ErrTooManyLights     = errors.New("too many light sources")
	ErrUnknownMesh       = errors.New("unknown mesh kind")
)
