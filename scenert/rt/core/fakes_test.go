package core

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type call struct {
	Name  string
	Value any
}

// recordingShader records every uniform write in order and keeps the last
// value per name.
type recordingShader struct {
	calls []call
	last  map[string]any
}

func newRecordingShader() *recordingShader {
	return &recordingShader{last: make(map[string]any)}
}

func (s *recordingShader) set(name string, v any) {
	s.calls = append(s.calls, call{Name: name, Value: v})
	s.last[name] = v
}

func (s *recordingShader) SetMat4(name string, v mgl32.Mat4) { s.set(name, v) }
func (s *recordingShader) SetVec4(name string, v mgl32.Vec4) { s.set(name, v) }
func (s *recordingShader) SetVec3(name string, v mgl32.Vec3) { s.set(name, v) }
func (s *recordingShader) SetVec2(name string, v mgl32.Vec2) { s.set(name, v) }
func (s *recordingShader) SetFloat(name string, v float32)   { s.set(name, v) }
func (s *recordingShader) SetInt(name string, v int32)       { s.set(name, v) }
func (s *recordingShader) SetBool(name string, v bool)       { s.set(name, v) }
func (s *recordingShader) SetSampler2D(name string, u int32) { s.set(name, u) }

func (s *recordingShader) reset() {
	s.calls = nil
	clear(s.last)
}

func (s *recordingShader) names() []string {
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Name
	}
	return out
}

type fakeDevice struct {
	created   []TextureHandle
	bound     map[int]TextureHandle
	deleted   map[TextureHandle]int
	createErr error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{bound: make(map[int]TextureHandle), deleted: make(map[TextureHandle]int)}
}

func (d *fakeDevice) CreateTexture(img *Image) (TextureHandle, error) {
	if d.createErr != nil {
		return "", d.createErr
	}
	h := NewTextureHandle()
	d.created = append(d.created, h)
	return h, nil
}

func (d *fakeDevice) BindTexture(unit int, h TextureHandle) error {
	d.bound[unit] = h
	return nil
}

func (d *fakeDevice) DeleteTexture(h TextureHandle) error {
	d.deleted[h]++
	return nil
}

// fakeLoader serves images by path; unknown paths fail like a missing file.
type fakeLoader struct {
	images map[string]*Image
}

func (l *fakeLoader) Load(path string) (*Image, error) {
	img, ok := l.images[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, errors.New("no such file or directory"))
	}
	return img, nil
}

func rgbImage() *Image {
	return &Image{Width: 2, Height: 2, Channels: 3, Pix: make([]byte, 2*2*3)}
}

type fakeMeshes struct {
	drawn  []MeshKind
	closed int
}

func (m *fakeMeshes) DrawMesh(kind MeshKind) error {
	if kind > MeshHalfSphere {
		return ErrUnknownMesh
	}
	m.drawn = append(m.drawn, kind)
	return nil
}

func (m *fakeMeshes) Close() error {
	m.closed++
	return nil
}

type captureLogger struct {
	errors []string
	warns  []string
}

func (l *captureLogger) Debugf(format string, args ...any) {}
func (l *captureLogger) Infof(format string, args ...any)  {}
func (l *captureLogger) Warnf(format string, args ...any) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
func (l *captureLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}
