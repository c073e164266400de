// Copyright 2016 Aleksandr Demakin. All rights reserved.

package wire

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
)

// Decoding and encoding errors.
var (
	ErrUnknownType   = errors.New("unknown message type")
	ErrNameTooLong   = errors.New("name does not fit its field")
	ErrShortPayload  = errors.New("payload is too short")
	ErrTrailingBytes = errors.New("payload has trailing bytes")
)

var encodeBuffers bytebufferpool.Pool

// Marshal encodes m into a new slice.
func Marshal(m *Message) ([]byte, error) {
	buf := encodeBuffers.Get()
	defer encodeBuffers.Put(buf)
	if err := AppendMessage(buf, m); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

// AppendMessage appends the encoded m to buf.
// On error buf is left as it was.
func AppendMessage(buf *bytebufferpool.ByteBuffer, m *Message) error {
	l, ok := layouts[m.Type]
	if !ok {
		return errors.Wrapf(ErrUnknownType, "%s", m.Type)
	}
	if err := validate(m, l); err != nil {
		return err
	}
	start := len(buf.B)
	b := buf.B
	b = binary.LittleEndian.AppendUint32(b, uint32(m.Type))
	if l.mesh {
		vertexCount := m.Mesh.VertexCount
		if l.vertices {
			vertexCount = uint64(len(m.Vertices))
		}
		b = appendName(b, m.Mesh.Name, NameSize)
		b = appendName(b, m.Mesh.OldName, NameSize)
		b = binary.LittleEndian.AppendUint64(b, vertexCount)
	}
	if l.vertices {
		for i := range m.Vertices {
			v := &m.Vertices[i]
			b = appendFloats(b, v.Position[:])
			b = appendFloats(b, v.Normal[:])
			b = appendFloats(b, v.UV[:])
		}
	}
	if l.transform {
		b = appendFloats(b, m.Transform.Matrix[:])
	}
	if l.material {
		mat := &m.Material
		b = appendName(b, mat.Name, NameSize)
		b = appendName(b, mat.OldName, NameSize)
		b = appendFloats(b, mat.Color[:])
		b = appendName(b, mat.DiffuseTexture, PathSize)
		b = appendFloats(b, []float32{mat.SpecularPower})
	}
	if l.camera {
		cam := &m.Camera
		b = binary.LittleEndian.AppendUint32(b, uint32(cam.Kind))
		b = appendName(b, cam.Name, NameSize)
		b = appendFloats(b, cam.Matrix[:])
		b = appendFloats(b, []float32{cam.FOV, cam.Aspect, cam.Far, cam.Near, cam.ViewWidth})
	}
	if len(b)-start != l.size(len(m.Vertices)) {
		panic("wire: encoded size does not match the layout")
	}
	buf.B = b
	return nil
}

func validate(m *Message, l layout) error {
	check := func(field, value string, size int) error {
		if len(value) >= size {
			return errors.Wrapf(ErrNameTooLong, "%s %q is %d bytes, max is %d", field, value, len(value), size-1)
		}
		return nil
	}
	var checks []error
	if l.mesh {
		checks = append(checks, check("mesh name", m.Mesh.Name, NameSize), check("mesh old name", m.Mesh.OldName, NameSize))
	}
	if l.material {
		checks = append(checks,
			check("material name", m.Material.Name, NameSize),
			check("material old name", m.Material.OldName, NameSize),
			check("diffuse texture", m.Material.DiffuseTexture, PathSize))
	}
	if l.camera {
		checks = append(checks, check("camera name", m.Camera.Name, NameSize))
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// appendName appends s as a NUL padded field of the given size.
func appendName(b []byte, s string, size int) []byte {
	b = append(b, s...)
	for i := len(s); i < size; i++ {
		b = append(b, 0)
	}
	return b
}

func appendFloats(b []byte, values []float32) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// Unmarshal decodes a message. The whole payload must be consumed.
func Unmarshal(data []byte) (*Message, error) {
	d := decoder{data: data}
	m := &Message{Type: MessageType(d.uint32())}
	if d.err != nil {
		return nil, d.err
	}
	l, ok := layouts[m.Type]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "%s", m.Type)
	}
	if l.mesh {
		m.Mesh.Name = d.name(NameSize)
		m.Mesh.OldName = d.name(NameSize)
		m.Mesh.VertexCount = d.uint64()
	}
	if l.vertices && d.err == nil {
		if m.Mesh.VertexCount > uint64(d.remaining()/VertexSize) {
			return nil, errors.Wrapf(ErrShortPayload, "%d vertices declared, %d bytes left", m.Mesh.VertexCount, d.remaining())
		}
		m.Vertices = make([]Vertex, m.Mesh.VertexCount)
		for i := range m.Vertices {
			v := &m.Vertices[i]
			d.floats(v.Position[:])
			d.floats(v.Normal[:])
			d.floats(v.UV[:])
		}
	}
	if l.transform {
		d.floats(m.Transform.Matrix[:])
	}
	if l.material {
		mat := &m.Material
		mat.Name = d.name(NameSize)
		mat.OldName = d.name(NameSize)
		d.floats(mat.Color[:])
		mat.DiffuseTexture = d.name(PathSize)
		mat.SpecularPower = d.float()
	}
	if l.camera {
		cam := &m.Camera
		cam.Kind = CameraKind(d.uint32())
		cam.Name = d.name(NameSize)
		d.floats(cam.Matrix[:])
		cam.FOV = d.float()
		cam.Aspect = d.float()
		cam.Far = d.float()
		cam.Near = d.float()
		cam.ViewWidth = d.float()
	}
	if d.err != nil {
		return nil, errors.Wrapf(d.err, "decoding %s", m.Type)
	}
	if d.remaining() != 0 {
		return nil, errors.Wrapf(ErrTrailingBytes, "%d bytes after %s", d.remaining(), m.Type)
	}
	return m, nil
}

// decoder reads fixed-size fields. After the first error all reads return zero values.
type decoder struct {
	data []byte
	pos  int
	err  error
}

func (d *decoder) remaining() int {
	return len(d.data) - d.pos
}

func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.remaining() < n {
		d.err = errors.Wrapf(ErrShortPayload, "need %d bytes at offset %d, have %d", n, d.pos, d.remaining())
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) uint32() uint32 {
	if b := d.next(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) uint64() uint64 {
	if b := d.next(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (d *decoder) float() float32 {
	return math.Float32frombits(d.uint32())
}

func (d *decoder) floats(dst []float32) {
	for i := range dst {
		dst[i] = d.float()
	}
}

// name reads a NUL padded field. Bytes after the first NUL are ignored.
func (d *decoder) name(size int) string {
	b := d.next(size)
	if idx := bytes.IndexByte(b, 0); idx >= 0 {
		b = b[:idx]
	}
	return string(b)
}
