package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Accessor errors.
var (
	ErrAccessorOutOfRange = errors.New("accessor index out of range")
	ErrAccessorType       = errors.New("unexpected accessor type")
	ErrNoBufferView       = errors.New("accessor has no buffer view")
	ErrAccessorCount      = errors.New("invalid accessor count")
)

// ComponentSize returns the byte size of a component type.
func ComponentSize(componentType int) int {
	switch componentType {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// ComponentCount returns the number of components for an accessor type.
func ComponentCount(accessorType string) int {
	switch accessorType {
	case AccessorScalar:
		return 1
	case AccessorVec2:
		return 2
	case AccessorVec3:
		return 3
	case AccessorVec4:
		return 4
	case AccessorMat4:
		return 16
	default:
		return 0
	}
}

// accessor validates the index and returns the accessor plus its element bytes.
func (g *GLTF) accessor(index int) (*Accessor, [][]byte, error) {
	if index < 0 || index >= len(g.Accessors) {
		return nil, nil, fmt.Errorf("%w: %d", ErrAccessorOutOfRange, index)
	}
	acc := &g.Accessors[index]
	if acc.BufferView == nil {
		return nil, nil, fmt.Errorf("accessor %d: %w", index, ErrNoBufferView)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(g.BufferViews) {
		return nil, nil, fmt.Errorf("accessor %d: buffer view %d out of range", index, *acc.BufferView)
	}
	bv := &g.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(g.Buffers) {
		return nil, nil, fmt.Errorf("accessor %d: buffer %d out of range", index, bv.Buffer)
	}
	data := g.Buffers[bv.Buffer].Data
	if acc.Count < 0 {
		return nil, nil, fmt.Errorf("accessor %d: %w: %d", index, ErrAccessorCount, acc.Count)
	}
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset > len(data) || bv.ByteLength > len(data)-bv.ByteOffset {
		return nil, nil, fmt.Errorf("accessor %d: buffer view %d: %w", index, *acc.BufferView, ErrBufferSizeMismatch)
	}
	view := data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]

	elemSize := ComponentSize(acc.ComponentType) * ComponentCount(acc.Type)
	if elemSize == 0 {
		return nil, nil, fmt.Errorf("accessor %d: %w: %s/%d", index, ErrAccessorType, acc.Type, acc.ComponentType)
	}
	stride := elemSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	// The last element must end inside the view. Checked by division so a
	// huge count cannot overflow or allocate before it is rejected.
	if acc.Count > 0 {
		room := len(view) - acc.ByteOffset - elemSize
		if acc.ByteOffset < 0 || room < 0 || acc.Count-1 > room/stride {
			return nil, nil, fmt.Errorf("accessor %d: %d elements: %w", index, acc.Count, ErrBufferSizeMismatch)
		}
	}

	elems := make([][]byte, acc.Count)
	for i := range elems {
		start := acc.ByteOffset + i*stride
		elems[i] = view[start : start+elemSize]
	}
	return acc, elems, nil
}

// ReadFloats decodes an accessor into count*components float32 values.
// Normalized integer components are mapped to [0,1] or [-1,1].
func (g *GLTF) ReadFloats(index int) ([]float32, int, error) {
	acc, elems, err := g.accessor(index)
	if err != nil {
		return nil, 0, err
	}
	n := ComponentCount(acc.Type)
	size := ComponentSize(acc.ComponentType)
	if acc.ComponentType != ComponentFloat && !acc.Normalized {
		return nil, 0, fmt.Errorf("accessor %d: %w: non-normalized integer %s", index, ErrAccessorType, acc.Type)
	}

	out := make([]float32, 0, len(elems)*n)
	for _, e := range elems {
		for c := 0; c < n; c++ {
			out = append(out, decodeComponent(e[c*size:], acc.ComponentType))
		}
	}
	return out, n, nil
}

func decodeComponent(b []byte, componentType int) float32 {
	switch componentType {
	case ComponentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case ComponentByte:
		return float32(math.Max(float64(int8(b[0]))/127.0, -1))
	case ComponentUnsignedByte:
		return float32(b[0]) / 255.0
	case ComponentShort:
		return float32(math.Max(float64(int16(binary.LittleEndian.Uint16(b)))/32767.0, -1))
	case ComponentUnsignedShort:
		return float32(binary.LittleEndian.Uint16(b)) / 65535.0
	default:
		return 0
	}
}

// ReadScalars reads a SCALAR accessor as float32.
func (g *GLTF) ReadScalars(index int) ([]float32, error) {
	return g.readTyped(index, AccessorScalar)
}

// ReadVec3 reads a VEC3 accessor.
func (g *GLTF) ReadVec3(index int) ([][3]float32, error) {
	flat, err := g.readTyped(index, AccessorVec3)
	if err != nil {
		return nil, err
	}
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		copy(out[i][:], flat[i*3:i*3+3])
	}
	return out, nil
}

// ReadVec4 reads a VEC4 accessor.
func (g *GLTF) ReadVec4(index int) ([][4]float32, error) {
	flat, err := g.readTyped(index, AccessorVec4)
	if err != nil {
		return nil, err
	}
	out := make([][4]float32, len(flat)/4)
	for i := range out {
		copy(out[i][:], flat[i*4:i*4+4])
	}
	return out, nil
}

func (g *GLTF) readTyped(index int, want string) ([]float32, error) {
	if index >= 0 && index < len(g.Accessors) && g.Accessors[index].Type != want {
		return nil, fmt.Errorf("accessor %d: %w: want %s, got %s", index, ErrAccessorType, want, g.Accessors[index].Type)
	}
	flat, _, err := g.ReadFloats(index)
	return flat, err
}

// ReadIndices reads a SCALAR unsigned integer accessor as uint32 indices.
func (g *GLTF) ReadIndices(index int) ([]uint32, error) {
	acc, elems, err := g.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorScalar {
		return nil, fmt.Errorf("accessor %d: %w: indices must be SCALAR", index, ErrAccessorType)
	}

	out := make([]uint32, len(elems))
	for i, e := range elems {
		switch acc.ComponentType {
		case ComponentUnsignedByte:
			out[i] = uint32(e[0])
		case ComponentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(e))
		case ComponentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(e)
		default:
			return nil, fmt.Errorf("accessor %d: %w: index component %d", index, ErrAccessorType, acc.ComponentType)
		}
	}
	return out, nil
}

// ReadJoints reads a VEC4 unsigned byte/short JOINTS_n accessor.
func (g *GLTF) ReadJoints(index int) ([][4]uint16, error) {
	acc, elems, err := g.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != AccessorVec4 {
		return nil, fmt.Errorf("accessor %d: %w: joints must be VEC4", index, ErrAccessorType)
	}

	out := make([][4]uint16, len(elems))
	for i, e := range elems {
		for c := 0; c < 4; c++ {
			switch acc.ComponentType {
			case ComponentUnsignedByte:
				out[i][c] = uint16(e[c])
			case ComponentUnsignedShort:
				out[i][c] = binary.LittleEndian.Uint16(e[c*2:])
			default:
				return nil, fmt.Errorf("accessor %d: %w: joint component %d", index, ErrAccessorType, acc.ComponentType)
			}
		}
	}
	return out, nil
}

// ReadMat4 reads a MAT4 float accessor (column-major).
func (g *GLTF) ReadMat4(index int) ([][16]float32, error) {
	flat, err := g.readTyped(index, AccessorMat4)
	if err != nil {
		return nil, err
	}
	out := make([][16]float32, len(flat)/16)
	for i := range out {
		copy(out[i][:], flat[i*16:i*16+16])
	}
	return out, nil
}
