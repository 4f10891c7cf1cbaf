// Package glbtest builds small in-memory GLB assets for tests.
package glbtest

import (
	"encoding/binary"
	"math"

	"github.com/Faultbox/quiet-measure/pkg/formats"
)

// Clip describes one generated animation. Each clip moves the "Body" node from
// the origin to (0, Lift, 0) and turns it a quarter turn around Y over Duration.
type Clip struct {
	Name     string
	Duration float32
	Lift     float32
}

// Options controls the generated asset.
type Options struct {
	Clips []Clip
}

// builder accumulates the binary chunk and the accessor table.
type builder struct {
	doc *formats.GLTF
	bin []byte
}

func (b *builder) align() {
	for len(b.bin)%4 != 0 {
		b.bin = append(b.bin, 0)
	}
}

func (b *builder) addFloats(typ string, values []float32) int {
	b.align()
	offset := len(b.bin)
	for _, v := range values {
		b.bin = binary.LittleEndian.AppendUint32(b.bin, math.Float32bits(v))
	}
	return b.addAccessor(offset, len(b.bin)-offset, formats.ComponentFloat, typ, len(values)/formats.ComponentCount(typ))
}

func (b *builder) addIndices(values []uint16) int {
	b.align()
	offset := len(b.bin)
	for _, v := range values {
		b.bin = binary.LittleEndian.AppendUint16(b.bin, v)
	}
	return b.addAccessor(offset, len(b.bin)-offset, formats.ComponentUnsignedShort, formats.AccessorScalar, len(values))
}

func (b *builder) addAccessor(offset, length, component int, typ string, count int) int {
	view := len(b.doc.BufferViews)
	b.doc.BufferViews = append(b.doc.BufferViews, formats.BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: length,
	})
	b.doc.Accessors = append(b.doc.Accessors, formats.Accessor{
		BufferView:    intPtr(view),
		ComponentType: component,
		Count:         count,
		Type:          typ,
	})
	return len(b.doc.Accessors) - 1
}

// Document builds the parsed form of the test asset along with its binary chunk.
func Document(opts Options) (*formats.GLTF, []byte) {
	b := &builder{doc: &formats.GLTF{Asset: formats.Asset{Version: "2.0", Generator: "glbtest"}}}

	pos := b.addFloats(formats.AccessorVec3, []float32{
		0, 1, 0,
		-1, -1, 0,
		1, -1, 0,
	})
	nrm := b.addFloats(formats.AccessorVec3, []float32{
		0, 0, 1,
		0, 0, 1,
		0, 0, 1,
	})
	idx := b.addIndices([]uint16{0, 1, 2})

	b.doc.Meshes = []formats.Mesh{{
		Name: "Wing",
		Primitives: []formats.Primitive{{
			Attributes: map[string]int{"POSITION": pos, "NORMAL": nrm},
			Indices:    intPtr(idx),
			Material:   intPtr(0),
		}},
	}}
	b.doc.Materials = []formats.Material{{
		Name:                 "Feather",
		PbrMetallicRoughness: &formats.PbrMetallicRoughness{BaseColorFactor: &[4]float32{0.9, 0.4, 0.1, 1}},
	}}
	b.doc.Nodes = []formats.Node{
		{Name: "Bird", Children: []int{1}},
		{Name: "Body", Mesh: intPtr(0)},
	}
	b.doc.Scenes = []formats.Scene{{Name: "Scene", Nodes: []int{0}}}
	b.doc.Scene = intPtr(0)

	s := float32(math.Sin(math.Pi / 4))
	c := float32(math.Cos(math.Pi / 4))
	for _, clip := range opts.Clips {
		times := b.addFloats(formats.AccessorScalar, []float32{0, clip.Duration})
		trans := b.addFloats(formats.AccessorVec3, []float32{0, 0, 0, 0, clip.Lift, 0})
		rot := b.addFloats(formats.AccessorVec4, []float32{0, 0, 0, 1, 0, s, 0, c})
		b.doc.Animations = append(b.doc.Animations, formats.Animation{
			Name: clip.Name,
			Channels: []formats.AnimationChannel{
				{Sampler: 0, Target: formats.AnimationTarget{Node: intPtr(1), Path: formats.PathTranslation}},
				{Sampler: 1, Target: formats.AnimationTarget{Node: intPtr(1), Path: formats.PathRotation}},
			},
			Samplers: []formats.AnimationSampler{
				{Input: times, Output: trans, Interpolation: formats.InterpolationLinear},
				{Input: times, Output: rot, Interpolation: formats.InterpolationLinear},
			},
		})
	}

	b.align()
	b.doc.Buffers = []formats.Buffer{{ByteLength: len(b.bin)}}
	return b.doc, b.bin
}

// Build returns the encoded GLB bytes for opts.
func Build(opts Options) []byte {
	doc, bin := Document(opts)
	data, err := formats.EncodeGLB(doc, bin)
	if err != nil {
		panic(err)
	}
	return data
}

func intPtr(v int) *int {
	return &v
}
