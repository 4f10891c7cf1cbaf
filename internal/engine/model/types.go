// Package model provides the scene graph, meshes and animation clips of a loaded asset.
package model

// Vertex represents a mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Primitive is one draw call worth of triangles sharing a material.
type Primitive struct {
	Vertices    []Vertex
	Indices     []uint32
	Color       [4]float32
	DoubleSided bool

	// Skinning attributes, empty for rigid primitives.
	Joints  [][4]uint16
	Weights [][4]float32
}

// Skinned reports whether the primitive carries joint influences.
func (p *Primitive) Skinned() bool {
	return len(p.Joints) == len(p.Vertices) && len(p.Weights) == len(p.Vertices) && len(p.Vertices) > 0
}

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Name       string
	Primitives []Primitive
	Bounds     Bounds
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns an inverted box that any point will extend.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Valid reports whether the box contains at least one point.
func (b Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Center returns the box center.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}
