package model

import (
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Skin binds a mesh to joint nodes. Skinned vertices are produced in scene
// space, so the owning node's own transform is not applied again.
type Skin struct {
	Joints      []*Node
	InverseBind []math.Mat4
}

// JointMatrices returns world(joint) * inverseBind for every joint, reusing dst.
func (s *Skin) JointMatrices(dst []math.Mat4) []math.Mat4 {
	if cap(dst) < len(s.Joints) {
		dst = make([]math.Mat4, len(s.Joints))
	}
	dst = dst[:len(s.Joints)]
	for i, j := range s.Joints {
		inv := math.Identity()
		if i < len(s.InverseBind) {
			inv = s.InverseBind[i]
		}
		dst[i] = j.WorldMatrix().Mul(inv)
	}
	return dst
}

// SkinVertices applies linear blend skinning to prim, writing into dst.
func SkinVertices(prim *Primitive, joints []math.Mat4, dst []Vertex) []Vertex {
	if cap(dst) < len(prim.Vertices) {
		dst = make([]Vertex, len(prim.Vertices))
	}
	dst = dst[:len(prim.Vertices)]

	normals := make([]math.Mat4, len(joints))
	for i, j := range joints {
		normals[i] = j.NormalMatrix()
	}

	for i, v := range prim.Vertices {
		var pos, nrm [3]float32
		var total float32
		for k := 0; k < 4; k++ {
			w := prim.Weights[i][k]
			j := int(prim.Joints[i][k])
			if w == 0 || j >= len(joints) {
				continue
			}
			total += w
			p := joints[j].TransformPoint(v.Position)
			n := normals[j].TransformDirection(v.Normal)
			for c := 0; c < 3; c++ {
				pos[c] += p[c] * w
				nrm[c] += n[c] * w
			}
		}
		if total == 0 {
			dst[i] = v
			continue
		}
		for c := 0; c < 3; c++ {
			pos[c] /= total
		}
		dst[i] = Vertex{Position: pos, Normal: Normalize(nrm)}
	}
	return dst
}
