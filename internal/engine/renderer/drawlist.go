package renderer

import (
	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// drawItem is one primitive ready to draw.
type drawItem struct {
	prim  *model.Primitive
	skin  *model.Skin // non-nil when the primitive is skinned on the CPU
	model math.Mat4
}

// drawList flattens the graph under root into draw items, reusing dst.
// Skinned primitives get an identity model matrix because skinning already
// places their vertices in scene space.
func drawList(root *model.Node, dst []drawItem) []drawItem {
	if root == nil {
		return dst
	}
	parent := math.Identity()
	if root.Parent != nil {
		parent = root.Parent.WorldMatrix()
	}
	root.Walk(parent, func(n *model.Node, world math.Mat4) {
		if n.Mesh == nil {
			return
		}
		for i := range n.Mesh.Primitives {
			prim := &n.Mesh.Primitives[i]
			if len(prim.Vertices) == 0 {
				continue
			}
			if n.Skin != nil && prim.Skinned() {
				dst = append(dst, drawItem{prim: prim, skin: n.Skin, model: math.Identity()})
				continue
			}
			dst = append(dst, drawItem{prim: prim, model: world})
		}
	})
	return dst
}

// Stats counts the work of the last frame.
type Stats struct {
	DrawCalls int
	Triangles int
	Skinned   int
	Buffers   int // primitives resident on the GPU
}
