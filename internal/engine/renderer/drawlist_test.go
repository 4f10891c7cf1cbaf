package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

func triangle() model.Primitive {
	return model.Primitive{
		Vertices: []model.Vertex{
			{Position: [3]float32{0, 1, 0}},
			{Position: [3]float32{-1, -1, 0}},
			{Position: [3]float32{1, -1, 0}},
		},
		Indices: []uint32{0, 1, 2},
		Color:   [4]float32{1, 1, 1, 1},
	}
}

func TestDrawListWorldMatrices(t *testing.T) {
	group := model.NewNode("model")
	group.Translation = math.Vec3{Y: -2}

	body := model.NewNode("Body")
	body.Translation = math.Vec3{X: 3}
	body.Mesh = &model.Mesh{Primitives: []model.Primitive{triangle(), {}}}
	group.Add(body)

	items := drawList(group, nil)
	require.Len(t, items, 1, "empty primitives are skipped")
	assert.Same(t, &body.Mesh.Primitives[0], items[0].prim)
	assert.Nil(t, items[0].skin)

	p := items[0].model.TransformPoint([3]float32{0, 0, 0})
	assert.InDelta(t, 3, p[0], 1e-6)
	assert.InDelta(t, -2, p[1], 1e-6)
}

func TestDrawListSkinnedUsesIdentity(t *testing.T) {
	group := model.NewNode("model")
	group.Translation = math.Vec3{Z: 5}

	joint := model.NewNode("joint")
	group.Add(joint)

	prim := triangle()
	prim.Joints = [][4]uint16{{0}, {0}, {0}}
	prim.Weights = [][4]float32{{1}, {1}, {1}}

	skinned := model.NewNode("skinned")
	skinned.Mesh = &model.Mesh{Primitives: []model.Primitive{prim}}
	skinned.Skin = &model.Skin{Joints: []*model.Node{joint}, InverseBind: []math.Mat4{math.Identity()}}
	group.Add(skinned)

	items := drawList(group, nil)
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].skin)
	assert.Equal(t, math.Identity(), items[0].model)
}

func TestDrawListReusesBuffer(t *testing.T) {
	group := model.NewNode("model")
	node := model.NewNode("mesh")
	node.Mesh = &model.Mesh{Primitives: []model.Primitive{triangle()}}
	group.Add(node)

	buf := make([]drawItem, 0, 4)
	items := drawList(group, buf)
	assert.Len(t, items, 1)
	assert.Equal(t, 4, cap(items))

	assert.Empty(t, drawList(nil, buf[:0]))
}
