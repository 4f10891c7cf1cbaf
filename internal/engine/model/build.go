package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/quiet-measure/pkg/formats"
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// ErrNoScene is returned when a document has no nodes to instantiate.
var ErrNoScene = errors.New("asset has no scene nodes")

const primitiveModeTriangles = 4

// Model is a loaded asset: one scene graph plus its animation clips.
type Model struct {
	Root   *Node
	Nodes  []*Node // indexed like the source document's node array
	Clips  []*Clip
	Bounds Bounds
}

// BuildOptions controls how a document is turned into a Model.
type BuildOptions struct {
	// DefaultColor is used for primitives without a material.
	DefaultColor [4]float32
}

// DefaultBuildOptions returns the options used by the asset loader.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{DefaultColor: [4]float32{0.8, 0.8, 0.8, 1}}
}

// FromGLTF builds the scene graph and clips of a parsed document.
func FromGLTF(doc *formats.GLTF, opts BuildOptions) (*Model, error) {
	if len(doc.Nodes) == 0 {
		return nil, ErrNoScene
	}

	meshes := make([]*Mesh, len(doc.Meshes))
	for i := range doc.Meshes {
		mesh, err := buildMesh(doc, i, opts)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		meshes[i] = mesh
	}

	m := &Model{
		Root:   NewNode("root"),
		Nodes:  make([]*Node, len(doc.Nodes)),
		Bounds: EmptyBounds(),
	}

	for i, src := range doc.Nodes {
		n := NewNode(src.Name)
		if n.Name == "" {
			n.Name = fmt.Sprintf("node_%d", i)
		}
		switch {
		case src.Matrix != nil:
			n.Translation, n.Rotation, n.Scale = Decompose(math.Mat4(*src.Matrix))
		default:
			if src.Translation != nil {
				n.Translation = math.Vec3From(*src.Translation)
			}
			if src.Rotation != nil {
				n.Rotation = math.QuatFrom(*src.Rotation).Normalize()
			}
			if src.Scale != nil {
				n.Scale = math.Vec3From(*src.Scale)
			}
		}
		if src.Mesh != nil {
			if *src.Mesh < 0 || *src.Mesh >= len(meshes) {
				return nil, fmt.Errorf("node %d: mesh %d out of range", i, *src.Mesh)
			}
			n.Mesh = meshes[*src.Mesh]
		}
		n.SaveRest()
		m.Nodes[i] = n
	}

	// Link children; a node claimed twice keeps its first parent.
	for i, src := range doc.Nodes {
		for _, c := range src.Children {
			if c < 0 || c >= len(m.Nodes) || c == i || m.Nodes[c].Parent != nil {
				continue
			}
			m.Nodes[i].Add(m.Nodes[c])
		}
	}
	for _, r := range doc.SceneRoots() {
		if r >= 0 && r < len(m.Nodes) && m.Nodes[r].Parent == nil {
			m.Root.Add(m.Nodes[r])
		}
	}
	if len(m.Root.Children) == 0 {
		return nil, ErrNoScene
	}

	for i, src := range doc.Nodes {
		if src.Skin == nil {
			continue
		}
		skin, err := buildSkin(doc, *src.Skin, m.Nodes)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		m.Nodes[i].Skin = skin
	}

	for i := range doc.Animations {
		clip, err := buildClip(doc, i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		m.Clips = append(m.Clips, clip)
	}

	m.Root.Walk(math.Identity(), func(node *Node, world math.Mat4) {
		if node.Mesh == nil {
			return
		}
		for _, p := range node.Mesh.Primitives {
			for _, v := range p.Vertices {
				m.Bounds.Extend(world.TransformPoint(v.Position))
			}
		}
	})

	return m, nil
}

// Load parses GLB or glTF bytes and builds a Model.
func Load(data []byte, opts BuildOptions) (*Model, error) {
	doc, err := formats.Parse(data)
	if err != nil {
		return nil, err
	}
	return FromGLTF(doc, opts)
}

func buildMesh(doc *formats.GLTF, index int, opts BuildOptions) (*Mesh, error) {
	src := doc.Meshes[index]
	mesh := &Mesh{Name: src.Name, Bounds: EmptyBounds()}

	for pi, prim := range src.Primitives {
		if prim.Mode != nil && *prim.Mode != primitiveModeTriangles {
			continue
		}
		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		positions, err := doc.ReadVec3(posIdx)
		if err != nil {
			return nil, fmt.Errorf("primitive %d positions: %w", pi, err)
		}

		out := Primitive{
			Vertices: make([]Vertex, len(positions)),
			Color:    opts.DefaultColor,
		}
		for i, p := range positions {
			out.Vertices[i].Position = p
			mesh.Bounds.Extend(p)
		}

		if prim.Indices != nil {
			out.Indices, err = doc.ReadIndices(*prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("primitive %d indices: %w", pi, err)
			}
		} else {
			out.Indices = make([]uint32, len(positions))
			for i := range out.Indices {
				out.Indices[i] = uint32(i)
			}
		}
		for _, idx := range out.Indices {
			if int(idx) >= len(out.Vertices) {
				return nil, fmt.Errorf("primitive %d: index %d out of range", pi, idx)
			}
		}

		if nIdx, ok := prim.Attributes["NORMAL"]; ok {
			normals, err := doc.ReadVec3(nIdx)
			if err != nil {
				return nil, fmt.Errorf("primitive %d normals: %w", pi, err)
			}
			for i := range out.Vertices {
				if i < len(normals) {
					out.Vertices[i].Normal = normals[i]
				}
			}
		} else {
			computeNormals(&out)
		}

		jIdx, hasJoints := prim.Attributes["JOINTS_0"]
		wIdx, hasWeights := prim.Attributes["WEIGHTS_0"]
		if hasJoints && hasWeights {
			if out.Joints, err = doc.ReadJoints(jIdx); err != nil {
				return nil, fmt.Errorf("primitive %d joints: %w", pi, err)
			}
			if out.Weights, err = doc.ReadVec4(wIdx); err != nil {
				return nil, fmt.Errorf("primitive %d weights: %w", pi, err)
			}
		}

		if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(doc.Materials) {
			mat := doc.Materials[*prim.Material]
			out.DoubleSided = mat.DoubleSided
			if mat.PbrMetallicRoughness != nil && mat.PbrMetallicRoughness.BaseColorFactor != nil {
				out.Color = *mat.PbrMetallicRoughness.BaseColorFactor
			}
		}

		mesh.Primitives = append(mesh.Primitives, out)
	}

	return mesh, nil
}

// computeNormals assigns area-weighted smooth normals from the triangle list.
func computeNormals(p *Primitive) {
	acc := make([][3]float32, len(p.Vertices))
	for i := 0; i+2 < len(p.Indices); i += 3 {
		a, b, c := p.Indices[i], p.Indices[i+1], p.Indices[i+2]
		va, vb, vc := p.Vertices[a].Position, p.Vertices[b].Position, p.Vertices[c].Position
		e1 := [3]float32{vb[0] - va[0], vb[1] - va[1], vb[2] - va[2]}
		e2 := [3]float32{vc[0] - va[0], vc[1] - va[1], vc[2] - va[2]}
		n := Cross(e1, e2)
		for _, idx := range []uint32{a, b, c} {
			acc[idx][0] += n[0]
			acc[idx][1] += n[1]
			acc[idx][2] += n[2]
		}
	}
	for i := range p.Vertices {
		p.Vertices[i].Normal = Normalize(acc[i])
	}
}

func buildSkin(doc *formats.GLTF, index int, nodes []*Node) (*Skin, error) {
	if index < 0 || index >= len(doc.Skins) {
		return nil, fmt.Errorf("skin %d out of range", index)
	}
	src := doc.Skins[index]

	skin := &Skin{Joints: make([]*Node, 0, len(src.Joints))}
	for _, j := range src.Joints {
		if j < 0 || j >= len(nodes) {
			return nil, fmt.Errorf("skin %d: joint %d out of range", index, j)
		}
		skin.Joints = append(skin.Joints, nodes[j])
	}

	skin.InverseBind = make([]math.Mat4, len(skin.Joints))
	for i := range skin.InverseBind {
		skin.InverseBind[i] = math.Identity()
	}
	if src.InverseBindMatrices != nil {
		mats, err := doc.ReadMat4(*src.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("skin %d inverse bind matrices: %w", index, err)
		}
		for i := range skin.InverseBind {
			if i < len(mats) {
				skin.InverseBind[i] = math.Mat4(mats[i])
			}
		}
	}
	return skin, nil
}

func buildClip(doc *formats.GLTF, index int) (*Clip, error) {
	src := doc.Animations[index]
	clip := &Clip{Name: src.Name}
	if clip.Name == "" {
		clip.Name = fmt.Sprintf("animation_%d", index)
	}

	for ci, ch := range src.Channels {
		// Morph weights and untargeted channels are not supported.
		if ch.Target.Node == nil || *ch.Target.Node < 0 || *ch.Target.Node >= len(doc.Nodes) {
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(src.Samplers) {
			return nil, fmt.Errorf("channel %d: sampler %d out of range", ci, ch.Sampler)
		}
		sampler := src.Samplers[ch.Sampler]

		out := Channel{Target: *ch.Target.Node}
		switch ch.Target.Path {
		case formats.PathTranslation:
			out.Path = PathTranslation
		case formats.PathRotation:
			out.Path = PathRotation
		case formats.PathScale:
			out.Path = PathScale
		default:
			continue
		}
		if sampler.Interpolation == formats.InterpolationStep {
			out.Interpolation = InterpolateStep
		}

		times, err := doc.ReadScalars(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("channel %d times: %w", ci, err)
		}
		// Cubic spline samplers store in-tangent, value, out-tangent per key;
		// only the value is kept and the channel is interpolated linearly.
		stride, offset := 1, 0
		if sampler.Interpolation == formats.InterpolationCubic {
			stride, offset = 3, 1
		}

		if out.Path == PathRotation {
			values, err := doc.ReadVec4(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("channel %d rotations: %w", ci, err)
			}
			for k := range times {
				if i := k*stride + offset; i < len(values) {
					out.Rotations = append(out.Rotations, math.QuatFrom(values[i]).Normalize())
				}
			}
		} else {
			values, err := doc.ReadVec3(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("channel %d values: %w", ci, err)
			}
			for k := range times {
				if i := k*stride + offset; i < len(values) {
					out.Vectors = append(out.Vectors, math.Vec3From(values[i]))
				}
			}
		}

		n := len(out.Vectors) + len(out.Rotations)
		if n < len(times) {
			times = times[:n]
		}
		out.Times = times
		if len(times) > 0 && times[len(times)-1] > clip.Duration {
			clip.Duration = times[len(times)-1]
		}
		clip.Channels = append(clip.Channels, out)
	}

	return clip, nil
}
