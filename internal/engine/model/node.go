package model

import (
	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Transform is a translation, rotation and scale triple.
type Transform struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
}

// IdentityTransform returns the transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Node is a scene graph node: a transform with children and optional geometry.
//
// Euler is an extra X-then-Y-then-Z rotation in radians applied after
// Rotation; procedural motion (pointer follow, flight yaw) writes it so the
// clip-driven Rotation stays untouched.
type Node struct {
	Name string
	Transform
	Euler math.Vec3

	Mesh *Mesh
	Skin *Skin

	Parent   *Node
	Children []*Node

	rest Transform
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	t := IdentityTransform()
	return &Node{Name: name, Transform: t, rest: t}
}

// Add attaches child under n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. Returns false if child was not a direct child.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// SaveRest records the current transform as the rest pose that animation
// blends from.
func (n *Node) SaveRest() {
	n.rest = n.Transform
}

// Rest returns the rest pose.
func (n *Node) Rest() Transform {
	return n.rest
}

// ResetToRest restores the rest pose.
func (n *Node) ResetToRest() {
	n.Transform = n.rest
}

// LocalMatrix returns T * R * E * S for this node.
func (n *Node) LocalMatrix() math.Mat4 {
	r := n.Rotation
	if n.Euler != (math.Vec3{}) {
		r = r.Mul(math.QuatFromEuler(n.Euler.X, n.Euler.Y, n.Euler.Z))
	}
	return math.Compose(n.Translation, r, n.Scale)
}

// WorldMatrix returns the node's matrix in scene space.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Walk visits n and its descendants depth-first with each node's world matrix.
// parent is the world matrix of n's parent.
func (n *Node) Walk(parent math.Mat4, visit func(node *Node, world math.Mat4)) {
	world := parent.Mul(n.LocalMatrix())
	visit(n, world)
	for _, c := range n.Children {
		c.Walk(world, visit)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
