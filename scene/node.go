package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/materials"
)

// Mesh pairs cloned geometry with the material instance bound to it. The
// geometry is the scene's own copy; the pipeline's source asset is never
// mutated. GPUHandle is the backend's buffer id (0 = not yet uploaded).
type Mesh struct {
	Name     string
	Data     core.MeshData
	Material *materials.Material

	GPUHandle uint32
}

// Node is one element of a scene's local graph: a transform, an optional
// mesh, and children.
type Node struct {
	Name      string
	Transform core.Transform
	Mesh      *Mesh
	Visible   bool

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Transform: core.NewTransform(),
		Visible:   true,
	}
}

func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Children() []*Node { return n.children }

// WorldMatrix composes the transforms up the parent chain.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	local := n.Transform.Matrix()
	if n.parent == nil {
		return local
	}
	return n.parent.WorldMatrix().Mul4(local)
}

// Traverse visits n and every descendant, depth-first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node) {
		if found == nil && node.Name == name {
			found = node
		}
	})
	return found
}

// VisibleMeshes collects every visible node carrying a mesh, in traversal
// order. The backend draws opaque meshes first, then transparent.
func (n *Node) VisibleMeshes() []*Node {
	var out []*Node
	n.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			out = append(out, node)
		}
	})
	return out
}
