package assets

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"translink/core"
)

// LoadModel opens a .glb/.gltf file and flattens it into named meshes with
// their world transforms baked alongside. The material binding tables key
// on these mesh names, so glTF node names are preserved verbatim.
func LoadModel(name, path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	model := &Model{Name: name}
	visited := make([]bool, len(doc.Nodes))

	var walk func(idx int, parent mgl32.Mat4)
	walk = func(idx int, parent mgl32.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) || visited[idx] {
			return
		}
		visited[idx] = true
		gn := doc.Nodes[idx]
		world := parent.Mul4(nodeMatrix(gn))

		if gn.Mesh != nil && int(*gn.Mesh) < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				data, err := readPrimitive(doc, prim)
				if err != nil {
					core.Logger().Warn("gltf: skipping primitive",
						"model", name, "node", gn.Name, "prim", pi, "error", err)
					continue
				}
				meshName := gn.Name
				if meshName == "" {
					meshName = fmt.Sprintf("node_%d", idx)
				}
				if pi > 0 {
					meshName = fmt.Sprintf("%s_p%d", meshName, pi)
				}
				model.Meshes = append(model.Meshes, &ModelMesh{
					Name:      meshName,
					Data:      *data,
					Transform: world,
				})
			}
		}
		for _, child := range gn.Children {
			walk(int(child), world)
		}
	}

	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		for _, root := range doc.Scenes[*doc.Scene].Nodes {
			walk(int(root), mgl32.Ident4())
		}
	} else {
		for i := range doc.Nodes {
			walk(i, mgl32.Ident4())
		}
	}

	if len(model.Meshes) == 0 {
		return nil, fmt.Errorf("gltf %q: no mesh geometry", path)
	}
	return model, nil
}

func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	// A node carries either a baked column-major matrix or a TRS triple.
	if m := gn.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var world mgl32.Mat4
		for i, v := range m {
			world[i] = float32(v)
		}
		return world
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()

	translation := mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2]))
	rotation := mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}.Mat4()
	scale := mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2]))
	return translation.Mul4(rotation).Mul4(scale)
}

// readPrimitive converts one glTF primitive into indexed vertex data.
// Positions are required; normals and UVs default when absent.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*core.MeshData, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]}
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return &core.MeshData{Vertices: verts, Indices: indices}, nil
}
