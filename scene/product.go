package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/materials"
)

// productBinding maps a mesh name in the product model to the material
// template it renders with. Mesh names come from the glTF node names and
// are part of the asset contract.
type productBinding struct {
	mesh     string
	template string
	// overrides tweak the instance after schema cloning.
	overrides map[string]materials.Uniform
}

// productBindings covers both earbuds and the charging case.
var productBindings = []productBinding{
	{mesh: "EarphoneGlassL", template: materials.TemplateEarphoneGlass},
	{mesh: "EarphoneGlassR", template: materials.TemplateEarphoneGlass},
	{mesh: "EarphoneBaseL", template: materials.TemplateEarphoneBase},
	{mesh: "EarphoneBaseR", template: materials.TemplateEarphoneBase},
	{mesh: "CoreL", template: materials.TemplateCore},
	{mesh: "CoreR", template: materials.TemplateCore},
	{mesh: "Tube", template: materials.TemplateTube},
	{mesh: "TouchpadL", template: materials.TemplateTouchpad},
	{mesh: "TouchpadR", template: materials.TemplateTouchpad},
	{mesh: "SiliconeTipL", template: materials.TemplateSilicone},
	{mesh: "SiliconeTipR", template: materials.TemplateSilicone},
	{mesh: "CaseShell", template: materials.TemplateEarphoneBase},
	{
		mesh:     "CaseGlass",
		template: materials.TemplateEarphoneGlass,
		overrides: map[string]materials.Uniform{
			"uOpacity": materials.Float(0.6),
		},
	},
}

// product is the assembled showcase model: a root node to animate as one
// unit, plus the material instances scenes drive directly.
type product struct {
	root      *Node
	materials []*materials.Material
}

// buildProduct clones the product model's meshes out of the pipeline and
// binds a fresh material instance per binding-table entry. Meshes the
// model lacks are skipped: a trimmed test model still yields a usable
// (if partial) product. The case glass material rebinds to the case
// textures when present.
func buildProduct(deps *Deps) *product {
	p := &product{root: NewNode("product")}

	model := deps.Pipeline.Model("scene")
	if model == nil {
		core.Logger().Error("scene: product model missing from pipeline")
		return p
	}

	caseOverrides := map[string]materials.Uniform{}
	if tex := deps.Pipeline.Texture("matcapCase"); tex != nil {
		caseOverrides["tMatcap"] = materials.Texture(tex)
	}
	if tex := deps.Pipeline.Texture("caseEmissiveMask"); tex != nil {
		caseOverrides["tEmissiveMask"] = materials.Texture(tex)
	}

	for _, binding := range productBindings {
		src := model.Mesh(binding.mesh)
		if src == nil {
			continue
		}

		overrides := binding.overrides
		if binding.mesh == "CaseShell" || binding.mesh == "CaseGlass" {
			merged := map[string]materials.Uniform{}
			for k, v := range caseOverrides {
				merged[k] = v
			}
			for k, v := range overrides {
				merged[k] = v
			}
			overrides = merged
		}

		mat := deps.Materials.CreateMaterial(binding.template, overrides)
		p.materials = append(p.materials, mat)

		node := NewNode(binding.mesh)
		node.Mesh = &Mesh{
			Name:     binding.mesh,
			Data:     cloneMeshData(src.Data),
			Material: mat,
		}
		node.Transform = transformFromMatrix(src.Transform)
		p.root.AddChild(node)
	}
	return p
}

// cloneMeshData deep-copies geometry so scene-local edits never reach the
// pipeline's source asset.
func cloneMeshData(src core.MeshData) core.MeshData {
	out := core.MeshData{
		Vertices: make([]core.Vertex, len(src.Vertices)),
		Indices:  make([]uint32, len(src.Indices)),
	}
	copy(out.Vertices, src.Vertices)
	copy(out.Indices, src.Indices)
	return out
}

// transformFromMatrix extracts translation and scale from a baked node
// matrix; rotation stays in the vertex data for the flattened model.
func transformFromMatrix(m mgl32.Mat4) core.Transform {
	t := core.NewTransform()
	t.Position = mgl32.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
	t.Scale = mgl32.Vec3{
		mgl32.Vec3{m.At(0, 0), m.At(1, 0), m.At(2, 0)}.Len(),
		mgl32.Vec3{m.At(0, 1), m.At(1, 1), m.At(2, 1)}.Len(),
		mgl32.Vec3{m.At(0, 2), m.At(1, 2), m.At(2, 2)}.Len(),
	}
	return t
}

// setEmissive ramps uEmissiveTransition on every product material that
// declares it.
func (p *product) setEmissive(v float32) {
	for _, m := range p.materials {
		m.SetFloat("uEmissiveTransition", v)
	}
}

// setFresnelTransition drives the base material crossfade.
func (p *product) setFresnelTransition(v float32) {
	for _, m := range p.materials {
		m.SetFloat("uFresnelTransition", v)
	}
}

// setPointer forwards the normalized pointer to the touchpad visualiser.
func (p *product) setPointer(nx, ny float64) {
	for _, m := range p.materials {
		if m.Template != materials.TemplateTouchpad {
			continue
		}
		if u, ok := m.Uniforms["uPointer"]; ok {
			u.Vec2 = mgl32.Vec2{float32(nx)*0.5 + 0.5, float32(ny)*0.5 + 0.5}
		}
	}
}
