package scenes

import (
	"fmt"
	"math"

	"github.com/milk9111/scenekit/core"
	"github.com/milk9111/scenekit/framework"
	"github.com/milk9111/scenekit/maths"
)

// Instance is the result of building a Doc into a renderer: node names
// resolved to actor handles, plus the script and physics attachments the
// animation and physics layers pick up.
type Instance struct {
	Name    string
	Actors  map[string]core.Handle
	Scripts []ScriptBinding
	Bodies  []BodyBinding
}

// ScriptBinding ties an animation script to a node's transform, together
// with the node's authored placement so partial script updates keep the
// unanimated channels.
type ScriptBinding struct {
	Node      string
	Script    string
	Transform core.Handle
	Position  maths.Vec3
	Rotation  maths.Vec3 // euler degrees
	Scale     maths.Vec3
}

// BodyBinding ties a physics body spec to a node's transform.
type BodyBinding struct {
	Node      string
	Transform core.Handle
	Position  maths.Vec3
	Spec      BodySpec
}

// Build instantiates a scene document into the renderer. Node creation
// runs in two passes so parents can be declared in any order: first every
// node is created, then parent names are resolved. Unknown references and
// duplicate names are errors; nothing is rolled back on failure.
func Build(doc Doc, r *framework.Renderer) (*Instance, error) {
	meshes := make(map[string]core.Handle, len(doc.Meshes))
	for _, m := range doc.Meshes {
		if _, ok := meshes[m.Name]; ok {
			return nil, fmt.Errorf("scenes: duplicate mesh %q", m.Name)
		}
		mesh, err := buildMesh(m)
		if err != nil {
			return nil, err
		}
		meshes[m.Name] = r.AddMesh(mesh)
	}

	materials := make(map[string]core.Handle, len(doc.Materials))
	for _, m := range doc.Materials {
		if _, ok := materials[m.Name]; ok {
			return nil, fmt.Errorf("scenes: duplicate material %q", m.Name)
		}
		mat := framework.DefaultMaterial(m.Name)
		if m.Albedo != nil {
			mat.Albedo = vec3(m.Albedo, mat.Albedo)
		}
		mat.Metallic = m.Metallic
		if m.Roughness != 0 {
			mat.Roughness = m.Roughness
		}
		mat.Emissive = vec3(m.Emissive, maths.Vec3Zero)
		materials[m.Name] = r.AddMaterial(mat)
	}

	for _, l := range doc.Lights {
		r.AddLight(framework.Light{
			Position: vec3(l.Position, maths.Vec3Zero),
			Color:    vec3(l.Color, maths.Vec3One),
			Radius:   l.Radius,
		})
	}

	if doc.Camera != nil {
		addCamera(*doc.Camera, r)
	}

	inst := &Instance{
		Name:   doc.Name,
		Actors: make(map[string]core.Handle, len(doc.Nodes)),
	}

	for _, n := range doc.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("scenes: node without a name")
		}
		if _, ok := inst.Actors[n.Name]; ok {
			return nil, fmt.Errorf("scenes: duplicate node %q", n.Name)
		}

		mesh := core.Nil
		if n.Mesh != "" {
			h, ok := meshes[n.Mesh]
			if !ok {
				return nil, fmt.Errorf("scenes: node %q references unknown mesh %q", n.Name, n.Mesh)
			}
			mesh = h
		}
		material := core.Nil
		if n.Material != "" {
			h, ok := materials[n.Material]
			if !ok {
				return nil, fmt.Errorf("scenes: node %q references unknown material %q", n.Name, n.Material)
			}
			material = h
		}

		position := vec3(n.Position, maths.Vec3Zero)
		rotation := vec3(n.Rotation, maths.Vec3Zero)
		scale := vec3(n.Scale, maths.Vec3One)
		local := maths.Compose(position, scale, maths.EulerDegrees(rotation.X, rotation.Y, rotation.Z))

		actor := r.CreateActor(n.Name, mesh, material, local)
		inst.Actors[n.Name] = actor
		transform := r.Actor(actor).Transform

		if n.Script != "" {
			inst.Scripts = append(inst.Scripts, ScriptBinding{
				Node:      n.Name,
				Script:    n.Script,
				Transform: transform,
				Position:  position,
				Rotation:  rotation,
				Scale:     scale,
			})
		}
		if n.Body != nil {
			inst.Bodies = append(inst.Bodies, BodyBinding{
				Node:      n.Name,
				Transform: transform,
				Position:  position,
				Spec:      *n.Body,
			})
		}
	}

	for _, n := range doc.Nodes {
		if n.Parent == "" {
			continue
		}
		parent, ok := inst.Actors[n.Parent]
		if !ok {
			return nil, fmt.Errorf("scenes: node %q references unknown parent %q", n.Name, n.Parent)
		}
		if !r.ActorSetParent(inst.Actors[n.Name], parent) {
			return nil, fmt.Errorf("scenes: node %q could not be parented under %q", n.Name, n.Parent)
		}
	}

	return inst, nil
}

func buildMesh(m MeshSpec) (framework.Mesh, error) {
	size := m.Size
	if size == 0 {
		size = 1
	}
	switch m.Primitive {
	case "cube", "":
		return framework.CubeMesh(m.Name, size), nil
	case "sphere":
		return framework.SphereMesh(m.Name, size), nil
	case "quad":
		return framework.QuadMesh(m.Name, size), nil
	default:
		return framework.Mesh{}, fmt.Errorf("scenes: mesh %q has unknown primitive %q", m.Name, m.Primitive)
	}
}

func addCamera(c CameraSpec, r *framework.Renderer) {
	fov := c.FOV
	if fov == 0 {
		fov = 60
	}
	near := c.Near
	if near == 0 {
		near = 0.1
	}
	far := c.Far
	if far == 0 {
		far = 100
	}

	eye := vec3(c.Position, maths.V3(0, 2, 10))
	center := vec3(c.LookAt, maths.Vec3Zero)
	// camera placement is the inverse of the view it produces
	local := maths.LookAt(eye, center, maths.V3(0, 1, 0)).InverseAffine()

	cam := framework.NewPerspectiveCamera(fov*math.Pi/180, 16.0/9.0, near, far)
	r.AddCamera(cam, local)
}

func vec3(v []float32, def maths.Vec3) maths.Vec3 {
	if len(v) != 3 {
		return def
	}
	return maths.V3(v[0], v[1], v[2])
}
