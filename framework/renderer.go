package framework

import (
	"github.com/milk9111/scenekit/core"
	"github.com/milk9111/scenekit/maths"
)

// Renderer owns the scene's element storage: one packed allocator per
// element kind plus the transform hierarchy. It has no graphics backend
// of its own; a frontend reads actors, world matrices, and the active
// camera after each Update and does the actual drawing.
//
// All handles returned by Add/Create methods follow the core package's
// staleness rules: operations on a removed element fail with false/nil.
type Renderer struct {
	transforms *core.TransformManager
	meshes     core.Packed[Mesh]
	materials  core.Packed[Material]
	actors     core.Packed[Actor]
	lights     core.Packed[Light]
	cameras    core.Packed[Camera]

	activeCamera core.Handle
}

func NewRenderer() *Renderer {
	return &Renderer{
		transforms:   core.NewTransformManager(),
		activeCamera: core.Nil,
	}
}

// Transforms exposes the transform hierarchy for direct parenting and
// local-matrix access.
func (r *Renderer) Transforms() *core.TransformManager {
	return r.transforms
}

func (r *Renderer) AddMesh(m Mesh) core.Handle {
	return r.meshes.Add(m)
}

func (r *Renderer) Mesh(h core.Handle) *Mesh {
	return r.meshes.Get(h)
}

func (r *Renderer) AddMaterial(m Material) core.Handle {
	return r.materials.Add(m)
}

func (r *Renderer) Material(h core.Handle) *Material {
	return r.materials.Get(h)
}

func (r *Renderer) AddLight(l Light) core.Handle {
	return r.lights.Add(l)
}

func (r *Renderer) Light(h core.Handle) *Light {
	return r.lights.Get(h)
}

// Lights returns the dense light list, valid until the next mutation.
func (r *Renderer) Lights() []Light {
	return r.lights.Data()
}

// AddCamera registers a camera placed by the given local matrix and
// returns its handle.
func (r *Renderer) AddCamera(c Camera, local maths.Mat4) core.Handle {
	c.Transform = r.transforms.Create(local)
	h := r.cameras.Add(c)
	if r.activeCamera.IsNil() {
		r.activeCamera = h
	}
	return h
}

func (r *Renderer) Camera(h core.Handle) *Camera {
	return r.cameras.Get(h)
}

// SetActiveCamera selects the camera used by ActiveCamera. Returns false
// if h is stale.
func (r *Renderer) SetActiveCamera(h core.Handle) bool {
	if r.cameras.Get(h) == nil {
		return false
	}
	r.activeCamera = h
	return true
}

// ActiveCamera returns the camera the scene should be drawn with, or nil
// when none was added.
func (r *Renderer) ActiveCamera() *Camera {
	return r.cameras.Get(r.activeCamera)
}

// CreateActor places a mesh/material pair in the scene with the given
// local transform. Mesh and material handles are recorded as-is; a stale
// reference surfaces later as a nil lookup, not an error here.
func (r *Renderer) CreateActor(name string, mesh, material core.Handle, local maths.Mat4) core.Handle {
	t := r.transforms.Create(local)
	return r.actors.Add(Actor{
		Name:      name,
		Mesh:      mesh,
		Material:  material,
		Transform: t,
		World:     maths.Identity(),
	})
}

func (r *Renderer) Actor(h core.Handle) *Actor {
	return r.actors.Get(h)
}

// Actors returns the dense actor list, valid until the next mutation.
func (r *Renderer) Actors() []Actor {
	return r.actors.Data()
}

// ActorSetParent attaches child's transform under parent's transform.
func (r *Renderer) ActorSetParent(child, parent core.Handle) bool {
	ca := r.actors.Get(child)
	pa := r.actors.Get(parent)
	if ca == nil || pa == nil {
		return false
	}
	return r.transforms.SetParent(ca.Transform, pa.Transform)
}

// ActorSetTransform replaces the actor's local matrix.
func (r *Renderer) ActorSetTransform(h core.Handle, local maths.Mat4) bool {
	a := r.actors.Get(h)
	if a == nil {
		return false
	}
	return r.transforms.SetLocal(a.Transform, local)
}

// DestroyActor removes an actor and its transform. Returns false if h is
// stale.
func (r *Renderer) DestroyActor(h core.Handle) bool {
	a := r.actors.Get(h)
	if a == nil {
		return false
	}
	r.transforms.Destroy(a.Transform)
	return r.actors.Remove(h)
}

// Update is the per-frame commit point: it re-derives world matrices,
// refreshes each actor's cached world matrix, and updates the active camera.
func (r *Renderer) Update() error {
	if err := r.transforms.Update(); err != nil {
		return err
	}

	actors := r.actors.Data()
	for i := range actors {
		if w := r.transforms.World(actors[i].Transform); w != nil {
			actors[i].World = *w
		}
	}

	if cam := r.cameras.Get(r.activeCamera); cam != nil {
		if w := r.transforms.World(cam.Transform); w != nil {
			cam.Update(*w)
		} else {
			cam.Update(maths.Identity())
		}
	}
	return nil
}

// VisibleActors returns the actors the given camera can see. Frustum
// culling is not implemented; every actor is returned, matching the
// current backend behavior.
func (r *Renderer) VisibleActors(camera core.Handle) []Actor {
	if r.cameras.Get(camera) == nil {
		return nil
	}
	return r.actors.Data()
}
