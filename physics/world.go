// Package physics bridges a Chipmunk space onto transform handles. The
// simulation runs in the XY plane; each step writes dynamic body
// placements back into the owning transform's local matrix, leaving Z
// alone for the hierarchy to compose.
package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenekit/core"
	"github.com/milk9111/scenekit/maths"
)

const (
	// DefaultGravity is scene units per second squared, Y down.
	DefaultGravity = -9.8

	spaceIterations = 20
)

// World owns the Chipmunk space and the body-to-transform bindings.
type World struct {
	space  *cp.Space
	bodies map[*cp.Body]core.Handle
}

func NewWorld(gravity float64) *World {
	space := cp.NewSpace()
	space.Iterations = spaceIterations
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	return &World{
		space:  space,
		bodies: make(map[*cp.Body]core.Handle),
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// AttachBox creates a dynamic box body at pos driving the given
// transform.
func (w *World) AttachBox(handle core.Handle, pos maths.Vec3, width, height, mass float64) *cp.Body {
	body := cp.NewBody(mass, cp.MomentForBox(mass, width, height))
	body.SetPosition(cp.Vector{X: float64(pos.X), Y: float64(pos.Y)})
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0.7)
	shape.SetElasticity(0.1)

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.bodies[body] = handle
	return body
}

// AddGround adds a static segment from (x0, y) to (x1, y).
func (w *World) AddGround(y, x0, x1 float64) {
	shape := cp.NewSegment(w.space.StaticBody, cp.Vector{X: x0, Y: y}, cp.Vector{X: x1, Y: y}, 0.5)
	shape.SetFriction(1.0)
	shape.SetElasticity(0)
	w.space.AddShape(shape)
}

// Detach removes the binding for a transform handle; the body stays in
// the space but stops driving anything.
func (w *World) Detach(handle core.Handle) {
	for body, h := range w.bodies {
		if h == handle {
			delete(w.bodies, body)
		}
	}
}

// Step advances the simulation and writes body placements into their
// transforms' local matrices. Bindings whose transform has been
// destroyed are dropped silently.
func (w *World) Step(dt float64, tm *core.TransformManager) {
	w.space.Step(dt)

	for body, handle := range w.bodies {
		local := tm.Local(handle)
		if local == nil {
			delete(w.bodies, body)
			continue
		}
		pos := body.Position()
		z := local.Translation().Z
		rotation := maths.AxisAngle(maths.V3(0, 0, 1), float32(body.Angle()))
		*local = maths.Rotation(rotation).Mul(maths.Translation(maths.V3(float32(pos.X), float32(pos.Y), z)))
	}
}
