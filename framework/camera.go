package framework

import (
	"github.com/milk9111/scenekit/core"
	"github.com/milk9111/scenekit/maths"
)

// ProjectionMode selects how a camera projects the scene.
type ProjectionMode int

const (
	PerspectiveProjection ProjectionMode = iota
	OrthographicProjection
)

// Camera projects the scene from the point of view of its transform.
// For a perspective camera FOV is the vertical field of view in radians;
// for an orthographic camera it is the half-extent of the view volume.
type Camera struct {
	Projection ProjectionMode
	FOV        float32
	Aspect     float32
	Near       float32
	Far        float32

	// owned by the renderer once the camera is added
	Transform core.Handle

	// derived by Update
	ProjectionMatrix  maths.Mat4
	WorldToViewMatrix maths.Mat4
	ViewToWorldMatrix maths.Mat4
}

// NewPerspectiveCamera builds a perspective camera.
func NewPerspectiveCamera(fov, aspect, near, far float32) Camera {
	return Camera{
		Projection: PerspectiveProjection,
		FOV:        fov,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
		Transform:  core.Nil,
	}
}

// Update refreshes the derived matrices from the camera parameters and
// the camera transform's current world matrix.
func (c *Camera) Update(world maths.Mat4) {
	if c.Projection == PerspectiveProjection {
		c.ProjectionMatrix = maths.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
	} else {
		c.ProjectionMatrix = maths.Orthographic(-c.FOV, c.FOV, -c.FOV, c.FOV, c.Near, c.Far)
	}
	c.ViewToWorldMatrix = world
	c.WorldToViewMatrix = world.InverseAffine()
}

// WorldToScreen projects a world-space point into normalized device
// coordinates. ok is false when the point is behind the camera.
func (c *Camera) WorldToScreen(p maths.Vec3) (maths.Vec3, bool) {
	view := c.WorldToViewMatrix.TransformPoint(p)
	if view.Z >= -c.Near {
		return maths.Vec3{}, false
	}
	return c.ProjectionMatrix.TransformPoint(view), true
}
