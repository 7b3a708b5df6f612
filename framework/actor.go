package framework

import (
	"github.com/milk9111/scenekit/core"
	"github.com/milk9111/scenekit/maths"
)

// Actor is a renderable scene object: a mesh shaded with a material,
// placed by a transform. World caches the transform's world matrix as of
// the renderer's last Update; it is what gets pushed into per-object
// uniform data.
type Actor struct {
	Name      string
	Mesh      core.Handle
	Material  core.Handle
	Transform core.Handle
	World     maths.Mat4
}
