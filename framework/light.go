package framework

import "github.com/milk9111/scenekit/maths"

// Light is a point light.
type Light struct {
	Position maths.Vec3
	Color    maths.Vec3
	Radius   float32
}
