package framework

import "github.com/milk9111/scenekit/maths"

// Primitive identifies a built-in mesh shape.
type Primitive int

const (
	PrimitiveCube Primitive = iota
	PrimitiveSphere
	PrimitiveQuad
)

// Mesh is the CPU-side description of a piece of geometry: a primitive
// kind plus its object-space bounds. GPU vertex data is owned by the
// graphics backend and referenced by handle only.
type Mesh struct {
	Name      string
	Primitive Primitive
	Min       maths.Vec3
	Max       maths.Vec3
}

// CubeMesh builds a cube mesh with the given edge length.
func CubeMesh(name string, size float32) Mesh {
	h := size * 0.5
	return Mesh{
		Name:      name,
		Primitive: PrimitiveCube,
		Min:       maths.V3(-h, -h, -h),
		Max:       maths.V3(h, h, h),
	}
}

// SphereMesh builds a sphere mesh with the given radius.
func SphereMesh(name string, radius float32) Mesh {
	return Mesh{
		Name:      name,
		Primitive: PrimitiveSphere,
		Min:       maths.V3(-radius, -radius, -radius),
		Max:       maths.V3(radius, radius, radius),
	}
}

// QuadMesh builds a flat quad in the XZ plane.
func QuadMesh(name string, size float32) Mesh {
	h := size * 0.5
	return Mesh{
		Name:      name,
		Primitive: PrimitiveQuad,
		Min:       maths.V3(-h, 0, -h),
		Max:       maths.V3(h, 0, h),
	}
}

// Corners returns the eight corners of the mesh's bounding box in
// object space.
func (m Mesh) Corners() [8]maths.Vec3 {
	return [8]maths.Vec3{
		{X: m.Min.X, Y: m.Min.Y, Z: m.Min.Z},
		{X: m.Max.X, Y: m.Min.Y, Z: m.Min.Z},
		{X: m.Max.X, Y: m.Max.Y, Z: m.Min.Z},
		{X: m.Min.X, Y: m.Max.Y, Z: m.Min.Z},
		{X: m.Min.X, Y: m.Min.Y, Z: m.Max.Z},
		{X: m.Max.X, Y: m.Min.Y, Z: m.Max.Z},
		{X: m.Max.X, Y: m.Max.Y, Z: m.Max.Z},
		{X: m.Min.X, Y: m.Max.Y, Z: m.Max.Z},
	}
}
