package framework

import "github.com/milk9111/scenekit/maths"

// Material holds the PBR surface parameters an actor is shaded with.
// The fields mirror what the shading backend uploads per material.
type Material struct {
	Name      string
	Albedo    maths.Vec3
	Metallic  float32
	Roughness float32
	Emissive  maths.Vec3
}

// DefaultMaterial is a neutral grey dielectric.
func DefaultMaterial(name string) Material {
	return Material{
		Name:      name,
		Albedo:    maths.V3(0.8, 0.8, 0.8),
		Metallic:  0,
		Roughness: 0.5,
	}
}

// SetProperty updates a material parameter by name. Returns false for an
// unknown property or a value of the wrong type.
func (m *Material) SetProperty(property string, value any) bool {
	switch property {
	case "albedo":
		v, ok := value.(maths.Vec3)
		if !ok {
			return false
		}
		m.Albedo = v
	case "metallic":
		v, ok := value.(float32)
		if !ok {
			return false
		}
		m.Metallic = v
	case "roughness":
		v, ok := value.(float32)
		if !ok {
			return false
		}
		m.Roughness = v
	case "emissive":
		v, ok := value.(maths.Vec3)
		if !ok {
			return false
		}
		m.Emissive = v
	default:
		return false
	}
	return true
}
