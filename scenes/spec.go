package scenes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Doc is a scene description: reusable meshes and materials plus a node
// tree that instantiates them. Nodes reference meshes, materials, and
// parents by name; the builder resolves the names into handles.
type Doc struct {
	Name      string         `yaml:"name"`
	Meshes    []MeshSpec     `yaml:"meshes"`
	Materials []MaterialSpec `yaml:"materials"`
	Camera    *CameraSpec    `yaml:"camera"`
	Lights    []LightSpec    `yaml:"lights"`
	Nodes     []NodeSpec     `yaml:"nodes"`
}

type MeshSpec struct {
	Name      string  `yaml:"name"`
	Primitive string  `yaml:"primitive"`
	Size      float32 `yaml:"size"`
}

type MaterialSpec struct {
	Name      string    `yaml:"name"`
	Albedo    []float32 `yaml:"albedo"`
	Metallic  float32   `yaml:"metallic"`
	Roughness float32   `yaml:"roughness"`
	Emissive  []float32 `yaml:"emissive"`
}

type CameraSpec struct {
	Position []float32 `yaml:"position"`
	LookAt   []float32 `yaml:"look_at"`
	FOV      float32   `yaml:"fov"` // degrees
	Near     float32   `yaml:"near"`
	Far      float32   `yaml:"far"`
}

type LightSpec struct {
	Position []float32 `yaml:"position"`
	Color    []float32 `yaml:"color"`
	Radius   float32   `yaml:"radius"`
}

type NodeSpec struct {
	Name     string    `yaml:"name"`
	Parent   string    `yaml:"parent"`
	Mesh     string    `yaml:"mesh"`
	Material string    `yaml:"material"`
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"` // euler degrees
	Scale    []float32 `yaml:"scale"`
	Script   string    `yaml:"script"`
	Body     *BodySpec `yaml:"body"`
}

// BodySpec attaches a 2D physics body (XY plane) to a node.
type BodySpec struct {
	Kind   string  `yaml:"kind"` // "box" or "ground"
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Mass   float64 `yaml:"mass"`
	// ground segment endpoints, used when Kind is "ground"
	X0 float64 `yaml:"x0"`
	X1 float64 `yaml:"x1"`
}

// LoadDoc reads and parses a scene document by file name, preferring a
// copy on disk over the embedded one.
func LoadDoc(name string) (Doc, error) {
	data, err := Load(name)
	if err != nil {
		return Doc{}, fmt.Errorf("scenes: load %s: %w", name, err)
	}

	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Doc{}, fmt.Errorf("scenes: unmarshal %s: %w", name, err)
	}
	return doc, nil
}
