// Package builder is the declarative vocabulary scripts use to emit scene objects.
//
// A Builder is a per-run accumulator: it starts empty, every Add call appends exactly one
// record, and nothing can be removed or edited. Records keep the raw values the script
// supplied; validation (vector arity, colors, ranges) happens when the serialized list is
// decoded by scene.Decode.
package builder

import (
	"encoding/json"
	"strconv"

	"scene-sandbox/internal/scene"
)

// Default per-shape parameters.
const (
	DefaultCubeSize     = 1.0
	DefaultSphereRadius = 1.0
	DefaultPlaneWidth   = 10.0
	DefaultPlaneHeight  = 10.0
	DefaultTorusRadius  = 1.0
	DefaultTorusTube    = 0.4

	// Fixed tessellation for spheres (width, height segments) and tori (radial, tubular).
	SphereSegments       = 32
	TorusRadialSegments  = 16
	TorusTubularSegments = 100

	// PlaneTilt is the default X rotation that lays a plane flat.
	PlaneTilt = -1.57
)

// Default colors per shape.
const (
	DefaultCubeColor   = "#3b82f6"
	DefaultSphereColor = "#ef4444"
	DefaultPlaneColor  = "#10b981"
	DefaultTorusColor  = "#f59e0b"
)

// Vector is a script-supplied vector. It is kept as a slice so that a wrong arity reaches the
// decoder and is reported there instead of being silently truncated.
type Vector []float64

// Vec is a convenience constructor for scripts.
func Vec(x, y, z float64) Vector {
	return Vector{x, y, z}
}

// Animation is the per-frame rotation delta a script attaches to a shape.
type Animation = scene.Animation

// Common holds the parameters every shape accepts. A nil vector, zero opacity or empty
// string selects the default.
type Common struct {
	Name      string
	Position  Vector
	Rotation  Vector
	Scale     Vector
	Color     string
	Opacity   float64
	Wireframe bool
}

// Cube parameters. Size is the edge length used for all three dimensions.
type Cube struct {
	Common
	Size      float64
	Animation *Animation
}

// Sphere parameters.
type Sphere struct {
	Common
	Radius    float64
	Animation *Animation
}

// Plane parameters. Planes have no animation.
type Plane struct {
	Common
	Width  float64
	Height float64
}

// Torus parameters. Tube is the radius of the ring's cross-section.
type Torus struct {
	Common
	Radius    float64
	Tube      float64
	Animation *Animation
}

// Record is one accumulated object in transport form.
type Record struct {
	ID        string     `json:"id"`
	Type      scene.Kind `json:"type"`
	Name      string     `json:"name"`
	Position  Vector     `json:"position"`
	Rotation  Vector     `json:"rotation"`
	Scale     Vector     `json:"scale"`
	Color     string     `json:"color"`
	Opacity   float64    `json:"opacity"`
	Wireframe bool       `json:"wireframe"`
	Args      []float64  `json:"args"`
	Animation *Animation `json:"animation"`
}

// Builder accumulates records for one script run.
type Builder struct {
	records []Record
}

// New returns an empty accumulator.
func New() *Builder {
	return &Builder{}
}

// AddCube appends a cube with args [size,size,size] and returns its id.
func (b *Builder) AddCube(p Cube) string {
	size := or(p.Size, DefaultCubeSize)
	return b.add(scene.Cube, p.Common, "Cube", DefaultCubeColor, Vector{0, 0, 0},
		[]float64{size, size, size}, p.Animation)
}

// AddSphere appends a sphere with args [radius,32,32] and returns its id.
func (b *Builder) AddSphere(p Sphere) string {
	return b.add(scene.Sphere, p.Common, "Sphere", DefaultSphereColor, Vector{0, 0, 0},
		[]float64{or(p.Radius, DefaultSphereRadius), SphereSegments, SphereSegments}, p.Animation)
}

// AddPlane appends a plane with args [width,height] and returns its id. The default rotation
// tilts it to lie flat on the XZ plane.
func (b *Builder) AddPlane(p Plane) string {
	return b.add(scene.Plane, p.Common, "Plane", DefaultPlaneColor, Vector{PlaneTilt, 0, 0},
		[]float64{or(p.Width, DefaultPlaneWidth), or(p.Height, DefaultPlaneHeight)}, nil)
}

// AddTorus appends a torus with args [radius,tube,16,100] and returns its id.
func (b *Builder) AddTorus(p Torus) string {
	return b.add(scene.Torus, p.Common, "Torus", DefaultTorusColor, Vector{0, 0, 0},
		[]float64{or(p.Radius, DefaultTorusRadius), or(p.Tube, DefaultTorusTube), TorusRadialSegments, TorusTubularSegments},
		p.Animation)
}

func (b *Builder) add(kind scene.Kind, c Common, name, color string, rotation Vector, args []float64, anim *Animation) string {
	if c.Name != "" {
		name = c.Name
	}
	if c.Color != "" {
		color = c.Color
	}
	if anim != nil {
		cp := *anim
		anim = &cp
	}
	r := Record{
		ID:        name + "_" + strconv.Itoa(len(b.records)),
		Type:      kind,
		Name:      name,
		Position:  vecOr(c.Position, Vector{0, 0, 0}),
		Rotation:  vecOr(c.Rotation, rotation),
		Scale:     vecOr(c.Scale, Vector{1, 1, 1}),
		Color:     color,
		Opacity:   or(c.Opacity, 1),
		Wireframe: c.Wireframe,
		Args:      args,
		Animation: anim,
	}
	b.records = append(b.records, r)
	return r.ID
}

// Len returns the number of accumulated records.
func (b *Builder) Len() int {
	return len(b.records)
}

// Records returns a copy of the accumulated records.
func (b *Builder) Records() []Record {
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// JSON serializes the whole accumulator. Unset animations encode as null.
func (b *Builder) JSON() ([]byte, error) {
	if b.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.records)
}

func or(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func vecOr(v, def Vector) Vector {
	if v == nil {
		return def
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
