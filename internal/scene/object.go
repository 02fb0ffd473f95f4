package scene

import (
	"fmt"
	"strings"
)

// Kind is the shape of a scene object. The set is closed: adding a shape means adding a Kind
// here, its arg count, a builder operation, a mesh generator and a renderer case.
type Kind int

const (
	Cube Kind = iota
	Sphere
	Plane
	Torus
)

var kindTags = [...]string{"CUBE", "SPHERE", "PLANE", "TORUS"}

// Kinds lists every shape in declaration order.
var Kinds = []Kind{Cube, Sphere, Plane, Torus}

// String returns the transport tag (e.g. "CUBE").
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTags) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindTags[k]
}

// ParseKind maps a transport tag to a Kind. Matching is case-insensitive so "cube" also works.
func ParseKind(tag string) (Kind, error) {
	for i, t := range kindTags {
		if strings.EqualFold(t, tag) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape type %q", tag)
}

// ArgCount is the fixed length of Object.Args for the kind:
// cube [w,h,d], sphere [radius,widthSegments,heightSegments], plane [width,height],
// torus [radius,tube,radialSegments,tubularSegments].
func (k Kind) ArgCount() int {
	switch k {
	case Cube, Sphere:
		return 3
	case Plane:
		return 2
	case Torus:
		return 4
	}
	return 0
}

// MarshalText encodes the kind as its transport tag.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a transport tag.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Vec3 is an x, y, z triple (position, Euler rotation in radians, or scale).
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Animation holds per-frame rotation deltas. Each render frame adds Rotate* * Speed to the
// object's rotation. Speed 0 is read as 1.
type Animation struct {
	RotateX float64 `json:"rotateX,omitempty"`
	RotateY float64 `json:"rotateY,omitempty"`
	RotateZ float64 `json:"rotateZ,omitempty"`
	Speed   float64 `json:"speed,omitempty"`
}

// Delta returns the rotation increment applied each frame.
func (a *Animation) Delta() Vec3 {
	if a == nil {
		return Vec3{}
	}
	s := a.Speed
	if s == 0 {
		s = 1
	}
	return Vec3{a.RotateX * s, a.RotateY * s, a.RotateZ * s}
}

// Object is one renderable primitive produced by a script run. Objects are snapshots:
// nothing mutates them after Decode returns.
type Object struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"type"`
	Name      string     `json:"name"`
	Position  Vec3       `json:"position"`
	Rotation  Vec3       `json:"rotation"`
	Scale     Vec3       `json:"scale"`
	Color     string     `json:"color"`
	Opacity   float64    `json:"opacity"`
	Wireframe bool       `json:"wireframe"`
	Args      []float64  `json:"args"`
	Animation *Animation `json:"animation"`
}

// Animated reports whether the object has a non-zero per-frame delta.
func (o Object) Animated() bool {
	return o.Animation.Delta() != Vec3{}
}
