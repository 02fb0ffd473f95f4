// Package mesh generates indexed triangle geometry for the scene primitives.
//
// Shapes are built in local space, centered on the origin, with counter-clockwise front faces:
// cubes are axis-aligned boxes, spheres are UV spheres with Y as the pole axis, planes lie in the
// XY plane facing +Z and tori lie in the XY plane around the Z axis. Placement comes from the
// object's transform, see Rotation.
package mesh

import (
	"fmt"

	"github.com/chewxy/math32"

	"scene-sandbox/internal/scene"
)

type Vec = [3]float32

// Mesh is an indexed triangle list with per-vertex normals.
type Mesh struct {
	Positions []Vec
	Normals   []Vec
	Indices   []uint32
}

// Triangles reports the number of triangles.
func (m Mesh) Triangles() int { return len(m.Indices) / 3 }

// Bounds returns the component-wise minimum and maximum of the positions.
func (m Mesh) Bounds() (lo, hi Vec) {
	if len(m.Positions) == 0 {
		return lo, hi
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math32.Min(lo[i], p[i])
			hi[i] = math32.Max(hi[i], p[i])
		}
	}
	return lo, hi
}

func (m *Mesh) vertex(p, n Vec) uint32 {
	m.Positions = append(m.Positions, p)
	m.Normals = append(m.Normals, n)
	return uint32(len(m.Positions) - 1)
}

func (m *Mesh) tri(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// For builds the mesh of o from its kind and args.
func For(o scene.Object) (Mesh, error) {
	if len(o.Args) != o.Kind.ArgCount() {
		return Mesh{}, fmt.Errorf("mesh: %s %q: want %d args, got %d", o.Kind, o.ID, o.Kind.ArgCount(), len(o.Args))
	}
	a := make([]float32, len(o.Args))
	for i, v := range o.Args {
		a[i] = float32(v)
	}
	switch o.Kind {
	case scene.Cube:
		return Box(a[0], a[1], a[2]), nil
	case scene.Sphere:
		return Sphere(a[0], segments(a[1], 3), segments(a[2], 2)), nil
	case scene.Plane:
		return Plane(a[0], a[1]), nil
	case scene.Torus:
		return Torus(a[0], a[1], segments(a[2], 3), segments(a[3], 3)), nil
	}
	return Mesh{}, fmt.Errorf("mesh: unknown kind %d", o.Kind)
}

func segments(v float32, min int) int {
	n := int(math32.Floor(v))
	if n < min {
		return min
	}
	return n
}

// box faces: normal, then the u and v axes of the face with u x v = normal.
var boxFaces = [6][3]Vec{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Box returns a width x height x depth box with flat-shaded faces.
func Box(width, height, depth float32) Mesh {
	half := Vec{width / 2, height / 2, depth / 2}
	var m Mesh
	for _, f := range boxFaces {
		n, u, v := f[0], f[1], f[2]
		var idx [4]uint32
		for i, s := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p Vec
			for k := 0; k < 3; k++ {
				p[k] = (n[k] + s[0]*u[k] + s[1]*v[k]) * half[k]
			}
			idx[i] = m.vertex(p, n)
		}
		m.tri(idx[0], idx[1], idx[2])
		m.tri(idx[0], idx[2], idx[3])
	}
	return m
}

// Sphere returns a UV sphere with the given number of longitudinal (width) and latitudinal
// (height) segments. The seam and pole vertices are duplicated.
func Sphere(radius float32, widthSegments, heightSegments int) Mesh {
	var m Mesh
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi, theta := u*2*math32.Pi, v*math32.Pi
			n := Vec{
				-math32.Cos(phi) * math32.Sin(theta),
				math32.Cos(theta),
				math32.Sin(phi) * math32.Sin(theta),
			}
			row[ix] = m.vertex(Vec{n[0] * radius, n[1] * radius, n[2] * radius}, n)
		}
		grid[iy] = row
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a, b := grid[iy][ix+1], grid[iy][ix]
			c, d := grid[iy+1][ix], grid[iy+1][ix+1]
			if iy != 0 {
				m.tri(a, b, d)
			}
			if iy != heightSegments-1 {
				m.tri(b, c, d)
			}
		}
	}
	return m
}

// Plane returns a width x height rectangle in the XY plane facing +Z.
func Plane(width, height float32) Mesh {
	w, h := width/2, height/2
	n := Vec{0, 0, 1}
	var m Mesh
	a := m.vertex(Vec{-w, h, 0}, n)
	d := m.vertex(Vec{w, h, 0}, n)
	b := m.vertex(Vec{-w, -h, 0}, n)
	c := m.vertex(Vec{w, -h, 0}, n)
	m.tri(a, b, d)
	m.tri(b, c, d)
	return m
}

// Torus returns a ring of the given radius (center of the tube) and tube radius around the
// Z axis. radialSegments divide the tube cross-section, tubularSegments the ring.
func Torus(radius, tube float32, radialSegments, tubularSegments int) Mesh {
	var m Mesh
	for j := 0; j <= radialSegments; j++ {
		v := float32(j) / float32(radialSegments) * 2 * math32.Pi
		for i := 0; i <= tubularSegments; i++ {
			u := float32(i) / float32(tubularSegments) * 2 * math32.Pi
			cu, su := math32.Cos(u), math32.Sin(u)
			cv, sv := math32.Cos(v), math32.Sin(v)
			p := Vec{(radius + tube*cv) * cu, (radius + tube*cv) * su, tube * sv}
			m.vertex(p, Vec{cv * cu, cv * su, sv})
		}
	}
	row := uint32(tubularSegments + 1)
	for j := uint32(1); j <= uint32(radialSegments); j++ {
		for i := uint32(1); i <= uint32(tubularSegments); i++ {
			a := row*j + i - 1
			b := row*(j-1) + i - 1
			c := row*(j-1) + i
			d := row*j + i
			m.tri(a, b, d)
			m.tri(b, c, d)
		}
	}
	return m
}

// Rotation converts Euler angles in radians, applied in X, Y, Z order, to a unit quaternion
// [x, y, z, w].
func Rotation(e scene.Vec3) [4]float64 {
	hx, hy, hz := float32(e[0])/2, float32(e[1])/2, float32(e[2])/2
	c1, c2, c3 := math32.Cos(hx), math32.Cos(hy), math32.Cos(hz)
	s1, s2, s3 := math32.Sin(hx), math32.Sin(hy), math32.Sin(hz)
	return [4]float64{
		float64(s1*c2*c3 + c1*s2*s3),
		float64(c1*s2*c3 - s1*c2*s3),
		float64(c1*c2*s3 + s1*s2*c3),
		float64(c1*c2*c3 - s1*s2*s3),
	}
}
