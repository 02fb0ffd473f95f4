// Package render draws the viewport nodes with raylib. It owns GPU resources and must only be
// used from the goroutine that created the window.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/viewport"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// Background is the viewport clear color.
var Background = rl.NewColor(0x1e, 0x29, 0x3b, 255)

// Renderer holds the 3D camera and the primitive cache. Update runs camera logic; Draw renders
// the nodes between BeginMode3D and EndMode3D.
type Renderer struct {
	Camera      rl.Camera3D
	GridVisible bool
	prims       *primitives
	orbiting    bool
}

// New returns a renderer with a perspective camera at (5,5,5) looking at the origin, fovy 50.
// The grid is visible by default.
func New() *Renderer {
	r := &Renderer{prims: newPrimitives(), GridVisible: true}
	r.Camera.Position = rl.NewVector3(5, 5, 5)
	r.Camera.Target = rl.NewVector3(0, 0, 0)
	r.Camera.Up = rl.NewVector3(0, 1, 0)
	r.Camera.Fovy = 50
	r.Camera.Projection = rl.CameraPerspective
	return r
}

// SetGridVisible shows or hides the editor grid.
func (r *Renderer) SetGridVisible(visible bool) {
	r.GridVisible = visible
}

// Update moves the camera while the right mouse button is held, so the editor keeps the
// keyboard otherwise. The wheel zooms toward the target.
func (r *Renderer) Update() {
	held := rl.IsMouseButtonDown(rl.MouseButtonRight)
	switch {
	case held && !r.orbiting:
		rl.DisableCursor()
	case !held && r.orbiting:
		rl.EnableCursor()
	}
	r.orbiting = held
	if held {
		rl.UpdateCamera(&r.Camera, rl.CameraFree)
		return
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		rl.CameraMoveToTarget(&r.Camera, -wheel)
	}
}

// Orbiting reports whether the right mouse button is currently driving the camera.
func (r *Renderer) Orbiting() bool {
	return r.orbiting
}

// Draw renders the grid and nodes. Opaque nodes are drawn first so translucent ones blend over
// them.
func (r *Renderer) Draw(nodes []viewport.Node) {
	rl.BeginMode3D(r.Camera)
	if r.GridVisible {
		drawEditorGrid()
	}
	pos := r.Camera.Position
	r.prims.setView([3]float32{pos.X, pos.Y, pos.Z})
	for i := range nodes {
		if nodes[i].Object.Opacity >= 1 {
			r.prims.draw(&nodes[i])
		}
	}
	for i := range nodes {
		if nodes[i].Object.Opacity < 1 {
			r.prims.draw(&nodes[i])
		}
	}
	rl.EndMode3D()
}

// Release frees meshes that are no longer referenced by nodes. Call after a scene change.
func (r *Renderer) Release(nodes []viewport.Node) {
	r.prims.retain(nodes)
}

// Close frees every GPU resource.
func (r *Renderer) Close() {
	r.prims.retain(nil)
	r.prims.unloadShader()
}

func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(z)
		rl.DrawLine3D(start, end, c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, -gridExtent, 0), rl.NewVector3(0, gridExtent, 0), axisY)
	rl.DrawLine3D(rl.NewVector3(0, 0, -gridExtent), rl.NewVector3(0, 0, gridExtent), axisZ)
}
