package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/scene"
	"scene-sandbox/internal/viewport"
)

const inspectorRowHeight = 22

// Inspector is the right-side panel: the object list, and the details of the selected object.
// Click a row to select it. The selection is kept by ID across scene updates.
type Inspector struct {
	panel    *Node
	title    *Node
	row      *Node
	selected *Node
	// selection survives re-runs while an object with the same ID exists
	selectedID string
}

// NewInspector creates an Inspector with nodes styled by the .inspector* rules.
func NewInspector() *Inspector {
	return &Inspector{
		panel:    NewNode("panel", "inspector", "", ""),
		title:    NewNode("label", "inspector-title", "", "Inspector"),
		row:      NewNode("label", "inspector-row", "", ""),
		selected: NewNode("label", "inspector-selected", "", ""),
	}
}

// Nodes returns the inspector's layout nodes; only the panel is drawn by the engine.
func (in *Inspector) Nodes() []*Node {
	return []*Node{in.panel}
}

// Update handles row clicks. Call once per frame after Engine.Layout.
func (in *Inspector) Update(e *Engine, nodes []viewport.Node) {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	m := rl.GetMousePosition()
	if !rl.CheckCollisionPointRec(m, in.panel.Bounds) {
		return
	}
	pad := float32(e.Style(in.panel).Padding)
	top := in.panel.Bounds.Y + pad + inspectorRowHeight*1.5
	i := int((m.Y - top) / inspectorRowHeight)
	if m.Y >= top && i >= 0 && i < len(nodes) {
		in.selectedID = nodes[i].Object.ID
	}
}

// Draw draws the object list and the selected object's details inside the panel.
func (in *Inspector) Draw(e *Engine, nodes []viewport.Node) {
	ps := e.Style(in.panel)
	x := int32(in.panel.Bounds.X) + ps.Padding
	y := int32(in.panel.Bounds.Y) + ps.Padding
	bottom := int32(in.panel.Bounds.Y + in.panel.Bounds.Height)

	ts := e.Style(in.title)
	e.Text(fmt.Sprintf("Inspector (%d)", len(nodes)), x, y, ts.FontSize, ts.Color)
	y += inspectorRowHeight * 3 / 2

	rs, ss := e.Style(in.row), e.Style(in.selected)
	var sel *viewport.Node
	for i := range nodes {
		n := &nodes[i]
		if y+inspectorRowHeight > bottom {
			break
		}
		st := rs
		if n.Object.ID == in.selectedID {
			st = ss
			sel = n
		}
		e.Text(fmt.Sprintf("%-7s %s", n.Object.Kind, n.Object.Name), x, y, st.FontSize, st.Color)
		y += inspectorRowHeight
	}
	if sel == nil {
		return
	}
	y += inspectorRowHeight / 2
	for _, line := range Details(sel) {
		if y+inspectorRowHeight > bottom {
			return
		}
		e.Text(line, x, y, rs.FontSize, rs.Color)
		y += inspectorRowHeight
	}
}

// Details formats the inspector lines for a node. Rotation is the displayed rotation,
// including accumulated animation.
func Details(n *viewport.Node) []string {
	o := &n.Object
	lines := []string{
		"Name: " + o.Name,
		"ID: " + o.ID,
		"Type: " + o.Kind.String(),
		"Position: " + vec(o.Position),
		"Rotation: " + vec(n.Rotation),
		"Scale: " + vec(o.Scale),
		fmt.Sprintf("Color: %s  Opacity: %.2f", o.Color, o.Opacity),
		"Args: " + args(o.Args),
	}
	if o.Wireframe {
		lines = append(lines, "Wireframe: On")
	}
	if o.Animated() {
		d := o.Animation.Delta()
		lines = append(lines, "Spin/frame: "+vec(d))
	}
	return lines
}

func vec(v scene.Vec3) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v[0], v[1], v[2])
}

func args(a []float64) string {
	parts := make([]string, len(a))
	for i, f := range a {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return strings.Join(parts, ", ")
}
