package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/editor"
)

// keyRepeatDelay is how many frames a held key waits before repeating.
const keyRepeatDelay = 20

// EditorView draws an editor.Buffer with a line-number gutter and feeds it keyboard input.
type EditorView struct {
	buf    *editor.Buffer
	panel  *Node
	gutter *Node
	text   *Node
	scroll int
	held   map[int32]int
	// OnChange receives the full text after every edit.
	OnChange func(text string)
	// OnRun is called on Ctrl+Enter.
	OnRun func()
}

func NewEditorView(buf *editor.Buffer) *EditorView {
	return &EditorView{
		buf:    buf,
		panel:  NewNode("panel", "editor", "editor", ""),
		gutter: NewNode("label", "editor-gutter", "", ""),
		text:   NewNode("label", "editor-text", "", ""),
		held:   make(map[int32]int),
	}
}

// Nodes returns the nodes drawn by the engine.
func (v *EditorView) Nodes() []*Node {
	return []*Node{v.panel}
}

// pressed reports a key press, including auto-repeat while held.
func (v *EditorView) pressed(key int32) bool {
	if rl.IsKeyPressed(key) {
		v.held[key] = 0
		return true
	}
	if !rl.IsKeyDown(key) {
		delete(v.held, key)
		return false
	}
	v.held[key]++
	return v.held[key] > keyRepeatDelay && v.held[key]%2 == 0
}

// Update applies this frame's keyboard input when focused.
func (v *EditorView) Update(focused bool) {
	if !focused {
		return
	}
	before := v.buf.Version()
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)

	switch {
	case ctrl && rl.IsKeyPressed(rl.KeyV):
		if s := rl.GetClipboardText(); s != "" {
			v.buf.Insert(s)
		}
	case ctrl && rl.IsKeyPressed(rl.KeyC):
		rl.SetClipboardText(v.buf.Text())
	case ctrl && (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)):
		if v.OnRun != nil {
			v.OnRun()
		}
	default:
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			v.buf.Insert(string(rune(c)))
		}
		if !ctrl && (v.pressed(rl.KeyEnter) || v.pressed(rl.KeyKpEnter)) {
			v.buf.Newline()
		}
	}
	switch {
	case v.pressed(rl.KeyBackspace):
		v.buf.Backspace()
	case v.pressed(rl.KeyDelete):
		v.buf.Delete()
	case v.pressed(rl.KeyTab):
		v.buf.Insert("\t")
	case v.pressed(rl.KeyLeft):
		v.buf.Left()
	case v.pressed(rl.KeyRight):
		v.buf.Right()
	case v.pressed(rl.KeyUp):
		v.buf.Up()
	case v.pressed(rl.KeyDown):
		v.buf.Down()
	case rl.IsKeyPressed(rl.KeyHome):
		v.buf.Home()
	case rl.IsKeyPressed(rl.KeyEnd):
		v.buf.End()
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && rl.CheckCollisionPointRec(rl.GetMousePosition(), v.panel.Bounds) {
		v.scroll -= int(wheel * 3)
	}
	if v.buf.Version() != before && v.OnChange != nil {
		v.OnChange(v.buf.Text())
	}
}

// Draw draws the visible lines and the cursor. The view scrolls to keep the cursor visible.
func (v *EditorView) Draw(e *Engine, focused bool) {
	ps, ts, gs := e.Style(v.panel), e.Style(v.text), e.Style(v.gutter)
	lineH := ts.FontSize + 4
	x := int32(v.panel.Bounds.X) + ps.Padding
	y := int32(v.panel.Bounds.Y) + ps.Padding
	visible := int((int32(v.panel.Bounds.Height) - 2*ps.Padding) / lineH)
	if visible < 1 {
		return
	}

	row, col := v.buf.Cursor()
	if row < v.scroll {
		v.scroll = row
	}
	if row >= v.scroll+visible {
		v.scroll = row - visible + 1
	}
	v.scroll = max(0, min(v.scroll, v.buf.LineCount()-1))

	gutterW := e.MeasureText(fmt.Sprint(v.buf.LineCount()), ts.FontSize) + 12
	lines := v.buf.Lines()
	for i := v.scroll; i < len(lines) && i < v.scroll+visible; i++ {
		ly := y + int32(i-v.scroll)*lineH
		e.Text(fmt.Sprint(i+1), x, ly, ts.FontSize, gs.Color)
		e.Text(lines[i], x+gutterW, ly, ts.FontSize, ts.Color)
	}

	if focused && (rl.GetTime()*2-float64(int(rl.GetTime()*2))) < 0.5 {
		line := []rune(lines[row])
		cx := x + gutterW + e.MeasureText(string(line[:col]), ts.FontSize)
		cy := y + int32(row-v.scroll)*lineH
		rl.DrawRectangle(cx, cy, 2, ts.FontSize, ts.Color)
	}
}
