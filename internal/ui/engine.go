package ui

import (
	_ "embed"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const defaultFontSize = 18

//go:embed sandbox.css
var defaultCSS string

// DefaultStylesheet returns the built-in sandbox theme.
func DefaultStylesheet() *Stylesheet {
	sheet, err := ParseCSS(defaultCSS)
	if err != nil {
		panic("ui: built-in stylesheet: " + err.Error())
	}
	return sheet
}

// Engine holds the current stylesheet and nodes, and draws them with raylib.
// Draw order is node order (first node drawn first, then on top the next).
// Resolved styles are cached and only recomputed when sheet or nodes change.
// If a font is loaded (LoadFont), text is drawn with it; otherwise raylib's default font is used.
type Engine struct {
	sheet        *Stylesheet
	nodes        []*Node
	cachedStyles map[*Node]ComputedStyle
	font         rl.Font
}

// New creates a UI engine with the built-in stylesheet and no nodes.
func New() *Engine {
	return &Engine{sheet: DefaultStylesheet(), cachedStyles: make(map[*Node]ComputedStyle)}
}

// LoadCSS loads a CSS file from path and appends its rules to the built-in theme, so a user
// stylesheet only needs the properties it changes.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	merged := DefaultStylesheet()
	merged.Rules = append(merged.Rules, sheet.Rules...)
	e.SetStylesheet(merged)
	return nil
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	clear(e.cachedStyles)
}

// LoadFont loads a TTF font from path for text rendering. If loading fails, the engine keeps
// using the default font. Call after the window/OpenGL context exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
}

// Style returns the resolved style of n (class, id and type rules matched; last wins).
func (e *Engine) Style(n *Node) ComputedStyle {
	if s, ok := e.cachedStyles[n]; ok {
		return s
	}
	merged := make(map[string]string)
	if e.sheet != nil {
		for _, rule := range e.sheet.Rules {
			if n.matches(rule.Selector) {
				for k, v := range rule.Props {
					merged[k] = v
				}
			}
		}
	}
	s := ResolveProps(merged)
	e.cachedStyles[n] = s
	return s
}

// Layout sets every node's Bounds for the current screen size. Call once per frame before
// views read bounds.
func (e *Engine) Layout() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	for _, n := range e.nodes {
		n.Bounds = e.Style(n).Layout(w, h)
	}
}

// Draw draws all nodes: background, border, then text.
func (e *Engine) Draw() {
	for _, n := range e.nodes {
		style := e.Style(n)
		x, y := int32(n.Bounds.X), int32(n.Bounds.Y)
		w, h := int32(n.Bounds.Width), int32(n.Bounds.Height)
		if style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, style.Background)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text != "" {
			c := style.Color
			if n.Tint.A > 0 {
				c = n.Tint
			}
			e.Text(n.Text, x+style.Padding, y+style.Padding, style.FontSize, c)
		}
	}
}

// Text draws s with the engine font.
func (e *Engine) Text(s string, x, y, size int32, c rl.Color) {
	if e.font.Texture.ID != 0 {
		rl.DrawTextEx(e.font, s, rl.NewVector2(float32(x), float32(y)), float32(size), 1, c)
		return
	}
	rl.DrawText(s, x, y, size, c)
}

// MeasureText returns the width of s in pixels with the engine font.
func (e *Engine) MeasureText(s string, size int32) int32 {
	if e.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(e.font, s, float32(size), 1).X)
	}
	return rl.MeasureText(s, size)
}

// Font returns the loaded font; its texture ID is zero when the default font is used.
func (e *Engine) Font() rl.Font {
	return e.font
}
