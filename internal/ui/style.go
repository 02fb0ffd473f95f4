package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/scene"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // ".panel", "#editor" or a node type such as "label"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// Length is a pixel or percentage value. Pct is -1 for pixels.
type Length struct {
	Px  int32
	Pct int32
	Set bool
}

// Of resolves l against total (the screen dimension for percentages).
func (l Length) Of(total int32) int32 {
	if l.Pct >= 0 {
		return total * l.Pct / 100
	}
	return l.Px
}

// ComputedStyle holds resolved values used for drawing. Position comes from left/top, or from
// right/bottom when only those are set; width and height may be percentages of the screen.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Width      Length
	Height     Length
	Left       Length
	Top        Length
	Right      Length
	Bottom     Length
	Padding    int32 // text offset from node bounds
	FontSize   int32
}

func unset() Length { return Length{Pct: -1} }

// DefaultComputedStyle returns a minimal style (transparent background, white text, no border, zero size).
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		Width:      unset(),
		Height:     unset(),
		Left:       unset(),
		Top:        unset(),
		Right:      unset(),
		Bottom:     unset(),
		Padding:    4,
		FontSize:   defaultFontSize,
	}
}

// ParseColor parses #RGB, #RRGGBB, #RRGGBBAA or a CSS color name. Returns rl.Black and false
// on parse error.
func ParseColor(s string) (rl.Color, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 9 && s[0] == '#' {
		c, err := scene.ParseColor(s[:7])
		a, aerr := strconv.ParseUint(s[7:], 16, 8)
		if err != nil || aerr != nil {
			return rl.Black, false
		}
		return rl.NewColor(c.R, c.G, c.B, uint8(a)), true
	}
	c, err := scene.ParseColor(s)
	if err != nil {
		return rl.Black, false
	}
	return rl.NewColor(c.R, c.G, c.B, 255), true
}

// ParseLength parses "N", "Npx" or "N%".
func ParseLength(s string) (Length, bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		n, err := strconv.Atoi(strings.TrimSpace(s[:len(s)-1]))
		if err != nil || n < 0 || n > 100 {
			return unset(), false
		}
		return Length{Pct: int32(n), Set: true}, true
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return unset(), false
	}
	return Length{Px: int32(n), Pct: -1, Set: true}, true
}

// ResolveProps builds a ComputedStyle from a merged property map (e.g. from matching rules).
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	lengths := map[string]*Length{
		"width": &out.Width, "height": &out.Height,
		"left": &out.Left, "top": &out.Top,
		"right": &out.Right, "bottom": &out.Bottom,
	}
	for k, v := range props {
		switch k {
		case "background":
			if c, ok := ParseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := ParseColor(v); ok {
				out.Color = c
			}
		case "border":
			if c, ok := ParseColor(v); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "padding":
			if l, ok := ParseLength(v); ok && l.Pct < 0 && l.Px >= 0 {
				out.Padding = l.Px
			}
		case "font-size":
			if l, ok := ParseLength(v); ok && l.Pct < 0 && l.Px > 0 {
				out.FontSize = l.Px
			}
		default:
			if dst, ok := lengths[k]; ok {
				if l, ok := ParseLength(v); ok {
					*dst = l
				}
			}
		}
	}
	return out
}

// Layout returns the node rectangle for a screen of w x h.
func (s ComputedStyle) Layout(w, h int32) rl.Rectangle {
	width, height := s.Width.Of(w), s.Height.Of(h)
	x := s.Left.Of(w)
	if !s.Left.Set && s.Right.Set {
		if !s.Width.Set {
			width = w - s.Right.Of(w)
		} else {
			x = w - s.Right.Of(w) - width
		}
	} else if s.Left.Set && s.Right.Set && !s.Width.Set {
		width = w - s.Right.Of(w) - x
	}
	y := s.Top.Of(h)
	if !s.Top.Set && s.Bottom.Set {
		y = h - s.Bottom.Of(h) - height
	} else if s.Top.Set && s.Bottom.Set && !s.Height.Set {
		height = h - s.Bottom.Of(h) - y
	}
	return rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}
}
