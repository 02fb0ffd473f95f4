package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/logger"
)

// ConsoleView draws the newest log entries, colored by level.
type ConsoleView struct {
	log    *logger.Logger
	panel  *Node
	levels map[logger.Level]*Node
}

func NewConsoleView(log *logger.Logger) *ConsoleView {
	v := &ConsoleView{
		log:    log,
		panel:  NewNode("panel", "console", "console", ""),
		levels: make(map[logger.Level]*Node),
	}
	for _, l := range []logger.Level{logger.Info, logger.Success, logger.Warn, logger.Error, logger.Fatal} {
		v.levels[l] = NewNode("label", "console-"+l.String(), "", "")
	}
	return v
}

func (v *ConsoleView) Nodes() []*Node {
	return []*Node{v.panel}
}

// Draw draws as many of the newest entries as fit, oldest at the top.
func (v *ConsoleView) Draw(e *Engine) {
	ps := e.Style(v.panel)
	size := ps.FontSize
	lineH := size + 4
	x := int32(v.panel.Bounds.X) + ps.Padding
	y := int32(v.panel.Bounds.Y) + ps.Padding
	rows := int((int32(v.panel.Bounds.Height) - 2*ps.Padding) / lineH)
	if rows < 1 {
		return
	}
	entries := v.log.Entries()
	start := max(0, len(entries)-rows)
	maxW := int32(v.panel.Bounds.Width) - 2*ps.Padding
	for i, entry := range entries[start:] {
		c := rl.LightGray
		if n, ok := v.levels[entry.Level]; ok {
			c = e.Style(n).Color
		}
		line := entry.Line()
		if e.MeasureText(line, size) > maxW {
			r := []rune(line)
			for len(r) > 4 && e.MeasureText(string(r)+"...", size) > maxW {
				r = r[:len(r)*9/10]
			}
			line = string(r) + "..."
		}
		e.Text(line, x, y+int32(i)*lineH, size, c)
	}
}
