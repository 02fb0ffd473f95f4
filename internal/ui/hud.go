package ui

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/store"
)

const (
	hudPadding = 12
	// refresh FPS/Mem text every N frames to reduce allocations
	hudUpdateInterval = 30
	toastDuration     = 2500 * time.Millisecond
)

// HUD draws the header with the engine status, the optional FPS and memory overlay, and the
// transient notices. Notify is safe to call from any goroutine.
type HUD struct {
	ShowFPS      bool
	ShowMemAlloc bool

	header *Node
	title  *Node
	status *Node
	toast  *Node
	hud    *Node

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats

	mu        sync.Mutex
	notice    string
	noticeEnd time.Time
}

var statusColors = map[store.Status]rl.Color{
	store.Loading: rl.NewColor(0xea, 0xb3, 0x08, 255),
	store.Idle:    rl.NewColor(0x10, 0xb9, 0x81, 255),
	store.Running: rl.NewColor(0x3b, 0x82, 0xf6, 255),
	store.Failed:  rl.NewColor(0xef, 0x44, 0x44, 255),
}

func NewHUD(title string) *HUD {
	return &HUD{
		header: NewNode("panel", "header", "", ""),
		title:  NewNode("label", "title", "", title),
		status: NewNode("label", "status", "", ""),
		toast:  NewNode("label", "toast", "", ""),
		hud:    NewNode("label", "hud", "", ""),
	}
}

// Nodes returns the nodes drawn by the engine. The toast node is included only while a
// notice is showing.
func (h *HUD) Nodes(st store.Status, objects int) []*Node {
	h.status.Text = fmt.Sprintf("%s  |  %d objects", st.Label(), objects)
	h.status.Tint = statusColors[st]
	nodes := []*Node{h.header, h.title, h.status}
	h.mu.Lock()
	if h.notice != "" && time.Now().Before(h.noticeEnd) {
		h.toast.Text = h.notice
		nodes = append(nodes, h.toast)
	}
	h.mu.Unlock()
	return nodes
}

// Notify shows text as a transient notice.
func (h *HUD) Notify(text string) {
	h.mu.Lock()
	h.notice = text
	h.noticeEnd = time.Now().Add(toastDuration)
	h.mu.Unlock()
}

// Draw renders the FPS and memory overlay below the header, right-aligned to the viewport.
func (h *HUD) Draw(e *Engine, right int32) {
	h.frameCount++
	update := h.frameCount%hudUpdateInterval == 0
	if h.ShowFPS && h.lastFpsText == "" || h.ShowMemAlloc && h.lastMemText == "" {
		update = true
	}
	st := e.Style(h.hud)
	y := int32(h.header.Bounds.Height) + hudPadding
	line := func(text string) {
		w := e.MeasureText(text, st.FontSize)
		e.Text(text, right-w-hudPadding, y, st.FontSize, st.Color)
		y += st.FontSize + 4
	}
	if h.ShowFPS {
		if update {
			h.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		line(h.lastFpsText)
	}
	if h.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&h.lastMemStats)
			h.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(h.lastMemStats.Alloc)/(1024*1024))
		}
		line(h.lastMemText)
	}
}
