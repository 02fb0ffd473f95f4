package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel, label, etc. It has optional class and id for CSS matching.
// Bounds are computed by Engine.Layout from the node's style and the screen size.
type Node struct {
	Type   string // "panel", "label", etc.
	Class  string // e.g. "inspector" for .inspector
	ID     string // e.g. "editor" for #editor
	Bounds rl.Rectangle
	Text   string
	// Tint overrides the style's text color when its alpha is non-zero.
	Tint rl.Color
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

func (n *Node) matches(selector string) bool {
	switch selector[0] {
	case '.':
		return n.Class == selector[1:]
	case '#':
		return n.ID == selector[1:]
	}
	return n.Type == selector
}
