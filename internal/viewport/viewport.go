// Package viewport holds the render-side copy of the scene and advances its animations.
//
// A Viewport is owned by the render loop and is not safe for concurrent use.
package viewport

import (
	"github.com/jinzhu/copier"

	"scene-sandbox/internal/scene"
)

// Node is one object as currently displayed. Rotation starts at the object's rotation and
// accumulates animation deltas frame over frame.
type Node struct {
	Object   scene.Object
	Rotation scene.Vec3
}

type Viewport struct {
	nodes   []Node
	version uint64
	synced  bool
	frames  uint64
}

func New() *Viewport {
	return &Viewport{}
}

// Sync replaces the nodes when version differs from the last synced version and reports
// whether it did. Accumulated rotation survives until the scene itself changes.
func (v *Viewport) Sync(objects []scene.Object, version uint64) bool {
	if v.synced && version == v.version {
		return false
	}
	nodes := make([]Node, len(objects))
	for i, o := range objects {
		nodes[i] = Node{Object: o, Rotation: o.Rotation}
	}
	v.nodes = nodes
	v.version = version
	v.synced = true
	return true
}

// Step advances every animated node by one frame.
func (v *Viewport) Step() {
	v.frames++
	for i := range v.nodes {
		n := &v.nodes[i]
		if !n.Object.Animated() {
			continue
		}
		n.Rotation = n.Rotation.Add(n.Object.Animation.Delta())
	}
}

// Nodes returns the current nodes. The slice is shared with the Viewport; callers must not
// keep it across Sync.
func (v *Viewport) Nodes() []Node {
	return v.nodes
}

// Len reports the number of nodes.
func (v *Viewport) Len() int { return len(v.nodes) }

// Version reports the last synced scene version.
func (v *Viewport) Version() uint64 { return v.version }

// Frames reports how many times Step has run.
func (v *Viewport) Frames() uint64 { return v.frames }

// Snapshot returns a deep copy of the displayed scene frozen at the current rotations, with
// animation removed. It is what gets exported.
func (v *Viewport) Snapshot() []scene.Object {
	out := make([]scene.Object, len(v.nodes))
	for i, n := range v.nodes {
		var o scene.Object
		if err := copier.CopyWithOption(&o, &n.Object, copier.Option{DeepCopy: true}); err != nil {
			panic(err)
		}
		o.Rotation = n.Rotation
		o.Animation = nil
		out[i] = o
	}
	return out
}
