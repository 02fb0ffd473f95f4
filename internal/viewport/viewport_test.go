package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-sandbox/internal/scene"
)

func spinning() []scene.Object {
	return []scene.Object{
		{ID: "cube_0", Kind: scene.Cube, Rotation: scene.Vec3{0.5, 0, 0}, Args: []float64{1, 1, 1},
			Animation: &scene.Animation{RotateY: 0.02, RotateX: 0.01}},
		{ID: "plane_1", Kind: scene.Plane, Rotation: scene.Vec3{-1.57, 0, 0}, Args: []float64{10, 10}},
		{ID: "torus_2", Kind: scene.Torus, Args: []float64{1, 0.4, 16, 100},
			Animation: &scene.Animation{RotateZ: -0.05, Speed: 2}},
	}
}

func TestStepAccumulates(t *testing.T) {
	v := New()
	require.True(t, v.Sync(spinning(), 1))
	for i := 0; i < 10; i++ {
		v.Step()
	}
	n := v.Nodes()
	assert.InDelta(t, 0.5+0.1, n[0].Rotation[0], 1e-9)
	assert.InDelta(t, 0.2, n[0].Rotation[1], 1e-9)
	assert.Equal(t, scene.Vec3{-1.57, 0, 0}, n[1].Rotation)
	assert.InDelta(t, -1.0, n[2].Rotation[2], 1e-9)
	assert.Equal(t, uint64(10), v.Frames())
}

func TestSyncSameVersionKeepsRotation(t *testing.T) {
	v := New()
	v.Sync(spinning(), 1)
	v.Step()
	assert.False(t, v.Sync(spinning(), 1))
	assert.InDelta(t, 0.02, v.Nodes()[0].Rotation[1], 1e-9)

	assert.True(t, v.Sync(spinning(), 2))
	assert.Zero(t, v.Nodes()[0].Rotation[1])
	assert.Equal(t, uint64(2), v.Version())
}

func TestFirstSyncOfEmptyScene(t *testing.T) {
	v := New()
	assert.True(t, v.Sync(nil, 0))
	assert.Zero(t, v.Len())
	v.Step()
}

func TestSnapshotFreezesRotation(t *testing.T) {
	objs := spinning()
	v := New()
	v.Sync(objs, 1)
	v.Step()

	snap := v.Snapshot()
	require.Len(t, snap, 3)
	assert.Nil(t, snap[0].Animation)
	assert.InDelta(t, 0.02, snap[0].Rotation[1], 1e-9)

	snap[0].Args[0] = 42
	assert.Equal(t, 1.0, v.Nodes()[0].Object.Args[0])
	assert.NotNil(t, objs[0].Animation)
}
