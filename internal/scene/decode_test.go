package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeRecord = `{"id":"Box_0","type":"CUBE","name":"Box","position":[0,1,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#3B82F6","opacity":1,"wireframe":false,"args":[2,2,2],"animation":{"rotateY":0.02,"rotateX":0.01}}`

func TestDecodeCube(t *testing.T) {
	objs, err := Decode([]byte("[" + cubeRecord + "]"))
	require.NoError(t, err)
	require.Len(t, objs, 1)

	o := objs[0]
	assert.Equal(t, "Box_0", o.ID)
	assert.Equal(t, Cube, o.Kind)
	assert.Equal(t, Vec3{0, 1, 0}, o.Position)
	assert.Equal(t, "#3b82f6", o.Color)
	assert.Equal(t, []float64{2, 2, 2}, o.Args)
	require.NotNil(t, o.Animation)
	assert.Equal(t, 0.02, o.Animation.RotateY)
	assert.Equal(t, 0.01, o.Animation.RotateX)
	assert.Zero(t, o.Animation.RotateZ)
	assert.True(t, o.Animated())
}

func TestDecodeDefaultsAndNullAnimation(t *testing.T) {
	data := `[{"id":"p_0","type":"plane","name":"p","position":[0,0,0],"rotation":[-1.57,0,0],"scale":[1,1,1],"color":"seagreen","args":[10,10],"animation":null}]`
	objs, err := Decode([]byte(data))
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, Plane, objs[0].Kind)
	assert.Equal(t, 1.0, objs[0].Opacity)
	assert.False(t, objs[0].Wireframe)
	assert.Nil(t, objs[0].Animation)
	assert.Equal(t, "#2e8b57", objs[0].Color)
}

func TestDecodeEmptyList(t *testing.T) {
	objs, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"not json", `[{`, ""},
		{"not a list", `{"id":"a"}`, ""},
		{"short position", `[{"id":"a","type":"CUBE","name":"a","position":[0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","args":[1,1,1]}]`, "position"},
		{"string component", `[{"id":"a","type":"CUBE","name":"a","position":[0,0,0],"rotation":[0,"x",0],"scale":[1,1,1],"color":"#fff","args":[1,1,1]}]`, "rotation"},
		{"bad color", `[{"id":"a","type":"CUBE","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#ggg","args":[1,1,1]}]`, "color"},
		{"unknown type", `[{"id":"a","type":"CONE","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","args":[1,1,1]}]`, "type"},
		{"args length", `[{"id":"a","type":"TORUS","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","args":[1,0.4]}]`, "args"},
		{"negative size", `[{"id":"a","type":"CUBE","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","args":[-1,1,1]}]`, "args"},
		{"opacity range", `[{"id":"a","type":"CUBE","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","opacity":1.5,"args":[1,1,1]}]`, "opacity"},
		{"animation type", `[{"id":"a","type":"CUBE","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","args":[1,1,1],"animation":3}]`, "animation"},
		{"animated plane", `[{"id":"a","type":"PLANE","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","args":[1,1],"animation":{"rotateX":1}}]`, "animation"},
		{"missing id", `[{"type":"CUBE","name":"a","position":[0,0,0],"rotation":[0,0,0],"scale":[1,1,1],"color":"#fff","args":[1,1,1]}]`, "id"},
		{"duplicate id", "[" + cubeRecord + "," + cubeRecord + "]", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			var de *DecodeError
			require.True(t, errors.As(err, &de), "want *DecodeError, got %T", err)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#f0a")
	require.NoError(t, err)
	assert.Equal(t, "#ff00aa", HexColor(c))

	c, err = ParseColor("Tomato")
	require.NoError(t, err)
	assert.Equal(t, "#ff6347", HexColor(c))

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("")
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, 3, Cube.ArgCount())
	assert.Equal(t, 3, Sphere.ArgCount())
	assert.Equal(t, 2, Plane.ArgCount())
	assert.Equal(t, 4, Torus.ArgCount())
}

func TestAnimationDelta(t *testing.T) {
	var none *Animation
	assert.Equal(t, Vec3{}, none.Delta())
	a := &Animation{RotateZ: -0.05}
	assert.Equal(t, Vec3{0, 0, -0.05}, a.Delta())
	a.Speed = 2
	assert.Equal(t, Vec3{0, 0, -0.1}, a.Delta())
}
