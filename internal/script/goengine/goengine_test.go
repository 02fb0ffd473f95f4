package goengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"scene-sandbox/internal/builder"
)

func newEngine(t *testing.T, print func(string)) *Engine {
	t.Helper()
	e := New(Options{Print: print})
	require.NoError(t, e.Initialize(context.Background()))
	return e
}

func TestExecuteRequiresInitialize(t *testing.T) {
	_, err := New(Options{}).Execute(context.Background(), "", builder.New())
	assert.Error(t, err)
}

func TestDefaultSource(t *testing.T) {
	out, err := newEngine(t, nil).Execute(context.Background(), DefaultSource, builder.New())
	require.NoError(t, err)
	res := gjson.ParseBytes(out)
	assert.Equal(t, int64(4), res.Get("#").Int())
	assert.Equal(t, "Golden Ring", res.Get(`#(type=="TORUS").name`).String())
}

func TestStatementBodyAndMath(t *testing.T) {
	src := `
	for i := 0; i < 3; i++ {
		x := math.Cos(float64(i))
		scene.AddCube(scene.Cube{Common: scene.Common{Position: scene.Vec(x, 0, 0)}})
	}`
	out, err := newEngine(t, nil).Execute(context.Background(), src, builder.New())
	require.NoError(t, err)
	res := gjson.ParseBytes(out)
	assert.Equal(t, int64(3), res.Get("#").Int())
	assert.Equal(t, "Cube_2", res.Get("2.id").String())
	assert.InDelta(t, 1.0, res.Get("0.position.0").Float(), 1e-9)
}

func TestExplicitMain(t *testing.T) {
	src := `func main() { scene.AddSphere(scene.Sphere{Radius: 2}) }`
	acc := builder.New()
	out, err := newEngine(t, nil).Execute(context.Background(), src, acc)
	require.NoError(t, err)
	assert.Equal(t, 2.0, gjson.GetBytes(out, "0.args.0").Float())
	assert.Equal(t, 1, acc.Len())
}

func TestFileWithHelpers(t *testing.T) {
	src := `func ring(n int) {
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		scene.AddCube(scene.Cube{Common: scene.Common{Position: scene.Vec(math.Cos(a), 0, math.Sin(a))}})
	}
}

func main() {
	ring(4)
}
`
	acc := builder.New()
	out, err := newEngine(t, nil).Execute(context.Background(), src, acc)
	require.NoError(t, err)
	assert.Equal(t, int64(4), gjson.GetBytes(out, "#").Int())
	assert.Equal(t, 4, acc.Len())
}

func TestPrint(t *testing.T) {
	var lines []string
	e := newEngine(t, func(s string) { lines = append(lines, s) })
	_, err := e.Execute(context.Background(), `scene.Print("count", scene.Count())`, builder.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"count 0"}, lines)
}

func TestScriptRunsOnce(t *testing.T) {
	var lines []string
	e := newEngine(t, func(s string) { lines = append(lines, s) })
	acc := builder.New()
	out, err := e.Execute(context.Background(), `
	scene.AddCube(scene.Cube{})
	scene.Print("count", scene.Count())`, acc)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.GetBytes(out, "#").Int())
	assert.Equal(t, 1, acc.Len())
	assert.Equal(t, []string{"count 1"}, lines)
}

func TestCommentMentioningMain(t *testing.T) {
	src := "// no func main() here, just statements\nscene.AddPlane(scene.Plane{})"
	out, err := newEngine(t, nil).Execute(context.Background(), src, builder.New())
	require.NoError(t, err)
	assert.Equal(t, "PLANE", gjson.GetBytes(out, "0.type").String())
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		name, src string
		want      string
		entry     bool
	}{
		{"statements", "scene.Count()", "func sceneMain() { scene.Count()\n}", true},
		{"main", "func main() {}", "func sceneMain() {}", true},
		{"package clause", "package main\nfunc main() {}", "package main\nfunc sceneMain() {}", true},
		{"declarations only", "var n = 1", "var n = 1", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, entry := prepare(tt.src)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.entry, entry)
		})
	}
}

func TestCompileError(t *testing.T) {
	_, err := newEngine(t, nil).Execute(context.Background(), `scene.AddCube(`, builder.New())
	assert.Error(t, err)
	_, err = newEngine(t, nil).Execute(context.Background(), `scene.AddCone()`, builder.New())
	assert.Error(t, err)
}

func TestCancel(t *testing.T) {
	e := newEngine(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := e.Execute(ctx, `for { }`, builder.New())
	assert.Error(t, err)
}
