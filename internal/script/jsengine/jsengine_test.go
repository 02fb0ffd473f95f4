package jsengine

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

func run(t *testing.T, e *Engine, src string) (gjson.Result, error) {
	t.Helper()
	out, err := e.Execute(context.Background(), src, builder.New())
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(out), nil
}

func TestExecuteRequiresInitialize(t *testing.T) {
	_, err := New(Options{}).Execute(context.Background(), "", builder.New())
	assert.Error(t, err)
}

func TestDefaultSourceBuildsFourObjects(t *testing.T) {
	res, err := run(t, newEngine(t, nil), DefaultSource)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Get("#").Int())
	assert.Equal(t, "Magic Cube", res.Get(`#(type=="CUBE").name`).String())
	assert.Equal(t, 0.02, res.Get(`#(type=="CUBE").animation.rotateY`).Float())
	assert.Equal(t, "null", res.Get(`#(type=="SPHERE").animation`).Raw)
}

func TestAddReturnsID(t *testing.T) {
	res, err := run(t, newEngine(t, nil), `
		var id = scene.addCube({ name: "box" });
		if (id !== "box_0") { throw new Error("unexpected id " + id); }
		scene.addSphere({ position: vec(1, 2, 3) });
	`)
	require.NoError(t, err)
	assert.Equal(t, "Sphere_1", res.Get("1.id").String())
	assert.Equal(t, "[1,2,3]", res.Get("1.position").Raw)
}

func TestEmptyScript(t *testing.T) {
	res, err := run(t, newEngine(t, nil), "")
	require.NoError(t, err)
	assert.Equal(t, "[]", res.Raw)
}

func TestPreludeHelpers(t *testing.T) {
	res, err := run(t, newEngine(t, nil), `scene.addCube({ rotation: [0, deg(180), 0] });`)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265, res.Get("0.rotation.1").Float(), 1e-6)
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "scene.addCube({", "SyntaxError"},
		{"reference", "undefinedThing();", "undefinedThing"},
		{"thrown", `throw new Error("nope");`, "nope"},
		{"unknown option", `scene.addCube({ sise: 2 });`, `unknown option "sise"`},
		{"not an object", `scene.addCube(3);`, "expects an options object"},
		{"bad vector", `scene.addCube({ position: "up" });`, "position must be an array"},
		{"bad number", `scene.addSphere({ radius: "big" });`, "radius must be a number"},
		{"bad animation field", `scene.addTorus({ animation: { spin: 1 } });`, `unknown field "spin"`},
		{"plane has no animation", `scene.addPlane({ animation: { rotateX: 1 } });`, `unknown option "animation"`},
	}
	e := newEngine(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, e, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTypeErrorIsCatchable(t *testing.T) {
	res, err := run(t, newEngine(t, nil), `
		try { scene.addCube({ bogus: 1 }); } catch (e) {
			if (!(e instanceof TypeError)) { throw e; }
			scene.addSphere({});
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "SPHERE", res.Get("0.type").String())
}

func TestFreshRuntimePerRun(t *testing.T) {
	e := newEngine(t, nil)
	_, err := run(t, e, `var leftover = 1; globalThis.more = 2;`)
	require.NoError(t, err)
	_, err = run(t, e, `if (typeof leftover !== "undefined" || typeof more !== "undefined") { throw new Error("leak"); }`)
	assert.NoError(t, err)
}

func TestConsoleLog(t *testing.T) {
	var lines []string
	e := newEngine(t, func(s string) { lines = append(lines, s) })
	_, err := run(t, e, `console.log("objects", scene.count()); scene.addCube({}); console.log(scene.count());`)
	require.NoError(t, err)
	assert.Equal(t, []string{"objects 0", "1"}, lines)
}

func TestInterruptOnDeadline(t *testing.T) {
	e := newEngine(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := e.Execute(ctx, `for (;;) {}`, builder.New())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, err.Error(), "deadline exceeded")
}
