package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
		ok   bool
	}{
		{"cmd run", []string{"run"}, true},
		{"cmd   export  -format gltf ", []string{"export", "-format", "gltf"}, true},
		{"cmd ", nil, true},
		{"run", nil, false},
		{"CMD run", nil, false},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}
}

type fakeHost struct {
	runs    int
	exports []string
	grid    *bool
	fps     *bool
	loaded  string
	saved   string
	resets  int
	printed []string
}

func (h *fakeHost) RunNow() { h.runs++ }
func (h *fakeHost) Export(format string) { h.exports = append(h.exports, format) }
func (h *fakeHost) SetGridVisible(on bool) { h.grid = &on }
func (h *fakeHost) SetFPSVisible(on bool) { h.fps = &on }
func (h *fakeHost) Load(path string) error { h.loaded = path; return nil }
func (h *fakeHost) Save(path string) error { h.saved = path; return errors.New("read-only") }
func (h *fakeHost) Reset() { h.resets++ }
func (h *fakeHost) Print(line string) { h.printed = append(h.printed, line) }

func run(t *testing.T, r *Registry, line string) error {
	t.Helper()
	args, ok := Parse(line)
	require.True(t, ok)
	return r.Execute(args)
}

func TestBuiltins(t *testing.T) {
	h := &fakeHost{}
	r := Builtins(h)

	require.NoError(t, run(t, r, "cmd run"))
	assert.Equal(t, 1, h.runs)

	require.NoError(t, run(t, r, "cmd export -format GLTF"))
	require.NoError(t, run(t, r, "cmd export"))
	assert.Equal(t, []string{"gltf", ""}, h.exports)
	assert.Error(t, run(t, r, "cmd export -format obj"))

	require.NoError(t, run(t, r, "cmd grid off"))
	require.NotNil(t, h.grid)
	assert.False(t, *h.grid)
	require.NoError(t, run(t, r, "cmd fps on"))
	assert.True(t, *h.fps)
	assert.Error(t, run(t, r, "cmd fps maybe"))

	require.NoError(t, run(t, r, "cmd load scenes/demo.js"))
	assert.Equal(t, "scenes/demo.js", h.loaded)
	assert.EqualError(t, run(t, r, "cmd save out.js"), "read-only")
	assert.Error(t, run(t, r, "cmd load"))

	require.NoError(t, run(t, r, "cmd reset"))
	assert.Equal(t, 1, h.resets)
}

func TestExecuteErrors(t *testing.T) {
	r := Builtins(&fakeHost{})
	assert.Error(t, r.Execute(nil))
	assert.EqualError(t, r.Execute([]string{"jump"}), "unknown command: jump")
	assert.Error(t, r.Execute([]string{"export", "-bogus"}))
}

func TestHelp(t *testing.T) {
	h := &fakeHost{}
	r := Builtins(h)
	require.NoError(t, run(t, r, "cmd help"))
	assert.Equal(t, r.Help(), h.printed)
	assert.Contains(t, h.printed, "cmd export [-format glb|gltf]")
	assert.Equal(t, "cmd export [-format glb|gltf]", h.printed[0])
}
