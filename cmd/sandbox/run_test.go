package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"scene-sandbox/internal/config"
	"scene-sandbox/internal/scene"
	"scene-sandbox/internal/script"
)

func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, []scene.Object{
		{ID: "Ring_0", Kind: scene.Torus, Name: "Ring", Color: "#f59e0b"},
	})
	out := buf.String()
	assert.Contains(t, out, "1 objects\n")
	assert.Contains(t, out, "Ring_0")
	assert.Contains(t, out, "TORUS")
	assert.Contains(t, out, `"Ring"`)
}

func TestBuildSceneDefaultScripts(t *testing.T) {
	for _, engine := range script.Engines() {
		t.Run(engine, func(t *testing.T) {
			cfg := config.Default()
			cfg.Engine = engine
			path := writeScript(t, "scene."+engine, script.DefaultSource(engine))

			objects, err := buildScene(context.Background(), cfg, path)
			require.NoError(t, err)
			assert.Len(t, objects, 4)
		})
	}
}

func TestBuildSceneMissingFile(t *testing.T) {
	_, err := buildScene(context.Background(), config.Default(), filepath.Join(t.TempDir(), "nope.js"))
	assert.ErrorContains(t, err, "read script")
}

func TestRunCommandJSON(t *testing.T) {
	path := writeScript(t, "scene.js", `scene.addTorus({ name: "Ring" });`)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", path, "--json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	res := gjson.Parse(out.String())
	assert.Equal(t, int64(1), res.Get("#").Int())
	assert.Equal(t, "TORUS", res.Get("0.type").String())
	assert.Equal(t, "Ring_0", res.Get("0.id").String())
}
