package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Inter/Inter-Regular.ttf", "Inter/OFL.txt", "Mono.OTF")

	list, err := ScanDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Inter/Inter-Regular.ttf", "Mono.OTF"}, list)

	list, err = ScanDir(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindPrefersRegular(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "JetBrains_Mono/JetBrainsMono-Bold.ttf", "JetBrains_Mono/JetBrainsMono-Regular.ttf")

	got, err := Find("jetbrains mono", []string{dir})
	require.NoError(t, err)
	assert.Equal(t, "JetBrainsMono-Regular.ttf", filepath.Base(got))

	got, err = Find("JetBrainsMono-Bold.ttf", []string{dir})
	require.NoError(t, err)
	assert.Equal(t, "JetBrainsMono-Bold.ttf", filepath.Base(got))
}

func TestFindMisses(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Inter-Regular.ttf")

	_, err := Find("Roboto", []string{dir})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Find("  ", []string{dir})
	assert.Error(t, err)
}

func TestResolveExistingPath(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.ttf")
	p := filepath.Join(dir, "a.ttf")

	got, err := Resolve(p)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
