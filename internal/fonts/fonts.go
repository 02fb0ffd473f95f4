// Package fonts resolves the --font flag: either a path to a font file, or a family name
// looked up in the usual font directories.
package fonts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Exts are the file extensions raylib can load as fonts.
var Exts = []string{".ttf", ".otf"}

// Dirs returns the directories searched by Find, project assets first.
func Dirs() []string {
	dirs := []string{"assets/fonts", "/usr/share/fonts", "/usr/local/share/fonts", "/Library/Fonts", "/System/Library/Fonts"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local/share/fonts"), filepath.Join(home, ".fonts"), filepath.Join(home, "Library/Fonts"))
	}
	if win := os.Getenv("WINDIR"); win != "" {
		dirs = append(dirs, filepath.Join(win, "Fonts"))
	}
	return dirs
}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf").
// Paths use forward slashes. A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and removes spaces, dashes and underscores for fuzzy matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Resolve returns nameOrPath itself when it names an existing font file, otherwise the result
// of Find(nameOrPath, Dirs()).
func Resolve(nameOrPath string) (string, error) {
	if isFont(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath, nil
		}
	}
	return Find(nameOrPath, Dirs())
}

// Find searches dirs for a font file whose relative path contains name, ignoring case, spaces,
// dashes and underscores ("jetbrains mono" matches "JetBrainsMono-Regular.ttf").
// When several match, a "Regular" face wins, then the first found.
func Find(name string, dirs []string) (string, error) {
	norm := normalize(strings.TrimSuffix(strings.TrimSuffix(name, ".ttf"), ".otf"))
	if norm == "" {
		return "", fmt.Errorf("font: empty name")
	}
	var matches []string
	for _, dir := range dirs {
		list, err := ScanDir(dir)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), norm) {
				matches = append(matches, filepath.Join(dir, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("font %q: %w", name, os.ErrNotExist)
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
