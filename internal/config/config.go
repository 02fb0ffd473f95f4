package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Path is the config file, relative to the process working directory.
const Path = "config/sandbox.yaml"

// Export formats.
const (
	FormatGLB  = "glb"
	FormatGLTF = "gltf"
)

// Config holds sandbox preferences. Persisted across runs.
type Config struct {
	// Engine selects the script language: "js" or "go".
	Engine string `yaml:"engine"`
	// Debounce is the quiet period after an edit before the script runs.
	Debounce time.Duration `yaml:"debounce"`
	// ExecTimeout bounds one script run. Zero disables the limit.
	ExecTimeout time.Duration `yaml:"exec_timeout"`
	// LogFile receives the console log as JSON lines. Empty disables it.
	LogFile string `yaml:"log_file"`

	Export   Export   `yaml:"export"`
	Viewport Viewport `yaml:"viewport"`
}

// Export configures the glTF exporter.
type Export struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
	// Yield is the delay between the export request and the serialization work.
	Yield time.Duration `yaml:"yield"`
}

// Viewport holds window and overlay preferences.
type Viewport struct {
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	ShowFPS     bool `yaml:"show_fps"`
	GridVisible bool `yaml:"grid_visible"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Engine:      "js",
		Debounce:    800 * time.Millisecond,
		ExecTimeout: 5 * time.Second,
		LogFile:     "logs/console.log",
		Export: Export{
			Dir:    ".",
			Format: FormatGLB,
			Yield:  100 * time.Millisecond,
		},
		Viewport: Viewport{
			Width:       1280,
			Height:      720,
			ShowFPS:     false,
			GridVisible: true,
		},
	}
}

// Load reads the config at path on top of Default(). A missing file yields Default() and no
// error. A file that does not parse yields Default() and the parse error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Engine {
	case "js", "go":
	default:
		return fmt.Errorf("config: unknown engine %q", c.Engine)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("config: debounce must be positive, got %s", c.Debounce)
	}
	if c.ExecTimeout < 0 {
		return fmt.Errorf("config: exec_timeout must not be negative, got %s", c.ExecTimeout)
	}
	switch c.Export.Format {
	case FormatGLB, FormatGLTF:
	default:
		return fmt.Errorf("config: unknown export format %q", c.Export.Format)
	}
	if c.Export.Yield < 0 {
		return fmt.Errorf("config: export yield must not be negative, got %s", c.Export.Yield)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("config: viewport size must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	return nil
}
