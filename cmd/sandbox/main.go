package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"scene-sandbox/internal/config"
	"scene-sandbox/internal/logger"
	"scene-sandbox/internal/script"
)

var (
	configPath string
	engineName string
)

var rootCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Live 3D scene scripting sandbox",
	Long: `Write a small script that places cubes, spheres, planes and tori, and see the scene
update as you type. Scripts are JavaScript (goja) or Go (yaegi).

Examples:
  # Open the editor window
  sandbox view

  # Edit a file in your own editor, the window follows it
  sandbox view --file scene.js

  # Build a scene headless and print it
  sandbox run scene.js --json

  # Write scene.gltf into ./out
  sandbox export scene.js --format gltf --out ./out`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path, "config file")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "script engine: "+fmt.Sprint(script.Engines()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file, .env and environment, then applies --engine.
func loadConfig() (config.Config, error) {
	cfg, err := config.Resolve(configPath, ".env")
	if err != nil {
		if cfg.Validate() != nil {
			return cfg, err
		}
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
	}
	if engineName != "" {
		cfg.Engine = engineName
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// session is what every subcommand builds: the console log and the script bridge.
type session struct {
	cfg    config.Config
	log    *logger.Logger
	bridge *script.Bridge
}

// newSession opens the engine named in cfg. print receives script output; nil sends it to
// the console log.
func newSession(cfg config.Config, log *logger.Logger, print func(string)) (*session, error) {
	s := &session{cfg: cfg, log: log}
	if print == nil {
		print = func(line string) { log.Info("script: " + line) }
	}
	in, err := script.Open(cfg.Engine, script.Options{Print: print})
	if err != nil {
		return nil, err
	}
	s.bridge = script.NewBridge(in)
	return s, nil
}

// runtimeName is used in "Initializing X Runtime..." and friends.
func (s *session) runtimeName() string {
	return script.Label(s.cfg.Engine)
}

// stderrLog echoes the console log to w in zerolog's human format.
func stderrLog(w io.Writer) *logger.Logger {
	return logger.NewWriter(zerolog.ConsoleWriter{Out: w, TimeFormat: logger.TimeFormat})
}

func readScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}
