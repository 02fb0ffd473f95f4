package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"scene-sandbox/internal/config"
	"scene-sandbox/internal/export"
	"scene-sandbox/internal/scene"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a scene script once and print the scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		objects, err := buildScene(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(objects)
		}
		writeSummary(out, objects)
		return nil
	},
}

// writeSummary prints one line per object: id, type tag, name, position and color.
func writeSummary(w io.Writer, objects []scene.Object) {
	fmt.Fprintf(w, "%d objects\n", len(objects))
	for _, o := range objects {
		fmt.Fprintf(w, "  %-10s %-7s %-16q pos=%v color=%s\n", o.ID, o.Kind, o.Name, o.Position, o.Color)
	}
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Run a scene script and write it as glTF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if f, _ := cmd.Flags().GetString("format"); f != "" {
			cfg.Export.Format = f
		}
		if dir, _ := cmd.Flags().GetString("out"); dir != "" {
			cfg.Export.Dir = dir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		objects, err := buildScene(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}
		log := stderrLog(cmd.ErrOrStderr())
		ex := export.New(export.Options{
			Dir:    cfg.Export.Dir,
			Format: cfg.Export.Format,
			Log:    log,
		})
		path, err := ex.Export(cmd.Context(), objects)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// buildScene runs the script at path once, bounded by the configured timeout and Ctrl+C.
func buildScene(ctx context.Context, cfg config.Config, path string) ([]scene.Object, error) {
	src, err := readScript(path)
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg, stderrLog(os.Stderr), func(line string) { fmt.Fprintln(os.Stderr, line) })
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if cfg.ExecTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ExecTimeout+initGrace)
		defer cancel()
	}
	return s.bridge.ExecuteScene(ctx, src)
}

// initGrace is added to the run timeout for the one-off interpreter start in headless runs.
const initGrace = 2 * time.Second

func init() {
	runCmd.Flags().Bool("json", false, "print the scene as JSON")
	exportCmd.Flags().String("format", "", "glb or gltf (default from config)")
	exportCmd.Flags().String("out", "", "output directory (default from config)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
}
