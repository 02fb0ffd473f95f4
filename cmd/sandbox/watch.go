package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scene-sandbox/internal/config"
	"scene-sandbox/internal/store"
	"scene-sandbox/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Rebuild the scene whenever the script file changes",
	Long: `Run the edit loop without a window. Every save of the file is debounced and run,
and the console log is printed to stderr. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := stderrLog(cmd.ErrOrStderr())
		s, err := newSession(cfg, log, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st := store.New(s.bridge, log, "", store.Options{
			Runtime:  s.runtimeName(),
			Debounce: cfg.Debounce,
			Timeout:  cfg.ExecTimeout,
		})
		w, err := watch.New(args[0], st.SetText, log)
		if err != nil {
			return err
		}
		if err := w.Load(); err != nil {
			return err
		}
		if err := st.Mount(ctx); err != nil {
			return err
		}
		defer st.Close()

		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", args[0])
		return w.Run(ctx)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if write, _ := cmd.Flags().GetBool("write"); write {
			if err := config.Save(configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", configPath)
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	configCmd.Flags().Bool("write", false, "save the effective configuration to --config")
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}
