// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"embedprep/pkg/embedprep"
)

// RootOpts holds the CLI options.
type RootOpts struct {
	Model      string
	All        bool
	OutputDir  string
	CacheDir   string
	ListModels bool
	Quiet      bool
	Verbose    bool
	Config     string
}

// Execute runs the CLI with the given version string.
func Execute(version string) error {
	ro := &RootOpts{}
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := &cobra.Command{
		Use:           "embedprep",
		Short:         "Download clinical word embeddings and convert them to Parquet",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applySettingsDefaults(cmd, ro)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, ro)
		},
	}

	root.Flags().StringVarP(&ro.Model, "model", "m", "", "Process a single registered model key (default: the case-reports batch)")
	root.Flags().BoolVarP(&ro.All, "all", "a", false, "Process the default batch of case-reports models (this is the default)")
	root.Flags().StringVarP(&ro.OutputDir, "output-dir", "o", "", "Directory for output Parquet files (default: current directory)")
	root.Flags().StringVarP(&ro.CacheDir, "cache-dir", "c", "", "Cache directory for downloaded archives (default: per-user cache location)")
	root.Flags().BoolVar(&ro.ListModels, "list-models", false, "List available models and exit")
	root.Flags().BoolVarP(&ro.Quiet, "quiet", "q", false, "Quiet mode, no progress output")
	root.Flags().BoolVarP(&ro.Verbose, "verbose", "v", false, "Verbose logs (per-stage details)")
	root.Flags().StringVar(&ro.Config, "config", "", "Path to config file (JSON or YAML)")

	root.AddCommand(newVersionCmd(version))
	root.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func run(ctx context.Context, ro *RootOpts) error {
	if ro.ListModels {
		printModels(os.Stdout)
		return nil
	}

	var keys []string
	if ro.Model != "" {
		keys = []string{ro.Model}
	} else {
		keys = embedprep.DefaultKeys()
		if !ro.Quiet {
			fmt.Printf("Processing all %d case-reports models. Use --model to pick one.\n", len(keys))
		}
	}

	// Registry lookup happens before any network or file work.
	models, err := embedprep.Resolve(keys)
	if err != nil {
		return err
	}

	cfg := embedprep.Settings{
		OutputDir: ro.OutputDir,
		CacheDir:  ro.CacheDir,
		Logger:    buildLogger(ro.Verbose),
	}

	var progress embedprep.ProgressFunc
	switch {
	case ro.Quiet:
		progress = nil
	case term.IsTerminal(int(os.Stdout.Fd())):
		r := newBarRenderer(os.Stdout)
		defer r.Close()
		progress = r.Handler()
	default:
		progress = lineProgress(os.Stdout)
	}

	if err := embedprep.Run(ctx, models, cfg, progress); err != nil {
		return err
	}
	if !ro.Quiet {
		fmt.Printf("created %d file(s)\n", len(models))
	}
	return nil
}

// buildLogger returns a console logger in verbose mode, otherwise a nop.
func buildLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func printModels(w io.Writer) {
	fmt.Fprintln(w, "Available models:")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, m := range embedprep.Models() {
		marker := ""
		if m.Default {
			marker = " [DEFAULT]"
		}
		fmt.Fprintf(w, "  %-25s - W2V %dD, %s%s\n", m.Key, m.Dim, m.Corpus, marker)
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// applySettingsDefaults fills flags the user did not set from an optional
// config file under ~/.config, JSON or YAML.
func applySettingsDefaults(cmd *cobra.Command, ro *RootOpts) error {
	path := ro.Config
	if path == "" {
		home, _ := os.UserHomeDir()
		jsonPath := filepath.Join(home, ".config", "embedprep.json")
		yamlPath := filepath.Join(home, ".config", "embedprep.yaml")
		ymlPath := filepath.Join(home, ".config", "embedprep.yml")

		if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
		} else if _, err := os.Stat(yamlPath); err == nil {
			path = yamlPath
		} else if _, err := os.Stat(ymlPath); err == nil {
			path = ymlPath
		}
	}
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cfg map[string]any
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return fmt.Errorf("invalid YAML config file: %w", err)
		}
	default: // .json or unknown
		if err := json.Unmarshal(b, &cfg); err != nil {
			return fmt.Errorf("invalid JSON config file: %w", err)
		}
	}

	setStr := func(flagName string, set func(string)) {
		if cmd.Flags().Changed(flagName) {
			return
		}
		if v, ok := cfg[flagName]; ok && v != nil {
			set(fmt.Sprint(v))
		}
	}

	setStr("output-dir", func(v string) { ro.OutputDir = v })
	setStr("cache-dir", func(v string) { ro.CacheDir = v })

	return nil
}
