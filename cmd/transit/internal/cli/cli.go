// Package cli implements the transit command-line interface.
//
// Commands:
//   - simulate: print the sampled trajectory of each spring in a preset
//   - preview: run a preset live in the terminal
//   - presets: list the available presets
//
// Presets come from --file (YAML or TOML) or the built-in set. All commands
// support --verbose (-v), which also routes the engine's debug traces to the
// CLI logger.
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/go-drift/transit/pkg/errors"
	"github.com/go-drift/transit/pkg/preset"
)

// Execute builds the command tree and runs it with args.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "transit",
		Short:        "Inspect and preview spring transition presets",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			if verbose {
				errors.SetLogger(logger.WithPrefix("engine"))
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringP("file", "f", "", "preset file (.yaml, .yml or .toml)")

	root.AddCommand(newSimulateCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newPresetsCmd())
	return root
}

// loadPresets reads --file, or the built-in presets when it is unset.
func loadPresets(cmd *cobra.Command) (*preset.Set, error) {
	path, _ := cmd.Flags().GetString("file")
	logger := loggerFromContext(cmd.Context())
	if path == "" {
		logger.Debug("using built-in presets")
		return preset.Default(), nil
	}
	s, err := preset.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded presets", "file", path, "count", len(s.Presets))
	return s, nil
}

// pickPreset resolves the optional preset argument. No argument means
// "default".
func pickPreset(cmd *cobra.Command, args []string) (string, preset.Preset, error) {
	s, err := loadPresets(cmd)
	if err != nil {
		return "", preset.Preset{}, err
	}
	name := "default"
	if len(args) > 0 {
		name = args[0]
	}
	p, ok := s.Get(name)
	if !ok {
		return "", preset.Preset{}, errors.Configf("cli", errors.ErrInvalidParams, "unknown preset %q (have %v)", name, s.Names())
	}
	return name, p, nil
}

func presetRange(p preset.Preset) (from, to float64) {
	if p.Range != nil {
		return p.Range.From, p.Range.To
	}
	return 0, 1
}
