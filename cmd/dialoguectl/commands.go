package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/dialoguegraph/internal/config"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/dialogue"
	"github.com/gyaneshwarpardhi/dialoguegraph/internal/engine"
)

var errInvalidTree = errors.New("dialogue tree is invalid")

type options struct {
	configPath string
	compact    bool
	verbose    bool
	maxDepth   int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "dialoguectl",
		Short:         "Analyze dialogue trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "engine YAML config (built-in defaults when unset)")
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "print single-line JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "process FILE",
			Short: "Run every analysis pass and print the full report",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, opts, args[0], func(ctx context.Context, c *engine.Client, t *dialogue.Tree) (any, error) {
					return orNil(c.ProcessDialogue(ctx, t))
				})
			},
		},
		&cobra.Command{
			Use:   "validate FILE",
			Short: "Check references, reachability and cycles; exits 1 when invalid",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, opts, args[0], func(ctx context.Context, c *engine.Client, t *dialogue.Tree) (any, error) {
					res, err := c.ValidateTree(ctx, t)
					if err != nil {
						return nil, err
					}
					if !res.IsValid {
						return res, errInvalidTree
					}
					return res, nil
				})
			},
		},
		&cobra.Command{
			Use:   "paths FILE",
			Short: "Enumerate root-to-leaf paths",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, opts, args[0], func(ctx context.Context, c *engine.Client, t *dialogue.Tree) (any, error) {
					return orNil(c.CalculatePaths(ctx, t))
				})
			},
		},
		previewCmd(opts),
	)
	return root
}

func previewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print a depth-limited preview of the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var depth *int
			if cmd.Flags().Changed("max-depth") {
				if opts.maxDepth < 0 {
					return fmt.Errorf("--max-depth must be >= 0, got %d", opts.maxDepth)
				}
				depth = &opts.maxDepth
			}
			return withClient(cmd, opts, args[0], func(ctx context.Context, c *engine.Client, t *dialogue.Tree) (any, error) {
				return orNil(c.GeneratePreview(ctx, t, depth))
			})
		},
	}
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "preview depth (config preview_depth when unset)")
	return cmd
}

// withClient loads the config and tree, runs fn against a private engine and
// prints its result. A result returned alongside an error is still printed.
func withClient(cmd *cobra.Command, opts *options, path string, fn func(context.Context, *engine.Client, *dialogue.Tree) (any, error)) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return report(cmd, err)
	}
	tree, err := dialogue.LoadFile(path)
	if err != nil {
		return report(cmd, err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	eng := engine.New(ctx, cfg.Engine, cfg.Analysis.Limits())
	defer func() {
		cancel()
		eng.Shutdown()
	}()
	client := engine.NewClient(eng, time.Duration(cfg.Engine.RequestTimeoutMs)*time.Millisecond)

	slog.Debug("analyzing", "file", path, "nodes", len(tree.Nodes), "cmd", cmd.Name())
	res, runErr := fn(ctx, client, tree)
	if res != nil {
		if err := writeResult(cmd.OutOrStdout(), res, opts.compact); err != nil {
			return report(cmd, err)
		}
	}
	if runErr != nil {
		return report(cmd, runErr)
	}
	return nil
}

// orNil drops a typed nil result so a failed call prints nothing.
func orNil[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	loader, err := config.NewLoader(path)
	if err != nil {
		return nil, err
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeResult(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func report(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "dialoguectl %s: %v\n", cmd.Name(), err)
	return err
}

