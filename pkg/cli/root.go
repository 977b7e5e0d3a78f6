package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agenthands/ncalc/pkg/config"
)

type ctxKey struct{}

// session is the per-invocation state built by the root command.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd assembles the ncalc command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "ncalc",
		Short: "Parse and evaluate arithmetic expressions",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().String("config", "", "Path to a YAML or TOML config file")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(NewEvalCmd())
	root.AddCommand(NewTokensCmd())
	root.AddCommand(NewASTCmd())
	return root
}

func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return exitError(exitConfig, "%s", err)
	}
	level, _ := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), level)
	if cfg.Path() != "" {
		logger.Debug("loaded config", "path", cfg.Path())
	}

	cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, &session{cfg: cfg, logger: logger}))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func sessionFrom(cmd *cobra.Command) *session {
	if s, ok := cmd.Context().Value(ctxKey{}).(*session); ok {
		return s
	}
	return &session{cfg: config.Default(), logger: slog.Default()}
}
