package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/ncalc/pkg/compiler/ast"
	"github.com/agenthands/ncalc/pkg/compiler/lexer"
)

// NewTokensCmd creates the "tokens" subcommand.
func NewTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <text>",
		Short: "Print the token kinds the lexer reads from text",
		Long: "Print the token kinds the lexer reads from text. Scanning stops " +
			"silently at the first character no rule recognizes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := lexer.Tokenize(args[0])
			sessionFrom(cmd).logger.Debug("tokenized", "tokens", len(kinds))

			names := make([]string, len(kinds))
			for i, k := range kinds {
				names[i] = k.String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, " "))
			return nil
		},
	}
}

// NewASTCmd creates the "ast" subcommand.
func NewASTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast <expr>",
		Short: "Print the expression tree in constructor form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			cfg, err := withFlags(cmd, s.cfg)
			if err != nil {
				return err
			}
			expr, err := parse(cfg.Evaluator(), cfg.Frontend, args[0])
			if err != nil {
				return classify(args[0], err)
			}
			s.logger.Debug("parsed", "frontend", cfg.Frontend, "depth", ast.Depth(expr))
			fmt.Fprintln(cmd.OutOrStdout(), expr.String())
			return nil
		},
	}

	cmd.Flags().String("frontend", "", "Parser front end: native or python")
	cmd.Flags().Bool("strict", false, "Reject text after the expression")
	cmd.Flags().Int("max-depth", 0, "Maximum parenthesis nesting")
	return cmd
}
