package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agenthands/ncalc/pkg/compiler/ast"
	"github.com/agenthands/ncalc/pkg/compiler/python"
	"github.com/agenthands/ncalc/pkg/config"
	"github.com/agenthands/ncalc/pkg/eval"
)

// demoInputs are evaluated when eval is given no expression.
var demoInputs = []string{
	"123",
	"(123 + 456 ) + pi",
	"10 + (100 + 1)",
	"((1 + 2) + (3 + 4)) + 5 + 6",
}

// NewEvalCmd creates the "eval" subcommand.
func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [expr...]",
		Short: "Evaluate expressions, one result per line",
		RunE:  runEval,
	}

	cmd.Flags().String("engine", "", "Evaluation engine: tree or vm")
	cmd.Flags().String("frontend", "", "Parser front end: native or python")
	cmd.Flags().Bool("strict", false, "Reject text after the expression")
	cmd.Flags().Int("max-depth", 0, "Maximum parenthesis nesting")

	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	s := sessionFrom(cmd)
	cfg, err := withFlags(cmd, s.cfg)
	if err != nil {
		return err
	}
	ev := cfg.Evaluator()
	s.logger.Debug("evaluating", "engine", cfg.Engine, "frontend", cfg.Frontend, "count", len(args))

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, src := range demoInputs {
			v, err := evaluate(ev, cfg.Frontend, src)
			if err != nil {
				fmt.Fprintf(out, "source: %q, error: %s\n", src, err)
				continue
			}
			fmt.Fprintf(out, "source: %q, value: %s\n", src, formatValue(v))
		}
		return nil
	}

	for _, src := range args {
		v, err := evaluate(ev, cfg.Frontend, src)
		if err != nil {
			return classify(src, err)
		}
		fmt.Fprintln(out, formatValue(v))
	}
	return nil
}

// withFlags overlays command-line flags on a copy of the loaded settings.
func withFlags(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	cfg := *base
	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("frontend") {
		cfg.Frontend, _ = flags.GetString("frontend")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if err := cfg.Validate(); err != nil {
		return nil, exitError(exitConfig, "%s", err)
	}
	return &cfg, nil
}

func parse(ev eval.Evaluator, frontend, src string) (ast.Expr, error) {
	if frontend == config.FrontendPython {
		return python.Parse(src)
	}
	return ev.Parser.Parse(src)
}

func evaluate(ev eval.Evaluator, frontend, src string) (float64, error) {
	expr, err := parse(ev, frontend, src)
	if err != nil {
		return 0, err
	}
	return ev.EvalExpr(expr)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
