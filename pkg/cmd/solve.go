// Copyright Conjure-CP Contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/conjure-cp/conjure-go/pkg/ast"
	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/essence"
	"github.com/conjure-cp/conjure-go/pkg/rewrite"
	"github.com/conjure-cp/conjure-go/pkg/rules"
	"github.com/conjure-cp/conjure-go/pkg/solver"
	"github.com/conjure-cp/conjure-go/pkg/solver/adaptors"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var solveCmd = &cobra.Command{
	Use:   "solve [flags] model.essence",
	Short: "Rewrite and solve an Essence model.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if err := runSolve(cmd, args[0]); err != nil {
			log.Errorln(err)
			os.Exit(2)
		}
	},
}

func init() {
	solveCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
	solveCmd.Flags().String("solver", "minion", "solver family (minion|sat|smt)")
	solveCmd.Flags().String("expander", "native", "comprehension expander (native|solver)")
	solveCmd.Flags().String("rewriter", "morph", "rewriter implementation (morph|naive)")
	solveCmd.Flags().String("parser", "native", "essence parser (native|conjure)")
	solveCmd.Flags().StringArray("extra-rule-sets", nil, "additional rule sets to enable")
	solveCmd.Flags().Bool("trace", false, "print one line per rule application")
	solveCmd.Flags().Bool("check-equally-applicable-rules", false, "fail when several rules fire on one node")
	solveCmd.Flags().Bool("exit-after-unrolling", false, "stop after rewriting, printing the lowered model")
	solveCmd.Flags().Bool("save-solver-input-file", false, "save the backend-native input next to the model")
	solveCmd.Flags().String("stats", "", "write a stats JSON file")
	solveCmd.Flags().StringP("output", "o", "", "write the solutions JSON to a file instead of stdout")
	//
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, path string) error {
	family, err := solverFamily(GetString(cmd, "solver"))
	if err != nil {
		return err
	}
	//
	ctx := context.NewContext(family)
	ctx.CheckEquallyApplicableRules = GetFlag(cmd, "check-equally-applicable-rules")
	ctx.ExitAfterUnrolling = GetFlag(cmd, "exit-after-unrolling")
	ctx.SaveSolverInputFile = GetFlag(cmd, "save-solver-input-file")
	//
	if GetString(cmd, "expander") == "solver" {
		ctx.SetExpander(context.ViaSolverExpander)
	}
	//
	rules.SetExpansionMode(ctx.Expander())
	//
	if name := GetString(cmd, "parser"); name != "native" {
		return fmt.Errorf("parser %q is not available in this build; only the native parser is", name)
	}
	//
	model, err := essence.ParseFile(path, ctx)
	if err != nil {
		return err
	}
	//
	ruleSets := rewrite.DefaultRuleSets(family)
	ruleSets = append(ruleSets, GetStringArray(cmd, "extra-rule-sets")...)
	//
	for _, name := range GetStringArray(cmd, "extra-rule-sets") {
		ctx.AddExtraRuleSet(name)
	}
	//
	groups, err := rewrite.ResolveRuleSets(ruleSets...)
	if err != nil {
		return err
	}
	//
	selector := rewrite.SelectFirst
	if ctx.CheckEquallyApplicableRules {
		selector = rewrite.SelectPanic
	}
	//
	engine := rewrite.NewEngine(groups, selector)
	engine.Context = ctx
	//
	if GetFlag(cmd, "trace") {
		engine.Trace = printTrace
	}
	//
	switch name := GetString(cmd, "rewriter"); name {
	case "morph":
		err = engine.RewriteModel(model)
	case "naive":
		err = engine.RewriteNaive(model.AsSubModel())
	default:
		err = fmt.Errorf("unknown rewriter %q", name)
	}
	//
	if err != nil {
		return err
	}
	//
	if ctx.ExitAfterUnrolling {
		fmt.Print(model)
		return nil
	}
	//
	solutions, stats, err := solveModel(ctx, model, path)
	if err != nil {
		return err
	}
	//
	if err := writeSolutions(cmd, model, solutions); err != nil {
		return err
	}
	//
	if statsPath := GetString(cmd, "stats"); statsPath != "" {
		if err := writeStats(statsPath, ctx, stats); err != nil {
			return err
		}
	}
	//
	return nil
}

func solverFamily(name string) (context.SolverFamily, error) {
	switch name {
	case "minion":
		return context.Minion, nil
	case "sat":
		return context.Sat, nil
	case "smt":
		return context.Smt, nil
	}
	//
	return 0, fmt.Errorf("unknown solver family %q", name)
}

// solveModel picks a backend for the configured family and runs it,
// collecting every solution.
func solveModel(ctx *context.Context, model *ast.Model, path string) ([]solver.Solution, solver.SolverStats, error) {
	var stats solver.SolverStats
	//
	switch ctx.Family() {
	case context.Sat, context.Smt:
		return nil, stats, solver.FeatureNotSupported(
			"no in-tree %s backend; install an external adaptor", ctx.Family())
	}
	//
	var adaptor solver.Adaptor = adaptors.NewNative()
	//
	if _, err := exec.LookPath("minion"); err == nil {
		adaptor = adaptors.NewMinion()
	} else {
		log.Debug("no minion binary on PATH; using the native backend")
	}
	//
	s, err := solver.New(adaptor)
	if err != nil {
		return nil, stats, err
	}
	//
	loaded, err := s.LoadModel(model)
	if err != nil {
		return nil, stats, err
	}
	//
	if ctx.SaveSolverInputFile {
		file, err := os.Create(path + ".solver-input")
		if err != nil {
			return nil, stats, err
		}
		//
		defer file.Close()
		//
		if err := loaded.WriteSolverInput(file); err != nil {
			return nil, stats, err
		}
	}
	//
	var solutions []solver.Solution
	//
	solved, err := loaded.Solve(func(solution solver.Solution) bool {
		solutions = append(solutions, solution)
		return true
	})
	//
	if err != nil {
		return nil, stats, err
	}
	//
	return solutions, solved.Stats(), nil
}

// writeSolutions reconstructs user-level values and writes the solutions
// JSON.
func writeSolutions(cmd *cobra.Command, model *ast.Model, solutions []solver.Solution) error {
	reconstructed := make([]solver.Solution, len(solutions))
	//
	for i, solution := range solutions {
		r, err := solver.ReconstructSolution(model.Symbols(), solution)
		if err != nil {
			return err
		}
		//
		reconstructed[i] = r
	}
	//
	out, err := solver.MarshalSolutionsJSON(reconstructed)
	if err != nil {
		return err
	}
	//
	if path := GetString(cmd, "output"); path != "" {
		return os.WriteFile(path, out, 0o644)
	}
	//
	fmt.Println(string(out))
	//
	return nil
}

// writeStats renders the context snapshot plus solver stats as JSON.
func writeStats(path string, ctx *context.Context, stats solver.SolverStats) error {
	out, err := json.MarshalIndent(struct {
		Context *context.Context   `json:"context"`
		Solver  solver.SolverStats `json:"solver"`
	}{ctx, stats}, "", "  ")
	//
	if err != nil {
		return err
	}
	//
	return os.WriteFile(path, out, 0o644)
}

// printTrace renders one rule application, truncated to the terminal width
// when stdout is a terminal.
func printTrace(entry rewrite.TraceEntry) {
	line := entry.String()
	//
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && len(line) > width && width > 3 {
			line = line[:width-3] + "..."
		}
	}
	//
	color.New(color.Faint).Fprintln(os.Stdout, line)
}
