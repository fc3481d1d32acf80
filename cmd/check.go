package main

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scuellar/cerberus/internal/axiomatic"
	"github.com/scuellar/cerberus/internal/litmus"
	"github.com/scuellar/cerberus/internal/smt"
)

var checkCommand = &cobra.Command{
	Use:   "check",
	Short: "enumerate the consistent executions of a built-in litmus test",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := checkExec(); err != nil {
			fmt.Printf("service err: %v", err)
		} else {
			fmt.Printf("service quit")
		}
	},
}

var (
	testName string
	allTests bool
	graphDir string
)

func init() {
	checkCommand.Flags().StringVar(&testName, "test", "", "litmus test name")
	checkCommand.Flags().BoolVar(&allTests, "all", false, "run every built-in test")
	checkCommand.Flags().StringVar(&graphDir, "graphs", "", "directory for per-execution dot files")
}

func checkExec() error {
	yices2.Init()
	defer yices2.Exit()

	if allTests {
		for _, prog := range litmus.Programs() {
			fmt.Printf("== %s: %s\n", prog.Name, prog.Description)
			if err := runProgram(prog); err != nil {
				return errors.Wrapf(err, "test %s", prog.Name)
			}
		}
		return nil
	}

	prog, ok := litmus.Lookup(testName)
	if !ok {
		return errors.Errorf("unknown litmus test %q, try the list command", testName)
	}
	return runProgram(prog)
}

func runProgram(prog litmus.Program) error {
	pre, returnTerm := prog.Build()
	enc := axiomatic.ComputeExecutions(pre)

	dir := graphDir
	if dir != "" {
		dir = fmt.Sprintf("%s/%s", dir, prog.Name)
	}
	result, err := axiomatic.ExtractExecutions(smt.NewSolver(), enc, returnTerm, dir)
	if err != nil {
		return errors.Wrap(err, "extract executions")
	}

	if err := verify(prog.Expect, result); err != nil {
		return err
	}
	return nil
}

// verify compares the report against the program's declared
// expectation, so check --all doubles as a self-check.
func verify(expect litmus.Expectation, result *axiomatic.Result) error {
	if expect.Executions >= 0 && len(result.Executions) != expect.Executions {
		return errors.Errorf("expected %d executions, found %d",
			expect.Executions, len(result.Executions))
	}
	if hasRace := result.RaceCount() > 0; hasRace != expect.HasRace {
		return errors.Errorf("expected race=%v, found race=%v", expect.HasRace, hasRace)
	}
	if expect.Returns != nil {
		seen := make(map[int64]struct{})
		for _, v := range result.ReturnValues() {
			seen[v] = struct{}{}
		}
		if len(seen) != len(expect.Returns) {
			return errors.Errorf("expected return values %v, observed %v",
				expect.Returns, result.ReturnValues())
		}
		for _, v := range expect.Returns {
			if _, ok := seen[v]; !ok {
				return errors.Errorf("expected return values %v, observed %v",
					expect.Returns, result.ReturnValues())
			}
		}
	}
	return nil
}
