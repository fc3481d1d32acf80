package axiomatic

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scuellar/cerberus/internal/smt"
)

// Result aggregates one full enumeration.
type Result struct {
	Executions []*Execution
	LastStatus yices2.SmtStatusT
}

func (r *Result) RaceCount() int {
	count := 0
	for _, exec := range r.Executions {
		if !exec.RaceFree {
			count++
		}
	}
	return count
}

// ReturnValues returns the set of observed return values in first-seen
// order.
func (r *Result) ReturnValues() []int64 {
	seen := make(map[int64]struct{})
	var values []int64
	for _, exec := range r.Executions {
		if _, ok := seen[exec.ReturnValue]; ok {
			continue
		}
		seen[exec.ReturnValue] = struct{}{}
		values = append(values, exec.ReturnValue)
	}
	return values
}

// ExtractExecutions drives the solver in one push/pop scope: assert the
// axioms, then repeatedly check, extract the model's execution and
// block it, until the solver reports unsatisfiable. Termination is
// guaranteed because every blocking clause removes at least one
// guard/rf/mo choice from a finite space. A non-sat, non-unsat status
// ends enumeration the same way unsat does; callers needing to
// distinguish inspect Result.LastStatus.
//
// As side effects one graph description file is written per execution
// when outDir is non-empty, and a summary is printed.
func ExtractExecutions(solver *smt.Solver, enc *Encoding, returnTerm yices2.TermT, outDir string) (*Result, error) {
	if err := solver.Push(); err != nil {
		return nil, errors.Wrap(err, "push")
	}
	result, err := enumerate(solver, enc, returnTerm, outDir)
	if popErr := solver.Pop(); popErr != nil && err == nil {
		err = errors.Wrap(popErr, "pop")
	}
	if err != nil {
		return nil, err
	}
	PrintSummary(result)
	return result, nil
}

func enumerate(solver *smt.Solver, enc *Encoding, returnTerm yices2.TermT, outDir string) (*Result, error) {
	if len(enc.Assertions()) > 0 {
		if err := solver.Assert(enc.Assertions()...); err != nil {
			return nil, errors.Wrap(err, "assert axioms")
		}
	}
	result := &Result{}
	for {
		status, model, err := solver.Check()
		if err != nil {
			return nil, errors.Wrap(err, "check")
		}
		result.LastStatus = status
		if status != yices2.StatusSat {
			log.Infof("enumeration finished after %d executions (status %v)",
				len(result.Executions), status)
			return result, nil
		}

		exec, err := enc.extractExecution(model, returnTerm)
		if err != nil {
			yices2.CloseModel(model)
			return nil, errors.Wrap(err, "extract execution")
		}
		block, err := enc.blockingClause(model)
		yices2.CloseModel(model)
		if err != nil {
			return nil, errors.Wrap(err, "blocking clause")
		}

		result.Executions = append(result.Executions, exec)
		log.Infof("execution %d: %d actions, race_free=%v, return=%d",
			len(result.Executions), len(exec.Actions), exec.RaceFree, exec.ReturnValue)
		if outDir != "" {
			if err := WriteDot(outDir, len(result.Executions), exec); err != nil {
				return nil, errors.Wrap(err, "write graph")
			}
		}

		if err := solver.Assert(block); err != nil {
			return nil, errors.Wrap(err, "assert blocking clause")
		}
	}
}
