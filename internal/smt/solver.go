package smt

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// Solver wraps one yices context. All assertions are strictly ordered;
// Push/Pop delimit a scope whose assertions are discarded on Pop.
type Solver struct {
	ctx yices2.ContextT
}

func NewSolver() *Solver {
	s := &Solver{
		ctx: yices2.ContextT{},
	}
	var cfg yices2.ConfigT
	yices2.InitConfig(&cfg)
	yices2.InitContext(cfg, &s.ctx)
	return s
}

func (s *Solver) Assert(terms ...yices2.TermT) error {
	errcode := yices2.AssertFormulas(s.ctx, terms)
	if errcode < 0 {
		return fmt.Errorf("%s", yices2.ErrorString())
	}
	return nil
}

func (s *Solver) Push() error {
	if errcode := yices2.Push(s.ctx); errcode < 0 {
		return fmt.Errorf("%s", yices2.ErrorString())
	}
	return nil
}

func (s *Solver) Pop() error {
	if errcode := yices2.Pop(s.ctx); errcode < 0 {
		return fmt.Errorf("%s", yices2.ErrorString())
	}
	return nil
}

// Check runs one satisfiability query over everything asserted so far.
// A model is returned only for StatusSat.
func (s *Solver) Check() (yices2.SmtStatusT, *yices2.ModelT, error) {
	status := yices2.CheckContext(s.ctx, yices2.ParamT{})
	switch status {
	case yices2.StatusSat:
		return status, yices2.GetModel(s.ctx, 1), nil
	case yices2.StatusUnsat:
		fallthrough
	case yices2.StatusIdle:
		fallthrough
	case yices2.StatusSearching:
		fallthrough
	case yices2.StatusInterrupted:
		return status, nil, nil
	case yices2.StatusError:
		return status, nil, fmt.Errorf("%s", yices2.ErrorString())
	}
	return yices2.StatusError, nil, nil
}
