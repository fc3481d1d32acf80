package axiomatic

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"

	"github.com/scuellar/cerberus/internal/memory"
	"github.com/scuellar/cerberus/internal/smt"
)

// ConcreteAction is one enabled action with its symbolic terms resolved
// to literals in a particular model.
type ConcreteAction struct {
	Aid     int
	Tid     int
	Kind    int
	Order   memory.MemoryOrder
	Initial bool

	HasAddr bool
	Addr    int64
	HasRead bool
	Read    int64
	HasWrit bool
	Writ    int64
}

func (a ConcreteAction) String() string {
	switch a.Kind {
	case memory.KindLoad:
		return fmt.Sprintf("a%d: R_%s [%d]=%d", a.Aid, a.Order, a.Addr, a.Read)
	case memory.KindStore:
		return fmt.Sprintf("a%d: W_%s [%d]=%d", a.Aid, a.Order, a.Addr, a.Writ)
	case memory.KindRMW:
		return fmt.Sprintf("a%d: RMW_%s [%d]=%d/%d", a.Aid, a.Order, a.Addr, a.Read, a.Writ)
	}
	return fmt.Sprintf("a%d: F_%s", a.Aid, a.Order)
}

// AidPair is one concrete relation edge, by action id.
type AidPair struct {
	From int
	To   int
}

// Execution is one behaviorally distinct consistent execution extracted
// from a model: the enabled actions with concrete values, the witness
// relations restricted to enabled non-initial actions, the race
// verdict and the concrete return value.
type Execution struct {
	Actions []ConcreteAction

	Sb  []AidPair
	Asw []AidPair
	Rf  []AidPair
	Mo  []AidPair
	Sc  []AidPair
	Sw  []AidPair

	DataRaces  []AidPair
	UnseqRaces []AidPair
	RaceFree   bool

	ReturnValue int64
}

// extractExecution resolves every accessor and relation in the model to
// one concrete execution.
func (e *Encoding) extractExecution(model *yices2.ModelT, returnTerm yices2.TermT) (*Execution, error) {
	exec := &Execution{RaceFree: true}

	enabled := make([]bool, len(e.all))
	for i := range e.all {
		on, err := smt.TermHolds(model, e.guard(i))
		if err != nil {
			return nil, errors.Wrapf(err, "guard of a%d", e.all[i].Aid())
		}
		enabled[i] = on
	}

	concrete := make([]ConcreteAction, len(e.all))
	for i, a := range e.all {
		if !enabled[i] {
			continue
		}
		act := a.Action
		ca := ConcreteAction{
			Aid:     act.Aid(),
			Tid:     act.Tid(),
			Kind:    memory.KindOf(act),
			Order:   act.Order(),
			Initial: act.Tid() == memory.InitialTid,
		}
		var err error
		if memory.HasAddress(act) {
			ca.HasAddr = true
			if ca.Addr, err = smt.GetInt64Value(model, memory.AddressOf(act)); err != nil {
				return nil, errors.Wrapf(err, "address of a%d", act.Aid())
			}
		}
		if memory.IsRead(act) {
			ca.HasRead = true
			if ca.Read, err = smt.GetInt64Value(model, memory.ReadValueOf(act)); err != nil {
				return nil, errors.Wrapf(err, "read value of a%d", act.Aid())
			}
		}
		if memory.IsWrite(act) {
			ca.HasWrit = true
			if ca.Writ, err = smt.GetInt64Value(model, memory.WriteValueOf(act)); err != nil {
				return nil, errors.Wrapf(err, "write value of a%d", act.Aid())
			}
		}
		concrete[i] = ca
		exec.Actions = append(exec.Actions, ca)
	}

	// Witness edges, restricted to enabled non-initial actions.
	witness := func(i, j int) bool {
		return enabled[i] && enabled[j] &&
			e.all[i].Tid() != memory.InitialTid &&
			e.all[j].Tid() != memory.InitialTid
	}
	for _, edge := range e.pre.Sb {
		i, j := e.index[edge.From.Aid()], e.index[edge.To.Aid()]
		if witness(i, j) {
			exec.Sb = append(exec.Sb, AidPair{edge.From.Aid(), edge.To.Aid()})
		}
	}
	for _, edge := range e.pre.Asw {
		i, j := e.index[edge.From.Aid()], e.index[edge.To.Aid()]
		if witness(i, j) {
			exec.Asw = append(exec.Asw, AidPair{edge.From.Aid(), edge.To.Aid()})
		}
	}
	for i := range e.all {
		for j := range e.all {
			if i == j || !witness(i, j) {
				continue
			}
			pair := AidPair{e.all[i].Aid(), e.all[j].Aid()}
			if memory.IsWrite(e.action(i)) && memory.IsRead(e.action(j)) {
				if on, err := smt.TermHolds(model, e.rfRel.Apply(e.events[i], e.events[j])); err == nil && on {
					exec.Rf = append(exec.Rf, pair)
				}
			}
			if memory.IsWrite(e.action(i)) && memory.IsWrite(e.action(j)) {
				if on, err := smt.TermHolds(model, e.moRel.Apply(e.events[i], e.events[j])); err == nil && on {
					exec.Mo = append(exec.Mo, pair)
				}
			}
			if on, err := smt.TermHolds(model, e.scRel.Apply(e.events[i], e.events[j])); err == nil && on {
				exec.Sc = append(exec.Sc, pair)
			}
			if on, err := smt.TermHolds(model, e.swRel.Apply(e.events[i], e.events[j])); err == nil && on {
				exec.Sw = append(exec.Sw, pair)
			}
		}
	}

	if err := e.classifyRaces(model, enabled, concrete, exec); err != nil {
		return nil, err
	}

	ret, err := smt.GetInt64Value(model, returnTerm)
	if err != nil {
		return nil, errors.Wrap(err, "return value")
	}
	exec.ReturnValue = ret
	return exec, nil
}

// blockingClause negates the defining choices of the model: every
// guard value, every rf choice between enabled writes and reads, and
// every mo choice between enabled writes. The next model must differ in
// at least one of them.
func (e *Encoding) blockingClause(model *yices2.ModelT) (yices2.TermT, error) {
	var literals []yices2.TermT
	literal := func(term yices2.TermT) error {
		on, err := smt.TermHolds(model, term)
		if err != nil {
			return err
		}
		if on {
			literals = append(literals, term)
		} else {
			literals = append(literals, yices2.Not(term))
		}
		return nil
	}

	enabled := make([]bool, len(e.all))
	for i := range e.all {
		on, err := smt.TermHolds(model, e.guard(i))
		if err != nil {
			return yices2.NullTerm, errors.Wrapf(err, "guard of a%d", e.all[i].Aid())
		}
		enabled[i] = on
		if err := literal(e.guard(i)); err != nil {
			return yices2.NullTerm, err
		}
	}
	for i := range e.all {
		for j := range e.all {
			if i == j || !enabled[i] || !enabled[j] {
				continue
			}
			if memory.IsWrite(e.action(i)) && memory.IsRead(e.action(j)) {
				if err := literal(e.rfRel.Apply(e.events[i], e.events[j])); err != nil {
					return yices2.NullTerm, err
				}
			}
			if memory.IsWrite(e.action(i)) && memory.IsWrite(e.action(j)) {
				if err := literal(e.moRel.Apply(e.events[i], e.events[j])); err != nil {
					return yices2.NullTerm, err
				}
			}
		}
	}
	if len(literals) == 0 {
		return yices2.False(), nil
	}
	return yices2.Not(yices2.And(literals)), nil
}
