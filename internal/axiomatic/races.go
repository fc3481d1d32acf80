package axiomatic

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"

	"github.com/scuellar/cerberus/internal/memory"
	"github.com/scuellar/cerberus/internal/smt"
)

// Race classification over one extracted execution.
//
// A data race is a same-address pair on different threads, at least one
// a write, not both atomic, that happens-before neither way. An
// unsequenced race is a same-address pair on the same non-initial
// thread, at least one a write, that sequenced-before orders neither
// way.
func (e *Encoding) classifyRaces(model *yices2.ModelT, enabled []bool, concrete []ConcreteAction, exec *Execution) error {
	hbHolds := func(i, j int) (bool, error) {
		return smt.TermHolds(model, e.hbRel.Apply(e.events[i], e.events[j]))
	}
	for i := range e.all {
		if !enabled[i] {
			continue
		}
		for j := i + 1; j < len(e.all); j++ {
			if !enabled[j] {
				continue
			}
			a, b := concrete[i], concrete[j]
			if !a.HasAddr || !b.HasAddr || a.Addr != b.Addr {
				continue
			}
			writeInvolved := memory.IsWrite(e.action(i)) || memory.IsWrite(e.action(j))
			if !writeInvolved {
				continue
			}
			pair := AidPair{a.Aid, b.Aid}

			if a.Tid != b.Tid {
				bothAtomic := a.Order.IsAtomic() && b.Order.IsAtomic()
				if bothAtomic {
					continue
				}
				forward, err := hbHolds(i, j)
				if err != nil {
					return errors.Wrapf(err, "hb(a%d,a%d)", a.Aid, b.Aid)
				}
				backward, err := hbHolds(j, i)
				if err != nil {
					return errors.Wrapf(err, "hb(a%d,a%d)", b.Aid, a.Aid)
				}
				if !forward && !backward {
					exec.DataRaces = append(exec.DataRaces, pair)
					exec.RaceFree = false
				}
				continue
			}

			if a.Tid == memory.InitialTid {
				continue
			}
			if !e.inSb(i, j) && !e.inSb(j, i) {
				exec.UnseqRaces = append(exec.UnseqRaces, pair)
				exec.RaceFree = false
			}
		}
	}
	return nil
}
