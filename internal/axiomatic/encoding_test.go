package axiomatic

import (
	"testing"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scuellar/cerberus/internal/memory"
	"github.com/scuellar/cerberus/internal/smt"
)

func mkStore(aid, tid int, mo memory.MemoryOrder, addr, val int64) *memory.BmcAction {
	return memory.NewBmcAction(&memory.Store{
		ID:     aid,
		Thread: tid,
		MO:     mo,
		Addr:   yices2.Int64(addr),
		Wval:   yices2.Int64(val),
	})
}

func mkLoad(aid, tid int, mo memory.MemoryOrder, addr int64) *memory.BmcAction {
	return memory.NewBmcAction(&memory.Load{
		ID:     aid,
		Thread: tid,
		MO:     mo,
		Addr:   yices2.Int64(addr),
		Rval:   yices2.NewUninterpretedTerm(yices2.IntType()),
	})
}

// storeLoadPreexec: one initializing write, then a store and a load of
// the same location on one thread, wired the way the producer would.
func storeLoadPreexec() *memory.PreExecution {
	p := memory.NewPreExecution()
	init := mkStore(1, memory.InitialTid, memory.NA, 1, 0)
	store := mkStore(2, 1, memory.Relaxed, 1, 1)
	load := mkLoad(3, 1, memory.Relaxed, 1)
	p.AddInitialAction(init)
	p.AddAction(store)
	p.AddAction(load)
	p.AddSbEdge(store, load)
	p.AddAswEdge(init, store)
	return p
}

// checkWith reports the status of the axioms plus extra assertions.
func checkWith(t *testing.T, enc *Encoding, extra ...yices2.TermT) yices2.SmtStatusT {
	t.Helper()
	solver := smt.NewSolver()
	require.Nil(t, solver.Assert(enc.Assertions()...))
	if len(extra) > 0 {
		require.Nil(t, solver.Assert(extra...))
	}
	status, model, err := solver.Check()
	require.Nil(t, err)
	if model != nil {
		yices2.CloseModel(model)
	}
	return status
}

func Test_SbExactness(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	enc := ComputeExecutions(storeLoadPreexec())
	store, load := enc.index[2], enc.index[3]

	assert.Equal(t, yices2.StatusSat, checkWith(t, enc))
	// The listed pair holds in every model, its inverse in none.
	assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc,
		yices2.Not(enc.sbRel.Apply(enc.events[store], enc.events[load]))))
	assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc,
		enc.sbRel.Apply(enc.events[load], enc.events[store])))
}

func Test_AswExactness(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	enc := ComputeExecutions(storeLoadPreexec())
	init, store := enc.index[1], enc.index[2]

	assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc,
		yices2.Not(enc.aswRel.Apply(enc.events[init], enc.events[store]))))
	assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc,
		enc.aswRel.Apply(enc.events[store], enc.events[init])))
}

func Test_RfDagReflexiveAndMonotone(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	enc := ComputeExecutions(storeLoadPreexec())
	store, load := enc.index[2], enc.index[3]

	for i := range enc.all {
		assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc,
			yices2.Not(enc.rfDag.Apply(enc.events[i], enc.events[i]))))
	}
	assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc, yices2.And2(
		enc.rfRel.Apply(enc.events[store], enc.events[load]),
		yices2.Not(enc.rfDag.Apply(enc.events[store], enc.events[load])))))
}

func Test_CoherenceAndAtomicity(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	enc := ComputeExecutions(storeLoadPreexec())
	for i := range enc.all {
		// eco is irreflexive on enabled events.
		assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc,
			yices2.And2(enc.guard(i), enc.ecoExpr(i, i))))
		for j := range enc.all {
			if i == j {
				continue
			}
			enabled := yices2.And2(enc.guard(i), enc.guard(j))
			// No model has both hb(a,b) and eco(b,a).
			assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc, yices2.And([]yices2.TermT{
				enabled,
				enc.hbRel.Apply(enc.events[i], enc.events[j]),
				enc.ecoExpr(j, i),
			})))
			// No model has both fr(a,b) and mo(b,a).
			assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc, yices2.And([]yices2.TermT{
				enabled,
				enc.frExpr(i, j),
				enc.moRel.Apply(enc.events[j], enc.events[i]),
			})))
		}
	}
}

func Test_ReadValueIsPinned(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	p := storeLoadPreexec()
	load := p.Actions[1].Action
	enc := ComputeExecutions(p)

	// The load sits sb-after the only other write, so coherence leaves
	// rf no choice: the read value is exactly 1.
	assert.Equal(t, yices2.StatusUnsat, checkWith(t, enc,
		yices2.Not(yices2.Eq(memory.ReadValueOf(load), yices2.Int64(1)))))
}

func Test_ScFreeAcrossLocations(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	// A seq_cst store reaches a seq_cst load of another location only
	// through sb;hb;sb whose hb hop is a same-location release/acquire
	// handoff. That hop is outside the SC-before relation, so the SC
	// order between the endpoints stays free in both directions.
	p := memory.NewPreExecution()
	initY := mkStore(1, memory.InitialTid, memory.NA, 3, 0)
	scStore := mkStore(2, 1, memory.SeqCst, 1, 1)
	relStore := mkStore(3, 1, memory.Release, 2, 1)
	acqLoad := mkLoad(4, 2, memory.Acquire, 2)
	scLoad := mkLoad(5, 2, memory.SeqCst, 3)
	p.AddInitialAction(initY)
	p.AddAction(scStore)
	p.AddAction(relStore)
	p.AddAction(acqLoad)
	p.AddAction(scLoad)
	p.AddSbEdge(scStore, relStore)
	p.AddSbEdge(acqLoad, scLoad)

	enc := ComputeExecutions(p)
	i, j := enc.index[2], enc.index[5]
	forward := yices2.ArithLtAtom(enc.scClk.Apply(enc.events[i]), enc.scClk.Apply(enc.events[j]))
	backward := yices2.ArithLtAtom(enc.scClk.Apply(enc.events[j]), enc.scClk.Apply(enc.events[i]))

	assert.Equal(t, yices2.StatusSat, checkWith(t, enc, forward))
	assert.Equal(t, yices2.StatusSat, checkWith(t, enc, backward))
}

func Test_ConsumeIsFatal(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	p := memory.NewPreExecution()
	p.AddAction(mkLoad(1, 1, memory.Consume, 1))
	assert.Panics(t, func() { ComputeExecutions(p) })
}
