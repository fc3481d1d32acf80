package axiomatic

import (
	"path/filepath"
	"testing"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scuellar/cerberus/internal/memory"
	"github.com/scuellar/cerberus/internal/smt"
)

func Test_EmptyPreexecution(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	enc := ComputeExecutions(memory.NewPreExecution())
	result, err := ExtractExecutions(smt.NewSolver(), enc, yices2.Zero(), "")
	require.Nil(t, err)
	require.Equal(t, 1, len(result.Executions))
	assert.True(t, result.Executions[0].RaceFree)
	assert.Equal(t, 0, len(result.Executions[0].Actions))
	assert.Equal(t, int64(0), result.Executions[0].ReturnValue)
}

func Test_RacyWritesEnumeration(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	// Plain writes to one location on two threads, nothing ordering
	// them: every modification order is consistent and racy.
	p := memory.NewPreExecution()
	init := mkStore(1, memory.InitialTid, memory.NA, 1, 0)
	w1 := mkStore(2, 1, memory.NA, 1, 1)
	w2 := mkStore(3, 2, memory.NA, 1, 2)
	p.AddInitialAction(init)
	p.AddAction(w1)
	p.AddAction(w2)
	p.AddAswEdge(init, w1)
	p.AddAswEdge(init, w2)

	enc := ComputeExecutions(p)
	result, err := ExtractExecutions(smt.NewSolver(), enc, yices2.Zero(), "")
	require.Nil(t, err)
	require.Equal(t, 2, len(result.Executions))
	for _, exec := range result.Executions {
		assert.False(t, exec.RaceFree)
		assert.NotEmpty(t, exec.DataRaces)
		assert.Empty(t, exec.UnseqRaces)
	}
	assert.Equal(t, 2, result.RaceCount())
}

func Test_UnsequencedRace(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	// Two same-thread writes with no sb between them.
	p := memory.NewPreExecution()
	init := mkStore(1, memory.InitialTid, memory.NA, 1, 0)
	w1 := mkStore(2, 1, memory.NA, 1, 1)
	w2 := mkStore(3, 1, memory.NA, 1, 2)
	p.AddInitialAction(init)
	p.AddAction(w1)
	p.AddAction(w2)
	p.AddAswEdge(init, w1)
	p.AddAswEdge(init, w2)

	enc := ComputeExecutions(p)
	result, err := ExtractExecutions(smt.NewSolver(), enc, yices2.Zero(), "")
	require.Nil(t, err)
	require.Equal(t, 2, len(result.Executions))
	for _, exec := range result.Executions {
		assert.NotEmpty(t, exec.UnseqRaces)
		assert.Empty(t, exec.DataRaces)
		assert.False(t, exec.RaceFree)
	}
}

func Test_AswSynchronizes(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	// Release store on one thread handed by asw to another thread's
	// acquire load of the same location: sw and hb order the pair and
	// the execution is race free without any sb edge.
	p := memory.NewPreExecution()
	init := mkStore(1, memory.InitialTid, memory.NA, 1, 0)
	store := mkStore(2, 1, memory.Release, 1, 1)
	load := mkLoad(3, 2, memory.Acquire, 1)
	p.AddInitialAction(init)
	p.AddAction(store)
	p.AddAction(load)
	p.AddAswEdge(init, store)
	p.AddAswEdge(store, load)

	enc := ComputeExecutions(p)
	result, err := ExtractExecutions(smt.NewSolver(), enc, yices2.Zero(), "")
	require.Nil(t, err)
	require.Equal(t, 1, len(result.Executions))

	exec := result.Executions[0]
	assert.True(t, exec.RaceFree)
	assert.Contains(t, exec.Sw, AidPair{From: 2, To: 3})
	assert.Contains(t, exec.Rf, AidPair{From: 2, To: 3})
}

func Test_DistinctExecutions(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	// Any two enumerated executions differ in at least one rf or mo
	// choice.
	p := memory.NewPreExecution()
	init := mkStore(1, memory.InitialTid, memory.NA, 1, 0)
	w1 := mkStore(2, 1, memory.Relaxed, 1, 1)
	load := mkLoad(3, 2, memory.Relaxed, 1)
	p.AddInitialAction(init)
	p.AddAction(w1)
	p.AddAction(load)
	p.AddAswEdge(init, w1)
	p.AddAswEdge(init, load)

	enc := ComputeExecutions(p)
	result, err := ExtractExecutions(smt.NewSolver(), enc, yices2.Zero(), t.TempDir())
	require.Nil(t, err)
	require.Equal(t, 2, len(result.Executions))

	a, b := result.Executions[0], result.Executions[1]
	assert.NotEqual(t, a.Rf, b.Rf)
}

func Test_WriteDot(t *testing.T) {
	exec := &Execution{
		Actions: []ConcreteAction{
			{Aid: 1, Kind: memory.KindStore, Order: memory.NA, HasAddr: true, Addr: 1, HasWrit: true, Writ: 1},
			{Aid: 2, Kind: memory.KindLoad, Order: memory.Acquire, HasAddr: true, Addr: 1, HasRead: true, Read: 1},
		},
		Rf:       []AidPair{{From: 1, To: 2}},
		RaceFree: true,
	}
	dir := t.TempDir()
	err := WriteDot(dir, 1, exec)
	require.Nil(t, err)
	assert.FileExists(t, filepath.Join(dir, "exec_1.dot"))
}
