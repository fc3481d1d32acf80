package litmus

import (
	"testing"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scuellar/cerberus/internal/memory"
)

func Test_BuilderCounters(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	b := NewBuilder()
	t1 := b.NewThread(memory.InitialTid)
	t2 := b.NewThread(t1)
	assert.NotEqual(t, memory.InitialTid, t1)
	assert.NotEqual(t, t1, t2)
	assert.Equal(t, []int{t1}, b.children[memory.InitialTid])
	assert.Equal(t, []int{t2}, b.children[t1])

	x := b.NewAddr()
	y := b.NewAddr()
	assert.NotEqual(t, x, y)

	// Every allocated action gets a distinct aid.
	p := b.Seq(
		b.Store(t1, x, 1, memory.Relaxed),
		b.Store(t1, y, 2, memory.Relaxed),
		b.Fence(t1, memory.SeqCst))
	seen := memory.NewAidSet()
	for _, a := range p.AllActions() {
		assert.False(t, seen.Contains(a.Aid()))
		seen.Add(a.Aid())
	}
}

func Test_BuilderSeq(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	b := NewBuilder()
	x := b.NewAddr()
	t1 := b.NewThread(memory.InitialTid)
	p := b.Seq(
		b.Store(t1, x, 1, memory.NA),
		b.Store(t1, x, 2, memory.NA),
		b.Store(t1, x, 3, memory.NA))
	// Straight-line sequencing: every earlier action precedes every
	// later one.
	assert.Equal(t, 3, len(p.Sb))
}

func Test_BuilderBranch(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	b := NewBuilder()
	x := b.NewAddr()
	t1 := b.NewThread(memory.InitialTid)
	cond := yices2.NewUninterpretedTerm(yices2.BoolType())
	p := b.Branch(cond,
		b.Store(t1, x, 1, memory.NA),
		b.Store(t1, x, 2, memory.NA))

	require.Equal(t, 2, len(p.Actions))
	assert.Equal(t, memory.PolarityTrue, p.Actions[0].Polarity)
	assert.Equal(t, memory.PolarityFalse, p.Actions[1].Polarity)
	assert.NotEqual(t, yices2.True(), p.Actions[0].Guard)
	assert.NotEqual(t, yices2.True(), p.Actions[1].Guard)
	assert.NotEqual(t, p.Actions[0].Guard, p.Actions[1].Guard)
}

func Test_BuilderForkFinalize(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	b := NewBuilder()
	x := b.NewAddr()
	t1 := b.NewThread(memory.InitialTid)
	t2 := b.NewThread(t1)

	creator := b.Seq(
		b.Store(t1, x, 1, memory.NA),
		b.Store(t1, x, 2, memory.NA))
	child := b.Seq(
		b.Store(t2, x, 3, memory.NA),
		b.Store(t2, x, 4, memory.NA))

	p := b.Finalize(b.Fork(creator, child))
	// One boundary, one surviving edge: creator's last action to the
	// child's first.
	require.Equal(t, 1, len(p.Asw))
	assert.Equal(t, creator.Actions[1].Aid(), p.Asw[0].From.Aid())
	assert.Equal(t, child.Actions[0].Aid(), p.Asw[0].To.Aid())
}

func Test_ProgramsAreWellFormed(t *testing.T) {
	yices2.Init()
	defer yices2.Exit()

	for _, prog := range Programs() {
		pre, _ := prog.Build()
		seen := memory.NewAidSet()
		for _, a := range pre.AllActions() {
			assert.False(t, seen.Contains(a.Aid()), "duplicate aid in %s", prog.Name)
			seen.Add(a.Aid())
		}
		for _, edge := range pre.Sb {
			assert.Equal(t, edge.From.Tid(), edge.To.Tid(), "cross-thread sb in %s", prog.Name)
		}
	}
}
