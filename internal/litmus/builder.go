package litmus

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"

	"github.com/scuellar/cerberus/internal/memory"
)

// Builder assembles pre-executions the way the symbolic executor does:
// it owns the aid/tid/address counters and the thread parent map, and
// wires fragments together with the pre-execution combinators. The
// checker core only ever sees the finished pre-execution.
type Builder struct {
	nextAid  int
	nextTid  int
	nextAddr int64
	nextRead int
	children map[int][]int
}

func NewBuilder() *Builder {
	return &Builder{
		nextAid:  1,
		nextTid:  memory.InitialTid + 1,
		nextAddr: 1,
		children: make(map[int][]int),
	}
}

// NewThread allocates a thread id and records its creator.
func (b *Builder) NewThread(parent int) int {
	tid := b.nextTid
	b.nextTid++
	b.children[parent] = append(b.children[parent], tid)
	return tid
}

// NewAddr allocates a fresh memory location as a distinct integer term.
func (b *Builder) NewAddr() yices2.TermT {
	addr := b.nextAddr
	b.nextAddr++
	return yices2.Int64(addr)
}

func (b *Builder) allocAid() int {
	aid := b.nextAid
	b.nextAid++
	return aid
}

// freshReadVar is the symbolic value a load observes; the rf
// well-formedness axioms pin it to the value of the chosen write.
func (b *Builder) freshReadVar() yices2.TermT {
	term := yices2.NewUninterpretedTerm(yices2.IntType())
	yices2.SetTermName(term, fmt.Sprintf("r%d", b.nextRead))
	b.nextRead++
	return term
}

// Init produces one initializing store, owned by the reserved initial
// thread.
func (b *Builder) Init(addr yices2.TermT, val int64) *memory.PreExecution {
	p := memory.NewPreExecution()
	p.AddInitialAction(memory.NewBmcAction(&memory.Store{
		ID:     b.allocAid(),
		Thread: memory.InitialTid,
		MO:     memory.NA,
		Addr:   addr,
		Wval:   yices2.Int64(val),
	}))
	return p
}

func (b *Builder) Store(tid int, addr yices2.TermT, val int64, mo memory.MemoryOrder) *memory.PreExecution {
	p := memory.NewPreExecution()
	p.AddAction(memory.NewBmcAction(&memory.Store{
		ID:     b.allocAid(),
		Thread: tid,
		MO:     mo,
		Addr:   addr,
		Wval:   yices2.Int64(val),
	}))
	return p
}

func (b *Builder) Load(tid int, addr yices2.TermT, mo memory.MemoryOrder) (*memory.PreExecution, yices2.TermT) {
	rval := b.freshReadVar()
	p := memory.NewPreExecution()
	p.AddAction(memory.NewBmcAction(&memory.Load{
		ID:     b.allocAid(),
		Thread: tid,
		MO:     mo,
		Addr:   addr,
		Rval:   rval,
	}))
	return p, rval
}

// Exchange is an atomic swap: one RMW writing val and observing the
// previous value.
func (b *Builder) Exchange(tid int, addr yices2.TermT, val int64, mo memory.MemoryOrder) (*memory.PreExecution, yices2.TermT) {
	rval := b.freshReadVar()
	p := memory.NewPreExecution()
	p.AddAction(memory.NewBmcAction(&memory.RMW{
		ID:     b.allocAid(),
		Thread: tid,
		MO:     mo,
		Addr:   addr,
		Rval:   rval,
		Wval:   yices2.Int64(val),
	}))
	return p, rval
}

func (b *Builder) Fence(tid int, mo memory.MemoryOrder) *memory.PreExecution {
	p := memory.NewPreExecution()
	p.AddAction(memory.NewBmcAction(&memory.Fence{
		ID:     b.allocAid(),
		Thread: tid,
		MO:     mo,
	}))
	return p
}

// Seq sequences same-thread fragments left to right.
func (b *Builder) Seq(ps ...*memory.PreExecution) *memory.PreExecution {
	if len(ps) == 0 {
		return memory.NewPreExecution()
	}
	combined := ps[0]
	for _, p := range ps[1:] {
		combined = memory.CombinePreExecsAndSb(combined, p)
	}
	return combined
}

// Branch merges the two arms of a conditional: the then arm guarded by
// cond, the else arm by its negation, so exactly one arm is enabled in
// any model.
func (b *Builder) Branch(cond yices2.TermT, thenP, elseP *memory.PreExecution) *memory.PreExecution {
	for _, a := range thenP.Actions {
		a.Polarity = memory.PolarityTrue
	}
	for _, a := range elseP.Actions {
		a.Polarity = memory.PolarityFalse
	}
	return memory.CombinePreExecs(
		memory.GuardPreExec(cond, thenP),
		memory.GuardPreExec(yices2.Not(cond), elseP))
}

// Fork wires children after the creating fragment: candidate asw edges
// run from the creator's program-order-last actions to each child's
// first. Candidates are pruned once, in Finalize, against the full sb.
func (b *Builder) Fork(creator *memory.PreExecution, children ...*memory.PreExecution) *memory.PreExecution {
	ps := append([]*memory.PreExecution{creator}, children...)
	combined := memory.CombinePreExecs(ps...)
	for _, child := range children {
		asw := memory.ComputeASW(
			creator.AllActions(), child.AllActions(),
			creator.Sb, child.Sb, b.children)
		combined.Asw = append(combined.Asw, asw...)
	}
	return combined
}

// Join wires a continuation after finished children: candidate asw
// edges run from each child's last actions to the continuation's first.
func (b *Builder) Join(cont *memory.PreExecution, children ...*memory.PreExecution) *memory.PreExecution {
	ps := append([]*memory.PreExecution{cont}, children...)
	combined := memory.CombinePreExecs(ps...)
	for _, child := range children {
		asw := memory.ComputeASW(
			child.AllActions(), cont.AllActions(),
			child.Sb, cont.Sb, b.children)
		combined.Asw = append(combined.Asw, asw...)
	}
	return combined
}

// Finalize prunes the accumulated asw candidates down to one edge per
// fork/join boundary. The result is what the checker consumes.
func (b *Builder) Finalize(p *memory.PreExecution) *memory.PreExecution {
	p.Asw = memory.FilterASW(p.Asw, p.Sb)
	return p
}
