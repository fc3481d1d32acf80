package litmus

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"

	"github.com/scuellar/cerberus/internal/memory"
)

// Program is one built-in litmus test: a pre-execution producer plus
// the behavior the checker is expected to report. Build must run after
// the solver library is initialized, so it is a closure, not a value.
type Program struct {
	Name        string
	Description string
	Build       func() (*memory.PreExecution, yices2.TermT)
	Expect      Expectation
}

// Expectation pins down the report for a program. Executions below
// zero, or a nil Returns, leaves that part unchecked.
type Expectation struct {
	Executions int
	HasRace    bool
	Returns    []int64
}

// Programs returns the built-in litmus tests.
func Programs() []Program {
	return []Program{
		{
			Name:        "empty",
			Description: "no actions: exactly one vacuous execution",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				return memory.NewPreExecution(), yices2.Zero()
			},
			Expect: Expectation{Executions: 1, HasRace: false, Returns: []int64{0}},
		},
		{
			Name:        "racy-writes",
			Description: "two plain writes to the same location on different threads",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				p := b.Finalize(b.Fork(
					b.Init(x, 0),
					b.Store(t1, x, 1, memory.NA),
					b.Store(t2, x, 2, memory.NA)))
				return p, yices2.Zero()
			},
			// One execution per modification order of the two writes,
			// each a data race.
			Expect: Expectation{Executions: 2, HasRace: true, Returns: []int64{0}},
		},
		{
			Name:        "unseq",
			Description: "two same-thread writes with no sb between them",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				unordered := memory.CombinePreExecs(
					b.Store(t1, x, 1, memory.NA),
					b.Store(t1, x, 2, memory.NA))
				p := b.Finalize(b.Fork(b.Init(x, 0), unordered))
				return p, yices2.Zero()
			},
			Expect: Expectation{Executions: 2, HasRace: true, Returns: []int64{0}},
		},
		{
			Name:        "store-load",
			Description: "same-thread store then load: the load sees the store",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				load, r1 := b.Load(t1, x, memory.Relaxed)
				p := b.Finalize(b.Fork(
					b.Init(x, 0),
					b.Seq(b.Store(t1, x, 1, memory.Relaxed), load)))
				return p, r1
			},
			Expect: Expectation{Executions: 1, HasRace: false, Returns: []int64{1}},
		},
		{
			Name:        "handoff",
			Description: "release store handed to a forked thread's acquire load",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(t1)
				load, r1 := b.Load(t2, x, memory.Acquire)
				p := b.Finalize(b.Fork(
					b.Init(x, 0),
					b.Fork(b.Store(t1, x, 1, memory.Release), load)))
				return p, r1
			},
			Expect: Expectation{Executions: 1, HasRace: false, Returns: []int64{1}},
		},
		{
			Name:        "mp",
			Description: "message passing through a release/acquire flag",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				y := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				flagLoad, r1 := b.Load(t2, y, memory.Acquire)
				dataLoad, _ := b.Load(t2, x, memory.NA)
				p := b.Finalize(b.Fork(
					memory.CombinePreExecs(b.Init(x, 0), b.Init(y, 0)),
					b.Seq(
						b.Store(t1, x, 1, memory.NA),
						b.Store(t1, y, 1, memory.Release)),
					b.Seq(
						flagLoad,
						b.Branch(yices2.Eq(r1, yices2.Int64(1)), dataLoad, memory.NewPreExecution()))))
				return p, r1
			},
			Expect: Expectation{Executions: 2, HasRace: false, Returns: []int64{0, 1}},
		},
		{
			Name:        "fenced-mp",
			Description: "message passing through relaxed accesses and rel/acq fences",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				y := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				flagLoad, r1 := b.Load(t2, y, memory.Relaxed)
				dataLoad, _ := b.Load(t2, x, memory.NA)
				p := b.Finalize(b.Fork(
					memory.CombinePreExecs(b.Init(x, 0), b.Init(y, 0)),
					b.Seq(
						b.Store(t1, x, 1, memory.NA),
						b.Fence(t1, memory.Release),
						b.Store(t1, y, 1, memory.Relaxed)),
					b.Seq(
						flagLoad,
						b.Fence(t2, memory.Acquire),
						b.Branch(yices2.Eq(r1, yices2.Int64(1)), dataLoad, memory.NewPreExecution()))))
				return p, r1
			},
			Expect: Expectation{Executions: 2, HasRace: false, Returns: []int64{0, 1}},
		},
		{
			Name:        "sb",
			Description: "store buffering with seq_cst accesses",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				y := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				loadY, r1 := b.Load(t1, y, memory.SeqCst)
				loadX, r2 := b.Load(t2, x, memory.SeqCst)
				p := b.Finalize(b.Fork(
					memory.CombinePreExecs(b.Init(x, 0), b.Init(y, 0)),
					b.Seq(b.Store(t1, x, 1, memory.SeqCst), loadY),
					b.Seq(b.Store(t2, y, 1, memory.SeqCst), loadX)))
				return p, yices2.Add(yices2.Mul(yices2.Int32(2), r1), r2)
			},
			// r1=r2=0 is forbidden by the partial-SC axiom.
			Expect: Expectation{Executions: 3, HasRace: false, Returns: []int64{1, 2, 3}},
		},
		{
			Name:        "fenced-sb",
			Description: "store buffering with relaxed accesses and seq_cst fences",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				y := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				loadY, r1 := b.Load(t1, y, memory.Relaxed)
				loadX, r2 := b.Load(t2, x, memory.Relaxed)
				p := b.Finalize(b.Fork(
					memory.CombinePreExecs(b.Init(x, 0), b.Init(y, 0)),
					b.Seq(b.Store(t1, x, 1, memory.Relaxed), b.Fence(t1, memory.SeqCst), loadY),
					b.Seq(b.Store(t2, y, 1, memory.Relaxed), b.Fence(t2, memory.SeqCst), loadX)))
				return p, yices2.Add(yices2.Mul(yices2.Int32(2), r1), r2)
			},
			// The fences restore SC for this shape: r1=r2=0 would need
			// both fences ordered before each other.
			Expect: Expectation{Executions: 3, HasRace: false, Returns: []int64{1, 2, 3}},
		},
		{
			Name:        "lb",
			Description: "load buffering with relaxed accesses",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				y := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				loadX, r1 := b.Load(t1, x, memory.Relaxed)
				loadY, r2 := b.Load(t2, y, memory.Relaxed)
				p := b.Finalize(b.Fork(
					memory.CombinePreExecs(b.Init(x, 0), b.Init(y, 0)),
					b.Seq(loadX, b.Store(t1, y, 1, memory.Relaxed)),
					b.Seq(loadY, b.Store(t2, x, 1, memory.Relaxed))))
				return p, yices2.Add(yices2.Mul(yices2.Int32(2), r1), r2)
			},
			// r1=r2=1 needs a cycle in sb ∪ rf, which the acyclicity
			// clock rules out.
			Expect: Expectation{Executions: 3, HasRace: false, Returns: []int64{0, 1, 2}},
		},
		{
			Name:        "corr",
			Description: "coherence of read-read: later reads never go backwards in mo",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				load1, r1 := b.Load(t2, x, memory.Relaxed)
				load2, r2 := b.Load(t2, x, memory.Relaxed)
				p := b.Finalize(b.Fork(
					b.Init(x, 0),
					b.Store(t1, x, 1, memory.Relaxed),
					b.Seq(load1, load2)))
				return p, yices2.Add(yices2.Mul(yices2.Int32(2), r1), r2)
			},
			// r1=1, r2=0 is the forbidden outcome.
			Expect: Expectation{Executions: 3, HasRace: false, Returns: []int64{0, 1, 3}},
		},
		{
			Name:        "exchange",
			Description: "two atomic swaps: each reads the mo-immediately preceding write",
			Build: func() (*memory.PreExecution, yices2.TermT) {
				b := NewBuilder()
				x := b.NewAddr()
				t1 := b.NewThread(memory.InitialTid)
				t2 := b.NewThread(memory.InitialTid)
				swap1, r1 := b.Exchange(t1, x, 1, memory.Relaxed)
				swap2, _ := b.Exchange(t2, x, 2, memory.Relaxed)
				p := b.Finalize(b.Fork(b.Init(x, 0), swap1, swap2))
				return p, r1
			},
			Expect: Expectation{Executions: 2, HasRace: false, Returns: []int64{0, 2}},
		},
	}
}

// Lookup finds a built-in program by name.
func Lookup(name string) (Program, bool) {
	for _, p := range Programs() {
		if p.Name == name {
			return p, true
		}
	}
	return Program{}, false
}
