package memory

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// Polarity records which branch outcome produced an action.
type Polarity int

const (
	PolarityNone Polarity = iota
	PolarityTrue
	PolarityFalse
)

// BmcAction pairs an action with the path condition under which it is
// enabled. Guards accumulate by conjunction as branches and threads are
// composed; the encoder turns the guard into a per-event enabledness
// predicate, so a disabled action stays structurally present but
// logically inert.
type BmcAction struct {
	Polarity Polarity
	Guard    yices2.TermT
	Action   Action
}

func NewBmcAction(a Action) *BmcAction {
	return &BmcAction{
		Polarity: PolarityNone,
		Guard:    yices2.True(),
		Action:   a,
	}
}

func (b *BmcAction) Aid() int {
	return b.Action.Aid()
}

func (b *BmcAction) Tid() int {
	return b.Action.Tid()
}

func (b *BmcAction) String() string {
	return b.Action.String()
}

// Edge is one ordered pair of a pre-execution relation.
type Edge struct {
	From *BmcAction
	To   *BmcAction
}

// PreExecution is the set of actions a program may perform together
// with per-thread program order (sb) and thread-creation/join edges
// (asw). It is assembled incrementally by the producer, combined by
// union, and consumed exactly once by the encoder. List order of
// Actions carries no ordering meaning; real ordering comes only from
// sb and asw.
type PreExecution struct {
	Actions        []*BmcAction
	InitialActions []*BmcAction
	Sb             []Edge
	Asw            []Edge
}

func NewPreExecution() *PreExecution {
	return &PreExecution{}
}

func (p *PreExecution) AddAction(a *BmcAction) {
	p.Actions = append(p.Actions, a)
}

func (p *PreExecution) AddInitialAction(a *BmcAction) {
	p.InitialActions = append(p.InitialActions, a)
}

func (p *PreExecution) AddSbEdge(from, to *BmcAction) {
	p.Sb = append(p.Sb, Edge{From: from, To: to})
}

func (p *PreExecution) AddAswEdge(from, to *BmcAction) {
	p.Asw = append(p.Asw, Edge{From: from, To: to})
}

// AllActions returns actions and initial actions in one slice, initial
// actions first.
func (p *PreExecution) AllActions() []*BmcAction {
	all := make([]*BmcAction, 0, len(p.InitialActions)+len(p.Actions))
	all = append(all, p.InitialActions...)
	all = append(all, p.Actions...)
	return all
}

// GuardPreExec conjoins guard onto the existing guard of every action
// of p. Merging the two arms of a conditional guards each arm with the
// branch condition so only one arm is enabled in any given model.
func GuardPreExec(guard yices2.TermT, p *PreExecution) *PreExecution {
	for _, a := range p.Actions {
		a.Guard = yices2.And2(guard, a.Guard)
	}
	return p
}

// CombinePreExecs unions actions, initial actions, sb and asw of a list
// of pre-executions. No deduplication: callers guarantee disjoint aids.
func CombinePreExecs(ps ...*PreExecution) *PreExecution {
	combined := NewPreExecution()
	for _, p := range ps {
		combined.Actions = append(combined.Actions, p.Actions...)
		combined.InitialActions = append(combined.InitialActions, p.InitialActions...)
		combined.Sb = append(combined.Sb, p.Sb...)
		combined.Asw = append(combined.Asw, p.Asw...)
	}
	return combined
}

// CombinePreExecsAndSb sequences p2 after p1: the union of both, plus
// an sb edge from every action of p1 to every action of p2 within the
// same thread.
func CombinePreExecsAndSb(p1, p2 *PreExecution) *PreExecution {
	combined := CombinePreExecs(p1, p2)
	for _, from := range p1.Actions {
		for _, to := range p2.Actions {
			if from.Tid() != to.Tid() {
				continue
			}
			combined.AddSbEdge(from, to)
		}
	}
	return combined
}
