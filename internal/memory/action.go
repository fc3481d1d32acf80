package memory

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// InitialTid is the reserved thread id of actions that initialize
// memory before any thread runs.
const InitialTid = 0

// Action is one memory action of the program under analysis. Aid is
// globally unique across a pre-execution; uniqueness is the producer's
// contract, allocation order carries no meaning here.
type Action interface {
	Aid() int
	Tid() int
	Order() MemoryOrder
	String() string
}

type Load struct {
	ID     int
	Thread int
	MO     MemoryOrder
	Addr   yices2.TermT
	Rval   yices2.TermT
}

type Store struct {
	ID     int
	Thread int
	MO     MemoryOrder
	Addr   yices2.TermT
	Wval   yices2.TermT
}

// RMW is an atomic read-modify-write: one action that both reads and
// writes the same address.
type RMW struct {
	ID     int
	Thread int
	MO     MemoryOrder
	Addr   yices2.TermT
	Rval   yices2.TermT
	Wval   yices2.TermT
}

type Fence struct {
	ID     int
	Thread int
	MO     MemoryOrder
}

func (a *Load) Aid() int           { return a.ID }
func (a *Load) Tid() int           { return a.Thread }
func (a *Load) Order() MemoryOrder { return a.MO }
func (a *Load) String() string     { return fmt.Sprintf("a%d: R_%s", a.ID, a.MO) }

func (a *Store) Aid() int           { return a.ID }
func (a *Store) Tid() int           { return a.Thread }
func (a *Store) Order() MemoryOrder { return a.MO }
func (a *Store) String() string     { return fmt.Sprintf("a%d: W_%s", a.ID, a.MO) }

func (a *RMW) Aid() int           { return a.ID }
func (a *RMW) Tid() int           { return a.Thread }
func (a *RMW) Order() MemoryOrder { return a.MO }
func (a *RMW) String() string     { return fmt.Sprintf("a%d: RMW_%s", a.ID, a.MO) }

func (a *Fence) Aid() int           { return a.ID }
func (a *Fence) Tid() int           { return a.Thread }
func (a *Fence) Order() MemoryOrder { return a.MO }
func (a *Fence) String() string     { return fmt.Sprintf("a%d: F_%s", a.ID, a.MO) }

// IsRead reports whether the action observes a value.
func IsRead(a Action) bool {
	switch a.(type) {
	case *Load, *RMW:
		return true
	}
	return false
}

// IsWrite reports whether the action produces a value.
func IsWrite(a Action) bool {
	switch a.(type) {
	case *Store, *RMW:
		return true
	}
	return false
}

func HasAddress(a Action) bool {
	_, ok := a.(*Fence)
	return !ok
}

func AddressOf(a Action) yices2.TermT {
	switch act := a.(type) {
	case *Load:
		return act.Addr
	case *Store:
		return act.Addr
	case *RMW:
		return act.Addr
	}
	panic(fmt.Sprintf("memory: action a%d has no address", a.Aid()))
}

func ReadValueOf(a Action) yices2.TermT {
	switch act := a.(type) {
	case *Load:
		return act.Rval
	case *RMW:
		return act.Rval
	}
	panic(fmt.Sprintf("memory: action a%d has no read value", a.Aid()))
}

func WriteValueOf(a Action) yices2.TermT {
	switch act := a.(type) {
	case *Store:
		return act.Wval
	case *RMW:
		return act.Wval
	}
	panic(fmt.Sprintf("memory: action a%d has no write value", a.Aid()))
}

// Kind codes used by the encoder's event-type accessor.
const (
	KindLoad = iota
	KindStore
	KindRMW
	KindFence
)

func KindOf(a Action) int {
	switch a.(type) {
	case *Load:
		return KindLoad
	case *Store:
		return KindStore
	case *RMW:
		return KindRMW
	case *Fence:
		return KindFence
	}
	panic("memory: unknown action kind")
}
