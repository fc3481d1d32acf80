package memory

import "fmt"

// MemoryOrder is the C11 memory order of an atomic action. NA marks a
// plain non-atomic access.
type MemoryOrder int

const (
	NA MemoryOrder = iota
	Relaxed
	Consume
	Release
	Acquire
	AcqRel
	SeqCst
)

func (mo MemoryOrder) String() string {
	switch mo {
	case NA:
		return "na"
	case Relaxed:
		return "rlx"
	case Consume:
		return "con"
	case Release:
		return "rel"
	case Acquire:
		return "acq"
	case AcqRel:
		return "acq_rel"
	case SeqCst:
		return "sc"
	}
	return fmt.Sprintf("order(%d)", int(mo))
}

func (mo MemoryOrder) IsAtomic() bool {
	return mo != NA
}

func (mo MemoryOrder) IsSeqCst() bool {
	return mo == SeqCst
}

// AtLeastRelease reports whether a store or fence with this order has
// release semantics.
func (mo MemoryOrder) AtLeastRelease() bool {
	mo.mustBeSupported()
	return mo == Release || mo == AcqRel || mo == SeqCst
}

// AtLeastAcquire reports whether a load or fence with this order has
// acquire semantics.
func (mo MemoryOrder) AtLeastAcquire() bool {
	mo.mustBeSupported()
	return mo == Acquire || mo == AcqRel || mo == SeqCst
}

// mustBeSupported rejects the one order the model does not cover.
// Consume is deliberately not aliased to Acquire; hitting it means the
// producer handed us a program outside the modeled fragment.
func (mo MemoryOrder) mustBeSupported() {
	if mo == Consume {
		panic("memory: consume memory order is unsupported")
	}
}
