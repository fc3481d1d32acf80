package axiomatic

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"

	"github.com/scuellar/cerberus/internal/memory"
)

// fr and eco are derived boolean expressions over rf and mo; they are
// rebuilt wherever needed rather than stored as relations.

// frExpr: from-reads. fr(a,b) iff a reads, a and b differ, and the
// write a reads from is mo-before b.
func (e *Encoding) frExpr(i, j int) yices2.TermT {
	if !memory.IsRead(e.action(i)) || i == j {
		return yices2.False()
	}
	return e.moRel.Apply(e.rfInv.Apply(e.events[i]), e.events[j])
}

// ecoExpr: extended coherence order, rf ∪ mo ∪ fr ∪ mo;rf ∪ fr;rf with
// enabled intermediates.
func (e *Encoding) ecoExpr(i, j int) yices2.TermT {
	disjuncts := []yices2.TermT{
		e.rfRel.Apply(e.events[i], e.events[j]),
		e.moRel.Apply(e.events[i], e.events[j]),
		e.frExpr(i, j),
	}
	for c := range e.all {
		if c == i || !memory.IsWrite(e.action(c)) {
			continue
		}
		throughMo := yices2.And([]yices2.TermT{
			e.guard(c),
			e.moRel.Apply(e.events[i], e.events[c]),
			e.rfRel.Apply(e.events[c], e.events[j]),
		})
		throughFr := yices2.And([]yices2.TermT{
			e.guard(c),
			e.frExpr(i, c),
			e.rfRel.Apply(e.events[c], e.events[j]),
		})
		disjuncts = append(disjuncts, throughMo, throughFr)
	}
	return orTerms(disjuncts)
}

// scbExpr: the SC-before relation feeding psc_base. sb, or sb;hb;sb
// with the hb hop between different locations, or same-location hb, or
// mo, or fr. Restricting the hop keeps same-location hb pairs out of
// the middle, so SC events related only through them stay unordered;
// fences carry no address and always qualify.
func (e *Encoding) scbExpr(i, j int) yices2.TermT {
	disjuncts := []yices2.TermT{
		e.sbRel.Apply(e.events[i], e.events[j]),
		yices2.And2(e.hbRel.Apply(e.events[i], e.events[j]), e.sameAddr(i, j)),
		e.moRel.Apply(e.events[i], e.events[j]),
		e.frExpr(i, j),
	}
	for c := range e.all {
		if !e.inSb(i, c) {
			continue
		}
		for d := range e.all {
			if !e.inSb(d, j) {
				continue
			}
			disjuncts = append(disjuncts, yices2.And([]yices2.TermT{
				e.guard(c),
				e.guard(d),
				e.hbRel.Apply(e.events[c], e.events[d]),
				yices2.Not(e.sameAddr(c, d)),
			}))
		}
	}
	return orTerms(disjuncts)
}
