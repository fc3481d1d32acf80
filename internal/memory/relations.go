package memory

// Relation-combination utilities used to derive the unique
// synchronization edges at fork/join boundaries.

// ComputeMaximal returns the aids of actions with no outgoing edge in
// rel restricted to actions: the program-order-last actions of a
// fragment.
func ComputeMaximal(actions []*BmcAction, rel []Edge) *AidSet {
	inFragment := NewAidSet()
	for _, a := range actions {
		inFragment.Add(a.Aid())
	}
	maximal := NewAidSet()
	for _, a := range actions {
		maximal.Add(a.Aid())
	}
	for _, edge := range rel {
		if inFragment.Contains(edge.From.Aid()) && inFragment.Contains(edge.To.Aid()) {
			maximal.remove(edge.From.Aid())
		}
	}
	return maximal
}

// ComputeMinimal returns the aids of actions with no incoming edge in
// rel restricted to actions: the program-order-first actions of a
// fragment.
func ComputeMinimal(actions []*BmcAction, rel []Edge) *AidSet {
	inFragment := NewAidSet()
	for _, a := range actions {
		inFragment.Add(a.Aid())
	}
	minimal := NewAidSet()
	for _, a := range actions {
		minimal.Add(a.Aid())
	}
	for _, edge := range rel {
		if inFragment.Contains(edge.From.Aid()) && inFragment.Contains(edge.To.Aid()) {
			minimal.remove(edge.To.Aid())
		}
	}
	return minimal
}

func (set *AidSet) remove(aid int) {
	delete(set.elements, aid)
}

// ComputeASW over-approximates the additional-synchronizes-with edges
// between two fragments. An edge (x,y) is included iff the threads are
// in a parent/child relation (either direction, covering creation and
// join), x is maximal in xs under sbXs and y is minimal in ys under
// sbYs. Several candidate edges may survive per boundary; FilterASW
// prunes them down to one.
func ComputeASW(xs, ys []*BmcAction, sbXs, sbYs []Edge, children map[int][]int) []Edge {
	maximal := ComputeMaximal(xs, sbXs)
	minimal := ComputeMinimal(ys, sbYs)
	var asw []Edge
	for _, x := range xs {
		if !maximal.Contains(x.Aid()) {
			continue
		}
		for _, y := range ys {
			if !minimal.Contains(y.Aid()) {
				continue
			}
			if !isChildOf(children, x.Tid(), y.Tid()) && !isChildOf(children, y.Tid(), x.Tid()) {
				continue
			}
			asw = append(asw, Edge{From: x, To: y})
		}
	}
	return asw
}

func isChildOf(children map[int][]int, parent, tid int) bool {
	for _, child := range children[parent] {
		if child == tid {
			return true
		}
	}
	return false
}

// FilterASW prunes dominated asw candidates, keeping only the edge
// closest to the actual fork/join boundary: (a,b) is dropped when a
// sharper edge (a,y) exists with (y,b) in sb, or a sharper edge (x,b)
// exists with (a,x) in sb. Post-condition: exactly one surviving edge
// per true fork/join boundary.
func FilterASW(asw, sb []Edge) []Edge {
	sbPairs := make(map[[2]int]struct{}, len(sb))
	for _, edge := range sb {
		sbPairs[[2]int{edge.From.Aid(), edge.To.Aid()}] = struct{}{}
	}
	inSb := func(from, to int) bool {
		_, ok := sbPairs[[2]int{from, to}]
		return ok
	}
	var kept []Edge
	for _, candidate := range asw {
		dominated := false
		for _, other := range asw {
			if other == candidate {
				continue
			}
			if other.From.Aid() == candidate.From.Aid() && inSb(other.To.Aid(), candidate.To.Aid()) {
				dominated = true
				break
			}
			if other.To.Aid() == candidate.To.Aid() && inSb(candidate.From.Aid(), other.From.Aid()) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, candidate)
		}
	}
	return kept
}
