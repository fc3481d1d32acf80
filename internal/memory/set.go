package memory

// AidSet is a set of action ids.
type AidSet struct {
	elements map[int]struct{}
}

func NewAidSet(elements ...int) *AidSet {
	s := &AidSet{
		elements: make(map[int]struct{}, len(elements)),
	}
	for _, elem := range elements {
		s.elements[elem] = struct{}{}
	}
	return s
}

func (set *AidSet) Add(aid int) {
	set.elements[aid] = struct{}{}
}

func (set *AidSet) Contains(aid int) bool {
	_, ok := set.elements[aid]
	return ok
}

func (set *AidSet) Len() int {
	return len(set.elements)
}
