package model1

// Predicates holds the global search text and the flat predicate map
// rebuilt from the registered columns. Global and per column search are
// mutually exclusive.
type Predicates struct {
	global string
	flat   PredicateMap
}

// NewPredicates returns an empty predicate store.
func NewPredicates() *Predicates {
	return &Predicates{flat: PredicateMap{}}
}

// Global returns the global search text.
func (p *Predicates) Global() string {
	return p.global
}

// Map returns a copy of the current predicate map.
func (p *Predicates) Map() PredicateMap {
	return p.flat.Clone()
}

// Search records input either on col or on the global slot when col is nil
// or not registered. Every other slot is cleared, so a single predicate is
// active at a time.
func (p *Predicates) Search(cols *Columns, input string, col *Column) {
	target := col
	if target != nil && !cols.Has(target) {
		target = nil
	}
	for _, c := range cols.cols {
		c.FilterPredicate = ""
	}
	p.global = ""
	if target != nil {
		target.FilterPredicate = input
	} else {
		p.global = input
	}
	p.Rebuild(cols)
}

// Rebuild regenerates the flat map from the columns and the global slot.
func (p *Predicates) Rebuild(cols *Columns) {
	flat := make(PredicateMap, cols.Len()+1)
	for _, c := range cols.cols {
		flat[c.Map] = c.FilterPredicate
	}
	flat[GlobalPredicate] = p.global
	p.flat = flat
}
