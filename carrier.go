package parquet2bcf

// CarrierSet is the set of sample identifiers observed carrying one variant.
type CarrierSet map[string]struct{}

// Contains reports whether id was observed as a carrier.
func (s CarrierSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// CarrierIndex groups carrier identifiers by variant. It is built with one
// pass over the call table and is read-only afterwards.
type CarrierIndex struct {
	sets  map[VariantKey]CarrierSet
	calls int
}

// BuildCarrierIndex groups every row of t under its VariantKey. Repeated
// (variant, carrier) rows collapse into one set member.
func BuildCarrierIndex(t *CallTable) *CarrierIndex {
	ci := &CarrierIndex{
		sets: make(map[VariantKey]CarrierSet),
	}
	for i := 0; i < t.Len(); i++ {
		k := t.Key(i)
		set, ok := ci.sets[k]
		if !ok {
			set = make(CarrierSet, 1)
			ci.sets[k] = set
		}
		set[t.Carrier[i]] = struct{}{}
	}
	ci.calls = t.Len()
	return ci
}

// Carriers returns the carrier set of k, or nil if k never occurred. The set
// belongs to the index and must not be modified.
func (ci *CarrierIndex) Carriers(k VariantKey) CarrierSet {
	return ci.sets[k]
}

// Len is the number of distinct variants indexed.
func (ci *CarrierIndex) Len() int {
	return len(ci.sets)
}

// Calls is the number of rows the index was built from.
func (ci *CarrierIndex) Calls() int {
	return ci.calls
}
