package parquet2bcf

import "fmt"

// VariantKey identifies a biallelic site. Keys compare by exact value: no
// case folding, trimming or left-alignment is applied.
type VariantKey struct {
	Chrom string
	Pos   int64 // 1-based
	Ref   string
	Alt   string
}

func (k VariantKey) String() string {
	return fmt.Sprintf("%s:%d:%s:%s", k.Chrom, k.Pos, k.Ref, k.Alt)
}

// CallRecord is one row of the long-format table: Carrier carries Variant.
type CallRecord struct {
	Variant VariantKey
	Carrier string
}

// CallTable holds the long-format input column by column. All columns have
// the same length; row i is the CallRecord built from index i of each.
type CallTable struct {
	Chrom   []string
	Pos     []int64
	Ref     []string
	Alt     []string
	Carrier []string
}

// Append adds one row.
func (t *CallTable) Append(r CallRecord) {
	t.Chrom = append(t.Chrom, r.Variant.Chrom)
	t.Pos = append(t.Pos, r.Variant.Pos)
	t.Ref = append(t.Ref, r.Variant.Ref)
	t.Alt = append(t.Alt, r.Variant.Alt)
	t.Carrier = append(t.Carrier, r.Carrier)
}

// Len is the number of rows.
func (t *CallTable) Len() int {
	return len(t.Chrom)
}

// Key returns the variant of row i.
func (t *CallTable) Key(i int) VariantKey {
	return VariantKey{Chrom: t.Chrom[i], Pos: t.Pos[i], Ref: t.Ref[i], Alt: t.Alt[i]}
}

// Row returns row i.
func (t *CallTable) Row(i int) CallRecord {
	return CallRecord{Variant: t.Key(i), Carrier: t.Carrier[i]}
}

// Validate checks that the columns line up and that every position is
// 1-based.
func (t *CallTable) Validate() error {
	n := len(t.Chrom)
	if len(t.Pos) != n || len(t.Ref) != n || len(t.Alt) != n || len(t.Carrier) != n {
		return newError(ErrSchema, componentTable, fmt.Errorf("column lengths differ: chrom=%d pos=%d ref=%d alt=%d eid=%d",
			n, len(t.Pos), len(t.Ref), len(t.Alt), len(t.Carrier)))
	}
	for i, pos := range t.Pos {
		if pos < 1 {
			return newRowError(ErrSchema, componentTable, i, fmt.Errorf("position %d is not 1-based", pos))
		}
	}
	return nil
}

// UniqueVariants returns each distinct VariantKey of the table once, in the
// order of its first occurrence. No sorting is applied: the output record
// order is the table order.
func UniqueVariants(t *CallTable) []VariantKey {
	seen := make(map[VariantKey]struct{})
	var unique []VariantKey
	for i := 0; i < t.Len(); i++ {
		k := t.Key(i)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	return unique
}
