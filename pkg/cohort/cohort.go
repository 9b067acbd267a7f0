package cohort

import (
	"github.com/matzehuels/consort/pkg/errors"
)

// Dataset is a column-oriented table of integer fields with one record per
// subject. Fields keep their insertion order so that exports and counts are
// deterministic.
type Dataset struct {
	fields map[string][]int
	order  []string
	n      int
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{fields: make(map[string][]int)}
}

// AddField appends a named column of per-subject values.
//
// The first field added fixes the dataset length; every subsequent field must
// have the same number of values. Adding a duplicate field name or a
// mismatched length returns an INVALID_DATASET error.
func (d *Dataset) AddField(name string, values []int) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidDataset, "field name must not be empty")
	}
	if _, exists := d.fields[name]; exists {
		return errors.New(errors.ErrCodeInvalidDataset, "duplicate field %q", name)
	}
	if len(d.order) > 0 && len(values) != d.n {
		return errors.New(errors.ErrCodeInvalidDataset,
			"field %q has %d values, dataset has %d subjects", name, len(values), d.n)
	}
	if len(d.order) == 0 {
		d.n = len(values)
	}
	copied := make([]int, len(values))
	copy(copied, values)
	d.fields[name] = copied
	d.order = append(d.order, name)
	return nil
}

// Has reports whether the dataset contains a field with the given name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// Field returns the values of a named column. The returned slice is shared
// with the dataset and must be treated as read-only.
func (d *Dataset) Field(name string) ([]int, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// Fields returns the field names in insertion order.
func (d *Dataset) Fields() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of subjects.
func (d *Dataset) Len() int {
	return d.n
}

// CountBy counts subjects per value of the named field. Zero values mark
// absent subjects and are not counted. The second return value is false if
// the field does not exist.
func (d *Dataset) CountBy(name string) (map[int]int, bool) {
	values, ok := d.fields[name]
	if !ok {
		return nil, false
	}
	counts := make(map[int]int)
	for _, v := range values {
		if v != 0 {
			counts[v]++
		}
	}
	return counts, true
}

// PairKey identifies a (column, reason) combination in an exclusion
// breakdown.
type PairKey struct {
	Column int
	Reason int
}

// CountPairs counts subjects per (columnField value, reasonField value)
// pair, skipping subjects whose reason is zero. The second return value is
// false if either field does not exist.
func (d *Dataset) CountPairs(columnField, reasonField string) (map[PairKey]int, bool) {
	cols, ok := d.fields[columnField]
	if !ok {
		return nil, false
	}
	reasons, ok := d.fields[reasonField]
	if !ok {
		return nil, false
	}
	counts := make(map[PairKey]int)
	for i, r := range reasons {
		if r == 0 {
			continue
		}
		counts[PairKey{Column: cols[i], Reason: r}]++
	}
	return counts, true
}
