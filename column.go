package htmltable

import "strconv"

// ColumnRef refers to a column either by its resolved key name or by its
// zero-based position. A name reference never matches a position and a
// position reference never matches a name.
type ColumnRef struct {
	name    string
	index   int
	byIndex bool
}

// NameRef returns a reference to the column whose key is name.
func NameRef(name string) ColumnRef {
	return ColumnRef{name: name}
}

// IndexRef returns a reference to the column at zero-based position i.
func IndexRef(i int) ColumnRef {
	return ColumnRef{index: i, byIndex: true}
}

// ParseColumnRef interprets s as a position when it is a non-negative
// decimal integer and as a name otherwise.
func ParseColumnRef(s string) ColumnRef {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && strconv.Itoa(n) == s {
		return IndexRef(n)
	}
	return NameRef(s)
}

// Name returns the referenced name and true for a name reference.
func (r ColumnRef) Name() (string, bool) {
	return r.name, !r.byIndex
}

// Index returns the referenced position and true for a position reference.
func (r ColumnRef) Index() (int, bool) {
	return r.index, r.byIndex
}

// String returns the name, or the position in decimal.
func (r ColumnRef) String() string {
	if r.byIndex {
		return strconv.Itoa(r.index)
	}
	return r.name
}

// ColumnSet is a set of column references used to include or exclude columns.
type ColumnSet []ColumnRef

// Matches reports whether any entry refers to the column with the given
// resolved key or position.
func (s ColumnSet) Matches(key Key, position int) bool {
	for _, ref := range s {
		if ref.byIndex {
			if ref.index == position {
				return true
			}
			continue
		}
		if name, ok := key.Name(); ok && name == ref.name {
			return true
		}
	}
	return false
}
