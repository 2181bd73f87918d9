package loop

import "math"

// Table maps the logical indices of a contiguous slot pool to their vertical
// translation. It is written by [Layout] once per tick and read by whoever
// renders the slots.
type Table struct {
	first int
	ys    []float64
}

// First returns the index of the first entry.
func (t *Table) First() int {
	return t.first
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.ys)
}

// Lookup returns the translation for index.
func (t *Table) Lookup(index int) (float64, bool) {
	i := index - t.first
	if i < 0 || i >= len(t.ys) {
		return 0, false
	}
	return t.ys[i], true
}

// Resize re-targets the table at count entries starting at first. Entries for
// indices that were already present keep their value; new entries are seeded
// with seed so freshly realized slots show up at the current offset.
func (t *Table) Resize(first, count int, seed float64) {
	if count < 0 {
		count = 0
	}
	ys := make([]float64, count)
	for i := range ys {
		if y, ok := t.Lookup(first + i); ok {
			ys[i] = y
		} else {
			ys[i] = seed
		}
	}
	t.first = first
	t.ys = ys
}

func (t *Table) fill(from, to int, y float64) {
	for i := max(from, 0); i < to && i < len(t.ys); i++ {
		t.ys[i] = y
	}
}

// Layout assigns a translation to every slot of a pool so that the pool reads
// as one seamless strip. In loop mode the pool is split in two groups; one of
// them is shifted by a whole cycle so wrapped slots land just outside the
// opposite edge of the viewport. The pool itself is never reordered.
type Layout struct {
	table Table
}

// Table returns the table written by the last call to Place.
func (l *Layout) Table() *Table {
	return &l.table
}

// Split returns the first slot position of the "before" group for the given
// offset, item height and slot count. Slots in [split, count) form the
// "before" group, slots in [0, split) the "after" group.
func Split(offset, height float64, count int) int {
	separators := int(math.Abs(offset) / height)
	split := separators
	if offset > 0 {
		split = count - separators - 1
		// An item exactly on the boundary belongs to the group it is
		// moving into.
		if math.Mod(offset, height) == 0 {
			split++
		}
	}
	return min(max(split, 0), count)
}

// Place writes the translations for a pool of count slots whose first slot
// is bound to index first. length is the loop cycle (shownCount × height).
func (l *Layout) Place(first, count int, offset, height, length float64, loop bool) {
	if len(l.table.ys) != count || l.table.first != first {
		l.table.Resize(first, count, offset)
	}
	if !loop || height <= 0 || length <= 0 {
		l.table.fill(0, count, offset)
		return
	}

	split := Split(offset, height, count)
	before, after := offset, offset+length
	if offset > 0 {
		before, after = offset-length, offset
	}
	l.table.fill(split, count, before)
	l.table.fill(0, split, after)
}
