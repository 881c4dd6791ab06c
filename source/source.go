// Package source holds locations in checked files and the origin lists attached to types
package source

import (
	"fmt"
	"iter"
)

// Loc is a half-open byte range [Begin, End) inside File
type Loc struct {
	File       string
	Begin, End uint32
}

// NoLoc is used when a type is not attributable to any source location
var NoLoc = Loc{}

func (l Loc) Exists() bool { return l.File != "" }

// Join returns the smallest Loc spanning both l and other, which must be in the same file
func (l Loc) Join(other Loc) Loc {
	if !l.Exists() {
		return other
	}
	if !other.Exists() {
		return l
	}
	return Loc{File: l.File, Begin: min(l.Begin, other.Begin), End: max(l.End, other.End)}
}

func (l Loc) String() string {
	if !l.Exists() {
		return "<no loc>"
	}
	if l.Begin == l.End {
		return fmt.Sprintf("%s:%d", l.File, l.Begin)
	}
	return fmt.Sprintf("%s:%d-%d", l.File, l.Begin, l.End)
}

const inlineOrigins = 2

// Origins is a list of Loc that keeps its first two entries inline and
// only allocates once it grows past that.
//
// The zero value is an empty list. Origins has value semantics up to the
// inline capacity; copies made after spilling share their overflow storage,
// so a copy should not be appended to if the original is still in use.
type Origins struct {
	inline [inlineOrigins]Loc
	n      int
	spill  []Loc
}

func OriginsOf(locs ...Loc) Origins {
	var o Origins
	for _, l := range locs {
		o.Add(l)
	}
	return o
}

func (o *Origins) Add(l Loc) {
	if o.n < inlineOrigins {
		o.inline[o.n] = l
		o.n++
		return
	}
	o.spill = append(o.spill, l)
}

// Merge appends all entries of other that are not already present
func (o *Origins) Merge(other Origins) {
	for l := range other.All() {
		if !o.Contains(l) {
			o.Add(l)
		}
	}
}

func (o Origins) Contains(l Loc) bool {
	for existing := range o.All() {
		if existing == l {
			return true
		}
	}
	return false
}

func (o Origins) Len() int { return o.n + len(o.spill) }

// Spilled reports whether the list outgrew its inline storage
func (o Origins) Spilled() bool { return len(o.spill) > 0 }

func (o Origins) At(i int) Loc {
	if i < o.n {
		return o.inline[i]
	}
	return o.spill[i-o.n]
}

func (o Origins) All() iter.Seq[Loc] {
	return func(yield func(Loc) bool) {
		for i := 0; i < o.n; i++ {
			if !yield(o.inline[i]) {
				return
			}
		}
		for _, l := range o.spill {
			if !yield(l) {
				return
			}
		}
	}
}

func (o Origins) Slice() []Loc {
	out := make([]Loc, 0, o.Len())
	for l := range o.All() {
		out = append(out, l)
	}
	return out
}
