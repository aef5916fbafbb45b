// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pareto

import "sort"

// Bag is an anti-chain of labels at a single node: no member dominates
// another. Members are kept sorted by the primary criterion so dominance
// scans can stop early.
type Bag struct {
	labels []*Label
}

// NewBag returns an empty bag
func NewBag() *Bag {
	return &Bag{}
}

// Size returns the number of labels in the bag
func (b *Bag) Size() int {
	return len(b.labels)
}

// Labels returns the bag's members, ordered by the primary criterion.
// The slice is owned by the bag and must not be modified.
func (b *Bag) Labels() []*Label {
	return b.labels
}

// Contains reports whether the exact label (by identity) is still a
// member. The MLC engine uses this to discard queue entries that were
// displaced by a dominating insertion.
func (b *Bag) Contains(l *Label) bool {
	for _, m := range b.labels {
		if m == l {
			return true
		}
	}
	return false
}

// Insert adds the label unless an existing member dominates it. Members
// dominated by the new label are removed. Returns true iff the label was
// added.
func (b *Bag) Insert(l *Label) bool {
	// members are sorted by Values[0]; anything past the candidate's
	// primary value cannot dominate it
	pos := sort.Search(len(b.labels), func(i int) bool {
		return l.Less(b.labels[i])
	})

	for _, m := range b.labels[:pos] {
		if m.Dominates(l) {
			return false
		}
	}

	// a member with a larger primary value cannot dominate the candidate,
	// but may be dominated by it
	kept := b.labels[:pos:pos]
	for _, m := range b.labels[pos:] {
		if !l.Dominates(m) {
			kept = append(kept, m)
		}
	}

	b.labels = append(kept, nil)
	insertAt := sort.Search(len(b.labels)-1, func(i int) bool {
		return l.Less(b.labels[i])
	})
	copy(b.labels[insertAt+1:], b.labels[insertAt:])
	b.labels[insertAt] = l
	return true
}

// Merge inserts every member of other; returns true iff anything was added
func (b *Bag) Merge(other *Bag) bool {
	added := false
	for _, l := range other.labels {
		if b.Insert(l.Copy()) {
			added = true
		}
	}
	return added
}

// Map produces a new bag whose labels are the images of fn. The images
// are re-inserted, so fn need not preserve the anti-chain property.
func (b *Bag) Map(fn func(*Label) *Label) *Bag {
	ret := NewBag()
	for _, l := range b.labels {
		ret.Insert(fn(l.Copy()))
	}
	return ret
}

// Copy returns a deep copy of the bag
func (b *Bag) Copy() *Bag {
	ret := &Bag{labels: make([]*Label, len(b.labels))}
	for i, l := range b.labels {
		ret.labels[i] = l.Copy()
	}
	return ret
}
