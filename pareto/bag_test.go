// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pareto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lbl(values ...int) *Label {
	return &Label{Values: values, Hidden: []int{}}
}

func values(b *Bag) [][]int {
	ret := make([][]int, 0, b.Size())
	for _, l := range b.Labels() {
		ret = append(ret, l.Values)
	}
	return ret
}

func TestInsertRejectsDominated(t *testing.T) {
	b := NewBag()
	require.True(t, b.Insert(lbl(100, 5)))
	assert.False(t, b.Insert(lbl(100, 6)))
	assert.False(t, b.Insert(lbl(120, 5)))
	assert.Equal(t, 1, b.Size())
}

func TestInsertRemovesDominatedMembers(t *testing.T) {
	b := NewBag()
	require.True(t, b.Insert(lbl(100, 5)))
	require.True(t, b.Insert(lbl(200, 1)))
	require.True(t, b.Insert(lbl(90, 2)))

	// (90,2) dominates (100,5); (90,2) <= (200,1) fails on cost, so
	// (200,1) stays
	assert.Equal(t, [][]int{{90, 2}, {200, 1}}, values(b))
}

func TestInsertKeepsFirstOnEqualVectors(t *testing.T) {
	b := NewBag()
	first := lbl(100, 5)
	require.True(t, b.Insert(first))
	assert.False(t, b.Insert(lbl(100, 5)))
	require.Equal(t, 1, b.Size())
	assert.Same(t, first, b.Labels()[0])
}

func TestHiddenValuesKeepLabelsDistinct(t *testing.T) {
	b := NewBag()
	a := &Label{Values: []int{100, 5}, Hidden: []int{30}}
	c := &Label{Values: []int{100, 5}, Hidden: []int{0}}
	require.True(t, b.Insert(a))
	// c dominates a via the hidden slot
	require.True(t, b.Insert(c))
	assert.Equal(t, 1, b.Size())
	assert.Same(t, c, b.Labels()[0])

	// differing hidden state in both directions: both survive
	b = NewBag()
	require.True(t, b.Insert(&Label{Values: []int{100, 5}, Hidden: []int{30}}))
	require.True(t, b.Insert(&Label{Values: []int{100, 6}, Hidden: []int{0}}))
	assert.Equal(t, 2, b.Size())
}

// the merge example from the dominance-closure scenario: (100,5) does not
// dominate (150,3), so the merged bag has all three members
func TestMergeDominanceClosure(t *testing.T) {
	a := NewBag()
	a.Insert(lbl(100, 5))
	a.Insert(lbl(200, 1))

	c := NewBag()
	c.Insert(lbl(150, 3))

	added := a.Merge(c)
	assert.True(t, added)
	assert.Equal(t, [][]int{{100, 5}, {150, 3}, {200, 1}}, values(a))
}

func TestMergeIsCommutative(t *testing.T) {
	mk := func() (*Bag, *Bag) {
		a := NewBag()
		a.Insert(lbl(100, 5))
		a.Insert(lbl(200, 1))
		a.Insert(lbl(150, 2))
		c := NewBag()
		c.Insert(lbl(150, 3))
		c.Insert(lbl(100, 4))
		c.Insert(lbl(300, 0))
		return a, c
	}

	ab, cb := mk()
	ab.Merge(cb)

	a2, c2 := mk()
	c2.Merge(a2)

	assert.Equal(t, values(ab), values(c2))
}

func TestAntiChainInvariant(t *testing.T) {
	b := NewBag()
	ins := [][]int{{5, 9}, {3, 7}, {8, 2}, {3, 8}, {2, 9}, {8, 1}, {4, 4}, {4, 4}}
	for _, v := range ins {
		b.Insert(lbl(v[0], v[1]))
	}

	ls := b.Labels()
	for i, a := range ls {
		for j, c := range ls {
			if i == j {
				continue
			}
			assert.False(t, a.Dominates(c), "%v dominates %v", a.Values, c.Values)
		}
	}
}

func TestMapReinsertsImages(t *testing.T) {
	b := NewBag()
	b.Insert(lbl(100, 5))
	b.Insert(lbl(200, 1))

	// collapsing map: both images equal, anti-chain restored on re-insert
	m := b.Map(func(l *Label) *Label {
		l.Values = []int{50, 0}
		return l
	})
	assert.Equal(t, 1, m.Size())

	// original untouched
	assert.Equal(t, 2, b.Size())
}

func TestContains(t *testing.T) {
	b := NewBag()
	l := lbl(100, 5)
	b.Insert(l)
	assert.True(t, b.Contains(l))

	// displaced by a dominating insertion
	b.Insert(lbl(90, 4))
	assert.False(t, b.Contains(l))
}
