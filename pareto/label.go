// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pareto

// Token is an opaque path element: a node or path-segment id, or a trip id
type Token struct {
	Node int64
	Trip string
}

// NodeToken wraps a node or segment id into a path token
func NodeToken(id int64) Token {
	return Token{Node: id}
}

// TripToken wraps a trip id into a path token
func TripToken(id string) Token {
	return Token{Trip: id}
}

// IsTrip reports whether the token refers to a trip rather than a node
func (t Token) IsTrip() bool {
	return t.Trip != ""
}

// Label describes one non-dominated trade-off at a node. Values holds the
// externally visible criteria (Values[0] is arrival time in seconds since
// the day origin, Values[1] is monetary cost in the smallest currency
// unit, further slots count visited POI categories). Hidden holds state
// used by update rules only, e.g. seconds ridden since mounting a bicycle.
type Label struct {
	Values []int
	Hidden []int
	Path   []Token
	NodeID int64
}

// NewLabel creates a label with the given value widths, all slots zero
func NewLabel(nValues, nHidden int, nodeID int64) *Label {
	return &Label{
		Values: make([]int, nValues),
		Hidden: make([]int, nHidden),
		NodeID: nodeID,
	}
}

// Copy returns a deep copy of the label
func (l *Label) Copy() *Label {
	ret := &Label{
		Values: make([]int, len(l.Values)),
		Hidden: make([]int, len(l.Hidden)),
		NodeID: l.NodeID,
	}
	copy(ret.Values, l.Values)
	copy(ret.Hidden, l.Hidden)
	if len(l.Path) > 0 {
		ret.Path = make([]Token, len(l.Path))
		copy(ret.Path, l.Path)
	}
	return ret
}

// Dominates reports whether l is component-wise <= other on both the
// value and the hidden vector. Equal vectors count as dominance, so the
// first inserted of two equal labels wins.
func (l *Label) Dominates(other *Label) bool {
	for i, v := range l.Values {
		if v > other.Values[i] {
			return false
		}
	}
	for i, v := range l.Hidden {
		if v > other.Hidden[i] {
			return false
		}
	}
	return true
}

// Less orders labels lexicographically by Values, then Hidden. Used as
// the priority-queue key and as the bag's internal ordering.
func (l *Label) Less(other *Label) bool {
	for i, v := range l.Values {
		if v != other.Values[i] {
			return v < other.Values[i]
		}
	}
	for i, v := range l.Hidden {
		if v != other.Hidden[i] {
			return v < other.Hidden[i]
		}
	}
	return false
}
