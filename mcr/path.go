// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/pareto"
	"github.com/pkg/errors"
)

// PathType tags a segment with the mode mix it was travelled in
type PathType string

const (
	PathWalking         PathType = "walking"
	PathCyclingWalking  PathType = "cycling_walking"
	PathDrivingWalking  PathType = "driving_walking"
	PathPublicTransport PathType = "public_transport"
)

// Segment is one recorded leg of a label's journey: the tokens the label
// accumulated while one step ran
type Segment struct {
	Type   PathType
	Tokens []pareto.Token
}

// TransitLeg is the decoded form of a public-transport segment
type TransitLeg struct {
	StartNodeID int64
	TripID      string
	EndNodeID   int64
}

// PathManager owns the segment registry labels reference by id. It is
// mutated only by the orchestrator thread running its steps
// sequentially.
type PathManager struct {
	segments []Segment
}

// NewPathManager returns an empty registry
func NewPathManager() *PathManager {
	return &PathManager{}
}

// NumSegments returns the number of recorded segments
func (pm *PathManager) NumSegments() int {
	return len(pm.segments)
}

// Segments returns the registry; the slice is owned by the manager
func (pm *PathManager) Segments() []Segment {
	return pm.segments
}

func (pm *PathManager) add(pathType PathType, tokens []pareto.Token) int64 {
	id := int64(len(pm.segments))
	pm.segments = append(pm.segments, Segment{Type: pathType, Tokens: tokens})
	return id
}

// ExtractAll slices the tokens every label accumulated past offset into
// a fresh segment and rewrites the label's path as the prior prefix plus
// the new segment id.
func (pm *PathManager) ExtractAll(bags Bags, pathType PathType, offset int) {
	for _, bag := range bags {
		for _, l := range bag.Labels() {
			pm.extract(l, pathType, offset)
		}
	}
}

func (pm *PathManager) extract(l *pareto.Label, pathType PathType, offset int) {
	if offset > len(l.Path) {
		offset = len(l.Path)
	}
	tokens := append([]pareto.Token(nil), l.Path[offset:]...)
	id := pm.add(pathType, tokens)
	l.Path = append(l.Path[:offset:offset], pareto.NodeToken(id))
}

// Reconstruct follows a label's segment ids back into the registry
func (pm *PathManager) Reconstruct(l *pareto.Label) ([]Segment, error) {
	ret := make([]Segment, 0, len(l.Path))
	for _, tok := range l.Path {
		if tok.IsTrip() {
			return nil, errors.Errorf("label path holds a trip token '%s' instead of a segment id", tok.Trip)
		}
		if tok.Node < 0 || tok.Node >= int64(len(pm.segments)) {
			return nil, errors.Errorf("unknown segment id %d", tok.Node)
		}
		ret = append(ret, pm.segments[tok.Node])
	}
	return ret, nil
}

// DecodeTransit decodes a public-transport segment into its leg. The
// tokens of such a segment are (boarding stop, trip, alighting stop),
// possibly with further ride/alight pairs appended.
func DecodeTransit(seg Segment) (TransitLeg, error) {
	if seg.Type != PathPublicTransport {
		return TransitLeg{}, errors.Errorf("segment of type '%s' is not a transit segment", seg.Type)
	}
	if len(seg.Tokens) < 3 || seg.Tokens[0].IsTrip() || !seg.Tokens[1].IsTrip() {
		return TransitLeg{}, errors.New("malformed transit segment")
	}
	last := seg.Tokens[len(seg.Tokens)-1]
	if last.IsTrip() {
		return TransitLeg{}, errors.New("malformed transit segment")
	}
	return TransitLeg{
		StartNodeID: seg.Tokens[0].Node,
		TripID:      seg.Tokens[1].Trip,
		EndNodeID:   last.Node,
	}, nil
}
