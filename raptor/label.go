// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package raptor

// Label is the attribute record the engine propagates along trips and
// footpaths. The engine is polymorphic over the concrete type: dominance,
// the per-hop updates and copying are supplied by the implementation.
type Label interface {
	// StrictlyDominates reports dominance in the label's attribute space
	StrictlyDominates(other Label) bool

	// ArrivalTime returns the label's current arrival time in seconds
	ArrivalTime() int

	// UpdateAlongTrip is called when the label rides to the next stop on
	// its current trip
	UpdateAlongTrip(arrivalTime int, stopID, tripID string)

	// UpdateAlongFootpath is called when the label walks a footpath
	UpdateAlongFootpath(walkingTime int, stopID string)

	// UpdateBeforeRouteBagMerge is called when the label boards a trip,
	// accumulating any waiting component
	UpdateBeforeRouteBagMerge(departureTime int, stopID string)

	// UpdateBeforeStopBagMerge is called when a riding label is inserted
	// into a stop's bag
	UpdateBeforeStopBagMerge(stopID string)

	// Copy returns a deep copy
	Copy() Label
}

// ArrivalLabel tracks the arrival time only; the bag at every stop then
// carries exactly one label and the search degenerates to plain RAPTOR.
type ArrivalLabel struct {
	Arrival int
}

// NewArrivalLabel is a label factory for McRaptor runs
func NewArrivalLabel(time int, stopID string) Label {
	return &ArrivalLabel{Arrival: time}
}

func (l *ArrivalLabel) StrictlyDominates(other Label) bool {
	return l.Arrival <= other.ArrivalTime()
}

func (l *ArrivalLabel) ArrivalTime() int { return l.Arrival }

func (l *ArrivalLabel) UpdateAlongTrip(arrivalTime int, stopID, tripID string) {
	l.Arrival = arrivalTime
}

func (l *ArrivalLabel) UpdateAlongFootpath(walkingTime int, stopID string) {
	l.Arrival += walkingTime
}

func (l *ArrivalLabel) UpdateBeforeRouteBagMerge(departureTime int, stopID string) {}

func (l *ArrivalLabel) UpdateBeforeStopBagMerge(stopID string) {}

func (l *ArrivalLabel) Copy() Label {
	c := *l
	return &c
}
