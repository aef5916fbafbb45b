// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package raptor

// A Trace is one reconstructible leg of a journey
type Trace interface {
	isTrace()
}

// TraceStart marks the journey origin
type TraceStart struct {
	StopID    string
	StartTime int
}

// TraceTrip is a ride on one trip between two stops
type TraceTrip struct {
	StartStopID   string
	DepartureTime int
	EndStopID     string
	ArrivalTime   int
	TripID        string
}

// TraceFootpath is a walk between two stops
type TraceFootpath struct {
	StartStopID string
	EndStopID   string
	WalkingTime int
}

func (TraceStart) isTrace()    {}
func (TraceTrip) isTrace()     {}
func (TraceFootpath) isTrace() {}

// TraceLabel tracks the arrival time plus the legs taken, so journeys
// can be reconstructed from the result bags
type TraceLabel struct {
	Arrival    int
	Traces     []Trace
	lastStop   string
	lastIsTrip bool
}

// NewTraceLabel is a label factory for McRaptor runs
func NewTraceLabel(time int, stopID string) Label {
	return &TraceLabel{
		Arrival:  time,
		Traces:   []Trace{TraceStart{StopID: stopID, StartTime: time}},
		lastStop: stopID,
	}
}

func (l *TraceLabel) StrictlyDominates(other Label) bool {
	return l.Arrival <= other.ArrivalTime()
}

func (l *TraceLabel) ArrivalTime() int { return l.Arrival }

func (l *TraceLabel) UpdateAlongTrip(arrivalTime int, stopID, tripID string) {
	// riding on to the next stop of the same trip extends the previous leg
	if l.lastIsTrip {
		if prev, ok := l.Traces[len(l.Traces)-1].(TraceTrip); ok && prev.TripID == tripID {
			prev.EndStopID = stopID
			prev.ArrivalTime = arrivalTime
			l.Traces[len(l.Traces)-1] = prev
			l.Arrival = arrivalTime
			l.lastStop = stopID
			return
		}
	}

	l.Traces = append(l.Traces, TraceTrip{
		StartStopID:   l.lastStop,
		DepartureTime: l.Arrival,
		EndStopID:     stopID,
		ArrivalTime:   arrivalTime,
		TripID:        tripID,
	})
	l.Arrival = arrivalTime
	l.lastStop = stopID
	l.lastIsTrip = true
}

func (l *TraceLabel) UpdateAlongFootpath(walkingTime int, stopID string) {
	l.Traces = append(l.Traces, TraceFootpath{
		StartStopID: l.lastStop,
		EndStopID:   stopID,
		WalkingTime: walkingTime,
	})
	l.Arrival += walkingTime
	l.lastStop = stopID
	l.lastIsTrip = false
}

func (l *TraceLabel) UpdateBeforeRouteBagMerge(departureTime int, stopID string) {
	l.Arrival = departureTime
	l.lastStop = stopID
	l.lastIsTrip = false
}

func (l *TraceLabel) UpdateBeforeStopBagMerge(stopID string) {}

func (l *TraceLabel) Copy() Label {
	c := *l
	c.Traces = make([]Trace, len(l.Traces))
	copy(c.Traces, l.Traces)
	return &c
}
