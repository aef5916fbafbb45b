// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package raptor

import (
	"testing"

	"github.com/mogottsch/mcr/strtime"
	"github.com/mogottsch/mcr/timetable"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// Nesselrodestr -> Ehrenfeld Bf toy network: tram 16 connects the origin
// to Amsterdamer Str, tram 13 continues to Venloer Str, a slow bus line
// runs directly, and a short footpath covers the last metres.
const (
	nesselrodeStr  = "818"
	amsterdamerStr = "317"
	venloerStr     = "251"
	ehrenfeldBf    = "835"
)

func secs(t *testing.T, s string) int {
	v, err := strtime.ToSeconds(s)
	require.NoError(t, err)
	return v
}

// threeLineNetwork builds the timetable and footpaths used by the
// reference-walk tests
func threeLineNetwork(t *testing.T) (*timetable.Timetable, Footpaths) {
	trips := []timetable.TripRow{
		{TripID: "T16", RouteID: "16_0_A"},
		{TripID: "T13a", RouteID: "13_0_A"},
		{TripID: "T13b", RouteID: "13_0_A"},
		{TripID: "B5", RouteID: "5_0_A"},
	}
	stopTimes := []timetable.StopTimeRow{
		{TripID: "T16", StopID: nesselrodeStr, Arrival: secs(t, "15:08:00"), Departure: secs(t, "15:08:00"), Sequence: 0},
		{TripID: "T16", StopID: amsterdamerStr, Arrival: secs(t, "15:09:00"), Departure: secs(t, "15:09:00"), Sequence: 1},

		{TripID: "T13a", StopID: amsterdamerStr, Arrival: secs(t, "15:06:00"), Departure: secs(t, "15:06:00"), Sequence: 0},
		{TripID: "T13a", StopID: venloerStr, Arrival: secs(t, "15:17:00"), Departure: secs(t, "15:17:00"), Sequence: 1},

		{TripID: "T13b", StopID: amsterdamerStr, Arrival: secs(t, "15:20:00"), Departure: secs(t, "15:20:00"), Sequence: 0},
		{TripID: "T13b", StopID: venloerStr, Arrival: secs(t, "15:31:00"), Departure: secs(t, "15:31:00"), Sequence: 1},

		{TripID: "B5", StopID: nesselrodeStr, Arrival: secs(t, "15:10:00"), Departure: secs(t, "15:10:00"), Sequence: 0},
		{TripID: "B5", StopID: ehrenfeldBf, Arrival: secs(t, "15:45:00"), Departure: secs(t, "15:45:00"), Sequence: 1},
	}

	tt, err := timetable.Build(trips, stopTimes)
	require.NoError(t, err)
	require.NoError(t, tt.Validate())

	footpaths := Footpaths{
		venloerStr: {ehrenfeldBf: secs(t, "00:02:27")},
	}
	return tt, footpaths
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}
