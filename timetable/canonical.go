// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package timetable

import (
	"fmt"
	"os"
	"strings"

	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/slices"
)

// RouteCanonicalizer splits routes so that every trip of a route visits
// the same stops in the same order. Each (route, direction, stop path)
// combination becomes its own route with id <route_id>_<direction>_<letter>,
// letters assigned A, B, C, ... in order of the path's first trip id.
type RouteCanonicalizer struct {
}

// Run this RouteCanonicalizer on some feed
func (rc RouteCanonicalizer) Run(feed *gtfsparser.Feed) {
	fmt.Fprintf(os.Stdout, "Splitting routes by direction and stop path... ")
	bef := len(feed.Routes)

	tripsByRoute := make(map[*gtfs.Route][]*gtfs.Trip, len(feed.Routes))
	for _, t := range feed.Trips {
		tripsByRoute[t.Route] = append(tripsByRoute[t.Route], t)
	}

	// snapshot, the split routes are added to the feed while we iterate
	origRoutes := make([]*gtfs.Route, 0, len(feed.Routes))
	for _, r := range feed.Routes {
		origRoutes = append(origRoutes, r)
	}
	slices.SortFunc(origRoutes, func(a, b *gtfs.Route) int {
		return strings.Compare(a.Id, b.Id)
	})

	for _, r := range origRoutes {
		trips := tripsByRoute[r]
		if len(trips) == 0 {
			continue
		}

		// deterministic letter assignment
		slices.SortFunc(trips, func(a, b *gtfs.Trip) int {
			return strings.Compare(a.Id, b.Id)
		})

		type group struct {
			signature string
			trips     []*gtfs.Trip
		}
		groups := make([]*group, 0)
		bySignature := make(map[string]*group)

		for _, t := range trips {
			sig := fmt.Sprintf("%d|%s", t.Direction_id, pathSignature(t))
			g, ok := bySignature[sig]
			if !ok {
				g = &group{signature: sig}
				bySignature[sig] = g
				groups = append(groups, g)
			}
			g.trips = append(g.trips, t)
		}

		letters := make(map[string]int)
		for _, g := range groups {
			dir := strings.SplitN(g.signature, "|", 2)[0]
			letter := pathLetter(letters[dir])
			letters[dir]++

			newID := fmt.Sprintf("%s_%s_%s", r.Id, dir, letter)
			split := *r
			split.Id = newID
			feed.Routes[newID] = &split
			for _, t := range g.trips {
				t.Route = &split
			}
		}

		feed.DeleteRoute(r.Id)
	}

	fmt.Fprintf(os.Stdout, "done. (+%d routes)\n", len(feed.Routes)-bef)
}

func pathSignature(t *gtfs.Trip) string {
	var sb strings.Builder
	for i, st := range t.StopTimes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(st.Stop().Id)
	}
	return sb.String()
}

// pathLetter yields A, B, ..., Z, AA, AB, ... for the n-th distinct path
func pathLetter(n int) string {
	ret := ""
	for {
		ret = string(rune('A'+n%26)) + ret
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return ret
}

// FromFeed flattens a canonicalised feed into the two tables Build
// consumes. Stop times are converted to integer seconds since the day
// origin.
func FromFeed(feed *gtfsparser.Feed) ([]TripRow, []StopTimeRow) {
	trips := make([]TripRow, 0, len(feed.Trips))
	stopTimes := make([]StopTimeRow, 0)

	for _, t := range feed.Trips {
		trips = append(trips, TripRow{TripID: t.Id, RouteID: t.Route.Id})
		for _, st := range t.StopTimes {
			stopTimes = append(stopTimes, StopTimeRow{
				TripID:    t.Id,
				StopID:    st.Stop().Id,
				Arrival:   st.Arrival_time().SecondsSinceMidnight(),
				Departure: st.Departure_time().SecondsSinceMidnight(),
				Sequence:  st.Sequence(),
			})
		}
	}

	slices.SortFunc(trips, func(a, b TripRow) int {
		return strings.Compare(a.TripID, b.TripID)
	})
	return trips, stopTimes
}
