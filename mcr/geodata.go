// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// Average travel speeds in m/s per mode
const (
	AvgWalkingSpeed = 1.4
	AvgBikingSpeed  = 4.0
	AvgDrivingSpeed = 11.1
)

// Node is one street-graph node in the external (OSM) id space
type Node struct {
	ID         int64
	HasBicycle bool
	Categories []int
}

// Edge is one directed street-graph edge with its length in metres
type Edge struct {
	U      int64
	V      int64
	Length float64
}

// StopMapping attaches a GTFS stop to its nearest street-graph node
type StopMapping struct {
	StopID string
	NodeID int64
}

// OSMData is the walking street graph a run operates on, together with
// the stop attachments precomputed by the ingestion pipeline
type OSMData struct {
	Nodes []Node
	Edges []Edge
	Stops []StopMapping
}

// Network is an additional mode network (cycling or driving); its nodes
// are a subset of the walking graph wherever dismounting is possible
type Network struct {
	Nodes []Node
	Edges []Edge
}

// LoadNodes reads a GeoJSON feature collection of graph nodes. Features
// carry an "id" property, optionally "has_bicycle" and a "categories"
// list of POI category indices attached by the ingestion pipeline.
func LoadNodes(path string) ([]Node, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(fc.Features))
	for _, f := range fc.Features {
		id, err := intProperty(f, "id")
		if err != nil {
			return nil, err
		}

		node := Node{ID: id}
		if v, err := f.PropertyBool("has_bicycle"); err == nil {
			node.HasBicycle = v
		}
		if raw, ok := f.Properties["categories"]; ok {
			list, ok := raw.([]interface{})
			if !ok {
				return nil, errors.Errorf("node %d has a malformed categories list", id)
			}
			for _, c := range list {
				num, ok := c.(float64)
				if !ok {
					return nil, errors.Errorf("node %d has a non-numeric category", id)
				}
				node.Categories = append(node.Categories, int(num))
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// LoadEdges reads a GeoJSON feature collection of directed edges with
// "u", "v" and "length" properties
func LoadEdges(path string) ([]Edge, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	edges := make([]Edge, 0, len(fc.Features))
	for _, f := range fc.Features {
		u, err := intProperty(f, "u")
		if err != nil {
			return nil, err
		}
		v, err := intProperty(f, "v")
		if err != nil {
			return nil, err
		}
		length, err := f.PropertyFloat64("length")
		if err != nil {
			return nil, errors.Wrap(err, "edge without length")
		}
		if length < 0 {
			return nil, errors.Errorf("edge (%d, %d) has negative length", u, v)
		}
		edges = append(edges, Edge{U: u, V: v, Length: length})
	}
	return edges, nil
}

// LoadStops reads a GeoJSON feature collection of stops carrying
// "stop_id" and "nearest_node" properties
func LoadStops(path string) ([]StopMapping, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	stops := make([]StopMapping, 0, len(fc.Features))
	for _, f := range fc.Features {
		stopID, err := f.PropertyString("stop_id")
		if err != nil {
			return nil, errors.Wrap(err, "stop without stop_id")
		}
		nodeID, err := intProperty(f, "nearest_node")
		if err != nil {
			return nil, err
		}
		stops = append(stops, StopMapping{StopID: stopID, NodeID: nodeID})
	}
	return stops, nil
}

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading '%s'", path)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing '%s'", path)
	}
	return fc, nil
}

func intProperty(f *geojson.Feature, key string) (int64, error) {
	v, err := f.PropertyFloat64(key)
	if err != nil {
		return 0, errors.Wrapf(err, "feature without numeric '%s'", key)
	}
	return int64(v), nil
}
