// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/timetable"
	"github.com/pkg/errors"
)

// Step configurations selectable by a host CLI
const (
	ConfigWalking                = "walking"
	ConfigBicycle                = "bicycle"
	ConfigPublicTransport        = "public_transport"
	ConfigBicyclePublicTransport = "bicycle_public_transport"
	ConfigCar                    = "car"
)

// AllConfigs lists the selectable step configurations
var AllConfigs = []string{
	ConfigWalking,
	ConfigBicycle,
	ConfigPublicTransport,
	ConfigBicyclePublicTransport,
	ConfigCar,
}

// StepConfig bundles the step lists of one mode mix
type StepConfig struct {
	InitialSteps   [][]Step
	RepeatingSteps [][]Step
}

// NewStepConfig assembles the step lists for the named configuration.
// vehicle is the cycling or driving network of the chosen mode and may
// be nil; tt may be nil for configurations without a public-transport
// stage; bicycleRule selects the fare rule of the bicycle stage.
func NewStepConfig(name string, data *OSMData, vehicle *Network, tt *timetable.Timetable, bicycleRule string, opts Options) (*StepConfig, error) {
	walking, err := NewWalkingStep(data, opts)
	if err != nil {
		return nil, err
	}

	switch name {
	case ConfigWalking:
		return &StepConfig{
			InitialSteps: [][]Step{{walking}},
		}, nil

	case ConfigBicycle:
		bicycle, err := NewBicycleStep(data, vehicle, bicycleRule, opts)
		if err != nil {
			return nil, err
		}
		return &StepConfig{
			InitialSteps:   [][]Step{{walking}},
			RepeatingSteps: [][]Step{{bicycle}, {walking}},
		}, nil

	case ConfigPublicTransport:
		if tt == nil {
			return nil, errors.New("the public_transport configuration needs a timetable")
		}
		pt, err := NewPublicTransportStep(tt, data.Stops, opts)
		if err != nil {
			return nil, err
		}
		return &StepConfig{
			InitialSteps:   [][]Step{{walking}},
			RepeatingSteps: [][]Step{{pt}, {walking}},
		}, nil

	case ConfigBicyclePublicTransport:
		if tt == nil {
			return nil, errors.New("the bicycle_public_transport configuration needs a timetable")
		}
		bicycle, err := NewBicycleStep(data, vehicle, bicycleRule, opts)
		if err != nil {
			return nil, err
		}
		pt, err := NewPublicTransportStep(tt, data.Stops, opts)
		if err != nil {
			return nil, err
		}
		return &StepConfig{
			InitialSteps:   [][]Step{{walking}},
			RepeatingSteps: [][]Step{{bicycle, pt}, {walking}},
		}, nil

	case ConfigCar:
		car, err := NewPersonalCarStep(data, vehicle, opts)
		if err != nil {
			return nil, err
		}
		return &StepConfig{
			RepeatingSteps: [][]Step{{car}},
		}, nil
	}

	return nil, errors.Errorf("unknown step configuration '%s'", name)
}
