// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mlc

import (
	"github.com/mogottsch/mcr/pareto"
	"github.com/pkg/errors"
)

// Rule names accepted by ResolveRule. The empty name is the implicit
// default (no-op) and is permitted for walking graphs only.
const (
	RuleNextBikeNoTariff = "next_bike_no_tariff"
	RuleNextBikeTariff   = "next_bike_tariff"
	RulePersonalCar      = "personal_car"
)

// Tariff schedule for next_bike_tariff: cost is raised to one increment
// per started rental block, metered on cumulative riding time (hidden
// slot 0).
const (
	bikeTariffBlockSeconds = 1800
	bikeTariffBlockCost    = 100
)

// Per-edge driving cost (fuel and wear) charged by personal_car
const carEdgeCost = 2

// An UpdateRule may mutate a candidate label after the additive edge
// update, or reject the transition by returning false. edgeHidden is the
// hidden-weight vector of the edge just relaxed; a positive mode-time
// slot identifies a riding/driving edge.
type UpdateRule func(l *pareto.Label, edgeHidden []int) bool

// ResolveRule maps a rule name to its implementation. Unknown names are
// fatal; the caller is expected to abort.
func ResolveRule(name string) (UpdateRule, error) {
	switch name {
	case "":
		return nil, nil
	case RuleNextBikeNoTariff:
		return nextBikeNoTariff, nil
	case RuleNextBikeTariff:
		return nextBikeTariff, nil
	case RulePersonalCar:
		return personalCar, nil
	}
	return nil, errors.Errorf("unknown update rule '%s'", name)
}

// nothing beyond the additive update; the free-floating fleet is flat-rate
func nextBikeNoTariff(l *pareto.Label, edgeHidden []int) bool {
	return true
}

// on a bicycle edge, raise the cost to the tariff of the current rental
// block whenever cumulative riding time crosses a block boundary
func nextBikeTariff(l *pareto.Label, edgeHidden []int) bool {
	if len(edgeHidden) == 0 || edgeHidden[0] == 0 {
		return true
	}
	blocks := (l.Hidden[0] + bikeTariffBlockSeconds - 1) / bikeTariffBlockSeconds
	tariff := blocks * bikeTariffBlockCost
	if l.Values[1] < tariff {
		l.Values[1] = tariff
	}
	return true
}

// every driving edge adds a fixed fuel/wear cost
func personalCar(l *pareto.Label, edgeHidden []int) bool {
	if len(edgeHidden) > 0 && edgeHidden[0] > 0 {
		l.Values[1] += carEdgeCost
	}
	return true
}
