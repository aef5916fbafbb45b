// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package strtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Unreachable marks an arrival time that was never set
const Unreachable = math.MaxInt

// ToSeconds converts a HH:MM:SS string to seconds since the day origin.
// Hours >= 24 are permitted to address next-day services.
func ToSeconds(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("malformed time '%s', expected HH:MM:SS", s)
	}

	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, errors.Wrapf(err, "malformed time '%s'", s)
		}
		if v < 0 {
			return 0, errors.Errorf("malformed time '%s', negative component", s)
		}
		vals[i] = v
	}

	if vals[1] >= 60 || vals[2] >= 60 {
		return 0, errors.Errorf("malformed time '%s', minutes and seconds must be < 60", s)
	}

	return vals[0]*3600 + vals[1]*60 + vals[2], nil
}

// FromSeconds converts seconds since the day origin to HH:MM:SS. The
// Unreachable sentinel renders as "--:--:--".
func FromSeconds(secs int) string {
	if secs == Unreachable {
		return "--:--:--"
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
