// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package timetable

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// Save writes the timetable to path. The file is written atomically: on
// error no partial artifact is left behind.
func Save(tt *Timetable, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "creating timetable file")
	}

	if err := gob.NewEncoder(f).Encode(tt); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "encoding timetable")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "closing timetable file")
	}

	return errors.Wrap(os.Rename(tmp, path), "renaming timetable file")
}

// Load reads a timetable written by Save and validates it
func Load(path string) (*Timetable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening timetable file")
	}
	defer f.Close()

	tt := &Timetable{}
	if err := gob.NewDecoder(f).Decode(tt); err != nil {
		return nil, errors.Wrap(err, "decoding timetable")
	}
	if err := tt.Validate(); err != nil {
		return nil, err
	}
	return tt, nil
}
