// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidLatLng = errors.New("invalid lat,lng")

// LatLng is a coordinate pair. On the wire it is the string "lat,lng".
type LatLng struct {
	Lat float64
	Lng float64
}

// ParseLatLng parses "lat,lng" and checks coordinate ranges.
func ParseLatLng(s string) (LatLng, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("%w: %q", ErrInvalidLatLng, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: %q", ErrInvalidLatLng, s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: %q", ErrInvalidLatLng, s)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return LatLng{}, fmt.Errorf("%w: out of range %q", ErrInvalidLatLng, s)
	}

	return LatLng{Lat: lat, Lng: lng}, nil
}

func (l LatLng) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

func (l LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *LatLng) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseLatLng(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LocationType distinguishes saved places from recent searches.
type LocationType string

const (
	LocationHome   LocationType = "home"
	LocationWork   LocationType = "work"
	LocationSaved  LocationType = "saved"
	LocationRecent LocationType = "recent"
)

// SearchLocation is a location the user searches around.
type SearchLocation struct {
	LocationID string       `json:"locationId"`
	Type       LocationType `json:"type"`
	Name       string       `json:"name"`
	Address    string       `json:"address,omitempty"`
	LatLng     LatLng       `json:"latLng"`
	SortToken  string       `json:"sort,omitempty"`
	Created    int64        `json:"createdMillis,omitempty"`
	Updated    int64        `json:"updatedMillis,omitempty"`
}

func (l SearchLocation) Key() string          { return l.LocationID }
func (l SearchLocation) UpdatedMillis() int64 { return l.Updated }
func (l SearchLocation) Sort() string         { return l.SortToken }
