// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CollectionAccess controls who can see a collection.
type CollectionAccess string

const (
	AccessPublic  CollectionAccess = "Public"
	AccessPrivate CollectionAccess = "Private"
)

// Collection is a user's named list of places.
type Collection struct {
	CollectionID string           `json:"collectionId"`
	UserID       string           `json:"userId,omitempty"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Access       CollectionAccess `json:"access,omitempty"`
	Count        int              `json:"count"`
	SortToken    string           `json:"sort,omitempty"`
	Created      int64            `json:"createdMillis,omitempty"`
	Updated      int64            `json:"updatedMillis,omitempty"`
}

func (c Collection) Key() string          { return c.CollectionID }
func (c Collection) UpdatedMillis() int64 { return c.Updated }
func (c Collection) Sort() string         { return c.SortToken }

// CollectionItem is one place saved in a collection. Its key is the place id,
// so adding the same place twice targets the same row.
type CollectionItem struct {
	CollectionID string `json:"collectionId"`
	PlaceID      string `json:"placeId"`
	SortToken    string `json:"sort,omitempty"`
	Created      int64  `json:"createdMillis,omitempty"`
	Updated      int64  `json:"updatedMillis,omitempty"`
	Place        *Place `json:"place,omitempty"`
}

func (c CollectionItem) Key() string          { return c.PlaceID }
func (c CollectionItem) UpdatedMillis() int64 { return c.Updated }
func (c CollectionItem) Sort() string         { return c.SortToken }

// Place is the subset of place data the client renders.
type Place struct {
	PlaceID  string        `json:"placeId"`
	Name     string        `json:"name"`
	Location PlaceLocation `json:"location"`
	Hours    []Hour        `json:"hours,omitempty"`
	Tags     []string      `json:"tags,omitempty"`
	Price    *float64      `json:"price,omitempty"`
}

type PlaceLocation struct {
	Address string  `json:"address,omitempty"`
	LatLng  *LatLng `json:"latLng,omitempty"`
}

// Hour is one opening range. Day is a lowercase three-letter weekday
// ("mon".."sun"); Open and Close are "HH:MM". A Close earlier than Open
// runs past midnight.
type Hour struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}
