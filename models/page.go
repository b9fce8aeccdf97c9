// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Cursor is the opaque pagination token returned by the API in
// "next.sort". The server may send it as a JSON string or a JSON number;
// both decode to the same textual form.
type Cursor string

func (c *Cursor) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch value := v.(type) {
	case string:
		*c = Cursor(value)
	case json.Number:
		*c = Cursor(value.String())
	default:
		return fmt.Errorf("cursor must be a string or a number, got %s", string(b))
	}
	return nil
}

func (c Cursor) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c Cursor) String() string {
	return string(c)
}

// PageRequest asks for one page of a scope. An empty Cursor requests the first page.
type PageRequest struct {
	Size   int
	Cursor Cursor
}

// PageNext is the "next" object of a list response.
type PageNext struct {
	Sort Cursor `json:"sort"`
}

// PageEnvelope is the wire form of a list response.
type PageEnvelope struct {
	Items []json.RawMessage `json:"items"`
	Next  *PageNext         `json:"next,omitempty"`
}

// Page is a decoded list response. A nil Next means pagination is exhausted.
type Page struct {
	Items []Entity
	Next  *Cursor
}

// NextCursor returns the cursor of the following page and whether one exists.
func (p Page) NextCursor() (Cursor, bool) {
	if p.Next == nil || *p.Next == "" {
		return "", false
	}
	return *p.Next, true
}

// SortKeyFromMillis renders a millisecond timestamp as a fixed-width sort key
// so that lexical order matches numeric order.
func SortKeyFromMillis(millis int64) string {
	s := strconv.FormatInt(millis, 10)
	const width = 16
	if len(s) >= width {
		return s
	}
	return string(bytes.Repeat([]byte("0"), width-len(s))) + s
}
