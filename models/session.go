package models

import "time"

// SessionState is the persisted part of a client session.
type SessionState struct {
	UserID      string
	Token       string
	DisplayName string
	LastLatLng  *LatLng
	SavedAt     time.Time
}
