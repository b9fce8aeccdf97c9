package tui

import (
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/models"
)

// Screen messages carry the id of the screen that issued them. A message for
// a screen that is no longer on top is dropped.

type attachedMsg struct {
	screen int
	sub    *service.Subscription
	err    error
}

type updateMsg struct {
	screen int
	update service.Update
}

type subscriptionClosedMsg struct {
	screen int
}

type refreshDoneMsg struct {
	screen int
	result service.RefreshResult
	err    error
}

type removeDoneMsg struct {
	screen int
	id     string
	err    error
}

type openItemsMsg struct {
	collection models.Collection
}

type clearStatusMsg struct {
	screen int
}
