package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/munch-sync/internal/presenter"
	"github.com/MKhiriev/munch-sync/models"
)

const (
	descriptionWidth = 48
	tagsWidth        = 48
)

// row is one rendered list entry: a title line and optional detail lines.
type row struct {
	title   string
	details []string
}

type rowRenderer func(e models.Entity, now time.Time) row

func collectionRow(e models.Entity, _ time.Time) row {
	c, err := models.AsCollection(e)
	if err != nil {
		return row{title: e.ID, details: []string{"unreadable: " + err.Error()}}
	}

	name := c.Name
	if name == "" {
		name = e.ID
	}

	summary := placesCount(c.Count)
	if c.Access != "" {
		summary += " · " + strings.ToLower(string(c.Access))
	}

	details := []string{summary}
	if c.Description != "" {
		details = append(details, fitText(c.Description, descriptionWidth))
	}
	return row{title: name, details: details}
}

// itemRow renders the places of a collection. Distances are measured from
// origin when it is set.
func itemRow(origin *models.LatLng) rowRenderer {
	return func(e models.Entity, now time.Time) row {
		item, err := models.AsCollectionItem(e)
		if err != nil {
			return row{title: e.ID, details: []string{"unreadable: " + err.Error()}}
		}
		if item.Place == nil {
			return row{title: item.PlaceID}
		}

		p := *item.Place
		title := p.Name
		if title == "" {
			title = item.PlaceID
		}

		var facts []string
		if d := presenter.PlaceDistance(origin, p); d != "" {
			facts = append(facts, d)
		}
		if st := presenter.Status(p.Hours, now); st != presenter.StatusUnknown {
			facts = append(facts, string(st))
		}
		if p.Location.Address != "" {
			facts = append(facts, fitText(p.Location.Address, descriptionWidth))
		}

		var details []string
		if len(facts) > 0 {
			details = append(details, strings.Join(facts, " · "))
		}
		details = append(details, presenter.WrapTags(p.Tags, tagsWidth)...)
		return row{title: title, details: details}
	}
}

func placesCount(n int) string {
	if n == 1 {
		return "1 place"
	}
	return fmt.Sprintf("%d places", n)
}
