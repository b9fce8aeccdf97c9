package presenter

import (
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/munch-sync/models"
)

// HoursStatus is the opening state of a place at a given time.
type HoursStatus string

const (
	StatusUnknown     HoursStatus = ""
	StatusOpen        HoursStatus = "Open now"
	StatusClosingSoon HoursStatus = "Closing soon"
	StatusOpeningSoon HoursStatus = "Opening soon"
	StatusClosed      HoursStatus = "Closed"
)

const (
	closingSoonWindow = 30
	openingSoonWindow = 60
	minutesPerDay     = 24 * 60
)

var weekdays = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

type openRange struct {
	open, close int
}

// Status reports whether a place with the given hours is open at now. Ranges
// that close before they open run past midnight into the next day. Malformed
// ranges are ignored; a place without usable hours is StatusUnknown.
func Status(hours []models.Hour, now time.Time) HoursStatus {
	today := rangesFor(hours, weekdays[now.Weekday()])
	yesterday := rangesFor(hours, weekdays[(now.Weekday()+6)%7])
	if len(today) == 0 && len(yesterday) == 0 {
		if len(hours) == 0 {
			return StatusUnknown
		}
		return StatusClosed
	}

	minute := now.Hour()*60 + now.Minute()

	left := -1
	for _, r := range yesterday {
		if r.close < r.open && minute < r.close {
			left = max(left, r.close-minute)
		}
	}
	for _, r := range today {
		switch {
		case r.open == r.close:
			left = max(left, minutesPerDay)
		case r.open < r.close && minute >= r.open && minute < r.close:
			left = max(left, r.close-minute)
		case r.close < r.open && minute >= r.open:
			left = max(left, minutesPerDay-minute+r.close)
		}
	}

	if left > closingSoonWindow {
		return StatusOpen
	}
	if left >= 0 {
		return StatusClosingSoon
	}

	for _, r := range today {
		if r.open > minute && r.open-minute <= openingSoonWindow {
			return StatusOpeningSoon
		}
	}
	return StatusClosed
}

func rangesFor(hours []models.Hour, day string) []openRange {
	var out []openRange
	for _, h := range hours {
		if !strings.EqualFold(h.Day, day) {
			continue
		}
		open, ok := parseClock(h.Open)
		if !ok {
			continue
		}
		closing, ok := parseClock(h.Close)
		if !ok {
			continue
		}
		out = append(out, openRange{open: open, close: closing})
	}
	return out
}

// parseClock parses "HH:MM" into minutes after midnight. "24:00" is midnight
// at the end of the day.
func parseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, false
	}
	return h*60 + m, true
}
