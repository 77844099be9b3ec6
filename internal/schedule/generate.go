package schedule

import (
	"sort"
	"time"

	"github.com/tutorlane/slotengine/internal/model"
)

// Generate expands a tutor's weekly template plus date overrides into the
// candidate slot set for [from, to] (dates inclusive, UTC). The result is a
// pure function of the calendar: it knows nothing about bookings, which are
// applied separately by Resolve. Dates with no candidate slots are simply
// absent from the output.
func Generate(template []*model.WeeklySlot, overrides []*model.DateOverride, medium model.Medium, from, to time.Time) []*model.GeneratedSlot {
	from = DateOf(from)
	to = DateOf(to)

	// Template start minutes per weekday for the requested medium.
	byWeekday := make(map[int][]int)
	for _, ws := range template {
		if ws.Medium != medium {
			continue
		}
		byWeekday[ws.Weekday] = append(byWeekday[ws.Weekday], ws.StartMinute)
	}

	// Overrides keyed by date, split into removals and additions.
	type dayOverride struct {
		removed map[int]bool
		added   map[int]bool
	}
	byDate := make(map[time.Time]*dayOverride)
	for _, ov := range overrides {
		if ov.Medium != medium {
			continue
		}
		date := DateOf(ov.Date)
		day := byDate[date]
		if day == nil {
			day = &dayOverride{removed: make(map[int]bool), added: make(map[int]bool)}
			byDate[date] = day
		}
		if ov.IsAvailable {
			day.added[ov.StartMinute] = true
		} else {
			day.removed[ov.StartMinute] = true
		}
	}

	var slots []*model.GeneratedSlot
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		minutes := make(map[int]bool)
		for _, m := range byWeekday[int(date.Weekday())] {
			minutes[m] = true
		}
		if day := byDate[date]; day != nil {
			for m := range day.removed {
				delete(minutes, m)
			}
			for m := range day.added {
				minutes[m] = true
			}
		}
		if len(minutes) == 0 {
			continue
		}

		ordered := make([]int, 0, len(minutes))
		for m := range minutes {
			ordered = append(ordered, m)
		}
		sort.Ints(ordered)

		for _, m := range ordered {
			start := date.Add(time.Duration(m) * time.Minute)
			slots = append(slots, &model.GeneratedSlot{
				Date:      date,
				Start:     start,
				End:       start.Add(model.SlotUnitMinutes * time.Minute),
				Medium:    medium,
				Available: true,
			})
		}
	}

	return slots
}

// DateOf truncates t to its UTC calendar date (midnight).
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
