package schedule

import (
	"time"

	"github.com/tutorlane/slotengine/internal/model"
)

// MaxDuration returns the longest bookable duration in minutes starting at
// start, given the ordered resolved slot list for one date and medium. The
// walk stops at the first missing, unavailable or non-contiguous unit.
// The value is always recomputed from the live slot list, so it shrinks
// automatically when another student books an intervening unit.
func MaxDuration(slots []*model.GeneratedSlot, start time.Time) int {
	idx := -1
	for i, s := range slots {
		if s.Start.Equal(start) {
			idx = i
			break
		}
	}
	if idx < 0 || !slots[idx].Available {
		return 0
	}

	count := 1
	for i := idx + 1; i < len(slots); i++ {
		prev := slots[i-1]
		next := slots[i]
		if !next.Start.Equal(prev.End) || !next.Available {
			break
		}
		count++
	}
	return count * model.SlotUnitMinutes
}

// SpanAvailable reports whether every unit in [start, start+duration) exists
// in slots and is available. For group slots availability already encodes
// remaining capacity per unit, which can differ across the span when other
// students partially filled it.
func SpanAvailable(slots []*model.GeneratedSlot, start time.Time, durationMinutes int) bool {
	units := durationMinutes / model.SlotUnitMinutes
	for i := 0; i < units; i++ {
		unitStart := start.Add(time.Duration(i*model.SlotUnitMinutes) * time.Minute)
		found := false
		for _, s := range slots {
			if s.Start.Equal(unitStart) {
				found = s.Available
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
