package schedule

import (
	"github.com/tutorlane/slotengine/internal/model"
)

// Resolve intersects candidate slots with existing bookings and fills the
// availability and group-capacity fields. Candidates are not mutated; a new
// slice is returned so callers can re-resolve against fresher booking state.
//
// A booking occupies every 30-minute unit it overlaps, so a 90-minute
// session blocks three consecutive units. Cancelled bookings never block.
func Resolve(candidates []*model.GeneratedSlot, bookings []*model.Booking, maxGroupSize int) []*model.GeneratedSlot {
	resolved := make([]*model.GeneratedSlot, 0, len(candidates))
	for _, c := range candidates {
		slot := *c
		if slot.Medium == model.MediumGroup {
			occupied := overlapCount(bookings, &slot)
			total := maxGroupSize
			if total < 1 {
				total = 1
			}
			left := total - occupied
			if left < 0 {
				left = 0
			}
			slot.GroupSpotsTotal = total
			slot.GroupSpotsLeft = left
			slot.Available = left > 0
		} else {
			slot.Available = overlapCount(bookings, &slot) == 0
		}
		resolved = append(resolved, &slot)
	}
	return resolved
}

func overlapCount(bookings []*model.Booking, slot *model.GeneratedSlot) int {
	n := 0
	for _, b := range bookings {
		if !b.Occupies() || b.Medium != slot.Medium {
			continue
		}
		if b.ScheduledAt.Before(slot.End) && b.EndTime().After(slot.Start) {
			n++
		}
	}
	return n
}
