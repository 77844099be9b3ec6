package model

import "time"

// GeneratedSlot is a concrete bookable 30-minute unit derived from the
// weekly template plus date overrides. It is computed on demand and never
// persisted; the booking table is the only source of truth for occupancy.
type GeneratedSlot struct {
	Date            time.Time `json:"date"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Medium          Medium    `json:"medium"`
	Available       bool      `json:"available"`
	PriceCents      int64     `json:"price_cents"`
	// Group fields serialize unconditionally: a full slot reports
	// group_spots_left 0, which clients must be able to render.
	GroupSpotsLeft  int `json:"group_spots_left"`
	GroupSpotsTotal int `json:"group_spots_total"`
}
