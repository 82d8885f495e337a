package booking

import (
	"sort"

	"github.com/nekogravitycat/slot-booker/internal/site"
)

// EligibleSlots returns the slots for activityID that still have capacity and start
// inside w, earliest first. Slots sharing a start time keep their input order.
func EligibleSlots(slots []site.Slot, activityID int, w Window) []site.Slot {
	var out []site.Slot
	for _, s := range slots {
		if s.ActivityID != activityID {
			continue
		}
		if s.AvailableSlots <= 0 {
			continue
		}
		if !w.Contains(s.StartTime.Time) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime.Time)
	})
	return out
}

// SelectSlot picks the earliest eligible slot.
func SelectSlot(slots []site.Slot, activityID int, w Window) (site.Slot, bool) {
	candidates := EligibleSlots(slots, activityID, w)
	if len(candidates) == 0 {
		return site.Slot{}, false
	}
	return candidates[0], true
}
