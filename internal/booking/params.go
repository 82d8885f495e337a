package booking

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/nekogravitycat/slot-booker/internal/site"
)

// ReserveParams builds the query the reservation endpoint expects for slot, pinned to res when set.
func ReserveParams(slot site.Slot, res *Resource) url.Values {
	start := slot.StartTime.Format(site.WallClockLayout)
	selection := strconv.FormatBool(slot.ResourceLocationSelectionEnabled)
	activityID := strconv.Itoa(slot.ActivityID)
	facilityID := strconv.Itoa(slot.FacilityID)
	productID := strconv.Itoa(slot.ProductID)
	slotID := strconv.Itoa(slot.SlotID)
	available := strconv.Itoa(slot.AvailableSlots)

	p := url.Values{}
	p.Set("ActivityId", activityID)
	p.Set("ActivityName", slot.ActivityName)
	p.Set("ProductId", productID)
	p.Set("Date", humanDate(slot.StartTime.Time))
	p.Set("StartTime", start)
	p.Set("Time", start)
	p.Set("MultiLocation", "false")
	p.Set("Duration", slot.Duration.String())
	p.Set("FacilityId", facilityID)
	p.Set("FacilityName", slot.FacilityName)
	p.Set("AvailableSlots", available)
	p.Set("ResourceLocationSelectionEnabled", selection)

	p.Set("Locations[0][SlotId]", slotID)
	p.Set("Locations[0][FacilityId]", facilityID)
	p.Set("Locations[0][FacilityName]", slot.FacilityName)
	p.Set("Locations[0][ActivityId]", activityID)
	p.Set("Locations[0][AvailableSlots]", available)
	p.Set("Locations[0][StartTime]", start)
	p.Set("Locations[0][ActivityName]", slot.ActivityName)
	p.Set("Locations[0][ProductId]", productID)
	p.Set("Locations[0][Duration]", slot.Duration.String())
	p.Set("Locations[0][ResourceLocationSelectionEnabled]", selection)

	p.Set("AddedToBasket", "false")
	p.Set("Text", "1 Slots")
	p.Set("SlotId", slotID)

	if res != nil {
		if res.ID != "" {
			p.Set("SelectedCourts", res.ID)
		}
		if res.Name != "" {
			p.Set("ResourceLocation", res.Name)
		}
	}
	return p
}

// flattenParams turns single-valued params into a map for JSON output.
func flattenParams(p url.Values) map[string]string {
	out := make(map[string]string, len(p))
	for k := range p {
		out[k] = p.Get(k)
	}
	return out
}

// humanDate renders d the way the booking form does, e.g. "Wednesday, July 9th 2025".
func humanDate(d time.Time) string {
	return fmt.Sprintf("%s, %s %s %d", d.Weekday(), d.Month(), ordinal(d.Day()), d.Year())
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 10 || n%100 > 20 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
