package booking

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Resource extraction rules for the GetResourceLocation response. The endpoint has been
// seen returning both a bare array and an object wrapping the array, with the id and name
// under different keys. Rules are applied in the order listed.
var (
	// candidateListKeys are probed in order when the response is an object; the first
	// key holding an array wins.
	candidateListKeys = []string{"ResourceLocations", "Resources", "Locations", "Data"}

	// resourceIDFields and resourceNameFields are probed in order per candidate; the
	// first non-empty, non-zero value wins.
	resourceIDFields   = []string{"Id", "ResourceLocationId", "LocationId"}
	resourceNameFields = []string{"Name", "ResourceLocationName", "LocationName"}

	// availabilityField, when numeric and <= 0, disqualifies a candidate.
	availabilityField = "AvailableSlots"
)

// SelectResource applies the extraction rules to a raw response and returns the first
// usable candidate, or nil when none qualifies.
func SelectResource(raw json.RawMessage) *Resource {
	for _, c := range resourceCandidates(raw) {
		if n, ok := numberField(c, availabilityField); ok && n <= 0 {
			continue
		}
		id := firstPresent(c, resourceIDFields)
		name := firstPresent(c, resourceNameFields)
		if id != "" || name != "" {
			return &Resource{ID: id, Name: name}
		}
	}
	return nil
}

func resourceCandidates(raw json.RawMessage) []map[string]any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil
	}

	var list []any
	switch v := doc.(type) {
	case []any:
		list = v
	case map[string]any:
		for _, key := range candidateListKeys {
			if arr, ok := v[key].([]any); ok {
				list = arr
				break
			}
		}
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func numberField(obj map[string]any, key string) (float64, bool) {
	n, ok := obj[key].(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// firstPresent returns the first field value that is a non-empty string or a non-zero number.
func firstPresent(obj map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			if f, err := v.Float64(); err == nil && f != 0 {
				if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
					return strconv.FormatInt(i, 10)
				}
				return v.String()
			}
		}
	}
	return ""
}
