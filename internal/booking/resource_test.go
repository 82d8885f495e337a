package booking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectResource(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *Resource
	}{
		{
			name: "Bare Array",
			raw:  `[{"Id": 12, "Name": "Court 3", "AvailableSlots": 1}]`,
			want: &Resource{ID: "12", Name: "Court 3"},
		},
		{
			name: "Wrapped In ResourceLocations",
			raw:  `{"ResourceLocations": [{"Id": 4, "Name": "Court 1"}]}`,
			want: &Resource{ID: "4", Name: "Court 1"},
		},
		{
			name: "Wrapped In Data With Alternate Keys",
			raw:  `{"Data": [{"ResourceLocationId": "A7", "ResourceLocationName": "Sector A"}]}`,
			want: &Resource{ID: "A7", Name: "Sector A"},
		},
		{
			name: "First List Key Wins",
			raw:  `{"Locations": [{"LocationId": 2}], "Resources": [{"Id": 9}]}`,
			want: &Resource{ID: "9"},
		},
		{
			name: "Full Candidate Is Skipped",
			raw:  `[{"Id": 1, "Name": "Court 1", "AvailableSlots": 0}, {"Id": 2}]`,
			want: &Resource{ID: "2"},
		},
		{
			name: "Name Only",
			raw:  `[{"Name": "Main Hall"}]`,
			want: &Resource{Name: "Main Hall"},
		},
		{
			name: "Zero Id Falls Through To Next Field",
			raw:  `[{"Id": 0, "ResourceLocationId": 33}]`,
			want: &Resource{ID: "33"},
		},
		{
			name: "Non Numeric Availability Does Not Disqualify",
			raw:  `[{"Id": 5, "AvailableSlots": "unknown"}]`,
			want: &Resource{ID: "5"},
		},
		{
			name: "No Candidate Qualifies",
			raw:  `[{"Id": 1, "AvailableSlots": 0}, {"Description": "nothing useful"}]`,
			want: nil,
		},
		{
			name: "Object Without Known List",
			raw:  `{"Message": "none"}`,
			want: nil,
		},
		{name: "Empty Body", raw: ``, want: nil},
		{name: "Invalid JSON", raw: `{"Id":`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectResource(json.RawMessage(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
