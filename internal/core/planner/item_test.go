package planner_test

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/planner"
)

func TestNewItem(t *testing.T) {
	tests := []struct {
		name    string
		in      planner.ItemInput
		want    planner.Item
		wantErr string
	}{
		{
			name: "normal with subtype",
			in:   planner.ItemInput{Name: "  Laundry ", Kind: planner.KindNormal, Subtype: planner.SubtypeDo, Duration: 45},
			want: planner.Item{Name: "Laundry", Kind: planner.KindNormal, Subtype: planner.SubtypeDo, Quantity: 1, Duration: 45},
		},
		{
			name: "repeated drops subtype",
			in:   planner.ItemInput{Name: "Gym", Kind: planner.KindRepeated, Subtype: planner.SubtypePlan, Frequency: planner.FrequencyWeekly},
			want: planner.Item{Name: "Gym", Kind: planner.KindRepeated, Frequency: planner.FrequencyWeekly, Quantity: 1},
		},
		{
			name: "normal drops frequency",
			in:   planner.ItemInput{Name: "Taxes", Frequency: planner.FrequencyDaily, Quantity: 3},
			want: planner.Item{Name: "Taxes", Kind: planner.KindNormal, Quantity: 3},
		},
		{
			name: "unknown kind downgrades to normal",
			in:   planner.ItemInput{Name: "Dishes", Kind: "weird"},
			want: planner.Item{Name: "Dishes", Kind: planner.KindNormal, Quantity: 1},
		},
		{
			name: "custom frequency keeps day count",
			in:   planner.ItemInput{Name: "Plants", Kind: planner.KindRepeated, Frequency: planner.FrequencyCustom, CustomFrequency: 3},
			want: planner.Item{Name: "Plants", Kind: planner.KindRepeated, Frequency: planner.FrequencyCustom, CustomFrequency: 3, Quantity: 1},
		},
		{
			name: "custom day count dropped for other frequencies",
			in:   planner.ItemInput{Name: "Plants", Kind: planner.KindRepeated, Frequency: planner.FrequencyMonthly, CustomFrequency: 3},
			want: planner.Item{Name: "Plants", Kind: planner.KindRepeated, Frequency: planner.FrequencyMonthly, Quantity: 1},
		},
		{
			name:    "blank name",
			in:      planner.ItemInput{Name: "   "},
			wantErr: "name",
		},
		{
			name:    "negative duration",
			in:      planner.ItemInput{Name: "x", Duration: -1},
			wantErr: "duration",
		},
		{
			name:    "negative quantity",
			in:      planner.ItemInput{Name: "x", Quantity: -2},
			wantErr: "quantity",
		},
		{
			name:    "unknown subtype",
			in:      planner.ItemInput{Name: "x", Subtype: "maybe"},
			wantErr: "subtype",
		},
		{
			name:    "custom frequency without days",
			in:      planner.ItemInput{Name: "x", Kind: planner.KindRepeated, Frequency: planner.FrequencyCustom},
			wantErr: "custom_frequency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := planner.NewItem(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)

				var verr *planner.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "item", verr.Entity)

				var fields criterio.FieldErrors
				require.ErrorAs(t, err, &fields)
				require.NotEmpty(t, fields)
				assert.Equal(t, tt.wantErr, fields[0].Field)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.False(t, got.CreatedAt.IsZero())

			got.ID = ""
			got.CreatedAt = tt.want.CreatedAt
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewItem_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		it, err := planner.NewItem(planner.ItemInput{Name: "x"})
		require.NoError(t, err)
		require.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
}

func TestNewSubItem(t *testing.T) {
	sub, err := planner.NewSubItem(" wipe counters ", "parent-1", 10)
	require.NoError(t, err)
	assert.Equal(t, "wipe counters", sub.Name)
	assert.Equal(t, "parent-1", sub.ParentID)
	assert.Equal(t, 10, sub.Duration)
	assert.NotEmpty(t, sub.ID)

	tests := []struct {
		name     string
		subName  string
		parentID string
		duration int
	}{
		{name: "empty name", subName: "", parentID: "p", duration: 0},
		{name: "missing parent", subName: "x", parentID: "", duration: 0},
		{name: "negative duration", subName: "x", parentID: "p", duration: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planner.NewSubItem(tt.subName, tt.parentID, tt.duration)
			var verr *planner.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "sub-item", verr.Entity)
		})
	}
}

func TestTotalDuration(t *testing.T) {
	it := planner.Item{Duration: 30}
	assert.Equal(t, 30, planner.TotalDuration(it))
	assert.False(t, it.DurationLocked())

	it.SubItems = []planner.SubItem{{Duration: 10}, {Duration: 25}, {Duration: 0}}
	assert.Equal(t, 35, it.TotalDuration())
	assert.True(t, it.DurationLocked())
	assert.Equal(t, "35m", it.FormattedDuration())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, ""},
		{-10, ""},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{61, "1h 1m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, planner.FormatDuration(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90, planner.ParseDuration("1", "30"))
	assert.Equal(t, 30, planner.ParseDuration("", "30"))
	assert.Equal(t, 120, planner.ParseDuration("2h", "abc"))
	assert.Equal(t, 0, planner.ParseDuration("", ""))
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12", 12},
		{" 7 ", 7},
		{"3 boxes", 3},
		{"-4", -4},
		{"+9", 9},
		{"abc", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, planner.LeadingInt(tt.in), "in=%q", tt.in)
	}
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, planner.KindRepeated, planner.ParseKind("Repeated"))
	assert.Equal(t, planner.KindNormal, planner.ParseKind("normal"))
	assert.Equal(t, planner.KindNormal, planner.ParseKind(""))
	assert.Equal(t, planner.KindNormal, planner.ParseKind("bogus"))
}
