// Package planner defines the planner domain model: items, sub-items,
// schedule placements, and the state tree they live in.
package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/weekplan/internal/core/validate"
)

// Kind determines which pool owns an item.
type Kind string

const (
	KindNormal   Kind = "normal"
	KindRepeated Kind = "repeated"
)

// ParseKind maps text to a Kind. Unknown values fall back to KindNormal
// rather than failing, so older exports with missing or odd kinds still load.
func ParseKind(s string) Kind {
	if Kind(strings.ToLower(strings.TrimSpace(s))) == KindRepeated {
		return KindRepeated
	}
	return KindNormal
}

// Subtype classifies a normal item. The empty value means "none".
type Subtype string

const (
	SubtypeDecide Subtype = "decide"
	SubtypeDelete Subtype = "delete"
	SubtypeDefer  Subtype = "defer"
	SubtypePlan   Subtype = "plan"
	SubtypeDo     Subtype = "do"
)

// IsValid reports whether the subtype is empty or one of the known values.
func (s Subtype) IsValid() bool {
	switch s {
	case "", SubtypeDecide, SubtypeDelete, SubtypeDefer, SubtypePlan, SubtypeDo:
		return true
	default:
		return false
	}
}

// Frequency describes how often a repeated item recurs. The empty value
// means "none".
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyCustom   Frequency = "custom"
)

// IsValid reports whether the frequency is empty or one of the known values.
func (f Frequency) IsValid() bool {
	switch f {
	case "", FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyCustom:
		return true
	default:
		return false
	}
}

// Item is a plannable unit. Items are values: every change produces a new
// Item, the reducer never edits one in place.
type Item struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Kind            Kind      `json:"kind"`
	Subtype         Subtype   `json:"subtype,omitempty"`
	Frequency       Frequency `json:"frequency,omitempty"`
	CustomFrequency int       `json:"custom_frequency,omitempty"` // days, only for FrequencyCustom
	Quantity        int       `json:"quantity"`
	Duration        int       `json:"duration"` // minutes, ignored when SubItems is non-empty
	SubItems        []SubItem `json:"sub_items,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SubItem is a named, independently timed part of an Item.
type SubItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id"`
	Duration  int       `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemInput carries the user-supplied fields for NewItem.
type ItemInput struct {
	Name            string
	Kind            Kind
	Subtype         Subtype
	Frequency       Frequency
	CustomFrequency int
	Quantity        int // 0 means 1
	Duration        int
}

// NewItem builds a validated Item with a fresh id.
func NewItem(in ItemInput) (Item, error) {
	return buildItem(NewID(), in, time.Now().UTC())
}

func buildItem(id string, in ItemInput, createdAt time.Time) (Item, error) {
	kind := ParseKind(string(in.Kind))

	subtype, frequency, custom := in.Subtype, in.Frequency, in.CustomFrequency
	if kind == KindNormal {
		frequency, custom = "", 0
	} else {
		subtype = ""
	}
	if frequency != FrequencyCustom {
		custom = 0
	}

	err := criterio.ValidateStruct(
		validate.NameField("name", in.Name),
		criterio.Run("subtype", subtype, validSubtype),
		criterio.Run("frequency", frequency, validFrequency),
		criterio.Run("custom_frequency", in, validCustomFrequency),
		criterio.Run("quantity", in.Quantity, validate.NonNegative),
		criterio.Run("duration", in.Duration, validate.NonNegative),
	)
	if err != nil {
		return Item{}, &ValidationError{Entity: "item", Err: err}
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	return Item{
		ID:              id,
		Name:            strings.TrimSpace(in.Name),
		Kind:            kind,
		Subtype:         subtype,
		Frequency:       frequency,
		CustomFrequency: custom,
		Quantity:        quantity,
		Duration:        in.Duration,
		CreatedAt:       createdAt,
	}, nil
}

func validSubtype(s Subtype) error {
	if !s.IsValid() {
		return fmt.Errorf("unknown subtype %q", s)
	}
	return nil
}

func validFrequency(f Frequency) error {
	if !f.IsValid() {
		return fmt.Errorf("unknown frequency %q", f)
	}
	return nil
}

func validCustomFrequency(in ItemInput) error {
	if ParseKind(string(in.Kind)) == KindRepeated && in.Frequency == FrequencyCustom && in.CustomFrequency <= 0 {
		return fmt.Errorf("custom frequency needs a positive day count")
	}
	return nil
}

// NewSubItem builds a validated SubItem owned by parentID.
func NewSubItem(name, parentID string, duration int) (SubItem, error) {
	return buildSubItem(NewID(), name, parentID, duration, time.Now().UTC())
}

func buildSubItem(id, name, parentID string, duration int, createdAt time.Time) (SubItem, error) {
	err := criterio.ValidateStruct(
		validate.NameField("name", name),
		criterio.Run("parent_id", parentID, validate.Reference),
		criterio.Run("duration", duration, validate.NonNegative),
	)
	if err != nil {
		return SubItem{}, &ValidationError{Entity: "sub-item", Err: err}
	}

	return SubItem{
		ID:        id,
		Name:      strings.TrimSpace(name),
		ParentID:  parentID,
		Duration:  duration,
		CreatedAt: createdAt,
	}, nil
}

// TotalDuration returns the sum of sub-item durations when the item has
// sub-items, otherwise the item's own duration.
func (i Item) TotalDuration() int {
	if len(i.SubItems) == 0 {
		return i.Duration
	}
	total := 0
	for _, s := range i.SubItems {
		total += s.Duration
	}
	return total
}

// FormattedDuration renders TotalDuration for display.
func (i Item) FormattedDuration() string {
	return FormatDuration(i.TotalDuration())
}

// DurationLocked reports whether the item's own duration is derived from
// its sub-items and so cannot be edited directly.
func (i Item) DurationLocked() bool {
	return len(i.SubItems) > 0
}

// SubItem returns the sub-item with the given id.
func (i Item) SubItem(id string) (SubItem, bool) {
	for _, s := range i.SubItems {
		if s.ID == id {
			return s, true
		}
	}
	return SubItem{}, false
}

// FormattedDuration renders the sub-item duration for display.
func (s SubItem) FormattedDuration() string {
	return FormatDuration(s.Duration)
}

// TotalDuration is the free-function form of Item.TotalDuration.
func TotalDuration(i Item) int {
	return i.TotalDuration()
}

// FormatDuration renders minutes as "1h 30m", "2h", or "45m". Zero and
// negative values render as the empty string.
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}

	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// ParseDuration combines hour and minute form fields into minutes.
// Unparseable parts count as zero.
func ParseDuration(hours, minutes string) int {
	return LeadingInt(hours)*60 + LeadingInt(minutes)
}

// LeadingInt parses the leading run of digits (with optional sign) in s,
// returning 0 when there is none.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
