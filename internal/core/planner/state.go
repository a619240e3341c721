package planner

import (
	"fmt"
	"strings"
	"time"
)

// Day is one of the seven fixed weekday labels.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists the grid rows in display order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// TimeSlot is one of the four fixed columns of the weekly grid.
type TimeSlot string

const (
	Morning   TimeSlot = "Morning"
	Afternoon TimeSlot = "Afternoon"
	Evening   TimeSlot = "Evening"
	Night     TimeSlot = "Night"
)

// TimeSlots lists the grid columns in display order.
var TimeSlots = []TimeSlot{Morning, Afternoon, Evening, Night}

// ParseDay matches a weekday label case-insensitively. Three-letter
// abbreviations are accepted.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Days {
		name := strings.ToLower(string(d))
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown day %q", s)
}

// ParseTimeSlot matches a time slot label case-insensitively.
func ParseTimeSlot(s string) (TimeSlot, error) {
	s = strings.TrimSpace(s)
	for _, ts := range TimeSlots {
		if strings.EqualFold(s, string(ts)) {
			return ts, nil
		}
	}
	return "", fmt.Errorf("unknown time slot %q", s)
}

// ScheduleItem places an item, or one of its sub-items, into a grid cell.
// It holds weak references: the item may be deleted while the placement
// remains, in which case the placement is hidden rather than removed.
type ScheduleItem struct {
	ItemID      string    `json:"item_id"`
	SubItemID   string    `json:"sub_item_id,omitempty"` // empty refers to the main item
	Day         Day       `json:"day"`
	TimeSlot    TimeSlot  `json:"time_slot"`
	Index       int       `json:"index"` // placement-time hint, not the position in the cell
	Completed   bool      `json:"completed"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Key identifies what the placement refers to: the item id, or
// "{itemId}-{subItemId}" for a sub-item.
func (p ScheduleItem) Key() string {
	if p.SubItemID == "" {
		return p.ItemID
	}
	return p.ItemID + "-" + p.SubItemID
}

// ScheduleKey is the composite key of one grid cell.
func ScheduleKey(day Day, slot TimeSlot) string {
	return string(day) + "-" + string(slot)
}

// CompletionKey is the key of a placement's completion flag. It embeds the
// placement's position in its cell, so removing an earlier placement shifts
// which flag a later placement reads.
func CompletionKey(itemID, subItemID string, day Day, slot TimeSlot, position int) string {
	sub := subItemID
	if sub == "" {
		sub = "main"
	}
	return fmt.Sprintf("%s-%s-%s-%s-%d", itemID, sub, day, slot, position)
}

// State is the whole planner state tree. A *State is treated as immutable:
// Reduce returns a new value whenever anything changes, so pointer equality
// tells observers whether a transition happened.
type State struct {
	Items          map[string]Item
	RepeatedItems  map[string]Item
	Schedule       map[string][]ScheduleItem
	CompletedItems map[string]bool
}

// NewState returns the empty initial state.
func NewState() *State {
	return &State{
		Items:          map[string]Item{},
		RepeatedItems:  map[string]Item{},
		Schedule:       map[string][]ScheduleItem{},
		CompletedItems: map[string]bool{},
	}
}

// Pool returns the container that owns items of the given kind.
func (s *State) Pool(kind Kind) map[string]Item {
	if kind == KindRepeated {
		return s.RepeatedItems
	}
	return s.Items
}

// Lookup finds an item by id in either pool.
func (s *State) Lookup(id string) (Item, bool) {
	if it, ok := s.Items[id]; ok {
		return it, true
	}
	it, ok := s.RepeatedItems[id]
	return it, ok
}

// Resolve returns the item and, when referenced, the sub-item a placement
// points at. ok is false for orphaned placements.
func (s *State) Resolve(p ScheduleItem) (item Item, sub *SubItem, ok bool) {
	item, ok = s.Lookup(p.ItemID)
	if !ok {
		return Item{}, nil, false
	}
	if p.SubItemID != "" {
		if si, found := item.SubItem(p.SubItemID); found {
			sub = &si
		}
	}
	return item, sub, true
}

// IsCompleted reports the completion flag of the placement at position in
// the given cell.
func (s *State) IsCompleted(day Day, slot TimeSlot, position int) bool {
	cell := s.Schedule[ScheduleKey(day, slot)]
	if position < 0 || position >= len(cell) {
		return false
	}
	p := cell[position]
	return s.CompletedItems[CompletionKey(p.ItemID, p.SubItemID, day, slot, position)]
}

// CellEntry is a resolved, visible placement.
type CellEntry struct {
	Position  int
	Placement ScheduleItem
	Item      Item
	SubItem   *SubItem
	Completed bool
}

// Name is the display name: the sub-item's name when the placement
// refers to one, otherwise the item's.
func (e CellEntry) Name() string {
	if e.SubItem != nil {
		return e.SubItem.Name
	}
	return e.Item.Name
}

// Duration is the entry's minutes: the sub-item's own duration, or the
// item's total.
func (e CellEntry) Duration() int {
	if e.SubItem != nil {
		return e.SubItem.Duration
	}
	return e.Item.TotalDuration()
}

// Cell returns the visible placements of a grid cell. Orphaned placements
// are skipped; Position keeps each entry's real index in the cell.
func (s *State) Cell(day Day, slot TimeSlot) []CellEntry {
	cell := s.Schedule[ScheduleKey(day, slot)]
	entries := make([]CellEntry, 0, len(cell))
	for i, p := range cell {
		item, sub, ok := s.Resolve(p)
		if !ok {
			continue
		}
		entries = append(entries, CellEntry{
			Position:  i,
			Placement: p,
			Item:      item,
			SubItem:   sub,
			Completed: s.CompletedItems[CompletionKey(p.ItemID, p.SubItemID, day, slot, i)],
		})
	}
	return entries
}
