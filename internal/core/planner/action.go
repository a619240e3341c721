package planner

import "time"

// Action is one of the closed set of state transitions understood by
// Reduce. The unexported marker keeps the set closed to this package.
type Action interface {
	action()
}

// AddItem inserts Item into the pool matching its kind, replacing any item
// with the same id.
type AddItem struct {
	Item Item
}

// RemoveItem deletes an item from the pool of the given kind.
type RemoveItem struct {
	ID   string
	Kind Kind
}

// ItemPatch lists the fields to overwrite on an item. Nil fields are left
// alone. SubItems, when set, replaces the whole sequence.
type ItemPatch struct {
	Name            *string
	Subtype         *Subtype
	Frequency       *Frequency
	CustomFrequency *int
	Quantity        *int
	Duration        *int
	SubItems        *[]SubItem
}

// UpdateItem merges Patch onto the item with the given id.
type UpdateItem struct {
	ID    string
	Kind  Kind
	Patch ItemPatch
}

// AddSubItem appends SubItem to the parent item's sub-items.
type AddSubItem struct {
	ParentID string
	Kind     Kind
	SubItem  SubItem
}

// RemoveSubItem drops one sub-item from its parent.
type RemoveSubItem struct {
	ParentID  string
	Kind      Kind
	SubItemID string
}

// SubItemPatch lists the sub-item fields to overwrite.
type SubItemPatch struct {
	Name     *string
	Duration *int
}

// UpdateSubItem merges Patch onto one sub-item of a parent.
type UpdateSubItem struct {
	ParentID  string
	Kind      Kind
	SubItemID string
	Patch     SubItemPatch
}

// Schedule appends a placement to the (Day, TimeSlot) cell. Index is kept
// on the placement as a hint and does not pick the insertion position.
type Schedule struct {
	Day       Day
	TimeSlot  TimeSlot
	ItemID    string
	SubItemID string
	Index     int
	At        time.Time
}

// Unschedule removes the placement at Index from the (Day, TimeSlot) cell.
type Unschedule struct {
	Day      Day
	TimeSlot TimeSlot
	Index    int
}

// ToggleCompletion flips the completion flag of the placement at Index.
type ToggleCompletion struct {
	Day      Day
	TimeSlot TimeSlot
	Index    int
}

// ClearSchedule empties the grid and every completion flag.
type ClearSchedule struct{}

// ClearAllData resets the state to NewState.
type ClearAllData struct{}

// LoadData overwrites each collection that is non-nil and leaves nil ones
// untouched.
type LoadData struct {
	Items          map[string]Item
	RepeatedItems  map[string]Item
	Schedule       map[string][]ScheduleItem
	CompletedItems map[string]bool
}

// Empty reports whether the load carries no collections at all.
func (l LoadData) Empty() bool {
	return l.Items == nil && l.RepeatedItems == nil && l.Schedule == nil && l.CompletedItems == nil
}

func (AddItem) action()          {}
func (RemoveItem) action()       {}
func (UpdateItem) action()       {}
func (AddSubItem) action()       {}
func (RemoveSubItem) action()    {}
func (UpdateSubItem) action()    {}
func (Schedule) action()         {}
func (Unschedule) action()       {}
func (ToggleCompletion) action() {}
func (ClearSchedule) action()    {}
func (ClearAllData) action()     {}
func (LoadData) action()         {}
