package weekplan

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/core/transfer"
)

var (
	// ErrNotFound is returned when an item or sub-item id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDurationLocked is returned when editing the duration of an item
	// whose duration is the sum of its sub-items.
	ErrDurationLocked = errors.New("duration is derived from sub-items")
	// ErrNoPlacement is returned when a cell has no placement at a position.
	ErrNoPlacement = errors.New("no placement at position")
)

// ItemUpdate lists the item fields to change. Nil fields are kept.
type ItemUpdate struct {
	Name            *string
	Subtype         *planner.Subtype
	Frequency       *planner.Frequency
	CustomFrequency *int
	Quantity        *int
	Duration        *int
}

// ImportSummary counts what an import loaded.
type ImportSummary struct {
	Items         int `json:"items"`
	RepeatedItems int `json:"repeated_items"`
	Placements    int `json:"placements"`
}

// PlannerService turns user intents into store actions. It validates
// input up front so that every dispatched action is well formed.
type PlannerService struct {
	store   *planner.Store
	version string
	log     zerolog.Logger
	now     func() time.Time
}

// NewPlannerService creates a PlannerService over store. version is stamped
// on exports.
func NewPlannerService(store *planner.Store, version string, log zerolog.Logger) *PlannerService {
	return &PlannerService{
		store:   store,
		version: version,
		log:     log.With().Str("component", "planner-service").Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// State returns the current state.
func (s *PlannerService) State() *planner.State {
	return s.store.State()
}

// AddItem creates an item in the pool matching its kind.
func (s *PlannerService) AddItem(in planner.ItemInput) (planner.Item, error) {
	it, err := planner.NewItem(in)
	if err != nil {
		return planner.Item{}, err
	}

	s.store.Dispatch(planner.AddItem{Item: it})
	s.log.Debug().Str("item_id", it.ID).Str("kind", string(it.Kind)).Msg("item added")
	return it, nil
}

// AddItems creates several items. Every input is validated before any item
// is added, so a bad entry leaves the state untouched.
func (s *PlannerService) AddItems(inputs []planner.ItemInput) ([]planner.Item, error) {
	items := make([]planner.Item, 0, len(inputs))
	for i, in := range inputs {
		it, err := planner.NewItem(in)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		items = append(items, it)
	}

	for _, it := range items {
		s.store.Dispatch(planner.AddItem{Item: it})
	}
	return items, nil
}

// Item returns the item with id from either pool.
func (s *PlannerService) Item(id string) (planner.Item, error) {
	it, ok := s.store.State().Lookup(id)
	if !ok {
		return planner.Item{}, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	return it, nil
}

// Items lists the items of one kind, oldest first.
func (s *PlannerService) Items(kind planner.Kind) []planner.Item {
	items := slices.Collect(maps.Values(s.store.State().Pool(kind)))
	slices.SortFunc(items, func(a, b planner.Item) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return items
}

// UpdateItem applies upd to an item. The merged item is validated as a
// whole before anything is dispatched.
func (s *PlannerService) UpdateItem(id string, upd ItemUpdate) (planner.Item, error) {
	current, err := s.Item(id)
	if err != nil {
		return planner.Item{}, err
	}

	if upd.Duration != nil && current.DurationLocked() {
		return planner.Item{}, fmt.Errorf("item %q: %w", current.Name, ErrDurationLocked)
	}

	in := planner.ItemInput{
		Name:            current.Name,
		Kind:            current.Kind,
		Subtype:         current.Subtype,
		Frequency:       current.Frequency,
		CustomFrequency: current.CustomFrequency,
		Quantity:        current.Quantity,
		Duration:        current.Duration,
	}
	if upd.Name != nil {
		in.Name = *upd.Name
	}
	if upd.Subtype != nil {
		in.Subtype = *upd.Subtype
	}
	if upd.Frequency != nil {
		in.Frequency = *upd.Frequency
	}
	if upd.CustomFrequency != nil {
		in.CustomFrequency = *upd.CustomFrequency
	}
	if upd.Quantity != nil {
		in.Quantity = *upd.Quantity
	}
	if upd.Duration != nil {
		in.Duration = *upd.Duration
	}

	// NewItem normalizes and validates; only its fields are used.
	merged, err := planner.NewItem(in)
	if err != nil {
		return planner.Item{}, err
	}

	s.store.Dispatch(planner.UpdateItem{
		ID:   id,
		Kind: current.Kind,
		Patch: planner.ItemPatch{
			Name:            &merged.Name,
			Subtype:         &merged.Subtype,
			Frequency:       &merged.Frequency,
			CustomFrequency: &merged.CustomFrequency,
			Quantity:        &merged.Quantity,
			Duration:        &merged.Duration,
		},
	})

	return s.Item(id)
}

// RemoveItem deletes an item. Placements that refer to it stay in the grid
// and are hidden.
func (s *PlannerService) RemoveItem(id string) error {
	it, err := s.Item(id)
	if err != nil {
		return err
	}
	s.store.Dispatch(planner.RemoveItem{ID: id, Kind: it.Kind})
	return nil
}

// AddSubItem appends a sub-item to an item.
func (s *PlannerService) AddSubItem(parentID, name string, duration int) (planner.SubItem, error) {
	parent, err := s.Item(parentID)
	if err != nil {
		return planner.SubItem{}, err
	}

	sub, err := planner.NewSubItem(name, parent.ID, duration)
	if err != nil {
		return planner.SubItem{}, err
	}

	s.store.Dispatch(planner.AddSubItem{ParentID: parent.ID, Kind: parent.Kind, SubItem: sub})
	return sub, nil
}

// UpdateSubItem renames a sub-item or changes its duration.
func (s *PlannerService) UpdateSubItem(parentID, subID string, name *string, duration *int) (planner.SubItem, error) {
	parent, current, err := s.subItem(parentID, subID)
	if err != nil {
		return planner.SubItem{}, err
	}

	newName, newDuration := current.Name, current.Duration
	if name != nil {
		newName = *name
	}
	if duration != nil {
		newDuration = *duration
	}

	merged, err := planner.NewSubItem(newName, parent.ID, newDuration)
	if err != nil {
		return planner.SubItem{}, err
	}

	s.store.Dispatch(planner.UpdateSubItem{
		ParentID:  parent.ID,
		Kind:      parent.Kind,
		SubItemID: subID,
		Patch:     planner.SubItemPatch{Name: &merged.Name, Duration: &merged.Duration},
	})

	_, updated, err := s.subItem(parentID, subID)
	return updated, err
}

// RemoveSubItem drops a sub-item from its parent.
func (s *PlannerService) RemoveSubItem(parentID, subID string) error {
	parent, _, err := s.subItem(parentID, subID)
	if err != nil {
		return err
	}
	s.store.Dispatch(planner.RemoveSubItem{ParentID: parent.ID, Kind: parent.Kind, SubItemID: subID})
	return nil
}

func (s *PlannerService) subItem(parentID, subID string) (planner.Item, planner.SubItem, error) {
	parent, err := s.Item(parentID)
	if err != nil {
		return planner.Item{}, planner.SubItem{}, err
	}
	sub, ok := parent.SubItem(subID)
	if !ok {
		return planner.Item{}, planner.SubItem{}, fmt.Errorf("sub-item %q of %q: %w", subID, parent.Name, ErrNotFound)
	}
	return parent, sub, nil
}

// Schedule places an item, or one of its sub-items when subItemID is set,
// at the end of a cell and returns its position.
func (s *PlannerService) Schedule(day planner.Day, slot planner.TimeSlot, itemID, subItemID string) (int, error) {
	if subItemID != "" {
		if _, _, err := s.subItem(itemID, subItemID); err != nil {
			return 0, err
		}
	} else if _, err := s.Item(itemID); err != nil {
		return 0, err
	}

	position := len(s.store.State().Schedule[planner.ScheduleKey(day, slot)])
	s.store.Dispatch(planner.Schedule{
		Day:       day,
		TimeSlot:  slot,
		ItemID:    itemID,
		SubItemID: subItemID,
		Index:     position,
		At:        s.now(),
	})
	return position, nil
}

// Unschedule removes the placement at position from a cell.
func (s *PlannerService) Unschedule(day planner.Day, slot planner.TimeSlot, position int) error {
	if err := s.checkPlacement(day, slot, position); err != nil {
		return err
	}
	s.store.Dispatch(planner.Unschedule{Day: day, TimeSlot: slot, Index: position})
	return nil
}

// ToggleCompletion flips a placement's completion flag and returns the new
// value.
func (s *PlannerService) ToggleCompletion(day planner.Day, slot planner.TimeSlot, position int) (bool, error) {
	if err := s.checkPlacement(day, slot, position); err != nil {
		return false, err
	}
	next := s.store.Dispatch(planner.ToggleCompletion{Day: day, TimeSlot: slot, Index: position})
	return next.IsCompleted(day, slot, position), nil
}

func (s *PlannerService) checkPlacement(day planner.Day, slot planner.TimeSlot, position int) error {
	cell := s.store.State().Schedule[planner.ScheduleKey(day, slot)]
	if position < 0 || position >= len(cell) {
		return fmt.Errorf("%s %s #%d: %w", day, slot, position, ErrNoPlacement)
	}
	return nil
}

// ClearSchedule empties the grid and every completion flag.
func (s *PlannerService) ClearSchedule() {
	s.store.Dispatch(planner.ClearSchedule{})
}

// ClearAll removes every item, placement and completion flag.
func (s *PlannerService) ClearAll() {
	s.store.Dispatch(planner.ClearAllData{})
}

// Import parses a .json or .csv file and replaces the state with its
// contents in one step. Nothing changes when parsing fails.
func (s *PlannerService) Import(path string, r io.Reader) (ImportSummary, error) {
	data, err := transfer.Import(path, r)
	if err != nil {
		return ImportSummary{}, err
	}

	next := s.store.Dispatch(data)

	summary := ImportSummary{
		Items:         len(next.Items),
		RepeatedItems: len(next.RepeatedItems),
	}
	for _, cell := range next.Schedule {
		summary.Placements += len(cell)
	}

	s.log.Info().
		Str("file", filepath.Base(path)).
		Int("items", summary.Items).
		Int("repeated_items", summary.RepeatedItems).
		Int("placements", summary.Placements).
		Msg("imported planner data")
	return summary, nil
}

// Export writes the state as format ("json" or "csv"). scope applies to
// CSV only.
func (s *PlannerService) Export(w io.Writer, format string, scope transfer.Section) error {
	state := s.store.State()
	switch strings.ToLower(format) {
	case "json":
		return transfer.ExportJSON(w, state, s.version, s.now())
	case "csv":
		return transfer.ExportCSV(w, state, scope, s.now())
	default:
		return fmt.Errorf("unsupported export format %q, want json or csv", format)
	}
}
