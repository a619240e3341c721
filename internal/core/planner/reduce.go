package planner

import (
	"maps"
	"slices"
	"strings"
)

// Reduce computes the state that follows s after applying a. It never
// mutates s. Actions that cannot apply (unknown ids, out of range indexes)
// return s itself, so callers can detect a no-op with pointer equality.
func Reduce(s *State, a Action) *State {
	if s == nil {
		s = NewState()
	}

	switch a := a.(type) {
	case AddItem:
		item := cloneItem(a.Item)
		item.Kind = ParseKind(string(item.Kind))
		pool := cloneMap(s.Pool(item.Kind))
		pool[item.ID] = item
		return s.withPool(item.Kind, pool)

	case RemoveItem:
		kind := ParseKind(string(a.Kind))
		if _, ok := s.Pool(kind)[a.ID]; !ok {
			return s
		}
		pool := cloneMap(s.Pool(kind))
		delete(pool, a.ID)
		return s.withPool(kind, pool)

	case UpdateItem:
		return s.updateItem(a.ID, a.Kind, func(it Item) (Item, bool) {
			return applyItemPatch(it, a.Patch), true
		})

	case AddSubItem:
		return s.updateItem(a.ParentID, a.Kind, func(it Item) (Item, bool) {
			it.SubItems = append(slices.Clone(it.SubItems), a.SubItem)
			return it, true
		})

	case RemoveSubItem:
		return s.updateItem(a.ParentID, a.Kind, func(it Item) (Item, bool) {
			idx := slices.IndexFunc(it.SubItems, func(si SubItem) bool { return si.ID == a.SubItemID })
			if idx < 0 {
				return it, false
			}
			it.SubItems = slices.Delete(slices.Clone(it.SubItems), idx, idx+1)
			return it, true
		})

	case UpdateSubItem:
		return s.updateItem(a.ParentID, a.Kind, func(it Item) (Item, bool) {
			idx := slices.IndexFunc(it.SubItems, func(si SubItem) bool { return si.ID == a.SubItemID })
			if idx < 0 {
				return it, false
			}
			subs := slices.Clone(it.SubItems)
			if a.Patch.Name != nil {
				subs[idx].Name = strings.TrimSpace(*a.Patch.Name)
			}
			if a.Patch.Duration != nil {
				subs[idx].Duration = *a.Patch.Duration
			}
			it.SubItems = subs
			return it, true
		})

	case Schedule:
		key := ScheduleKey(a.Day, a.TimeSlot)
		placement := ScheduleItem{
			ItemID:      a.ItemID,
			SubItemID:   a.SubItemID,
			Day:         a.Day,
			TimeSlot:    a.TimeSlot,
			Index:       a.Index,
			ScheduledAt: a.At,
		}
		schedule := cloneMap(s.Schedule)
		schedule[key] = append(slices.Clone(s.Schedule[key]), placement)
		next := *s
		next.Schedule = schedule
		return &next

	case Unschedule:
		key := ScheduleKey(a.Day, a.TimeSlot)
		cell := s.Schedule[key]
		if a.Index < 0 || a.Index >= len(cell) {
			return s
		}
		schedule := cloneMap(s.Schedule)
		remaining := slices.Delete(slices.Clone(cell), a.Index, a.Index+1)
		if len(remaining) == 0 {
			delete(schedule, key)
		} else {
			schedule[key] = remaining
		}
		next := *s
		next.Schedule = schedule
		return &next

	case ToggleCompletion:
		cell := s.Schedule[ScheduleKey(a.Day, a.TimeSlot)]
		if a.Index < 0 || a.Index >= len(cell) {
			return s
		}
		p := cell[a.Index]
		key := CompletionKey(p.ItemID, p.SubItemID, a.Day, a.TimeSlot, a.Index)
		completed := cloneMap(s.CompletedItems)
		completed[key] = !completed[key]
		next := *s
		next.CompletedItems = completed
		return &next

	case ClearSchedule:
		next := *s
		next.Schedule = map[string][]ScheduleItem{}
		next.CompletedItems = map[string]bool{}
		return &next

	case ClearAllData:
		return NewState()

	case LoadData:
		next := *s
		if a.Items != nil {
			next.Items = maps.Clone(a.Items)
		}
		if a.RepeatedItems != nil {
			next.RepeatedItems = maps.Clone(a.RepeatedItems)
		}
		if a.Schedule != nil {
			next.Schedule = maps.Clone(a.Schedule)
		}
		if a.CompletedItems != nil {
			next.CompletedItems = maps.Clone(a.CompletedItems)
		}
		return &next

	default:
		return s
	}
}

// updateItem applies fn to the item id in the pool of kind. fn reports
// whether it changed anything; a missing item or a false result is a no-op.
func (s *State) updateItem(id string, kind Kind, fn func(Item) (Item, bool)) *State {
	kind = ParseKind(string(kind))
	existing, ok := s.Pool(kind)[id]
	if !ok {
		return s
	}

	updated, changed := fn(existing)
	if !changed {
		return s
	}

	pool := cloneMap(s.Pool(kind))
	pool[id] = updated
	return s.withPool(kind, pool)
}

func (s *State) withPool(kind Kind, pool map[string]Item) *State {
	next := *s
	if kind == KindRepeated {
		next.RepeatedItems = pool
	} else {
		next.Items = pool
	}
	return &next
}

func applyItemPatch(it Item, p ItemPatch) Item {
	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}
	if p.Subtype != nil {
		it.Subtype = *p.Subtype
	}
	if p.Frequency != nil {
		it.Frequency = *p.Frequency
	}
	if p.CustomFrequency != nil {
		it.CustomFrequency = *p.CustomFrequency
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.Duration != nil {
		it.Duration = *p.Duration
	}
	if p.SubItems != nil {
		it.SubItems = slices.Clone(*p.SubItems)
	}
	return it
}

func cloneMap[M ~map[K]V, K comparable, V any](m M) M {
	if m == nil {
		return make(M)
	}
	return maps.Clone(m)
}

func cloneItem(it Item) Item {
	it.SubItems = slices.Clone(it.SubItems)
	return it
}
