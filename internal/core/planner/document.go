package planner

import (
	"fmt"
	"maps"
	"time"
)

// DocumentVersion is stamped on every saved and exported document.
const DocumentVersion = "2.0"

// ItemRecord is the plain, field-for-field form of an Item as it is stored
// in the local cache, the remote store and JSON snapshots. Field names
// match the on-disk format of earlier releases.
type ItemRecord struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ItemType        string          `json:"itemType"`
	Subtype         *string         `json:"subtype"`
	Frequency       *string         `json:"frequency"`
	CustomFrequency *int            `json:"customFrequency"`
	Quantity        int             `json:"quantity"`
	Duration        int             `json:"duration"`
	SubItems        []SubItemRecord `json:"subItems"`
	CreatedAt       time.Time       `json:"createdAt,omitzero"`
}

// SubItemRecord is the plain form of a SubItem.
type SubItemRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId"`
	Duration  int       `json:"duration"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// ScheduleRecord is the plain form of a ScheduleItem.
type ScheduleRecord struct {
	ItemID      string    `json:"itemId"`
	SubItemID   *string   `json:"subItemId"`
	Day         string    `json:"day"`
	TimeSlot    string    `json:"timeSlot"`
	Index       int       `json:"index"`
	Completed   bool      `json:"completed"`
	ScheduledAt time.Time `json:"scheduledAt,omitzero"`
}

// Document is the persisted shape of the state. A nil collection means the
// field is absent, which matters for merge writes: absent fields are left
// untouched by the receiver.
type Document struct {
	Items          map[string]ItemRecord       `json:"items"`
	RepeatedItems  map[string]ItemRecord       `json:"repeatedItems"`
	Schedule       map[string][]ScheduleRecord `json:"schedule"`
	CompletedItems map[string]bool             `json:"completedItems"`
	Version        string                      `json:"version"`
}

// Populated reports whether any of items, repeatedItems or schedule has
// content. completedItems alone does not count.
func (d Document) Populated() bool {
	return len(d.Items) > 0 || len(d.RepeatedItems) > 0 || len(d.Schedule) > 0
}

// ToDocument flattens s into plain records. Every collection is present in
// the result, even when empty.
func ToDocument(s *State, version string) Document {
	if s == nil {
		s = NewState()
	}

	doc := Document{
		Items:          make(map[string]ItemRecord, len(s.Items)),
		RepeatedItems:  make(map[string]ItemRecord, len(s.RepeatedItems)),
		Schedule:       make(map[string][]ScheduleRecord, len(s.Schedule)),
		CompletedItems: maps.Clone(s.CompletedItems),
		Version:        version,
	}
	if doc.CompletedItems == nil {
		doc.CompletedItems = map[string]bool{}
	}

	for id, it := range s.Items {
		doc.Items[id] = itemRecord(it)
	}
	for id, it := range s.RepeatedItems {
		doc.RepeatedItems[id] = itemRecord(it)
	}
	for key, cell := range s.Schedule {
		records := make([]ScheduleRecord, len(cell))
		for i, p := range cell {
			records[i] = scheduleRecord(p)
		}
		doc.Schedule[key] = records
	}

	return doc
}

func itemRecord(it Item) ItemRecord {
	rec := ItemRecord{
		ID:        it.ID,
		Name:      it.Name,
		ItemType:  string(it.Kind),
		Quantity:  it.Quantity,
		Duration:  it.Duration,
		SubItems:  make([]SubItemRecord, len(it.SubItems)),
		CreatedAt: it.CreatedAt,
	}
	if it.Subtype != "" {
		rec.Subtype = ptr(string(it.Subtype))
	}
	if it.Frequency != "" {
		rec.Frequency = ptr(string(it.Frequency))
	}
	if it.CustomFrequency > 0 {
		rec.CustomFrequency = ptr(it.CustomFrequency)
	}
	for i, s := range it.SubItems {
		rec.SubItems[i] = SubItemRecord{
			ID:        s.ID,
			Name:      s.Name,
			ParentID:  s.ParentID,
			Duration:  s.Duration,
			CreatedAt: s.CreatedAt,
		}
	}
	return rec
}

func scheduleRecord(p ScheduleItem) ScheduleRecord {
	rec := ScheduleRecord{
		ItemID:      p.ItemID,
		Day:         string(p.Day),
		TimeSlot:    string(p.TimeSlot),
		Index:       p.Index,
		Completed:   p.Completed,
		ScheduledAt: p.ScheduledAt,
	}
	if p.SubItemID != "" {
		rec.SubItemID = ptr(p.SubItemID)
	}
	return rec
}

// FromDocument rebuilds entities from plain records. Each item is
// re-validated; the first invalid record fails the whole conversion.
// Records without an id get a fresh one, sub-item parent ids are rewritten
// to their owner, and each item lands in the pool its kind selects no
// matter which collection it was read from. All four collections of the
// returned LoadData are non-nil, so loading it replaces the whole state.
func FromDocument(doc Document) (LoadData, error) {
	out := LoadData{
		Items:          map[string]Item{},
		RepeatedItems:  map[string]Item{},
		Schedule:       map[string][]ScheduleItem{},
		CompletedItems: map[string]bool{},
	}

	add := func(rec ItemRecord, fallback Kind) error {
		it, err := ItemFromRecord(rec, fallback)
		if err != nil {
			return err
		}
		out.Pool(it.Kind)[it.ID] = it
		return nil
	}

	for key, rec := range doc.Items {
		if err := add(rec, KindNormal); err != nil {
			return LoadData{}, fmt.Errorf("items[%s]: %w", key, err)
		}
	}
	for key, rec := range doc.RepeatedItems {
		if err := add(rec, KindRepeated); err != nil {
			return LoadData{}, fmt.Errorf("repeatedItems[%s]: %w", key, err)
		}
	}

	for key, cell := range doc.Schedule {
		placements := make([]ScheduleItem, len(cell))
		for i, rec := range cell {
			placements[i] = ScheduleItem{
				ItemID:      rec.ItemID,
				SubItemID:   deref(rec.SubItemID),
				Day:         Day(rec.Day),
				TimeSlot:    TimeSlot(rec.TimeSlot),
				Index:       rec.Index,
				Completed:   rec.Completed,
				ScheduledAt: rec.ScheduledAt,
			}
		}
		out.Schedule[key] = placements
	}

	maps.Copy(out.CompletedItems, doc.CompletedItems)

	return out, nil
}

// ItemFromRecord rebuilds one Item. fallback is the kind assumed when the
// record carries no itemType.
func ItemFromRecord(rec ItemRecord, fallback Kind) (Item, error) {
	id := rec.ID
	if id == "" {
		id = NewID()
	}

	kind := fallback
	if rec.ItemType != "" {
		kind = ParseKind(rec.ItemType)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	it, err := buildItem(id, ItemInput{
		Name:            rec.Name,
		Kind:            kind,
		Subtype:         Subtype(deref(rec.Subtype)),
		Frequency:       Frequency(deref(rec.Frequency)),
		CustomFrequency: deref(rec.CustomFrequency),
		Quantity:        rec.Quantity,
		Duration:        rec.Duration,
	}, createdAt)
	if err != nil {
		return Item{}, err
	}

	for _, srec := range rec.SubItems {
		sid := srec.ID
		if sid == "" {
			sid = NewID()
		}
		screated := srec.CreatedAt
		if screated.IsZero() {
			screated = createdAt
		}
		sub, err := buildSubItem(sid, srec.Name, it.ID, srec.Duration, screated)
		if err != nil {
			return Item{}, err
		}
		it.SubItems = append(it.SubItems, sub)
	}

	return it, nil
}

// Pool returns the map of the load that owns items of kind.
func (l LoadData) Pool(kind Kind) map[string]Item {
	if kind == KindRepeated {
		return l.RepeatedItems
	}
	return l.Items
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
