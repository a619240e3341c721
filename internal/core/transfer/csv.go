package transfer

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/weekplan/internal/core/planner"
)

// Section markers of the delimited-text format.
const (
	markerSchedule  = "=== WEEKLY SCHEDULE ==="
	markerAvailable = "=== AVAILABLE ITEMS ==="
	markerRepeated  = "=== REPEATED ITEMS ==="
	markerInfo      = "=== EXPORT INFO ==="

	subItemSeparator = " → "
)

// Section selects parts of a CSV export.
type Section uint8

const (
	SectionSchedule Section = 1 << iota
	SectionAvailable
	SectionRepeated
	SectionInfo
)

// Export scopes.
const (
	ScopeAll      = SectionSchedule | SectionAvailable | SectionRepeated | SectionInfo
	ScopeItems    = SectionAvailable | SectionRepeated
	ScopeSchedule = SectionSchedule
)

// ParseScope maps a scope name (all, items, schedule) to its sections.
func ParseScope(name string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return ScopeAll, nil
	case "items":
		return ScopeItems, nil
	case "schedule":
		return ScopeSchedule, nil
	default:
		return 0, fmt.Errorf("unknown export scope %q (want all, items or schedule)", name)
	}
}

// ExportCSV writes the selected sections of s in fixed order: weekly grid,
// available items, repeated items, export info. Items with sub-items are
// written as one "parent → sub" row per sub-item.
func ExportCSV(w io.Writer, s *planner.State, sections Section, now time.Time) error {
	if s == nil {
		s = planner.NewState()
	}

	var b strings.Builder
	begin := func(marker, header string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(marker + "\n" + header + "\n")
	}

	if sections&SectionSchedule != 0 {
		begin(markerSchedule, "Day,Morning,Afternoon,Evening,Night")
		for _, day := range planner.Days {
			row := []string{string(day)}
			for _, slot := range planner.TimeSlots {
				var names []string
				for _, e := range s.Cell(day, slot) {
					names = append(names, e.Name())
				}
				row = append(row, quote(strings.Join(names, "; ")))
			}
			b.WriteString(strings.Join(row, ",") + "\n")
		}
	}

	if sections&SectionAvailable != 0 {
		begin(markerAvailable, "Item,Quantity")
		for _, it := range sortedItems(s.Items) {
			qty := strconv.Itoa(it.Quantity)
			for i, name := range rowNames(it) {
				// sub-item rows after the first add nothing on import
				if i > 0 {
					qty = "0"
				}
				b.WriteString(quote(name) + "," + quote(qty) + "\n")
			}
		}
	}

	if sections&SectionRepeated != 0 {
		begin(markerRepeated, "Item,Frequency")
		for _, it := range sortedItems(s.RepeatedItems) {
			freq := frequencyText(it)
			for _, name := range rowNames(it) {
				b.WriteString(quote(name) + "," + quote(freq) + "\n")
			}
		}
	}

	if sections&SectionInfo != 0 {
		begin(markerInfo, "Export Date,Version")
		b.WriteString(quote(now.Format(time.DateOnly)) + "," + quote(planner.DocumentVersion) + "\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func rowNames(it planner.Item) []string {
	if len(it.SubItems) == 0 {
		return []string{it.Name}
	}
	names := make([]string, len(it.SubItems))
	for i, sub := range it.SubItems {
		names[i] = it.Name + subItemSeparator + sub.Name
	}
	return names
}

func frequencyText(it planner.Item) string {
	switch it.Frequency {
	case "":
		return string(planner.FrequencyDaily)
	case planner.FrequencyCustom:
		return fmt.Sprintf("custom (%d days)", it.CustomFrequency)
	default:
		return string(it.Frequency)
	}
}

func sortedItems(pool map[string]planner.Item) []planner.Item {
	items := make([]planner.Item, 0, len(pool))
	for _, it := range pool {
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b planner.Item) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return items
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type csvSection int

const (
	sectionNone csvSection = iota
	sectionAvailable
	sectionRepeated
)

// csvImport accumulates item records by name across both item sections.
type csvImport struct {
	order  []string
	byName map[string]*planner.ItemRecord
}

func (c *csvImport) get(name string) (*planner.ItemRecord, bool) {
	rec, ok := c.byName[name]
	return rec, ok
}

func (c *csvImport) put(name string, rec *planner.ItemRecord) {
	c.order = append(c.order, name)
	c.byName[name] = rec
}

// ImportCSV reads the delimited-text format. Only the available and
// repeated item sections are read; the grid and export info are ignored.
// Every parsed record is collected first and returned as one LoadData that
// replaces the whole state.
func ImportCSV(r io.Reader) (planner.LoadData, error) {
	acc := &csvImport{byName: map[string]*planner.ItemRecord{}}
	section := sectionNone

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.Contains(line, markerSchedule), strings.Contains(line, markerInfo):
			section = sectionNone
			continue
		case strings.Contains(line, markerAvailable):
			section = sectionAvailable
			continue
		case strings.Contains(line, markerRepeated):
			section = sectionRepeated
			continue
		}

		if line == "" || section == sectionNone || strings.HasPrefix(line, "Item,") {
			continue
		}

		name, value, ok := ParseLine(line)
		if !ok || name == "" {
			continue
		}

		if section == sectionAvailable {
			if value == "" {
				continue
			}
			acc.addAvailable(name, value)
		} else {
			acc.addRepeated(name, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return planner.LoadData{}, fmt.Errorf("read csv: %w", err)
	}

	if len(acc.order) == 0 {
		return planner.LoadData{}, &ImportFormatError{Format: "csv", Reason: "no items found"}
	}

	doc := planner.Document{
		Items:         map[string]planner.ItemRecord{},
		RepeatedItems: map[string]planner.ItemRecord{},
	}
	for _, name := range acc.order {
		rec := *acc.byName[name]
		rec.Quantity = max(1, rec.Quantity)
		if rec.ItemType == string(planner.KindRepeated) {
			doc.RepeatedItems[name] = rec
		} else {
			doc.Items[name] = rec
		}
	}

	load, err := planner.FromDocument(doc)
	if err != nil {
		return planner.LoadData{}, fmt.Errorf("import csv: %w", err)
	}
	return load, nil
}

// addAvailable sums quantities of rows that share an item name. A sub-item
// row whose parent was already seen adds its quantity as written, so the
// zero rows of an export leave the parent's quantity unchanged.
func (c *csvImport) addAvailable(name, quantity string) {
	qty := planner.LeadingInt(quantity)

	parent, sub, isSub := splitSubItem(name)
	if !isSub {
		if rec, ok := c.get(name); ok {
			rec.Quantity += max(1, qty)
			return
		}
		c.put(name, newNormalRecord(name, max(1, qty)))
		return
	}

	rec, ok := c.get(parent)
	if !ok {
		rec = newNormalRecord(parent, max(1, qty))
		c.put(parent, rec)
	} else {
		rec.Quantity += max(0, qty)
	}
	rec.SubItems = append(rec.SubItems, planner.SubItemRecord{Name: sub})
}

func (c *csvImport) addRepeated(name, frequency string) {
	parent, sub, isSub := splitSubItem(name)
	if !isSub {
		if _, ok := c.get(name); !ok {
			c.put(name, newRepeatedRecord(name, frequency))
		}
		return
	}

	rec, ok := c.get(parent)
	if !ok {
		rec = newRepeatedRecord(parent, frequency)
		c.put(parent, rec)
	}
	rec.SubItems = append(rec.SubItems, planner.SubItemRecord{Name: sub})
}

func splitSubItem(name string) (parent, sub string, ok bool) {
	return strings.Cut(name, subItemSeparator)
}

func newNormalRecord(name string, quantity int) *planner.ItemRecord {
	subtype := string(planner.SubtypeDo)
	return &planner.ItemRecord{
		Name:     name,
		ItemType: string(planner.KindNormal),
		Subtype:  &subtype,
		Quantity: quantity,
	}
}

func newRepeatedRecord(name, frequency string) *planner.ItemRecord {
	freq, days := parseFrequency(frequency)
	rec := &planner.ItemRecord{
		Name:      name,
		ItemType:  string(planner.KindRepeated),
		Frequency: new(string),
		Quantity:  1,
	}
	*rec.Frequency = string(freq)
	if days > 0 {
		rec.CustomFrequency = &days
	}
	return rec
}
