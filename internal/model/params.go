package model

import (
	"fmt"
	"strings"
)

// Column identifies one column of the link table.
type Column int

const (
	// ColumnIndex is the 1-based row number.
	ColumnIndex Column = iota
	// ColumnName is the reference token of the note.
	ColumnName
	// ColumnOutgoingCount is the number of unique outgoing targets.
	ColumnOutgoingCount
	// ColumnIncomingCount is the number of unique linking notes.
	ColumnIncomingCount
	// ColumnOutgoing lists the outgoing targets.
	ColumnOutgoing
	// ColumnIncoming lists the linking notes.
	ColumnIncoming
)

// AllColumns returns every column in canonical order.
func AllColumns() []Column {
	return []Column{
		ColumnIndex,
		ColumnName,
		ColumnOutgoingCount,
		ColumnIncomingCount,
		ColumnOutgoing,
		ColumnIncoming,
	}
}

var columnNames = map[Column]string{
	ColumnIndex:         "index",
	ColumnName:          "name",
	ColumnOutgoingCount: "outgoingCount",
	ColumnIncomingCount: "incomingCount",
	ColumnOutgoing:      "outgoing",
	ColumnIncoming:      "incoming",
}

// String returns the parameter spelling of the column.
func (c Column) String() string {
	if s, ok := columnNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

// Header returns the glyph and label shown in table headers.
func (c Column) Header() string {
	switch c {
	case ColumnIndex:
		return "#"
	case ColumnName:
		return "📄 Note"
	case ColumnOutgoingCount:
		return "📤 Out"
	case ColumnIncomingCount:
		return "📥 In"
	case ColumnOutgoing:
		return "➡️ Outgoing Links"
	case ColumnIncoming:
		return "⬅️ Incoming Links"
	default:
		return c.String()
	}
}

// ParseColumn converts a parameter value into a Column.
func ParseColumn(s string) (Column, error) {
	for c, name := range columnNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

// Category classifies an entry by the presence of outgoing and incoming links.
type Category int

const (
	// CategoryAll matches every entry.
	CategoryAll Category = iota
	// CategoryNoLinks matches isolated entries.
	CategoryNoLinks
	// CategoryOnlyOutgoing matches entries that link out but are never linked.
	CategoryOnlyOutgoing
	// CategoryOnlyIncoming matches entries that are linked but link nowhere.
	CategoryOnlyIncoming
	// CategoryBoth matches entries with links in both directions.
	CategoryBoth
	// CategoryEither matches entries with at least one link.
	CategoryEither
)

var categoryNames = map[Category]string{
	CategoryAll:          "all",
	CategoryNoLinks:      "noLinks",
	CategoryOnlyOutgoing: "onlyOutgoingNoIncoming",
	CategoryOnlyIncoming: "onlyIncomingNoOutgoing",
	CategoryBoth:         "bothIncomingAndOutgoing",
	CategoryEither:       "eitherIncomingOrOutgoing",
}

// AllCategories returns the six categories in declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryAll,
		CategoryNoLinks,
		CategoryOnlyOutgoing,
		CategoryOnlyIncoming,
		CategoryBoth,
		CategoryEither,
	}
}

// String returns the parameter spelling of the category.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Match reports whether an entry with the given link presence belongs to c.
func (c Category) Match(hasOutgoing, hasIncoming bool) bool {
	switch c {
	case CategoryAll:
		return true
	case CategoryNoLinks:
		return !hasOutgoing && !hasIncoming
	case CategoryOnlyOutgoing:
		return hasOutgoing && !hasIncoming
	case CategoryOnlyIncoming:
		return !hasOutgoing && hasIncoming
	case CategoryBoth:
		return hasOutgoing && hasIncoming
	case CategoryEither:
		return hasOutgoing || hasIncoming
	default:
		return false
	}
}

// ParseCategory converts a parameter value into a Category.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// SortField selects the sort key of the table.
type SortField int

const (
	// SortByName sorts by key with locale-aware collation.
	SortByName SortField = iota
	// SortByOutgoingCount sorts by the number of outgoing targets.
	SortByOutgoingCount
	// SortByIncomingCount sorts by the number of linking notes.
	SortByIncomingCount
)

// String returns the parameter spelling of the sort field.
func (f SortField) String() string {
	switch f {
	case SortByName:
		return "name"
	case SortByOutgoingCount:
		return "outgoingCount"
	case SortByIncomingCount:
		return "incomingCount"
	default:
		return fmt.Sprintf("SortField(%d)", int(f))
	}
}

// ParseSortField converts a parameter value into a SortField.
func ParseSortField(s string) (SortField, error) {
	for _, f := range []SortField{SortByName, SortByOutgoingCount, SortByIncomingCount} {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSortField, s)
}

// SortOrder is the direction of the sort. Ascending puts the smallest first.
type SortOrder int

const (
	// Descending reverses the comparator.
	Descending SortOrder = iota
	// Ascending orders a→z and 0→n.
	Ascending
)

// String returns the parameter spelling of the order.
func (o SortOrder) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseSortOrder converts a parameter value into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
	}
}

// Params holds validated analysis parameters.
type Params struct {
	// Paths are the raw path specifiers. A leading "!" marks an exclusion.
	Paths []string `json:"paths"`

	// Sort is the sort key.
	Sort SortField `json:"sort"`

	// SortOrder is the sort direction.
	SortOrder SortOrder `json:"sortOrder"`

	// ExcludeCol lists columns hidden from the table.
	ExcludeCol []Column `json:"excludeCol"`

	// FileType is the category filter.
	FileType Category `json:"fileType"`

	// ShowStats appends the statistics block to the table.
	ShowStats bool `json:"showStats"`
}

// DefaultParams returns the parameters used when a block sets nothing.
func DefaultParams() Params {
	return Params{
		Paths:      []string{},
		Sort:       SortByName,
		SortOrder:  Descending,
		ExcludeCol: []Column{},
		FileType:   CategoryEither,
		ShowStats:  false,
	}
}

// Columns returns the active columns in canonical order.
func (p Params) Columns() []Column {
	excluded := make(map[Column]bool, len(p.ExcludeCol))
	for _, c := range p.ExcludeCol {
		excluded[c] = true
	}
	cols := make([]Column, 0, len(AllColumns()))
	for _, c := range AllColumns() {
		if !excluded[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

// Fields returns the parameters in their textual form, keyed like the
// configuration block. Used for archiving and logs.
func (p Params) Fields() map[string]string {
	excl := make([]string, len(p.ExcludeCol))
	for i, c := range p.ExcludeCol {
		excl[i] = c.String()
	}
	return map[string]string{
		"paths":      strings.Join(p.Paths, ", "),
		"sort":       p.Sort.String(),
		"sortOrder":  p.SortOrder.String(),
		"excludeCol": strings.Join(excl, ", "),
		"fileType":   p.FileType.String(),
		"showStats":  fmt.Sprintf("%t", p.ShowStats),
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Column) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Column) UnmarshalText(b []byte) error {
	v, err := ParseColumn(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f SortField) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *SortField) UnmarshalText(b []byte) error {
	v, err := ParseSortField(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (o SortOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *SortOrder) UnmarshalText(b []byte) error {
	v, err := ParseSortOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
