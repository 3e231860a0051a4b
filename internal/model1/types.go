package model1

import (
	"fmt"
	"strings"
)

const (
	// GlobalPredicate is the predicate map slot searched across all fields.
	GlobalPredicate = "$"

	// ReservedMarker prefixes record keys holding internal metadata.
	ReservedMarker = '$'

	// DefaultColumnType is the column type used when none is declared.
	DefaultColumnType = "text"
)

// SelectionMode represents how rows may be selected.
type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SelectionSingle
	SelectionMultiple
)

var selectionModeNames = map[SelectionMode]string{
	SelectionNone:     "none",
	SelectionSingle:   "single",
	SelectionMultiple: "multiple",
}

func (m SelectionMode) String() string {
	if s, ok := selectionModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("SelectionMode(%d)", int(m))
}

// ParseSelectionMode converts a mode name into a SelectionMode.
func ParseSelectionMode(s string) (SelectionMode, error) {
	for m, name := range selectionModeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return m, nil
		}
	}
	return SelectionNone, fmt.Errorf("unknown selection mode %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (m SelectionMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *SelectionMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	mode, err := ParseSelectionMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// SortOrder is the tri-state sort marker of a column. SortNone means the
// column was never engaged or was reset by another column taking over.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAscending
	SortDescending
)

func (o SortOrder) String() string {
	switch o {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// Reverse reports whether the order is descending.
func (o SortOrder) Reverse() bool {
	return o == SortDescending
}

// Toggle returns the next order. A column leaving SortNone becomes
// descending; afterwards each call flips the direction.
func (o SortOrder) Toggle() SortOrder {
	if o == SortDescending {
		return SortAscending
	}
	return SortDescending
}

// PredicateMap maps a column field path, or GlobalPredicate, to its search text.
type PredicateMap map[string]string

// Active returns true if at least one predicate holds search text.
func (p PredicateMap) Active() bool {
	for _, v := range p {
		if v != "" {
			return true
		}
	}
	return false
}

// Clone returns a copy of the map.
func (p PredicateMap) Clone() PredicateMap {
	out := make(PredicateMap, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
