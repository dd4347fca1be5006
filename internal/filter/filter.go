package filter

import (
	"slices"
	"strings"

	"events-api/internal/model"
)

type Operator int

const (
	OpEquals Operator = iota + 1
	OpContains
)

func (o Operator) String() string {
	switch o {
	case OpEquals:
		return "eq"
	case OpContains:
		return "contains"
	default:
		return "unknown"
	}
}

// Condition 單一過濾條件：attribute <op> value
type Condition struct {
	Attribute string
	Operator  Operator
	Value     string
}

func StatusEquals(status model.EventStatus) Condition {
	return Condition{Attribute: model.FieldStatus, Operator: OpEquals, Value: string(status)}
}

// OrganizerContains matches organizers containing substr, case-sensitive.
func OrganizerContains(substr string) Condition {
	return Condition{Attribute: model.FieldOrganizer, Operator: OpContains, Value: substr}
}

func (c Condition) Match(e *model.Event) bool {
	value, ok := attribute(e, c.Attribute)
	if !ok {
		return false
	}
	switch c.Operator {
	case OpEquals:
		return value == c.Value
	case OpContains:
		return strings.Contains(value, c.Value)
	default:
		return false
	}
}

func attribute(e *model.Event, name string) (string, bool) {
	switch name {
	case model.FieldStatus:
		return string(e.Status), true
	case model.FieldOrganizer:
		return e.Organizer, true
	case model.FieldTitle:
		return e.Title, true
	case model.FieldLocation:
		return e.Location, true
	case model.FieldDate:
		return e.Date, true
	default:
		return "", false
	}
}

// Predicate is the AND of its conditions. The zero value matches everything.
type Predicate struct {
	conditions []Condition
}

// And composes conditions into one predicate. Conditions are kept in a
// canonical order, so any permutation of the same inputs yields an identical
// predicate and identical backend expressions.
func And(conds ...Condition) Predicate {
	out := slices.Clone(conds)
	slices.SortFunc(out, compare)
	out = slices.Compact(out)
	return Predicate{conditions: out}
}

func compare(a, b Condition) int {
	if c := strings.Compare(a.Attribute, b.Attribute); c != 0 {
		return c
	}
	if a.Operator != b.Operator {
		return int(a.Operator) - int(b.Operator)
	}
	return strings.Compare(a.Value, b.Value)
}

// FromParams builds the list predicate from already-validated filters; empty
// values add no condition.
func FromParams(status model.EventStatus, organizer string) Predicate {
	var conds []Condition
	if status != "" {
		conds = append(conds, StatusEquals(status))
	}
	if organizer != "" {
		conds = append(conds, OrganizerContains(organizer))
	}
	return And(conds...)
}

func (p Predicate) Conditions() []Condition {
	return slices.Clone(p.conditions)
}

func (p Predicate) IsEmpty() bool {
	return len(p.conditions) == 0
}

func (p Predicate) Match(e *model.Event) bool {
	for _, c := range p.conditions {
		if !c.Match(e) {
			return false
		}
	}
	return true
}

// Split partitions the predicate into the conditions accepted by keep and the rest.
func (p Predicate) Split(keep func(Condition) bool) (kept, rest Predicate) {
	for _, c := range p.conditions {
		if keep(c) {
			kept.conditions = append(kept.conditions, c)
		} else {
			rest.conditions = append(rest.conditions, c)
		}
	}
	return kept, rest
}
