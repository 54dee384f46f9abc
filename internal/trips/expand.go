package trips

import (
	"fmt"
	"strings"
)

// Expand selects which parts of a trip graph are loaded with the trip.
type Expand uint8

const (
	// ExpandStops loads the stops in order-index order, each with its city.
	ExpandStops Expand = 1 << iota
	// ExpandActivities loads each stop's trip-activities with their catalog
	// activity. It implies ExpandStops.
	ExpandActivities
	// ExpandExpenses loads the trip's expenses.
	ExpandExpenses
)

// ExpandAll loads the complete graph.
const ExpandAll = ExpandStops | ExpandActivities | ExpandExpenses

var expandNames = map[string]Expand{
	"stops":      ExpandStops,
	"activities": ExpandActivities,
	"expenses":   ExpandExpenses,
}

// ParseExpand parses a comma separated list such as "stops,activities".
// Blank entries are ignored; unknown names are an error.
func ParseExpand(s string) (Expand, error) {
	var e Expand
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		opt, ok := expandNames[part]
		if !ok {
			return 0, fmt.Errorf("unknown expand option %q", part)
		}
		e |= opt
	}
	return e.normalize(), nil
}

func (e Expand) normalize() Expand {
	if e&ExpandActivities != 0 {
		e |= ExpandStops
	}
	return e
}

// Has reports whether every option in o is selected.
func (e Expand) Has(o Expand) bool {
	return e.normalize()&o == o
}
