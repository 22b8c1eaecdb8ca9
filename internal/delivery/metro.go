package delivery

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/multierr"
)

// MetroGroups maps a canonical metro name to the regions priced as part of it.
type MetroGroups map[string][]string

// DefaultMetroGroups returns the built-in Kenyan metro table.
func DefaultMetroGroups() MetroGroups {
	return MetroGroups{
		"nairobi": {
			"nairobi", "kiambu", "machakos", "kajiado", "muranga",
			"thika", "ruiru", "juja", "kikuyu", "limuru", "athi river", "syokimau",
			"mlolongo", "kitengela", "ongata rongai", "rongai", "ngong", "westlands",
			"karen", "kasarani", "embakasi", "langata", "kileleshwa", "kilimani", "parklands",
		},
		"mombasa": {"mombasa", "kilifi", "kwale", "nyali", "likoni", "mtwapa", "diani", "bamburi"},
		"kisumu":  {"kisumu", "vihiga", "maseno", "kondele"},
		"nakuru":  {"nakuru", "naivasha", "gilgil", "njoro"},
		"eldoret": {"uasin gishu", "eldoret", "kapsabet"},
	}
}

// MetroTable is the immutable region to metro index.
type MetroTable struct {
	index  map[string]string
	metros []string
}

// NewMetroTable indexes groups. Every member and every metro name is normalised;
// a metro name always resolves to itself. A region listed under two metros is
// an error, as are blank names and empty groups.
func NewMetroTable(groups MetroGroups) (*MetroTable, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("metro table: no groups defined")
	}

	table := &MetroTable{index: make(map[string]string)}
	var errs error

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, rawName := range names {
		metro := NormalizeRegion(rawName)
		if metro == "" {
			errs = multierr.Append(errs, fmt.Errorf("metro table: blank metro name %q", rawName))
			continue
		}
		members := groups[rawName]
		if len(members) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("metro table: group %q has no regions", metro))
			continue
		}
		table.metros = append(table.metros, metro)

		for _, region := range append([]string{metro}, members...) {
			key := NormalizeRegion(region)
			if key == "" {
				errs = multierr.Append(errs, fmt.Errorf("metro table: blank region in group %q", metro))
				continue
			}
			if existing, ok := table.index[key]; ok && existing != metro {
				errs = multierr.Append(errs, fmt.Errorf("metro table: region %q is in both %q and %q", key, existing, metro))
				continue
			}
			table.index[key] = metro
		}
	}

	if errs != nil {
		return nil, errs
	}
	return table, nil
}

type metroFile struct {
	Groups MetroGroups `json:"groups"`
}

// LoadMetroTable reads a JSON document of the form {"groups": {"nairobi": ["kiambu", ...]}}.
func LoadMetroTable(path string) (*MetroTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metro table: %w", err)
	}
	var doc metroFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metro table %s: %w", path, err)
	}
	return NewMetroTable(doc.Groups)
}

// Resolve returns the metro group for a place string. Comma separated parts
// are tried left to right so "Westlands, Nairobi, Kenya" resolves on its
// first recognised part.
func (t *MetroTable) Resolve(region string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, candidate := range regionCandidates(region) {
		if metro, ok := t.index[candidate]; ok {
			return metro, true
		}
	}
	return "", false
}

// Has reports whether metro is a defined group.
func (t *MetroTable) Has(metro string) bool {
	if t == nil {
		return false
	}
	needle := NormalizeRegion(metro)
	for _, m := range t.metros {
		if m == needle {
			return true
		}
	}
	return false
}

// Metros lists the defined groups in sorted order.
func (t *MetroTable) Metros() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.metros...)
}
