// Package target models the units of monitoring work: geographic areas and
// prefectures on the Toyoko Inn site.
package target

import (
	"errors"
	"sort"
	"strconv"
)

type Kind string

const (
	KindArea       Kind = "area"
	KindPrefecture Kind = "prefecture"
)

// SearchTarget is one unit of work. Value is the wire-level identifier used
// in the upstream search query (e.g. "463" for an area, "13-all" for a
// prefecture). Display starts equal to Value and is upgraded from the API
// response for area targets after the hotel-list fetch.
type SearchTarget struct {
	Kind    Kind
	Value   string
	Display string
}

func New(kind Kind, value string) SearchTarget {
	return SearchTarget{Kind: kind, Value: value, Display: value}
}

// QueryParam returns the single key/value pair this target contributes to
// the search URL.
func (t SearchTarget) QueryParam() (string, string) {
	return string(t.Kind), t.Value
}

func (t SearchTarget) IsArea() bool { return t.Kind == KindArea }

// ErrNoTargets is returned when neither area IDs nor prefecture codes are
// configured.
var ErrNoTargets = errors.New("at least one area id or prefecture code must be configured")

// Resolve expands the configured identifiers into the ordered work list:
// areas first (ascending, deduplicated), then prefectures in configured
// order.
func Resolve(areaIDs []int, prefectures []string) ([]SearchTarget, error) {
	if len(areaIDs) == 0 && len(prefectures) == 0 {
		return nil, ErrNoTargets
	}

	ids := make([]int, 0, len(areaIDs))
	seen := make(map[int]bool, len(areaIDs))
	for _, id := range areaIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	targets := make([]SearchTarget, 0, len(ids)+len(prefectures))
	for _, id := range ids {
		targets = append(targets, New(KindArea, strconv.Itoa(id)))
	}
	for _, pref := range prefectures {
		targets = append(targets, New(KindPrefecture, pref))
	}
	return targets, nil
}
