package toyoko

import (
	"math"
	"sort"
)

// Field names treated as stock signals. The schema is undocumented and has
// drifted before, so this is a best-effort allowlist; false negatives are
// acceptable.
var (
	availableFlags = []string{"available", "isAvailable"}
	soldOutFlags   = []string{"soldOut", "isSoldOut", "full", "isFull"}
	remainingKeys  = []string{"remaining", "remainingRooms", "remainingRoomCount", "stock", "stocks"}
)

// HasStockSignal recursively searches a decoded JSON tree for any evidence
// of room availability: an availability flag that is true, a sold-out flag
// that is explicitly false, or a positive remaining-room count. It never
// panics on malformed input.
func HasStockSignal(node any) bool {
	switch v := node.(type) {
	case map[string]any:
		for _, k := range availableFlags {
			if b, ok := v[k].(bool); ok && b {
				return true
			}
		}
		for _, k := range soldOutFlags {
			if b, ok := v[k].(bool); ok && !b {
				return true
			}
		}
		for _, k := range remainingKeys {
			if isPositiveCount(v[k]) {
				return true
			}
		}
		for _, child := range v {
			if HasStockSignal(child) {
				return true
			}
		}
	case []any:
		for _, child := range v {
			if HasStockSignal(child) {
				return true
			}
		}
	}
	return false
}

// isPositiveCount reports whether a decoded JSON value is a positive
// integer. JSON numbers decode as float64.
func isPositiveCount(v any) bool {
	n, ok := v.(float64)
	return ok && n > 0 && n == math.Trunc(n)
}

// ParseAvailable evaluates the phase-2 payload against the requested hotel
// codes and returns the sorted set of codes with rooms available.
//
// Entries with the known shape are judged by the field rule: available iff
// existEnoughVacantRooms is true and isUnderMaintenance is absent or
// false. Entries missing existEnoughVacantRooms fall back to the
// stock-signal heuristic. Codes absent from the payload, or whose entry is
// not an object, are silently excluded. Pure function; the result is
// always non-nil, deduplicated, and a subset of targetCodes.
func ParseAvailable(prices any, targetCodes []string) []string {
	available := []string{}
	priceMap, ok := prices.(map[string]any)
	if !ok {
		return available
	}

	seen := make(map[string]bool, len(targetCodes))
	codes := make([]string, 0, len(targetCodes))
	for _, code := range targetCodes {
		if code != "" && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	for _, code := range codes {
		entry, ok := priceMap[code].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := entry["existEnoughVacantRooms"]; ok {
			vacant, _ := v.(bool)
			maintenance, _ := entry["isUnderMaintenance"].(bool)
			if vacant && !maintenance {
				available = append(available, code)
			}
			continue
		}
		// Schema drift: no known fields, fall back to the heuristic.
		if HasStockSignal(entry) {
			available = append(available, code)
		}
	}
	return available
}
