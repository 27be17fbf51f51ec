// Package state persists the last-known availability summary per
// (target × criteria) lineage in a flat JSON file.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/example/toyoko-monitor/internal/target"
	"github.com/example/toyoko-monitor/internal/toyoko"
)

// Record is the persisted summary for one lineage. The target identity and
// display label are stored alongside the fingerprint so the file remains
// readable without the config that produced it.
type Record struct {
	Fingerprint    string    `json:"availability_hash"`
	AvailableCodes []string  `json:"available_codes"`
	UpdatedAt      time.Time `json:"updated_at"`
	TargetKind     string    `json:"target_kind"`
	TargetValue    string    `json:"target_value"`
	DisplayLabel   string    `json:"display_label"`
}

// keyMaterial is the canonical serialization hashed into a state key.
// Field order is fixed; any change to it orphans every existing record.
type keyMaterial struct {
	Checkin     string   `json:"checkin"`
	Checkout    string   `json:"checkout"`
	HotelCodes  []string `json:"hotel_codes"`
	People      int      `json:"people"`
	Rooms       int      `json:"rooms"`
	Smoking     string   `json:"smoking"`
	TargetKind  string   `json:"target_kind"`
	TargetValue string   `json:"target_value"`
}

// Key derives the state lineage identifier for one target under the
// current booking criteria. Any change to the criteria or the preferred
// hotel codes produces a new, independent lineage; records for abandoned
// criteria are orphaned, never deleted.
func Key(t target.SearchTarget, sc toyoko.StayCriteria, preferredCodes []string) string {
	codes := append([]string{}, preferredCodes...)
	sort.Strings(codes)
	raw, _ := json.Marshal(keyMaterial{
		Checkin:     sc.CheckinDate,
		Checkout:    sc.CheckoutDate,
		HotelCodes:  codes,
		People:      sc.People,
		Rooms:       sc.Rooms,
		Smoking:     sc.Smoking,
		TargetKind:  string(t.Kind),
		TargetValue: t.Value,
	})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Fingerprint digests an availability result. It depends only on the
// sorted content of codes, never on payload field order.
func Fingerprint(codes []string) string {
	sorted := append([]string{}, codes...)
	sort.Strings(sorted)
	raw, _ := json.Marshal(sorted)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
