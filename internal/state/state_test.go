package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/toyoko-monitor/internal/target"
	"github.com/example/toyoko-monitor/internal/toyoko"
)

func baseCriteria() toyoko.StayCriteria {
	return toyoko.StayCriteria{
		CheckinDate:  "2026-04-03T16:00:00.000Z",
		CheckoutDate: "2026-04-04T16:00:00.000Z",
		People:       2,
		Rooms:        1,
		Smoking:      "all",
	}
}

func TestKeyDeterministic(t *testing.T) {
	tgt := target.New(target.KindArea, "463")
	k1 := Key(tgt, baseCriteria(), []string{"002", "001"})
	k2 := Key(tgt, baseCriteria(), []string{"001", "002"})
	// Preferred codes are sorted before hashing.
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestKeyChangesWithCriteria(t *testing.T) {
	tgt := target.New(target.KindArea, "463")
	base := Key(tgt, baseCriteria(), nil)

	people := baseCriteria()
	people.People = 3
	assert.NotEqual(t, base, Key(tgt, people, nil))

	checkin := baseCriteria()
	checkin.CheckinDate = "2026-04-04T16:00:00.000Z"
	assert.NotEqual(t, base, Key(tgt, checkin, nil))

	assert.NotEqual(t, base, Key(tgt, baseCriteria(), []string{"001"}))
	assert.NotEqual(t, base, Key(target.New(target.KindPrefecture, "463"), baseCriteria(), nil))
	assert.NotEqual(t, base, Key(target.New(target.KindArea, "464"), baseCriteria(), nil))
}

func TestKeyIgnoresDisplayLabel(t *testing.T) {
	a := target.New(target.KindArea, "463")
	b := a
	b.Display = "Tokyo Nihonbashi (463)"
	assert.Equal(t, Key(a, baseCriteria(), nil), Key(b, baseCriteria(), nil))
}

func TestFingerprintContentOnly(t *testing.T) {
	// Depends only on sorted content.
	assert.Equal(t, Fingerprint([]string{"b", "a"}), Fingerprint([]string{"a", "b"}))
	assert.NotEqual(t, Fingerprint([]string{"a"}), Fingerprint([]string{"a", "b"}))
	// nil and empty are the same result set.
	assert.Equal(t, Fingerprint(nil), Fingerprint([]string{}))
	assert.NotEqual(t, Fingerprint(nil), Fingerprint([]string{"a"}))
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := Open(path)
	assert.Equal(t, 0, s.Len())

	rec := Record{
		Fingerprint:    Fingerprint([]string{"001"}),
		AvailableCodes: []string{"001"},
		UpdatedAt:      time.Now().UTC().Truncate(time.Second),
		TargetKind:     "area",
		TargetValue:    "463",
		DisplayLabel:   "Tokyo Nihonbashi (463)",
	}
	s.Put("key1", rec)
	require.NoError(t, s.Save())

	loaded := Open(path)
	require.Equal(t, 1, loaded.Len())
	got, ok := loaded.Get("key1")
	require.True(t, ok)
	assert.Equal(t, rec.Fingerprint, got.Fingerprint)
	assert.Equal(t, rec.AvailableCodes, got.AvailableCodes)
	assert.Equal(t, rec.TargetKind, got.TargetKind)
	assert.Equal(t, rec.DisplayLabel, got.DisplayLabel)
	assert.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))
}

func TestStoreCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, writeFile(path, "{not json"))

	s := Open(path)
	assert.Equal(t, 0, s.Len())

	// Fresh store can still persist over the corrupt file.
	s.Put("k", Record{Fingerprint: "x"})
	require.NoError(t, s.Save())
	assert.Equal(t, 1, Open(path).Len())
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestStoreMissingKey(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "state.json"))
	_, ok := s.Get("nope")
	assert.False(t, ok)
}
