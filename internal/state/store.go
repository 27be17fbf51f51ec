package state

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Store is the in-memory state mapping backed by a flat JSON file. It is
// read in full at construction and written in full by Save once per cycle.
// It is touched only by the single sequential cycle loop, so it carries no
// locking.
type Store struct {
	path    string
	records map[string]Record
}

// Open loads the state file at path. A missing or unreadable file starts
// an empty store; monitoring must not be blocked by a corrupt state file.
func Open(path string) *Store {
	s := &Store{path: path, records: map[string]Record{}}
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("could not read state file, starting fresh")
		}
		return s
	}
	if err := json.Unmarshal(b, &s.records); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not parse state file, starting fresh")
		s.records = map[string]Record{}
	}
	return s
}

func (s *Store) Get(key string) (Record, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

func (s *Store) Put(key string, rec Record) {
	s.records[key] = rec
}

func (s *Store) Len() int { return len(s.records) }

// Save writes the whole mapping back to disk, creating parent directories
// as needed.
func (s *Store) Save() error {
	b, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
