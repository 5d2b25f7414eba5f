package filestore

import (
	"sync"
	"time"

	"github.com/jukulab/hansei/core/reflection"
)

type historyLog struct {
	StudentKey string                    `json:"studentKey"`
	Entries    []reflection.HistoryEntry `json:"entries"`
}

// HistoryStore is the bounded per-key submission log. One mutex guards all
// keys: appends are a small, infrequent read-modify-write and serializing
// them process-wide rules out lost updates entirely.
type HistoryStore struct {
	dir   string
	limit int

	mu sync.Mutex
}

var _ reflection.HistoryStore = (*HistoryStore)(nil)

func NewHistoryStore(dir string, limit int) (*HistoryStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &HistoryStore{dir: dir, limit: limit}, nil
}

func (s *HistoryStore) AppendHistory(key string, payload reflection.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := keyPath(s.dir, key)
	log := historyLog{StudentKey: key}
	if _, err := readRecord(path, &log); err != nil {
		return err
	}
	log.StudentKey = key

	log.Entries = append(log.Entries, reflection.HistoryEntry{
		Payload: payload,
		SavedAt: time.Now().UTC(),
	})
	if len(log.Entries) > s.limit {
		log.Entries = log.Entries[len(log.Entries)-s.limit:] // keep most recent
	}
	return writeRecord(path, log)
}

func (s *HistoryStore) LastEntry(key string) (reflection.HistoryEntry, error) {
	var log historyLog
	found, err := readRecord(keyPath(s.dir, key), &log)
	if err != nil {
		return reflection.HistoryEntry{}, err
	}
	if !found || len(log.Entries) == 0 {
		return reflection.HistoryEntry{}, reflection.ErrNoHistory
	}
	return log.Entries[len(log.Entries)-1], nil
}
