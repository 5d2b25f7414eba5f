package filestore

import (
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core/reflection"
)

// DraftStore keeps at most one draft record per student key. Overwrite
// races on the same key are last-write-wins; drafts are scoped to one
// browser session per key in the intended usage.
type DraftStore struct {
	dir string
}

var _ reflection.DraftStore = (*DraftStore)(nil)

func NewDraftStore(dir string) (*DraftStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &DraftStore{dir: dir}, nil
}

func (s *DraftStore) SaveDraft(key string, payload reflection.Payload) (reflection.Draft, error) {
	draft := reflection.Draft{
		StudentKey: key,
		Payload:    payload,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := writeRecord(keyPath(s.dir, key), draft); err != nil {
		return reflection.Draft{}, err
	}
	return draft, nil
}

func (s *DraftStore) GetDraft(key string) (reflection.Draft, error) {
	var draft reflection.Draft
	found, err := readRecord(keyPath(s.dir, key), &draft)
	if err != nil {
		return reflection.Draft{}, err
	}
	if !found {
		return reflection.Draft{}, reflection.ErrDraftNotFound
	}
	return draft, nil
}

func (s *DraftStore) DeleteDraft(key string) error {
	err := os.Remove(keyPath(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "deleting draft %s", key)
	}
	return nil
}
