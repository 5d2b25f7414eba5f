// Package filestore persists per-student-key records as JSON files: one
// draft file and one history log file per key.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func keyPath(dir, key string) string {
	return filepath.Join(dir, key+".json")
}

func readRecord(path string, out interface{}) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %s", path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "decoding %s", path)
	}
	return true, nil
}

// writeRecord replaces the record atomically: write to a temp file in the
// same directory, then rename over the target.
func writeRecord(path string, record interface{}) error {
	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp record")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing record")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing record")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replacing %s", path)
}

func ensureDir(dir string) error {
	return errors.Wrapf(os.MkdirAll(dir, 0o755), "creating %s", dir)
}
