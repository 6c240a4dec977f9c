package kvstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rohmanhakim/newsguard/pkg/failure"
	"github.com/rohmanhakim/newsguard/pkg/fileutil"
	"github.com/rohmanhakim/newsguard/pkg/hashutil"
)

const (
	recordExt       = "json"
	keyDigestLength = 16
)

// record is the on-disk form of one entry. The key is kept alongside the
// value because file names are digests and cannot be reversed.
type record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FileStore persists each key as its own JSON file inside a directory.
//
// File names are BLAKE3 digests of the key so that arbitrary URLs map to
// safe, fixed-length names. Writes go through a temp file and a rename.
// Files that cannot be decoded are skipped during enumeration and reported
// absent by Get; they are never deleted implicitly.
type FileStore struct {
	mu       sync.Mutex
	dir      string
	capacity int64
}

// NewFileStore prepares dir (creating it when needed) and returns a store
// rooted there. capacityBytes bounds the total size of record files; zero
// or less means unbounded.
func NewFileStore(dir string, capacityBytes int64) (*FileStore, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, &StoreError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
		}
	}
	return &FileStore{
		dir:      dir,
		capacity: capacityBytes,
	}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, found, err := s.readRecord(s.pathFor(key))
	if err != nil {
		return "", false, &StoreError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseReadFailure,
			Key:       key,
		}
	}
	// a digest collision or a corrupt file both read as absent
	if !found || rec.Key != key {
		return "", false, nil
	}
	return rec.Value, true, nil
}

func (s *FileStore) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(record{Key: key, Value: value})
	if err != nil {
		return &StoreError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Key:       key,
		}
	}

	path := s.pathFor(key)
	if s.capacity > 0 {
		used, sizeErr := s.usedBytes(path)
		if sizeErr != nil {
			return &StoreError{
				Message:   sizeErr.Error(),
				Retryable: true,
				Cause:     ErrCauseReadFailure,
				Key:       key,
			}
		}
		if used+int64(len(payload)) > s.capacity {
			return &StoreError{
				Message:   "file store capacity exceeded",
				Retryable: false,
				Cause:     ErrCauseQuotaExceeded,
				Key:       key,
			}
		}
	}

	if writeErr := fileutil.WriteFileAtomic(path, payload); writeErr != nil {
		return &StoreError{
			Message:   writeErr.Error(),
			Retryable: failure.IsRecoverable(writeErr),
			Cause:     ErrCauseWriteFailure,
			Key:       key,
		}
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.pathFor(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StoreError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseDeleteFailure,
			Key:       key,
		}
	}
	return nil
}

func (s *FileStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []string{}
	err := s.eachRecord(func(_ string, rec record, _ int64) {
		keys = append(keys, rec.Key)
	})
	if err != nil {
		return nil, &StoreError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseReadFailure,
		}
	}
	return keys, nil
}

// usedBytes sums the sizes of the decodable records, leaving out the file
// at skipPath so an overwrite is measured against the other entries only.
// Stray or corrupt files do not count against the capacity.
func (s *FileStore) usedBytes(skipPath string) (int64, error) {
	var used int64
	err := s.eachRecord(func(path string, _ record, size int64) {
		if path != skipPath {
			used += size
		}
	})
	return used, err
}

// eachRecord calls fn for every record file in the directory that decodes.
// Dotfiles (in-flight temp files), other extensions and corrupt files are
// skipped.
func (s *FileStore) eachRecord(fn func(path string, rec record, size int64)) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if fileutil.GetFileExtension(name) != recordExt {
			continue
		}
		path := filepath.Join(s.dir, name)
		rec, size, found, readErr := s.readRecordWithSize(path)
		if readErr != nil || !found {
			continue
		}
		fn(path, rec, size)
	}
	return nil
}

func (s *FileStore) pathFor(key string) string {
	return filepath.Join(s.dir, hashutil.KeyDigest(key, keyDigestLength)+"."+recordExt)
}

// readRecord returns found=false for a missing or undecodable file and an
// error only when the file exists but cannot be read.
func (s *FileStore) readRecord(path string) (record, bool, error) {
	rec, _, found, err := s.readRecordWithSize(path)
	return rec, found, err
}

func (s *FileStore) readRecordWithSize(path string) (record, int64, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return record{}, 0, false, nil
		}
		return record{}, 0, false, err
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, 0, false, nil
	}
	return rec, int64(len(data)), true, nil
}
