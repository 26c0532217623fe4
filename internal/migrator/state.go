package migrator

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// FileStatus represents the conversion status of an input file
type FileStatus string

const (
	StatusNew      FileStatus = "new"      // File has not been converted before
	StatusModified FileStatus = "modified" // File content changed since the last conversion
	StatusCurrent  FileStatus = "current"  // File was converted and has not changed
)

// stateTracker remembers the content hash of every converted file so that
// repeated filesystem events for the same content do not rewrite outputs
type stateTracker struct {
	mu     sync.Mutex
	hashes map[string]string
}

func newStateTracker() *stateTracker {
	return &stateTracker{hashes: make(map[string]string)}
}

// status compares data against the last recorded hash for path
func (s *stateTracker) status(path string, data []byte) FileStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.hashes[path]
	if !ok {
		return StatusNew
	}
	if prev != contentHash(data) {
		return StatusModified
	}
	return StatusCurrent
}

// record stores the hash of data as the converted state of path
func (s *stateTracker) record(path string, data []byte) {
	s.mu.Lock()
	s.hashes[path] = contentHash(data)
	s.mu.Unlock()
}

// forget drops path, e.g. after it was removed
func (s *stateTracker) forget(path string) {
	s.mu.Lock()
	delete(s.hashes, path)
	s.mu.Unlock()
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
