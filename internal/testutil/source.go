package testutil

import (
	"sync/atomic"

	"github.com/smarr/graal-jvmci-9/internal/hostenv"
)

// StaticSource is a hostenv.Source backed by a fixed, ordered entry list.
type StaticSource []hostenv.Entry

// Read implements hostenv.Source.
func (s StaticSource) Read() ([]hostenv.Entry, error) {
	return s, nil
}

// FailingSource is a hostenv.Source whose read always fails with Err.
type FailingSource struct {
	Err error
}

// Read implements hostenv.Source.
func (s FailingSource) Read() ([]hostenv.Entry, error) {
	return nil, s.Err
}

// CountingSource wraps another source and counts how often it is read, for
// asserting the capture-exactly-once contract.
type CountingSource struct {
	Source hostenv.Source
	reads  atomic.Int64
}

// Read implements hostenv.Source.
func (s *CountingSource) Read() ([]hostenv.Entry, error) {
	s.reads.Add(1)
	return s.Source.Read()
}

// Reads returns the number of completed Read calls.
func (s *CountingSource) Reads() int64 {
	return s.reads.Load()
}
