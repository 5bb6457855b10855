// Package hostenv abstracts the host's flat key/value configuration table.
//
// The bridge reads this table at most once per process. Hiding the read
// behind a small interface keeps the capture testable: production code uses
// the process environment, tests inject a static table or a failing one.
package hostenv

import (
	"os"
	"strings"
)

// Entry is a single key/value pair from the host configuration table.
// Entries are ordered; the snapshot codec preserves this order on encode.
type Entry struct {
	Key   string
	Value string
}

// Source supplies the host configuration table.
type Source interface {
	// Read returns the host configuration as ordered entries. It is called
	// at most once per process; a returned error is treated as fatal by the
	// caller and never retried.
	Read() ([]Entry, error)
}

// OSSource reads the configuration table from the process environment.
type OSSource struct{}

// Read implements Source.
func (OSSource) Read() ([]Entry, error) {
	environ := os.Environ()
	entries := make([]Entry, 0, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries, nil
}
