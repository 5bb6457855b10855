// Package snapshot captures the host's configuration table exactly once and
// exposes it as an immutable mapping, together with the binary codec used to
// carry that mapping from a normal-mode process into an ahead-of-time image.
//
// Outside an image the mapping is captured lazily from a hostenv.Source on
// first use. Inside an image no live capture is possible: the mapping must be
// supplied, exactly once, as a byte buffer produced by Marshal in the process
// that assembled the image.
package snapshot

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/smarr/graal-jvmci-9/internal/hostenv"
	"github.com/smarr/graal-jvmci-9/internal/mode"
)

var (
	// ErrNotInitialized reports that the snapshot was required inside an
	// image but was never supplied. This is a build configuration error.
	ErrNotInitialized = errors.New("environment snapshot not initialized")

	// ErrHostRead reports that the host configuration table could not be
	// read. The failure is cached: it is returned on every subsequent
	// access and the read is never retried.
	ErrHostRead = errors.New("failed to read host configuration")

	// ErrInvalidMode reports an operation invoked in an execution mode that
	// forbids it, such as supplying a snapshot outside an image. This is
	// always a programming or build-configuration error.
	ErrInvalidMode = errors.New("operation not valid in this execution mode")
)

// Store holds the process-wide environment snapshot. The zero value is not
// usable; construct with New.
//
// All methods are safe for concurrent use. The one-time capture is
// linearized: concurrent first readers observe a single completed mapping,
// never a partial one.
type Store struct {
	flags  mode.Flags
	source hostenv.Source

	capture sync.Once
	err     error

	// mu guards props/keys installation in image mode, where Supply rather
	// than the capture once publishes them.
	mu    sync.Mutex
	props map[string]string
	keys  []string // first-seen key order from the source, used by Marshal
}

// New creates a Store for the given execution mode, reading from source when
// a live capture is permitted. The source is consulted at most once.
func New(flags mode.Flags, source hostenv.Source) *Store {
	return &Store{flags: flags, source: source}
}

// Props returns a copy of the snapshot mapping, capturing it first if this
// is the first access outside an image. Inside an image it fails with
// ErrNotInitialized until Supply has been called.
func (s *Store) Props() (map[string]string, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return maps.Clone(s.props), nil
}

// Prop looks up a single property. The boolean reports presence.
func (s *Store) Prop(name string) (string, bool, error) {
	if err := s.ensure(); err != nil {
		return "", false, err
	}
	value, ok := s.props[name]
	return value, ok, nil
}

// PropDefault looks up a single property, returning def when absent.
func (s *Store) PropDefault(name, def string) (string, error) {
	value, ok, err := s.Prop(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return value, nil
}

// Supply decodes data and installs it as the permanent snapshot. It is only
// valid inside an image, exactly once; a second call or a call in any other
// mode fails with ErrInvalidMode. Malformed data fails with ErrCorrupt and
// installs nothing.
func (s *Store) Supply(data []byte) error {
	if !s.flags.InImage {
		return fmt.Errorf("%w: a snapshot can only be supplied inside an image", ErrInvalidMode)
	}
	props, keys, err := decode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.props != nil {
		return fmt.Errorf("%w: snapshot already supplied", ErrInvalidMode)
	}
	s.props = props
	s.keys = keys
	return nil
}

// Marshal serializes the snapshot for transfer into an image being built.
// It is only valid outside an image and captures the snapshot first if
// needed. Entries are encoded in the order the host source produced them.
func (s *Store) Marshal() ([]byte, error) {
	if s.flags.InImage {
		return nil, fmt.Errorf("%w: a snapshot can only be serialized outside an image", ErrInvalidMode)
	}
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return encode(s.props, s.keys)
}

// ensure makes the snapshot available, or reports why it cannot be. After a
// nil return, props and keys are immutable for the rest of the process.
func (s *Store) ensure() error {
	if s.flags.InImage {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.props == nil {
			return ErrNotInitialized
		}
		return nil
	}
	s.capture.Do(func() {
		entries, err := s.source.Read()
		if err != nil {
			s.err = fmt.Errorf("%w: %v", ErrHostRead, err)
			return
		}
		props := make(map[string]string, len(entries))
		keys := make([]string, 0, len(entries))
		for _, e := range entries {
			if _, dup := props[e.Key]; !dup {
				keys = append(keys, e.Key)
			}
			props[e.Key] = e.Value
		}
		s.props = props
		s.keys = keys
	})
	return s.err
}
