package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCorrupt reports a malformed or truncated binary snapshot. Decoding
// never produces a partial mapping: either the whole buffer is consumed
// exactly, or this error is returned.
var ErrCorrupt = errors.New("corrupt environment snapshot")

// maxStringLen caps every encoded key and value. The wire format uses a
// 2-byte big-endian byte-length prefix per string, so longer strings are
// unrepresentable. Strings are plain UTF-8, not modified UTF-8.
const maxStringLen = 65535

// encode serializes the mapping as a 4-byte big-endian entry count followed
// by length-prefixed (key, value) pairs, in the order given by keys.
func encode(props map[string]string, keys []string) ([]byte, error) {
	var buf bytes.Buffer
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(keys)))
	buf.Write(count[:])

	for _, key := range keys {
		if err := writeString(&buf, key); err != nil {
			return nil, err
		}
		if err := writeString(&buf, props[key]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > maxStringLen {
		return fmt.Errorf("snapshot string of %d bytes exceeds the %d byte limit", len(s), maxStringLen)
	}
	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(s)))
	buf.Write(prefix[:])
	buf.WriteString(s)
	return nil
}

// decode reconstructs the mapping from data. It consumes exactly the
// declared number of entries; truncated strings, a short buffer, or
// trailing bytes all fail with ErrCorrupt.
func decode(data []byte) (map[string]string, []string, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("%w: buffer of %d bytes is too short to hold an entry count", ErrCorrupt, len(data))
	}
	count := binary.BigEndian.Uint32(data[:4])
	rest := data[4:]

	props := make(map[string]string, count)
	keys := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		var key, value string
		var err error
		if key, rest, err = readString(rest); err != nil {
			return nil, nil, fmt.Errorf("%w: entry %d of %d: %s", ErrCorrupt, i+1, count, err)
		}
		if value, rest, err = readString(rest); err != nil {
			return nil, nil, fmt.Errorf("%w: entry %d of %d: %s", ErrCorrupt, i+1, count, err)
		}
		if _, dup := props[key]; !dup {
			keys = append(keys, key)
		}
		props[key] = value
	}
	if len(rest) != 0 {
		return nil, nil, fmt.Errorf("%w: %d trailing bytes after %d declared entries", ErrCorrupt, len(rest), count)
	}
	return props, keys, nil
}

func readString(data []byte) (string, []byte, error) {
	if len(data) < 2 {
		return "", nil, errors.New("missing string length prefix")
	}
	length := int(binary.BigEndian.Uint16(data[:2]))
	data = data[2:]
	if len(data) < length {
		return "", nil, fmt.Errorf("string declares %d bytes but only %d remain", length, len(data))
	}
	return string(data[:length]), data[length:], nil
}
