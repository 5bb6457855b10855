// Package mode holds the two process-lifetime facts that gate everything
// else in the bridge: whether an ahead-of-time image is being assembled
// right now, and whether we are executing inside an already-built image.
//
// The flags are resolved exactly once at startup and never change. Code
// that depends on them branches on the struct fields directly rather than
// going through accessor methods, so that dead branches are trivially
// eliminated when a mode is impossible.
package mode

import "fmt"

// Flags captures the execution mode of the current process. At most one
// field is true; both false means a normal interpreted/JIT session.
type Flags struct {
	// BuildingImage is true while an ahead-of-time image is being assembled.
	BuildingImage bool

	// InImage is true when executing inside an already-built image, where
	// no dynamic discovery or live host reads are possible.
	InImage bool
}

// Resolve maps a mode name from startup configuration to its Flags value.
// The empty string is accepted as an alias for "normal".
func Resolve(name string) (Flags, error) {
	switch name {
	case "", "normal":
		return Flags{}, nil
	case "build":
		return Flags{BuildingImage: true}, nil
	case "image":
		return Flags{InImage: true}, nil
	default:
		return Flags{}, fmt.Errorf("unknown execution mode %q: must be 'normal', 'build', or 'image'", name)
	}
}

// String returns the canonical mode name.
func (f Flags) String() string {
	switch {
	case f.BuildingImage:
		return "build"
	case f.InImage:
		return "image"
	default:
		return "normal"
	}
}
