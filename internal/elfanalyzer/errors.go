package elfanalyzer

import (
	"errors"
	"fmt"
)

// Static errors
var (
	// ErrNoOSNote indicates no note section identified the object's OS.
	ErrNoOSNote = errors.New("no recognised OS note")

	// ErrNoArchitecture indicates the machine type could not be mapped to
	// an architecture token.
	ErrNoArchitecture = errors.New("cannot determine architecture")

	// ErrABIMismatch indicates the object does not match the configured
	// target ABI.
	ErrABIMismatch = errors.New("object does not match target ABI")
)

// UnresolvedLibrariesError reports required shared libraries that the
// resolver could not locate for an executable.
type UnresolvedLibrariesError struct {
	Path      string
	Libraries []string
}

func (e *UnresolvedLibrariesError) Error() string {
	return fmt.Sprintf("%s: required shared libraries not found: %v", e.Path, e.Libraries)
}
