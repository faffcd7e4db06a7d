package elfanalyzer

import (
	"fmt"
	"log/slog"

	"github.com/ricardobranco777/pkg/internal/elffile"
)

// Platform identifies the platform a reference object was built for and
// returns the populated OSInfo, including the architecture token and the
// composed name:version:arch ABI triple. The surrounding packaging tool
// calls this once per run, typically on a known host binary, to establish
// its own platform identity.
//
// Unlike per-object analysis, identification here is mandatory: an object
// without a recognised OS note, or without a mappable architecture, is an
// error.
func (a *Analyzer) Platform(path string) (elffile.OSInfo, error) {
	var oi elffile.OSInfo

	data, err := a.fs.ReadFile(path)
	if err != nil {
		return oi, fmt.Errorf("read failed: %w", err)
	}
	f, err := elffile.New(data)
	if err != nil {
		return oi, fmt.Errorf("%s: %w", path, err)
	}

	// Walk every note section and let later recognised notes override
	// earlier ones.
	identified := false
	for _, s := range f.Sections {
		if s.Type != elffile.SecNote {
			continue
		}
		b, err := f.SectionData(s)
		if err != nil {
			return oi, fmt.Errorf("%s: note section: %w", path, err)
		}
		if oi.ReadNotes(b, f.ByteOrder()) {
			identified = true
		}
	}
	if !identified {
		return oi, fmt.Errorf("%s: %w", path, ErrNoOSNote)
	}

	arch := f.Architecture(oi.Type)
	if arch == "" {
		return oi, fmt.Errorf("%s: %w", path, ErrNoArchitecture)
	}
	oi.Arch = arch

	slog.Debug("identified platform", "path", path, "abi", oi.ABI())
	return oi, nil
}
