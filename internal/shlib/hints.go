package shlib

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// DefaultHintsFile is where the system linker keeps its search-path hints.
const DefaultHintsFile = "/var/run/ld-elf.so.hints"

// Hints file layout: a fixed header followed by a string table. All header
// words are 32-bit in host byte order; the analyser assumes little-endian
// hosts, matching every platform it derives an architecture for except
// big-endian PowerPC hints files, which it would reject by magic.
const (
	hintsMagic   = 0x746e6845
	hintsHdrSize = 128
)

// Static errors
var (
	// ErrBadHintsFile indicates a hints file without the expected magic.
	ErrBadHintsFile = errors.New("not a linker hints file")

	// ErrHintsTruncated indicates a hints file whose declared offsets do
	// not fit the file.
	ErrHintsTruncated = errors.New("truncated linker hints file")
)

// SeedHintsFile parses the binary hints file written by ldconfig and
// registers its directory list as default search locations.
func (x *Index) SeedHintsFile(path string) error {
	data, err := x.fs.ReadFile(path)
	if err != nil {
		return err
	}
	dirs, err := parseHints(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	x.SeedDirs(dirs)
	return nil
}

func parseHints(data []byte) ([]string, error) {
	if len(data) < hintsHdrSize {
		return nil, ErrHintsTruncated
	}
	if binary.LittleEndian.Uint32(data) != hintsMagic {
		return nil, ErrBadHintsFile
	}
	strtab := uint64(binary.LittleEndian.Uint32(data[8:]))
	strsize := uint64(binary.LittleEndian.Uint32(data[12:]))
	dirlist := uint64(binary.LittleEndian.Uint32(data[16:]))
	dirlistlen := uint64(binary.LittleEndian.Uint32(data[20:]))

	if strtab > uint64(len(data)) || strsize > uint64(len(data))-strtab {
		return nil, ErrHintsTruncated
	}
	if dirlist > strsize || dirlistlen > strsize-dirlist {
		return nil, ErrHintsTruncated
	}

	list := string(data[strtab+dirlist : strtab+dirlist+dirlistlen])
	var dirs []string
	for _, dir := range strings.Split(list, ":") {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
