package elffile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// OSType enumerates the operating system dialects recognised from note
// sections.
type OSType int

// Recognised OS dialects.
const (
	OSUnknown OSType = iota
	OSLinux
	OSGNU
	OSSolaris
	OSFreeBSD
	OSNetBSD
	OSSyllable
	OSDragonFly
)

// String returns the display name used for the GNU ABI-tag OS table.
func (t OSType) String() string {
	switch t {
	case OSLinux:
		return "Linux"
	case OSGNU:
		return "GNU"
	case OSSolaris:
		return "Solaris"
	case OSFreeBSD:
		return "FreeBSD"
	case OSNetBSD:
		return "NetBSD"
	case OSSyllable:
		return "Syllable"
	case OSDragonFly:
		return "DragonFly"
	default:
		return "Unknown"
	}
}

// OSInfo accumulates what the note sections and the architecture mapping
// say about an object. ReadNotes may be called once per note section; the
// last recognised note overwrites the name, type and version fields, while
// the raw OSVersion integer keeps its first value.
type OSInfo struct {
	Type         OSType
	Name         string
	Version      string
	VersionMajor string
	VersionMinor string
	OSVersion    uint32
	Arch         string
}

// ABI composes the platform identity triple.
func (oi *OSInfo) ABI() string {
	return fmt.Sprintf("%s:%s:%s", oi.Name, oi.Version, oi.Arch)
}

// Note entry header fields are three 4-byte words; name and descriptor
// bytes each pad to a 4-byte boundary.
const noteHdrSize = 12

// Both NT_VERSION (BSD dialects) and NT_GNU_ABI_TAG happen to be tag 1.
const noteTagOne = 1

const unknownOSName = "Unknown"

// gnuNoteOS is the fixed OS table indexed by word 0 of a GNU ABI-tag
// descriptor; an index past the end means unknown.
var gnuNoteOS = []OSType{OSLinux, OSGNU, OSSolaris, OSFreeBSD, OSNetBSD, OSSyllable}

func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

// ReadNotes scans the concatenated note entries in data, in the byte order
// the object header declares, and fills oi from the first recognised entry.
// It reports whether anything was recognised. Trailing bytes too short to
// hold another entry terminate the scan silently.
func (oi *OSInfo) ReadNotes(data []byte, order binary.ByteOrder) bool {
	off := uint64(0)
	for off+noteHdrSize <= uint64(len(data)) {
		namesz := order.Uint32(data[off:])
		descsz := order.Uint32(data[off+4:])
		typ := order.Uint32(data[off+8:])

		nameOff := off + noteHdrSize
		if uint64(namesz) > uint64(len(data))-nameOff {
			return false
		}
		name := string(bytes.TrimRight(data[nameOff:nameOff+uint64(namesz)], "\x00"))

		descOff := nameOff + uint64(align4(namesz))
		if descOff > uint64(len(data)) || uint64(descsz) > uint64(len(data))-descOff {
			return false
		}
		desc := data[descOff : descOff+uint64(descsz)]

		if typ == noteTagOne {
			switch name {
			case "FreeBSD", "DragonFly", "NetBSD":
				return oi.readVersionNote(name, desc, order)
			case "":
				if namesz == 0 {
					return oi.readVersionNote("", desc, order)
				}
			case "GNU":
				return oi.readGNUABITag(desc, order)
			}
		}

		off = descOff + uint64(align4(descsz))
	}
	return false
}

// readVersionNote decodes a BSD-style version note: a single 4-byte version
// integer whose interpretation is OS specific.
func (oi *OSInfo) readVersionNote(name string, desc []byte, order binary.ByteOrder) bool {
	if len(desc) < 4 {
		return false
	}
	version := order.Uint32(desc)

	if name == "" {
		oi.Name = unknownOSName
		oi.Type = OSUnknown
	} else {
		oi.Name = name
		switch name {
		case "FreeBSD":
			oi.Type = OSFreeBSD
		case "DragonFly":
			oi.Type = OSDragonFly
		case "NetBSD":
			oi.Type = OSNetBSD
		}
	}

	if oi.OSVersion == 0 {
		oi.OSVersion = version
	}
	switch oi.Type {
	case OSDragonFly:
		// Minor releases are even; odd numbers are development snapshots.
		oi.Version = fmt.Sprintf("%d.%d", version/100000, ((version/100%1000+1)/2)*2)
	case OSNetBSD:
		oi.Version = fmt.Sprintf("%d", (version+1000000)/100000000)
	default:
		oi.VersionMajor = fmt.Sprintf("%d", version/100000)
		oi.VersionMinor = fmt.Sprintf("%d", version/1000%100)
		oi.Version = fmt.Sprintf("%d", version/100000)
	}
	return true
}

// readGNUABITag decodes an NT_GNU_ABI_TAG descriptor: four 4-byte words,
// word 0 selecting the OS and words 1-3 carrying the ABI version.
func (oi *OSInfo) readGNUABITag(desc []byte, order binary.ByteOrder) bool {
	if len(desc) < 16 {
		return false
	}
	var words [4]uint32
	for i := range words {
		words[i] = order.Uint32(desc[i*4:])
	}

	if int(words[0]) < len(gnuNoteOS) {
		oi.Type = gnuNoteOS[words[0]]
		oi.Name = oi.Type.String()
	} else {
		oi.Type = OSUnknown
		oi.Name = unknownOSName
	}

	if oi.Type == OSLinux {
		oi.Version = fmt.Sprintf("%d.%d", words[1], words[2])
	} else {
		oi.Version = fmt.Sprintf("%d.%d.%d", words[1], words[2], words[3])
	}
	return true
}
