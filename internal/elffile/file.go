package elffile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ELF identification and header constants. Only what the analyser consumes
// is defined here; anything else is passed through as raw numbers.
const (
	elfMagic = "\x7fELF"

	identLen = 16

	ehdrSize32 = 52
	ehdrSize64 = 64
	shdrSize32 = 40
	shdrSize64 = 64
)

// Class is the EI_CLASS field: the word size of the object.
type Class uint8

// Supported classes.
const (
	Class32 Class = 1
	Class64 Class = 2
)

// Encoding is the EI_DATA field: the byte order of the object.
type Encoding uint8

// Supported data encodings.
const (
	DataLSB Encoding = 1
	DataMSB Encoding = 2
)

// Type is the e_type field.
type Type uint16

// Object types retained by analysis; everything else is rejected upstream.
const (
	TypeRel  Type = 1
	TypeExec Type = 2
	TypeDyn  Type = 3
)

// Machine is the e_machine field.
type Machine uint16

// Machine types with an architecture mapping.
const (
	Machine386     Machine = 3
	MachinePPC     Machine = 20
	MachinePPC64   Machine = 21
	MachineARM     Machine = 40
	MachineX86_64  Machine = 62
	MachineAArch64 Machine = 183
	MachineRISCV   Machine = 243
)

// SectionType is the sh_type field.
type SectionType uint32

// Section types the analyser cares about.
const (
	SecStrtab  SectionType = 3
	SecDynamic SectionType = 6
	SecNote    SectionType = 7
)

// EABI version mask in e_flags for 32-bit ARM objects.
const armEABIMask = 0xff000000

// Header holds the decoded identification and fixed header fields.
// Immutable once parsed.
type Header struct {
	Class   Class
	Data    Encoding
	OSABI   uint8
	Type    Type
	Machine Machine
	Flags   uint32
}

// Section is one section header table entry. Offsets and sizes are kept as
// declared; SectionData validates them against the buffer on access.
type Section struct {
	NameIndex uint32
	Type      SectionType
	Off       uint64
	Size      uint64
	Link      uint32
	Entsize   uint64
}

// File is a parsed ELF container over one immutable byte buffer.
type File struct {
	Header   Header
	Sections []Section

	data     []byte
	order    binary.ByteOrder
	shstrndx uint16
}

// New parses the header and section table of data. It rejects empty input,
// non-ELF input and structurally impossible layouts; it does not interpret
// section contents.
func New(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) < identLen || !bytes.HasPrefix(data, []byte(elfMagic)) {
		return nil, ErrNotELF
	}

	f := &File{data: data}
	f.Header.Class = Class(data[4])
	f.Header.Data = Encoding(data[5])
	f.Header.OSABI = data[7]

	switch f.Header.Data {
	case DataLSB:
		f.order = binary.LittleEndian
	case DataMSB:
		f.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadEncoding, data[5])
	}

	var (
		ehdrSize            int
		shoff               uint64
		shentsize, shnum    uint16
	)
	switch f.Header.Class {
	case Class32:
		ehdrSize = ehdrSize32
	case Class64:
		ehdrSize = ehdrSize64
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadClass, data[4])
	}
	if len(data) < ehdrSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, ehdrSize, len(data))
	}

	f.Header.Type = Type(f.order.Uint16(data[16:]))
	f.Header.Machine = Machine(f.order.Uint16(data[18:]))
	if f.Header.Class == Class32 {
		f.Header.Flags = f.order.Uint32(data[36:])
		shoff = uint64(f.order.Uint32(data[32:]))
		shentsize = f.order.Uint16(data[46:])
		shnum = f.order.Uint16(data[48:])
		f.shstrndx = f.order.Uint16(data[50:])
	} else {
		f.Header.Flags = f.order.Uint32(data[48:])
		shoff = f.order.Uint64(data[40:])
		shentsize = f.order.Uint16(data[58:])
		shnum = f.order.Uint16(data[60:])
		f.shstrndx = f.order.Uint16(data[62:])
	}

	if shnum == 0 {
		return f, nil
	}

	minShdr := uint16(shdrSize32)
	if f.Header.Class == Class64 {
		minShdr = shdrSize64
	}
	if shentsize < minShdr {
		return nil, fmt.Errorf("%w: section header entry size %d", ErrTruncated, shentsize)
	}
	tableLen := uint64(shnum) * uint64(shentsize)
	if shoff > uint64(len(data)) || tableLen > uint64(len(data))-shoff {
		return nil, fmt.Errorf("%w: section table at %#x+%#x", ErrTruncated, shoff, tableLen)
	}

	f.Sections = make([]Section, shnum)
	for i := range f.Sections {
		b := data[shoff+uint64(i)*uint64(shentsize):]
		s := &f.Sections[i]
		s.NameIndex = f.order.Uint32(b[0:])
		s.Type = SectionType(f.order.Uint32(b[4:]))
		if f.Header.Class == Class32 {
			s.Off = uint64(f.order.Uint32(b[16:]))
			s.Size = uint64(f.order.Uint32(b[20:]))
			s.Link = f.order.Uint32(b[24:])
			s.Entsize = uint64(f.order.Uint32(b[36:]))
		} else {
			s.Off = f.order.Uint64(b[24:])
			s.Size = f.order.Uint64(b[32:])
			s.Link = f.order.Uint32(b[40:])
			s.Entsize = f.order.Uint64(b[56:])
		}
	}
	return f, nil
}

// ByteOrder returns the byte order declared by the header.
func (f *File) ByteOrder() binary.ByteOrder {
	return f.order
}

// SectionData returns the file bytes covered by s, validating the declared
// range against the buffer.
func (f *File) SectionData(s Section) ([]byte, error) {
	if s.Off > uint64(len(f.data)) || s.Size > uint64(len(f.data))-s.Off {
		return nil, fmt.Errorf("%w: section at %#x+%#x", ErrTruncated, s.Off, s.Size)
	}
	return f.data[s.Off : s.Off+s.Size], nil
}

// StringAt resolves a NUL-terminated string at off in the string table
// section with index link.
func (f *File) StringAt(link uint32, off uint64) (string, error) {
	if link >= uint32(len(f.Sections)) {
		return "", fmt.Errorf("%w: string table %d", ErrBadSectionIndex, link)
	}
	tab, err := f.SectionData(f.Sections[link])
	if err != nil {
		return "", err
	}
	if off >= uint64(len(tab)) {
		return "", fmt.Errorf("%w: offset %#x in table of %#x bytes", ErrBadStringOffset, off, len(tab))
	}
	end := bytes.IndexByte(tab[off:], 0)
	if end < 0 {
		return "", ErrUnterminatedString
	}
	return string(tab[off : off+uint64(end)]), nil
}

// SectionName resolves the name of s via the section name string table.
func (f *File) SectionName(s Section) (string, error) {
	return f.StringAt(uint32(f.shstrndx), uint64(s.NameIndex))
}

// SectionByName returns the first section with the given name.
func (f *File) SectionByName(name string) (Section, bool) {
	for _, s := range f.Sections {
		n, err := f.SectionName(s)
		if err != nil {
			continue
		}
		if n == name {
			return s, true
		}
	}
	return Section{}, false
}
