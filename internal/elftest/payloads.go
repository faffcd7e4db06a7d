package elftest

import "encoding/binary"

// Note renders one note entry with 4-byte padded name and descriptor. A
// non-empty name gets its terminating NUL counted in namesz, matching what
// linkers emit.
func Note(order binary.ByteOrder, name string, typ uint32, desc []byte) []byte {
	namesz := 0
	if name != "" {
		namesz = len(name) + 1
	}
	pad4 := func(n int) int { return (n + 3) &^ 3 }

	buf := make([]byte, 12+pad4(namesz)+pad4(len(desc)))
	order.PutUint32(buf[0:], uint32(namesz))
	order.PutUint32(buf[4:], uint32(len(desc)))
	order.PutUint32(buf[8:], typ)
	copy(buf[12:], name)
	copy(buf[12+pad4(namesz):], desc)
	return buf
}

// U32 renders a single 32-bit word, for note descriptors.
func U32(order binary.ByteOrder, v uint32) []byte {
	buf := make([]byte, 4)
	order.PutUint32(buf, v)
	return buf
}

// Words renders consecutive 32-bit words, for GNU ABI-tag descriptors.
func Words(order binary.ByteOrder, vs ...uint32) []byte {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		order.PutUint32(buf[i*4:], v)
	}
	return buf
}

// Dyn is one (tag, value) pair for DynSection.
type Dyn struct {
	Tag int64
	Val uint64
}

// DynSection renders dynamic entries for the given class. The entry width
// matches what DynEntrySize reports for the class.
func DynSection(class32 bool, order binary.ByteOrder, entries ...Dyn) []byte {
	width := DynEntrySize(class32)
	buf := make([]byte, width*len(entries))
	for i, e := range entries {
		b := buf[i*width:]
		if class32 {
			order.PutUint32(b[0:], uint32(int32(e.Tag)))
			order.PutUint32(b[4:], uint32(e.Val))
		} else {
			order.PutUint64(b[0:], uint64(e.Tag))
			order.PutUint64(b[8:], e.Val)
		}
	}
	return buf
}

// DynEntrySize returns the dynamic entry width for a class.
func DynEntrySize(class32 bool) int {
	if class32 {
		return 8
	}
	return 16
}

// Strtab builds a string table, returning offsets as strings are added.
type Strtab struct {
	buf []byte
}

// NewStrtab starts a table with the conventional leading NUL.
func NewStrtab() *Strtab {
	return &Strtab{buf: []byte{0}}
}

// Add appends a NUL-terminated string and returns its offset.
func (s *Strtab) Add(str string) uint64 {
	off := uint64(len(s.buf))
	s.buf = append(s.buf, str...)
	s.buf = append(s.buf, 0)
	return off
}

// Bytes returns the table contents.
func (s *Strtab) Bytes() []byte {
	return s.buf
}
