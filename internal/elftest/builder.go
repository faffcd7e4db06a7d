// Package elftest builds small synthetic ELF images for tests. The builder
// produces only what the analysers read: an identification header, section
// data and a section header table, for both classes and byte orders.
package elftest

import "encoding/binary"

// Section describes one section to place in the image.
type Section struct {
	Name    string
	Type    uint32
	Data    []byte
	Link    uint32
	Entsize uint64
}

// Builder accumulates sections and emits an ELF image. The zero value
// produces a 64-bit little-endian shared object with no sections.
type Builder struct {
	Class32   bool
	BigEndian bool
	Type      uint16 // defaults to ET_DYN
	Machine   uint16
	Flags     uint32

	sections []Section
}

// Object types.
const (
	TypeRel  = 1
	TypeExec = 2
	TypeDyn  = 3
)

// Add appends a section and returns its index in the final section header
// table. Index 0 is the reserved null section; the section name string
// table goes last.
func (b *Builder) Add(s Section) uint32 {
	b.sections = append(b.sections, s)
	return uint32(len(b.sections))
}

// Order returns the byte order the image declares.
func (b *Builder) Order() binary.ByteOrder {
	if b.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Bytes lays out and returns the image.
func (b *Builder) Bytes() []byte {
	order := b.Order()
	ehsize, shentsize := 64, 64
	if b.Class32 {
		ehsize, shentsize = 52, 40
	}

	// Section name table: one NUL, then each name, then ".shstrtab".
	shstrtab := []byte{0}
	nameOff := make([]uint32, len(b.sections))
	for i, s := range b.sections {
		nameOff[i] = uint32(len(shstrtab))
		shstrtab = append(shstrtab, s.Name...)
		shstrtab = append(shstrtab, 0)
	}
	shstrtabNameOff := uint32(len(shstrtab))
	shstrtab = append(shstrtab, ".shstrtab"...)
	shstrtab = append(shstrtab, 0)

	type placed struct {
		off, size uint64
	}
	offsets := make([]placed, len(b.sections)+1) // +1 for shstrtab
	cur := uint64(ehsize)
	align := func(n uint64) uint64 { return (n + 7) &^ 7 }
	for i, s := range b.sections {
		cur = align(cur)
		offsets[i] = placed{off: cur, size: uint64(len(s.Data))}
		cur += uint64(len(s.Data))
	}
	cur = align(cur)
	offsets[len(b.sections)] = placed{off: cur, size: uint64(len(shstrtab))}
	cur += uint64(len(shstrtab))
	shoff := align(cur)

	shnum := len(b.sections) + 2
	total := shoff + uint64(shnum*shentsize)
	img := make([]byte, total)

	// Identification.
	copy(img, "\x7fELF")
	if b.Class32 {
		img[4] = 1
	} else {
		img[4] = 2
	}
	if b.BigEndian {
		img[5] = 2
	} else {
		img[5] = 1
	}
	img[6] = 1 // EV_CURRENT

	typ := b.Type
	if typ == 0 {
		typ = TypeDyn
	}
	order.PutUint16(img[16:], typ)
	order.PutUint16(img[18:], b.Machine)
	order.PutUint32(img[20:], 1)
	if b.Class32 {
		order.PutUint32(img[32:], uint32(shoff))
		order.PutUint32(img[36:], b.Flags)
		order.PutUint16(img[40:], uint16(ehsize))
		order.PutUint16(img[46:], uint16(shentsize))
		order.PutUint16(img[48:], uint16(shnum))
		order.PutUint16(img[50:], uint16(shnum-1))
	} else {
		order.PutUint64(img[40:], shoff)
		order.PutUint32(img[48:], b.Flags)
		order.PutUint16(img[52:], uint16(ehsize))
		order.PutUint16(img[58:], uint16(shentsize))
		order.PutUint16(img[60:], uint16(shnum))
		order.PutUint16(img[62:], uint16(shnum-1))
	}

	// Section payloads.
	for i, s := range b.sections {
		copy(img[offsets[i].off:], s.Data)
	}
	copy(img[offsets[len(b.sections)].off:], shstrtab)

	// Section header table.
	writeShdr := func(idx int, name, typ uint32, off, size uint64, link uint32, entsize uint64) {
		base := shoff + uint64(idx*shentsize)
		h := img[base:]
		order.PutUint32(h[0:], name)
		order.PutUint32(h[4:], typ)
		if b.Class32 {
			order.PutUint32(h[16:], uint32(off))
			order.PutUint32(h[20:], uint32(size))
			order.PutUint32(h[24:], link)
			order.PutUint32(h[36:], uint32(entsize))
		} else {
			order.PutUint64(h[24:], off)
			order.PutUint64(h[32:], size)
			order.PutUint32(h[40:], link)
			order.PutUint64(h[56:], entsize)
		}
	}

	for i, s := range b.sections {
		writeShdr(i+1, nameOff[i], s.Type, offsets[i].off, offsets[i].size, s.Link, s.Entsize)
	}
	last := len(b.sections)
	writeShdr(shnum-1, shstrtabNameOff, 3 /* SHT_STRTAB */, offsets[last].off, offsets[last].size, 0, 0)

	return img
}
