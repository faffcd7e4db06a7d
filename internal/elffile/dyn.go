package elffile

// DynTag identifies the semantics of one dynamic entry.
type DynTag int64

// Dynamic tags retained by analysis; other tags are ignored.
const (
	DynNeeded  DynTag = 1
	DynSoname  DynTag = 14
	DynRPath   DynTag = 15
	DynRunPath DynTag = 29
)

// DynEntry is one (tag, value) pair from a dynamic section. Val is either
// an integer or a string-table offset depending on Tag.
type DynEntry struct {
	Tag DynTag
	Val uint64
}

// DynEntries decodes the dynamic section s. The number of entries is
// sh_size / sh_entsize; a zero entry size is a parse error, and an entry
// size smaller than one entry for the declared class is rejected rather
// than read at the wrong stride.
func (f *File) DynEntries(s Section) ([]DynEntry, error) {
	if s.Entsize == 0 {
		return nil, ErrZeroEntrySize
	}
	width := uint64(16)
	if f.Header.Class == Class32 {
		width = 8
	}
	if s.Entsize < width {
		return nil, ErrBadEntrySize
	}
	data, err := f.SectionData(s)
	if err != nil {
		return nil, err
	}

	n := s.Size / s.Entsize
	entries := make([]DynEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		b := data[i*s.Entsize:]
		if f.Header.Class == Class32 {
			entries = append(entries, DynEntry{
				Tag: DynTag(int32(f.order.Uint32(b[0:]))),
				Val: uint64(f.order.Uint32(b[4:])),
			})
		} else {
			entries = append(entries, DynEntry{
				Tag: DynTag(int64(f.order.Uint64(b[0:]))),
				Val: f.order.Uint64(b[8:]),
			})
		}
	}
	return entries, nil
}
