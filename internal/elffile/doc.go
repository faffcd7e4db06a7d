// Package elffile is a self-contained, bounds-checked decoder for the parts
// of the ELF object format that package analysis needs: the identification
// header, the section header table, dynamic-section entries, vendor note
// sections and the ARM build-attributes sub-format.
//
// The decoder works on a byte slice that the caller already read; it never
// performs I/O and never executes or relocates anything. Every multi-byte
// read respects the declared class and data encoding of the object, and any
// read that would go past the end of the buffer fails with ErrTruncated
// instead of touching adjacent memory. This holds for adversarial input:
// a malformed object can make decoding stop early, never read out of range.
//
// # Usage
//
//	f, err := elffile.New(data)
//	if err != nil {
//	    // not an ELF object, or structurally broken
//	}
//	for _, s := range f.Sections {
//	    if s.Type == elffile.SecNote { ... }
//	}
package elffile
