package elffile

import "errors"

// Static errors
var (
	// ErrEmpty indicates a zero-length input buffer.
	ErrEmpty = errors.New("empty file")

	// ErrNotELF indicates the leading bytes are not the ELF magic.
	ErrNotELF = errors.New("not an ELF object")

	// ErrTruncated indicates a read that would go past the end of the
	// buffer. Returned for any structure whose declared offset or size
	// does not fit the input.
	ErrTruncated = errors.New("truncated ELF object")

	// ErrBadClass indicates an EI_CLASS byte that is neither 32- nor 64-bit.
	ErrBadClass = errors.New("unsupported ELF class")

	// ErrBadEncoding indicates an EI_DATA byte that is neither LSB nor MSB.
	ErrBadEncoding = errors.New("unsupported ELF data encoding")

	// ErrZeroEntrySize indicates a dynamic section whose sh_entsize is zero.
	ErrZeroEntrySize = errors.New("dynamic section with zero entry size")

	// ErrBadEntrySize indicates a dynamic section whose sh_entsize is
	// smaller than one dynamic entry for the declared class.
	ErrBadEntrySize = errors.New("dynamic section entry size too small")

	// ErrBadSectionIndex indicates a section index outside the section table.
	ErrBadSectionIndex = errors.New("section index out of range")

	// ErrBadStringOffset indicates a string-table offset past the table end.
	ErrBadStringOffset = errors.New("string offset outside string table")

	// ErrUnterminatedString indicates a string table entry with no NUL
	// terminator before the end of the table.
	ErrUnterminatedString = errors.New("unterminated string in string table")
)
