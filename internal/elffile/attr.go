package elffile

import "encoding/binary"

// ARM build-attribute tags, from the ABI for the ARM Architecture
// addenda, section 2.3.
const (
	attrTagFile    = 1
	attrTagCPUArch = 6
)

// attrVersion is the format marker byte opening an attributes section.
const attrVersion = 'A'

// attrIsNTBS reports whether the tag's value is a NUL-terminated string.
func attrIsNTBS(tag byte) bool {
	switch tag {
	case 4, 5, 32, 65, 67:
		return true
	}
	return false
}

// attrIsULEB reports whether the tag's value is a ULEB128 integer.
func attrIsULEB(tag byte) bool {
	if tag >= 7 && tag <= 31 {
		return true
	}
	switch tag {
	case 34, 36, 38, 42, 44, 64, 66, 68, 70:
		return true
	}
	return false
}

// ParseARMAttributes decodes an .ARM.attributes section payload and returns
// the CPU variant it declares: "arm" for ARMv5 and below, "armv6", or
// "armv7" for ARMv7 and later. It returns the empty string when the stream
// is malformed, uses an unsupported tag, or declares a CPU architecture
// value that needs more than one byte. The decoder is pure and never reads
// past data, whatever the stream claims about its own lengths.
func ParseARMAttributes(data []byte) string {
	if len(data) == 0 || data[0] != attrVersion {
		return ""
	}
	data = data[1:]

	if len(data) < 4 {
		return ""
	}
	sectLen := binary.LittleEndian.Uint32(data)
	if uint64(sectLen) > uint64(len(data)) {
		return ""
	}
	data = data[4:]

	// Skip the vendor name.
	for len(data) != 0 && data[0] != 0 {
		data = data[1:]
	}
	if len(data) == 0 {
		return ""
	}
	data = data[1:]

	for len(data) != 0 {
		// Only file-scope attributes carry a CPU architecture.
		if data[0] != attrTagFile {
			return ""
		}
		data = data[1:]

		if len(data) < 4 {
			return ""
		}
		tagLen := binary.LittleEndian.Uint32(data)
		// At least space for the tag and size.
		if tagLen <= 5 {
			return ""
		}
		tagLen--
		if uint64(tagLen) > uint64(len(data)) {
			return ""
		}
		data = data[4:]
		tagLen -= 4

		for tagLen != 0 {
			if len(data) == 0 {
				return ""
			}
			tag := data[0]
			data = data[1:]
			tagLen--

			switch {
			case tag == attrTagCPUArch:
				if len(data) == 0 {
					return ""
				}
				val := data[0]
				// Values needing more than one byte are unsupported.
				if val&(1<<7) != 0 {
					return ""
				}
				switch {
				case val <= 5:
					return "arm"
				case val == 6:
					return "armv6"
				default:
					return "armv7"
				}
			case attrIsNTBS(tag):
				for len(data) != 0 && data[0] != 0 {
					if tagLen == 0 {
						return ""
					}
					data = data[1:]
					tagLen--
				}
				if tagLen == 0 || len(data) == 0 {
					return ""
				}
				data = data[1:]
				tagLen--
			case attrIsULEB(tag):
				for len(data) != 0 && data[0]&(1<<7) != 0 {
					if tagLen == 0 {
						return ""
					}
					data = data[1:]
					tagLen--
				}
				if tagLen == 0 || len(data) == 0 {
					return ""
				}
				data = data[1:]
				tagLen--
			default:
				return ""
			}
		}
		break
	}
	return ""
}
