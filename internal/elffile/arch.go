package elffile

// armAttributesSection names the section holding ARM build attributes.
const armAttributesSection = ".ARM.attributes"

// Architecture maps the object's machine type to a canonical architecture
// token, using ostype for the machines whose token is OS specific. It
// returns the empty string for machine types outside the table, for ARM
// objects without EABI flags or a usable attributes section, and for any
// unsupported disambiguation.
func (f *File) Architecture(ostype OSType) string {
	switch f.Header.Machine {
	case Machine386:
		return "i386"
	case MachineX86_64:
		switch ostype {
		case OSFreeBSD:
			return "amd64"
		case OSDragonFly:
			return "x86:64"
		default:
			return "x86_64"
		}
	case MachineAArch64:
		return "aarch64"
	case MachineARM:
		// Only EABI objects carry a usable CPU variant.
		if f.Header.Flags&armEABIMask == 0 {
			return ""
		}
		s, ok := f.SectionByName(armAttributesSection)
		if !ok {
			return ""
		}
		data, err := f.SectionData(s)
		if err != nil {
			return ""
		}
		return ParseARMAttributes(data)
	case MachinePPC:
		return "powerpc"
	case MachinePPC64:
		switch f.Header.Data {
		case DataMSB:
			return "powerpc64"
		case DataLSB:
			return "powerpc64le"
		}
	case MachineRISCV:
		switch f.Header.Class {
		case Class32:
			return "riscv32"
		case Class64:
			return "riscv64"
		}
	}
	return ""
}
