package elfanalyzer

import (
	"log/slog"
	"strings"

	"github.com/ricardobranco777/pkg/internal/elffile"
)

// abiArchTokens maps machine types to the architecture token used in ABI
// strings. This table is deliberately OS independent: the class/wordsize
// comparison resolves the 32/64 ambiguity before the token is compared.
var abiArchTokens = map[elffile.Machine]string{
	elffile.Machine386:     "i386",
	elffile.MachineX86_64:  "amd64",
	elffile.MachineAArch64: "aarch64",
	elffile.MachineARM:     "arm",
	elffile.MachinePPC:     "powerpc",
	elffile.MachinePPC64:   "powerpc64",
	elffile.MachineRISCV:   "riscv",
}

// abiWordsizes maps the wordsize field of an ABI string to an ELF class.
var abiWordsizes = map[string]elffile.Class{
	"32": elffile.Class32,
	"64": elffile.Class64,
}

// abiMatches checks an object header against the configured ABI string of
// the form name:version:arch:wordsize[.extra]. An empty or unparseable
// configuration accepts unconditionally: a broken target description must
// not reject every object on the system.
func abiMatches(hdr elffile.Header, abi, path string) bool {
	parts := strings.SplitN(abi, ":", 5)
	if len(parts) < 4 {
		return true
	}
	arch, wordsize := parts[2], parts[3]
	if arch == "" || wordsize == "" {
		return true
	}

	token, ok := abiArchTokens[hdr.Machine]
	if !ok {
		return true
	}
	class, ok := abiWordsizes[wordsize]
	if !ok {
		return true
	}

	// The wordsize settles the 32/64 ambiguity before the token compare.
	if hdr.Class != class {
		slog.Debug("not a valid ELF class for this ABI",
			"class", int(hdr.Class), "want", int(class), "path", path)
		return false
	}
	if token != arch {
		slog.Debug("not a valid architecture for this ABI",
			"arch", token, "want", arch, "path", path)
		return false
	}
	return true
}
