// Package pkgmeta accumulates the metadata facts that binary analysis
// produces for one package: shared libraries the package requires and
// provides, content flags, and the package file list.
package pkgmeta

// Flag marks package-level content properties discovered during analysis.
type Flag uint

// Content flags.
const (
	// ContainsELFObjects is set when at least one file is an ELF object.
	ContainsELFObjects Flag = 1 << iota

	// ContainsStaticLibs is set when the package ships a .a archive.
	ContainsStaticLibs

	// ContainsLibtoolArchive is set when the package ships a .la file.
	ContainsLibtoolArchive
)

// Package collects analysis facts for one package. It is written by a
// single analysis run at a time; concurrent runs need one Package each.
type Package struct {
	Name    string
	Version string

	files    []string
	required []string
	provided []string
	reqSeen  map[string]struct{}
	provSeen map[string]struct{}
	flags    Flag
}

// New creates an empty Package with the given identity.
func New(name, version string) *Package {
	return &Package{
		Name:     name,
		Version:  version,
		reqSeen:  make(map[string]struct{}),
		provSeen: make(map[string]struct{}),
	}
}

// AddFile records a file path belonging to the package.
func (p *Package) AddFile(path string) {
	p.files = append(p.files, path)
}

// Files returns the package file list in insertion order.
func (p *Package) Files() []string {
	return p.files
}

// AddRequired records a required shared library name. Duplicate names
// reported by different objects collapse to one entry.
func (p *Package) AddRequired(name string) {
	if _, ok := p.reqSeen[name]; ok {
		return
	}
	p.reqSeen[name] = struct{}{}
	p.required = append(p.required, name)
}

// Required returns the required shared library names in discovery order.
func (p *Package) Required() []string {
	return p.required
}

// AddProvided records a shared library name the package provides.
func (p *Package) AddProvided(name string) {
	if _, ok := p.provSeen[name]; ok {
		return
	}
	p.provSeen[name] = struct{}{}
	p.provided = append(p.provided, name)
}

// Provided returns the provided shared library names in discovery order.
func (p *Package) Provided() []string {
	return p.provided
}

// SetFlag marks a content flag. Setting a flag twice is harmless.
func (p *Package) SetFlag(f Flag) {
	p.flags |= f
}

// HasFlag reports whether a content flag is set.
func (p *Package) HasFlag(f Flag) bool {
	return p.flags&f != 0
}
