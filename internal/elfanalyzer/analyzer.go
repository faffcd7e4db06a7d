package elfanalyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ricardobranco777/pkg/internal/common"
	"github.com/ricardobranco777/pkg/internal/config"
	"github.com/ricardobranco777/pkg/internal/elffile"
	"github.com/ricardobranco777/pkg/internal/pkgmeta"
	"github.com/ricardobranco777/pkg/internal/shlib"
)

// Analyzer runs ELF analysis for one run, holding the configuration and
// the shared-library resolver state seeded for that run.
type Analyzer struct {
	cfg    *config.Config
	fs     common.FileSystem
	shlibs *shlib.Index
}

// New creates an Analyzer and seeds its resolver: the staging directory
// first when configured together with allow_base_shlibs, then the linker
// hints file. A missing hints file is not fatal; the resolver just starts
// empty.
func New(cfg *config.Config) (*Analyzer, error) {
	return NewWithFS(cfg, common.NewDefaultFileSystem())
}

// NewWithFS creates an Analyzer with a custom FileSystem.
func NewWithFS(cfg *config.Config, fs common.FileSystem) (*Analyzer, error) {
	a := &Analyzer{
		cfg:    cfg,
		fs:     fs,
		shlibs: shlib.NewIndexWithFS(cfg.AllowBaseShlibs, fs),
	}
	if cfg.StageDir != "" && cfg.AllowBaseShlibs {
		if err := a.shlibs.SeedStageDir(cfg.StageDir); err != nil {
			slog.Debug("cannot seed from staging directory", "dir", cfg.StageDir, "error", err)
		}
	}
	if err := a.shlibs.SeedHintsFile(cfg.ELFHintsFile); err != nil {
		slog.Debug("cannot seed from hints file", "path", cfg.ELFHintsFile, "error", err)
	}
	return a, nil
}

// Resolver exposes the run's resolver, mainly for tests.
func (a *Analyzer) Resolver() *shlib.Index {
	return a.shlibs
}

// Close releases the resolver state of this run.
func (a *Analyzer) Close() {
	a.shlibs.Reset()
}

// Analyze inspects one package file. ELF objects go through AnalyzeObject;
// in developer mode the file name is additionally checked for static
// library and libtool archive extensions, and per-file failures are
// reported but downgraded to warnings.
func (a *Analyzer) Analyze(pkg *pkgmeta.Package, path string) Output {
	out := a.AnalyzeObject(pkg, path)
	if a.cfg.DeveloperMode {
		if out.Result == Rejected || out.Result == HardError {
			slog.Warn("file analysis failed", "path", path, "result", out.Result.String(), "error", out.Err)
		}
		scanExtension(pkg, path)
	}
	return out
}

// scanExtension flags package content by file extension.
func scanExtension(pkg *pkgmeta.Package, path string) {
	switch filepath.Ext(path) {
	case ".a":
		pkg.SetFlag(pkgmeta.ContainsStaticLibs)
	case ".la":
		pkg.SetFlag(pkgmeta.ContainsLibtoolArchive)
	}
}

// AnalyzeObject decodes one ELF object and merges its shared-library facts
// into pkg. Objects that are empty, non-regular, not ELF, of a type other
// than executable/shared/relocatable, or not dynamically linked yield
// NotApplicable. Objects failing OS identification or ABI validation yield
// Rejected and contribute no facts.
func (a *Analyzer) AnalyzeObject(pkg *pkgmeta.Package, path string) Output {
	slog.Debug("analysing elf", "path", path)

	fi, err := a.fs.Lstat(path)
	if err != nil {
		return Output{Result: HardError, Err: fmt.Errorf("lstat failed: %w", err)}
	}
	// Empty files and symlinks carry no analysable object.
	if fi.Size() == 0 || !fi.Mode().IsRegular() {
		return Output{Result: NotApplicable}
	}

	data, err := a.fs.ReadFile(path)
	if err != nil {
		return Output{Result: HardError, Err: fmt.Errorf("read failed: %w", err)}
	}

	f, err := elffile.New(data)
	if err != nil {
		if errors.Is(err, elffile.ErrNotELF) || errors.Is(err, elffile.ErrEmpty) {
			slog.Debug("not an elf", "path", path)
			return Output{Result: NotApplicable}
		}
		return Output{Result: HardError, Err: fmt.Errorf("%s: %w", path, err)}
	}

	if a.cfg.DeveloperMode {
		pkg.SetFlag(pkgmeta.ContainsELFObjects)
	}

	switch f.Header.Type {
	case elffile.TypeExec, elffile.TypeDyn, elffile.TypeRel:
	default:
		slog.Debug("not an analysable object type", "path", path, "type", uint16(f.Header.Type))
		return Output{Result: NotApplicable}
	}

	var noteSections, dynamic []elffile.Section
	for _, s := range f.Sections {
		switch s.Type {
		case elffile.SecNote:
			noteSections = append(noteSections, s)
		case elffile.SecDynamic:
			dynamic = append(dynamic, s)
		}
	}

	// No dynamic section means a static or non-linked object: out of
	// scope for dependency extraction, not an error.
	if len(dynamic) == 0 {
		return Output{Result: NotApplicable}
	}

	// Identify the OS across all note sections; the last recognised note
	// wins. An object carrying note sections that identify nothing is not
	// something we can certify for this platform. Objects without any
	// note section are typically dlopen-style libraries and pass through.
	var oi elffile.OSInfo
	identified := false
	for _, s := range noteSections {
		b, err := f.SectionData(s)
		if err != nil {
			return Output{Result: HardError, Err: fmt.Errorf("%s: note section: %w", path, err)}
		}
		if oi.ReadNotes(b, f.ByteOrder()) {
			identified = true
		}
	}
	if len(noteSections) > 0 && !identified {
		return Output{Result: Rejected, Err: fmt.Errorf("%s: %w", path, ErrNoOSNote)}
	}

	if !abiMatches(f.Header, a.cfg.ABI, path) {
		return Output{Result: Rejected, Err: fmt.Errorf("%s: %w", path, ErrABIMismatch)}
	}

	return a.analyzeDynamic(pkg, f, dynamic[0], path)
}

// analyzeDynamic walks the dynamic section twice: run-path hints must seed
// the resolver before any needed-library name is looked up, since run-path
// directories take precedence in the linker's search.
func (a *Analyzer) analyzeDynamic(pkg *pkgmeta.Package, f *elffile.File, dynamic elffile.Section, path string) Output {
	entries, err := f.DynEntries(dynamic)
	if err != nil {
		return Output{Result: HardError, Err: fmt.Errorf("%s: dynamic section: %w", path, err)}
	}

	isShlib := false
	runpath := ""
	facts := 0
	for _, e := range entries {
		switch e.Tag {
		case elffile.DynSoname:
			// The object is a shared library the package provides.
			isShlib = true
			name, err := f.StringAt(dynamic.Link, e.Val)
			if err != nil {
				slog.Debug("unreadable soname", "path", path, "error", err)
				continue
			}
			if name != "" {
				pkg.AddProvided(name)
				facts++
			}
		case elffile.DynRPath, elffile.DynRunPath:
			if runpath != "" {
				continue
			}
			s, err := f.StringAt(dynamic.Link, e.Val)
			if err != nil {
				slog.Debug("unreadable runpath", "path", path, "error", err)
				continue
			}
			runpath = s
		}
	}
	if runpath != "" {
		a.shlibs.SeedRunPath(runpath, filepath.Dir(path))
	}

	var missing []string
	for _, e := range entries {
		if e.Tag != elffile.DynNeeded {
			continue
		}
		name, err := f.StringAt(dynamic.Link, e.Val)
		if err != nil {
			slog.Debug("unreadable needed-library name", "path", path, "error", err)
			continue
		}
		switch a.requireShlib(pkg, path, name, isShlib) {
		case shlibRequired:
			facts++
		case shlibIgnored:
		case shlibMissing:
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return Output{
			Result:  Rejected,
			Missing: missing,
			Err:     &UnresolvedLibrariesError{Path: path, Libraries: missing},
		}
	}
	if facts > 0 {
		return Output{Result: AcceptedWithFacts}
	}
	return Output{Result: AcceptedNoFacts}
}

// requireShlib outcomes.
type shlibOutcome int

const (
	shlibRequired shlibOutcome = iota
	shlibIgnored
	shlibMissing
)

// requireShlib resolves one needed-library name and records the resulting
// fact. Base-system libraries are accepted silently. Unresolved names are
// accepted for shared libraries, whose peers need not be installed yet;
// for executables a package file ending in the needed name satisfies the
// dependency, anything else is a resolution failure.
func (a *Analyzer) requireShlib(pkg *pkgmeta.Package, path, name string, isShlib bool) shlibOutcome {
	res := a.shlibs.Find(name)
	switch res.Kind {
	case shlib.Found:
		pkg.AddRequired(name)
		return shlibRequired
	case shlib.FoundSystem:
		return shlibIgnored
	}

	if isShlib {
		return shlibIgnored
	}
	for _, fp := range pkg.Files() {
		if strings.HasSuffix(fp, name) {
			pkg.AddRequired(name)
			return shlibRequired
		}
	}
	slog.Info("required shared library not found",
		"package", pkg.Name, "version", pkg.Version, "path", path, "library", name)
	return shlibMissing
}
