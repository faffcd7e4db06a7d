package elfanalyzer

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricardobranco777/pkg/internal/common"
	"github.com/ricardobranco777/pkg/internal/config"
	"github.com/ricardobranco777/pkg/internal/elffile"
	"github.com/ricardobranco777/pkg/internal/elftest"
	"github.com/ricardobranco777/pkg/internal/pkgmeta"
	"github.com/ricardobranco777/pkg/internal/shlib"
)

// objSpec describes one synthetic dynamically linked object.
type objSpec struct {
	typ     uint16
	noNote  bool
	badNote bool
	soname  string
	runpath string
	needed  []string
	entsize uint64 // dynamic entry size override; 16 when zero
}

func buildObject(spec objSpec) []byte {
	b := elftest.Builder{Type: spec.typ, Machine: uint16(elffile.MachineX86_64)}
	order := b.Order()

	if spec.badNote {
		b.Add(elftest.Section{
			Name: ".note.tag",
			Type: uint32(elffile.SecNote),
			Data: elftest.Note(order, "Xen", 1, elftest.U32(order, 1)),
		})
	} else if !spec.noNote {
		b.Add(elftest.Section{
			Name: ".note.tag",
			Type: uint32(elffile.SecNote),
			Data: elftest.Note(order, "FreeBSD", 1, elftest.U32(order, 1401000)),
		})
	}

	tab := elftest.NewStrtab()
	var dyns []elftest.Dyn
	for _, n := range spec.needed {
		dyns = append(dyns, elftest.Dyn{Tag: int64(elffile.DynNeeded), Val: tab.Add(n)})
	}
	if spec.runpath != "" {
		dyns = append(dyns, elftest.Dyn{Tag: int64(elffile.DynRunPath), Val: tab.Add(spec.runpath)})
	}
	if spec.soname != "" {
		dyns = append(dyns, elftest.Dyn{Tag: int64(elffile.DynSoname), Val: tab.Add(spec.soname)})
	}
	dyns = append(dyns, elftest.Dyn{Tag: 0, Val: 0}) // DT_NULL terminator

	strndx := b.Add(elftest.Section{Name: ".dynstr", Type: uint32(elffile.SecStrtab), Data: tab.Bytes()})
	entsize := spec.entsize
	if entsize == 0 {
		entsize = uint64(elftest.DynEntrySize(false))
	}
	b.Add(elftest.Section{
		Name:    ".dynamic",
		Type:    uint32(elffile.SecDynamic),
		Data:    elftest.DynSection(false, order, dyns...),
		Link:    strndx,
		Entsize: entsize,
	})
	return b.Bytes()
}

func newTestAnalyzer(t *testing.T, cfg *config.Config, mock *common.MockFileSystem) *Analyzer {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{ABI: "FreeBSD:14:amd64:64", ELFHintsFile: shlib.DefaultHintsFile}
	}
	a, err := NewWithFS(cfg, mock)
	require.NoError(t, err)
	return a
}

func TestAnalyzeObject_NotApplicable(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/empty", 0o644, nil)
	mock.AddFile("/pkg/script", 0o755, []byte("#!/bin/sh\n"))
	mock.AddSpecialFile("/pkg/fifo", fs.ModeNamedPipe|0o644)

	core := elftest.Builder{Type: 4 /* ET_CORE */, Machine: uint16(elffile.MachineX86_64)}
	mock.AddFile("/pkg/core", 0o644, core.Bytes())

	static := elftest.Builder{Type: elftest.TypeExec, Machine: uint16(elffile.MachineX86_64)}
	mock.AddFile("/pkg/static", 0o755, static.Bytes())

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")

	for _, path := range []string{"/pkg/empty", "/pkg/script", "/pkg/fifo", "/pkg/core", "/pkg/static"} {
		out := a.AnalyzeObject(pkg, path)
		assert.Equal(t, NotApplicable, out.Result, path)
		assert.NoError(t, out.Err, path)
	}
	assert.Empty(t, pkg.Required())
	assert.Empty(t, pkg.Provided())

	out := a.AnalyzeObject(pkg, "/pkg/missing")
	assert.Equal(t, HardError, out.Result)
	assert.Error(t, out.Err)
}

func TestAnalyzeObject_NoNeededEntries(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{typ: elftest.TypeExec}))

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")

	out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
	assert.Equal(t, AcceptedNoFacts, out.Result)
	assert.Empty(t, pkg.Required())
}

func TestAnalyzeObject_ProvidedSoname(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/lib/libfoo.so.1", 0o644, buildObject(objSpec{
		typ:    elftest.TypeDyn,
		soname: "libfoo.so.1",
	}))

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")

	out := a.AnalyzeObject(pkg, "/pkg/lib/libfoo.so.1")
	assert.Equal(t, AcceptedWithFacts, out.Result)
	assert.Equal(t, []string{"libfoo.so.1"}, pkg.Provided())
	assert.Empty(t, pkg.Required())
}

func TestAnalyzeObject_RunPathSeededBeforeLookup(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/opt/lib/libc.so", 0o644, []byte{})
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{
		typ:     elftest.TypeExec,
		needed:  []string{"libc.so"},
		runpath: "/opt/lib",
		soname:  "libfoo.so",
	}))

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")

	// The NEEDED entry precedes the RUNPATH entry in the section, but the
	// run path must seed the resolver before the name is looked up.
	out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
	assert.Equal(t, AcceptedWithFacts, out.Result)
	assert.Equal(t, []string{"libc.so"}, pkg.Required())
}

func TestAnalyzeObject_OriginRunPath(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/lib/libpriv.so", 0o644, []byte{})
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{
		typ:     elftest.TypeExec,
		needed:  []string{"libpriv.so"},
		runpath: "$ORIGIN/../lib",
	}))

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")

	out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
	assert.Equal(t, AcceptedWithFacts, out.Result)
	assert.Equal(t, []string{"libpriv.so"}, pkg.Required())
}

func TestAnalyzeObject_BaseLibraryIgnored(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/usr/lib/libc.so.7", 0o644, []byte{})
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{
		typ:    elftest.TypeExec,
		needed: []string{"libc.so.7"},
	}))

	a := newTestAnalyzer(t, nil, mock)
	a.Resolver().SeedDirs([]string{"/usr/lib"})
	pkg := pkgmeta.New("demo", "1.0")

	out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
	assert.Equal(t, AcceptedNoFacts, out.Result)
	assert.Empty(t, pkg.Required())
}

func TestAnalyzeObject_SelfSatisfiedFallback(t *testing.T) {
	exe := buildObject(objSpec{typ: elftest.TypeExec, needed: []string{"libbar.so"}})
	lib := buildObject(objSpec{typ: elftest.TypeDyn, soname: "libbar.so", needed: []string{"libbar.so"}})

	t.Run("executable satisfied by package file", func(t *testing.T) {
		mock := common.NewMockFileSystem()
		mock.AddFile("/pkg/bin/tool", 0o755, exe)

		a := newTestAnalyzer(t, nil, mock)
		pkg := pkgmeta.New("demo", "1.0")
		pkg.AddFile("/pkg/bin/tool")
		pkg.AddFile("/pkg/lib/libbar.so")

		out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
		assert.Equal(t, AcceptedWithFacts, out.Result)
		assert.Equal(t, []string{"libbar.so"}, pkg.Required())
	})

	t.Run("executable with no fallback is a reported failure", func(t *testing.T) {
		mock := common.NewMockFileSystem()
		mock.AddFile("/pkg/bin/tool", 0o755, exe)

		a := newTestAnalyzer(t, nil, mock)
		pkg := pkgmeta.New("demo", "1.0")
		pkg.AddFile("/pkg/bin/tool")

		out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
		assert.Equal(t, Rejected, out.Result)
		assert.Equal(t, []string{"libbar.so"}, out.Missing)
		var unresolved *UnresolvedLibrariesError
		assert.ErrorAs(t, out.Err, &unresolved)
		assert.Empty(t, pkg.Required())
	})

	t.Run("shared library with unresolved peer is accepted silently", func(t *testing.T) {
		mock := common.NewMockFileSystem()
		mock.AddFile("/pkg/lib/libbar.so", 0o644, lib)

		a := newTestAnalyzer(t, nil, mock)
		pkg := pkgmeta.New("demo", "1.0")
		pkg.AddFile("/pkg/lib/libbar.so")

		out := a.AnalyzeObject(pkg, "/pkg/lib/libbar.so")
		assert.Equal(t, AcceptedWithFacts, out.Result) // the soname fact
		assert.Empty(t, pkg.Required())
		assert.Empty(t, out.Missing)
	})
}

func TestAnalyzeObject_ABIMismatchYieldsNoFacts(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/opt/lib/libx.so", 0o644, []byte{})
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{
		typ:     elftest.TypeExec,
		needed:  []string{"libx.so"},
		runpath: "/opt/lib",
		soname:  "libtool.so",
	}))

	cfg := &config.Config{ABI: "FreeBSD:14:amd64:32", ELFHintsFile: shlib.DefaultHintsFile}
	a := newTestAnalyzer(t, cfg, mock)
	pkg := pkgmeta.New("demo", "1.0")

	out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
	assert.Equal(t, Rejected, out.Result)
	assert.ErrorIs(t, out.Err, ErrABIMismatch)
	assert.Empty(t, pkg.Required())
	assert.Empty(t, pkg.Provided())
}

func TestAnalyzeObject_UnrecognisedNoteRejects(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{
		typ:     elftest.TypeExec,
		badNote: true,
	}))

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")

	out := a.AnalyzeObject(pkg, "/pkg/bin/tool")
	assert.Equal(t, Rejected, out.Result)
	assert.ErrorIs(t, out.Err, ErrNoOSNote)
}

func TestAnalyzeObject_NoNoteSectionPasses(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/lib/libplugin.so", 0o644, buildObject(objSpec{
		typ:    elftest.TypeDyn,
		noNote: true,
		soname: "libplugin.so",
	}))

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")

	out := a.AnalyzeObject(pkg, "/pkg/lib/libplugin.so")
	assert.Equal(t, AcceptedWithFacts, out.Result)
	assert.Equal(t, []string{"libplugin.so"}, pkg.Provided())
}

func TestAnalyzeObject_ZeroEntrySizeIsHardError(t *testing.T) {
	b := elftest.Builder{Type: elftest.TypeExec, Machine: uint16(elffile.MachineX86_64)}
	order := b.Order()
	b.Add(elftest.Section{
		Name: ".note.tag",
		Type: uint32(elffile.SecNote),
		Data: elftest.Note(order, "FreeBSD", 1, elftest.U32(order, 1401000)),
	})
	b.Add(elftest.Section{
		Name: ".dynamic",
		Type: uint32(elffile.SecDynamic),
		Data: make([]byte, 32),
	})

	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/bin/tool", 0o755, b.Bytes())

	a := newTestAnalyzer(t, nil, mock)
	out := a.AnalyzeObject(pkgmeta.New("demo", "1.0"), "/pkg/bin/tool")
	assert.Equal(t, HardError, out.Result)
	assert.ErrorIs(t, out.Err, elffile.ErrZeroEntrySize)
}

func TestAnalyze_DeveloperModeFlags(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/lib/libfoo.a", 0o644, []byte("!<arch>\n"))
	mock.AddFile("/pkg/lib/libfoo.la", 0o644, []byte("# libtool library file\n"))
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{typ: elftest.TypeExec}))

	cfg := &config.Config{
		ABI:           "FreeBSD:14:amd64:64",
		ELFHintsFile:  shlib.DefaultHintsFile,
		DeveloperMode: true,
	}
	a := newTestAnalyzer(t, cfg, mock)
	pkg := pkgmeta.New("demo", "1.0")

	a.Analyze(pkg, "/pkg/lib/libfoo.a")
	a.Analyze(pkg, "/pkg/lib/libfoo.la")
	a.Analyze(pkg, "/pkg/bin/tool")

	assert.True(t, pkg.HasFlag(pkgmeta.ContainsStaticLibs))
	assert.True(t, pkg.HasFlag(pkgmeta.ContainsLibtoolArchive))
	assert.True(t, pkg.HasFlag(pkgmeta.ContainsELFObjects))
}

func TestAnalyze_NoDeveloperModeNoFlags(t *testing.T) {
	mock := common.NewMockFileSystem()
	mock.AddFile("/pkg/bin/tool", 0o755, buildObject(objSpec{typ: elftest.TypeExec}))

	a := newTestAnalyzer(t, nil, mock)
	pkg := pkgmeta.New("demo", "1.0")
	a.Analyze(pkg, "/pkg/bin/tool")

	assert.False(t, pkg.HasFlag(pkgmeta.ContainsELFObjects))
}
