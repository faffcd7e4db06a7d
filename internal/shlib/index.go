package shlib

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ricardobranco777/pkg/internal/common"
)

// Kind classifies a lookup result.
type Kind int

// Lookup outcomes.
const (
	// NotFound means the dynamic linker would not locate the name.
	NotFound Kind = iota

	// Found means the name resolves to a non-base path.
	Found

	// FoundSystem means the name resolves into the base system and the
	// dependency should not be recorded.
	FoundSystem
)

// FindResult is the outcome of one name lookup.
type FindResult struct {
	Kind Kind
	Path string
}

// Resolver is the lookup contract the analyser depends on. Seeding must be
// complete before Find is called for the first time.
type Resolver interface {
	// SeedRunPath registers the directories of a colon-separated
	// RPATH/RUNPATH string; origin replaces $ORIGIN references.
	SeedRunPath(runpath, origin string)

	// Find resolves a shared library name.
	Find(name string) FindResult
}

// Index is the in-memory Resolver implementation. The zero value is not
// usable; construct it with NewIndex.
type Index struct {
	mu        sync.RWMutex
	fs        common.FileSystem
	allowBase bool
	paths     map[string]string
}

// NewIndex creates an empty Index. When allowBase is set, base-system
// libraries are treated like any other except for the 32-bit compat tree.
func NewIndex(allowBase bool) *Index {
	return NewIndexWithFS(allowBase, common.NewDefaultFileSystem())
}

// NewIndexWithFS creates an Index with a custom FileSystem.
func NewIndexWithFS(allowBase bool, fs common.FileSystem) *Index {
	return &Index{
		fs:        fs,
		allowBase: allowBase,
		paths:     make(map[string]string),
	}
}

// SeedRunPath registers run-path directories. Run-path entries are
// consulted before default search locations, so they override earlier
// seeds for the same name.
func (x *Index) SeedRunPath(runpath, origin string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, dir := range strings.Split(runpath, ":") {
		if dir == "" {
			continue
		}
		dir = strings.ReplaceAll(dir, "${ORIGIN}", origin)
		dir = strings.ReplaceAll(dir, "$ORIGIN", origin)
		x.seedDir(dir, true)
	}
}

// SeedDirs registers default search directories in order; the first
// directory providing a name wins, as in the linker's search.
func (x *Index) SeedDirs(dirs []string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, dir := range dirs {
		x.seedDir(dir, false)
	}
}

// SeedStageDir walks a staging directory of not-yet-installed files and
// registers every shared library in it, overriding system seeds.
func (x *Index) SeedStageDir(dir string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.seedTree(dir)
}

func (x *Index) seedTree(dir string) error {
	entries, err := x.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			// Best effort; unreadable subtrees are skipped.
			if err := x.seedTree(path); err != nil {
				slog.Debug("skipping staging subtree", "path", path, "error", err)
			}
			continue
		}
		if isSharedLibName(e.Name()) {
			x.paths[e.Name()] = path
		}
	}
	return nil
}

// seedDir scans one directory for shared libraries. Callers hold the lock.
func (x *Index) seedDir(dir string, override bool) {
	entries, err := x.fs.ReadDir(dir)
	if err != nil {
		slog.Debug("cannot scan library directory", "dir", dir, "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isSharedLibName(e.Name()) {
			continue
		}
		if _, ok := x.paths[e.Name()]; ok && !override {
			continue
		}
		x.paths[e.Name()] = filepath.Join(dir, e.Name())
	}
}

// Find resolves a shared library name and classifies the hit.
func (x *Index) Find(name string) FindResult {
	x.mu.RLock()
	path, ok := x.paths[name]
	x.mu.RUnlock()
	if !ok {
		return FindResult{Kind: NotFound}
	}
	if x.isBasePath(path) {
		return FindResult{Kind: FoundSystem, Path: path}
	}
	return FindResult{Kind: Found, Path: path}
}

// Reset drops all accumulated search state so the Index can back another
// analysis run.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.paths = make(map[string]string)
}

// isBasePath reports whether path belongs to the base system. With
// allowBase set only the 32-bit compat tree counts as base; otherwise
// /lib, /lib32, /usr/lib and /usr/lib32 do.
func (x *Index) isBasePath(path string) bool {
	if x.allowBase {
		return strings.Contains(path, "/lib32/")
	}
	return strings.HasPrefix(path, "/lib") || strings.HasPrefix(path, "/usr/lib")
}

// isSharedLibName reports whether a file name looks like a shared object.
func isSharedLibName(name string) bool {
	return strings.Contains(name, ".so")
}
