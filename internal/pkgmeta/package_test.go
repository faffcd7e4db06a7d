package pkgmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredProvidedDedup(t *testing.T) {
	p := New("demo", "1.0")

	p.AddRequired("libz.so.6")
	p.AddRequired("libssl.so.30")
	p.AddRequired("libz.so.6")
	assert.Equal(t, []string{"libz.so.6", "libssl.so.30"}, p.Required())

	p.AddProvided("libdemo.so.1")
	p.AddProvided("libdemo.so.1")
	assert.Equal(t, []string{"libdemo.so.1"}, p.Provided())
}

func TestFiles(t *testing.T) {
	p := New("demo", "1.0")
	assert.Empty(t, p.Files())

	p.AddFile("/usr/local/bin/demo")
	p.AddFile("/usr/local/lib/libdemo.so.1")
	assert.Equal(t, []string{"/usr/local/bin/demo", "/usr/local/lib/libdemo.so.1"}, p.Files())
}

func TestFlags(t *testing.T) {
	p := New("demo", "1.0")
	assert.False(t, p.HasFlag(ContainsELFObjects))

	p.SetFlag(ContainsELFObjects)
	p.SetFlag(ContainsStaticLibs)
	p.SetFlag(ContainsStaticLibs)

	assert.True(t, p.HasFlag(ContainsELFObjects))
	assert.True(t, p.HasFlag(ContainsStaticLibs))
	assert.False(t, p.HasFlag(ContainsLibtoolArchive))
}
