// Package shlib resolves shared library names to filesystem paths the way
// the run-time linker would, without invoking it. An Index accumulates
// search directories from the system hints file, an optional staging
// directory, and per-object RPATH/RUNPATH discoveries, then answers name
// lookups and classifies hits as base-system or not.
//
// The Index has an explicit two-phase discipline: seeding mutates the index
// under a write lock and must finish before lookups start, otherwise
// resolution results depend on analysis order. Lookups only take a read
// lock and are safe to run concurrently.
package shlib
