// Package elfanalyzer inspects compiled ELF objects for a package manager:
// which shared libraries an object requires and provides, which OS, OS
// version and architecture it was built for, and whether it is compatible
// with the configured target ABI. Analysis reads the object's structural
// metadata only; nothing is executed.
//
// # Usage
//
//	a, err := elfanalyzer.New(cfg)
//	if err != nil { ... }
//	defer a.Close()
//
//	out := a.Analyze(pkg, "/stage/usr/local/bin/tool")
//	if out.Result == elfanalyzer.AcceptedWithFacts {
//	    // pkg now carries requires/provides facts
//	}
//
// The resolver state behind an Analyzer is scoped to one analysis run:
// run-path discoveries made while analysing one object seed lookups for
// the following ones, so objects of one package should go through the same
// Analyzer, and independent runs should not share one.
package elfanalyzer
