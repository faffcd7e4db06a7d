// Package main provides the entry point for the pkgabi tool. It analyses
// package files for shared-library requirements and provisions against a
// configured target ABI, and can identify the platform a reference binary
// was built for.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ricardobranco777/pkg/internal/config"
	"github.com/ricardobranco777/pkg/internal/elfanalyzer"
	"github.com/ricardobranco777/pkg/internal/logging"
	"github.com/ricardobranco777/pkg/internal/pkgmeta"
)

// Error definitions
var (
	ErrNoInputFiles   = errors.New("no input files")
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrBadLogLevel    = errors.New("invalid log level")
)

var (
	configPath  = flag.String("config", "", "path to TOML config file")
	abi         = flag.String("abi", "", "target ABI string name:version:arch:wordsize (overrides config)")
	stageDir    = flag.String("stage", "", "staging directory seeding the resolver (overrides config)")
	hintsFile   = flag.String("hints", "", "linker hints file (overrides config)")
	allowBase   = flag.Bool("allow-base", false, "treat base-system libraries as regular dependencies")
	developer   = flag.Bool("developer", false, "developer mode: flag content types, warn on failures")
	strict      = flag.Bool("strict", false, "treat rejected files as failures, not warnings")
	myarch      = flag.Bool("myarch", false, "identify the platform of the given binary and exit")
	pkgName     = flag.String("name", "unnamed", "package name for diagnostics")
	pkgVersion  = flag.String("version", "0", "package version for diagnostics")
	logLevelStr = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		slog.Error("pkgabi failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	level, err := parseLogLevel(*logLevelStr)
	if err != nil {
		return err
	}
	logging.Setup(logging.SetupOptions{
		Level:       level,
		RunID:       logging.GenerateRunID(),
		ConsoleJSON: !logging.IsInteractive(),
	})

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	analyzer, err := elfanalyzer.New(cfg)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	if *myarch {
		return identifyPlatform(analyzer)
	}
	return analyzeFiles(analyzer, flag.Args())
}

// loadConfig builds the effective configuration: file values when -config
// is given, defaults otherwise, with command line flags taking precedence.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.NewLoader().Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *abi != "" {
		cfg.ABI = *abi
	}
	if *stageDir != "" {
		cfg.StageDir = *stageDir
	}
	if *hintsFile != "" {
		cfg.ELFHintsFile = *hintsFile
	}
	if *allowBase {
		cfg.AllowBaseShlibs = true
	}
	if *developer {
		cfg.DeveloperMode = true
	}
	return cfg, nil
}

func identifyPlatform(analyzer *elfanalyzer.Analyzer) error {
	if flag.NArg() != 1 {
		return fmt.Errorf("%w: -myarch needs exactly one reference binary", ErrNoInputFiles)
	}
	oi, err := analyzer.Platform(flag.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", oi.ABI(), oi.Arch)
	return nil
}

func analyzeFiles(analyzer *elfanalyzer.Analyzer, files []string) error {
	if len(files) == 0 {
		return ErrNoInputFiles
	}

	pkg := pkgmeta.New(*pkgName, *pkgVersion)
	for _, f := range files {
		pkg.AddFile(f)
	}

	failed := 0
	for _, f := range files {
		out := analyzer.Analyze(pkg, f)
		switch out.Result {
		case elfanalyzer.HardError:
			failed++
			slog.Error("cannot analyse file", "path", f, "error", out.Err)
		case elfanalyzer.Rejected:
			if *strict {
				failed++
			}
			slog.Warn("file rejected", "path", f, "error", out.Err)
		default:
			slog.Debug("analysed file", "path", f, "result", out.Result.String())
		}
	}

	for _, name := range pkg.Provided() {
		fmt.Printf("provides: %s\n", name)
	}
	for _, name := range pkg.Required() {
		fmt.Printf("requires: %s\n", name)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrAnalysisFailed, failed, len(files))
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadLogLevel, s)
	}
}
