package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/karanveersp/utilfuncs/filesystem"
	"github.com/karanveersp/utilfuncs/internal/config"
	"github.com/karanveersp/utilfuncs/internal/logging"
	"github.com/karanveersp/utilfuncs/resilience"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

// app is the state shared by every command.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	ops    *filesystem.Ops
	stdout io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"zipdir":   {"zipdir [-name n] [-dest dir] [-format f] [-flatten] [-delete] [-stamp] DIR", runZipDir},
	"zipfiles": {"zipfiles -dest dir -name n [-format f] [-stamp] PATH...", runZipFiles},
	"list":     {"list ARCHIVE", runList},
	"extract":  {"extract ARCHIVE DEST", runExtract},
	"move":     {"move [-ext e | -contains s [-case] | -glob p] SRC DEST", runMove},
	"movedir":  {"movedir SRC PARENT", runMoveDir},
	"glob":     {"glob PATTERN ITEM...", runGlob},
	"utf8":     {"utf8 [-write] FILE...", runUTF8},
	"prune":    {"prune -age d [-ext e] DIR", runPrune},
	"size":     {"size DIR", runSize},
	"csv2json": {"csv2json [-no-header] IN OUT", runCSVToJSON},
	"csvgrep":  {"csvgrep -col n -value v [-skip-header] FILE", runCSVGrep},
}

// run parses the global flags, loads configuration and dispatches to the
// named command.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("utilfuncs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "YAML or TOML configuration file")
	level := fs.String("level", "", "Log level (overrides config)")
	dev := fs.Bool("dev", false, "Development logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if fs.NArg() == 0 {
		return fmt.Errorf("%w: utilfuncs [-config file] [-level l] [-dev] <command>\ncommands: %s",
			errUsage, strings.Join(commandNames(), ", "))
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *level != "" {
		cfg.Logging.Level = *level
	}
	if *dev {
		cfg.Logging.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a := &app{
		cfg:    cfg,
		log:    logger.Logger,
		ops:    filesystem.New(logger.Named(name)),
		stdout: stdout,
	}

	if err := cmd.run(ctx, a, rest); err != nil {
		if errors.Is(err, errUsage) {
			return fmt.Errorf("%w: utilfuncs %s", err, cmd.usage)
		}
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// retry runs fn under the configured retry policy. Without a configured
// match fn runs once, since an empty match would retry every error.
func retry[T any](ctx context.Context, a *app, fn func() (T, error)) (T, error) {
	if a.cfg.Retry.Match == "" {
		return fn()
	}
	return resilience.KeepRetrying(ctx, a.cfg.RetryPolicy(a.log), fn)
}

// newFlags returns a flag set for a command that reports errors instead of
// printing them.
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string, minArgs int) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < minArgs {
		return fmt.Errorf("%w: %s needs %d argument(s)", errUsage, fs.Name(), minArgs)
	}
	return nil
}

func (a *app) println(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(a.stdout, line)
	}
}
