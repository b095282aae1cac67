// Command wak is the CLI entrypoint for wackdb, per spec.md §6's "CLI
// surface": a single positional argument that is either a `.wak`
// script file, an inline command, or (if absent) the argument-free
// trigger for an interactive shell.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/WhatFor/wackdb/internal/engine"
	"github.com/WhatFor/wackdb/internal/parser"
	"github.com/WhatFor/wackdb/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("wak", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "", "directory holding database files (default: <executable dir>/data)")
	cacheCapacity := fs.Int("cache-capacity", 0, "page cache capacity in pages (default: storage.DefaultPageCacheCapacity)")
	verbose := fs.Bool("verbose", false, "enable debug-level logging")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := newLogger(*verbose)

	resolvedDir := *dataDir
	if resolvedDir == "" {
		resolvedDir = defaultDataDir()
	}

	e := engine.New(storage.Config{DataDir: resolvedDir, PageCacheCapacity: *cacheCapacity}, log)
	if err := e.Init(); err != nil {
		log.Error().Err(err).Msg("failed to initialize engine")
		return 1
	}

	positional := fs.Args()
	switch {
	case len(positional) == 0:
		return runRepl(e, log)
	case strings.HasSuffix(positional[0], ".wak") && fileExists(positional[0]):
		return runScript(e, log, positional[0])
	default:
		return runInline(e, log, strings.Join(positional, " "))
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func defaultDataDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "data"
	}
	return filepath.Join(filepath.Dir(exe), "data")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// runScript reads a whole .wak file and executes it as one batch, per
// spec.md §6 ("if it ends in .wak, treat as a script file").
func runScript(e *engine.Engine, log zerolog.Logger, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to read script file")
		return 1
	}
	return executeAndReport(e, log, string(src))
}

// runInline executes a single inline command string passed as the
// positional argument.
func runInline(e *engine.Engine, log zerolog.Logger, command string) int {
	return executeAndReport(e, log, command)
}

// runRepl drives an interactive shell with readline-style history and
// the .exit/.help/.init meta-commands from spec.md §6, supplemented by
// original_source's repl.rs (see SPEC_FULL.md §5).
func runRepl(e *engine.Engine, log zerolog.Logger) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("wak> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return 0
			}
			log.Error().Err(err).Msg("failed to read input")
			return 1
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		line.AppendHistory(input)

		switch trimmed {
		case ".exit":
			return 0
		case ".help":
			printHelp()
			continue
		case ".init":
			if err := e.Init(); err != nil {
				log.Error().Err(err).Msg("re-init failed")
			}
			continue
		}

		executeAndReport(e, log, trimmed)
	}
}

func printHelp() {
	fmt.Println(".exit   exit the shell")
	fmt.Println(".help   show this message")
	fmt.Println(".init   re-run engine initialization")
}

// executeAndReport parses and runs src as a batch, printing each
// successful statement's rows and logging each failed statement's
// error without aborting the rest of the batch (spec.md §5).
func executeAndReport(e *engine.Engine, log zerolog.Logger, src string) int {
	prog, err := parser.Parse(src)
	if err != nil {
		log.Error().Err(err).Msg("parse error")
		return 1
	}

	result := e.Execute(prog)

	for _, stmtResult := range result.Results {
		printResultSet(stmtResult)
	}
	for _, execErr := range result.Errors {
		log.Error().Err(execErr).Msg("statement failed")
	}

	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}

func printResultSet(result engine.StatementResult) {
	for _, row := range result.ResultSet.Rows {
		cols := make([]string, len(row.Columns))
		for i, col := range row.Columns {
			cols[i] = fmt.Sprintf("%s=%s", col.Name, col.Value.String())
		}
		fmt.Println(strings.Join(cols, " | "))
	}
}
