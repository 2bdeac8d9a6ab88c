// Package main is the entry point for the editcore command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/editcore/internal/app"
	"github.com/dshills/editcore/internal/engine/history"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds the flags that act after the application is built.
type cliOptions struct {
	app.Options

	ScriptPath string
	Exec       string
	OutPath    string
	Tree       bool
	JSON       bool
	DiffFrom   int
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.ScriptPath != "" {
		if err := application.RunScript(ctx, opts.ScriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if opts.Exec != "" {
		if err := application.RunString(ctx, opts.Exec); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	switch {
	case opts.OutPath != "":
		if err := application.Save(opts.OutPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case !opts.Watch:
		if err := application.WriteText(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.Tree || opts.JSON {
		if err := application.WriteHistory(os.Stdout, opts.JSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.DiffFrom >= 0 {
		if err := application.WriteDiff(os.Stdout, history.RevisionID(opts.DiffFrom)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.Watch {
		err := application.Watch(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, app.ErrShutdown) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua edit script to run")
	flag.StringVar(&opts.ScriptPath, "s", "", "Lua edit script to run (shorthand)")
	flag.StringVar(&opts.Exec, "e", "", "Inline Lua to run after -script")
	flag.StringVar(&opts.OutPath, "o", "", "Write the result to this file instead of stdout")
	flag.BoolVar(&opts.Tree, "tree", false, "Print the history tree")
	flag.BoolVar(&opts.JSON, "json", false, "Print the history as JSON")
	flag.IntVar(&opts.DiffFrom, "diff", -1, "Print a unified diff from this revision to the current one")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the file when it changes on disk")
	flag.BoolVar(&opts.Watch, "w", false, "Reload the file when it changes on disk (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "editcore - scriptable text editing core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: editcore [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  editcore -e 'doc.insert(\"hi\")' notes.txt    Edit and print\n")
		fmt.Fprintf(os.Stderr, "  editcore -s fix.lua -o out.go main.go        Run a script, save\n")
		fmt.Fprintf(os.Stderr, "  editcore -tree -e 'doc.insert(\"x\") doc.undo()'  Show history\n")
		fmt.Fprintf(os.Stderr, "  editcore -watch notes.txt                    Follow external edits\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("editcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		opts.File = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", flag.NArg())
		os.Exit(2)
	}

	return opts
}
