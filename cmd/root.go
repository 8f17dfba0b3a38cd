// Package cmd implements the CLI command structure for dandori.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dandori-app/dandori/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the dandori CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dandori", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; bare invocation lists today.
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "done":
		return doneCommand(cfg, remainingArgs)
	case "rm":
		return rmCommand(cfg, remainingArgs)
	case "mv":
		return mvCommand(cfg, remainingArgs)
	case "project":
		return projectCommand(cfg, remainingArgs)
	case "carry":
		return carryCommand(cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "import":
		return importCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func versionCommand() error {
	fmt.Printf("dandori %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `dandori - personal task and calendar manager

Usage:
  dandori [flags] [command]

Commands:
  ls [date]        List tasks for a date (default: today)
  add <title>      Add a task
  done <id>        Toggle a task's done state
  rm <id>          Delete a task
  mv <id>          Reschedule a task
  project          Manage projects (list, add, rm)
  carry            Run carry-over for today
  validate         Validate the task document
  export [path]    Write a backup of the document
  import <path>    Replace the document from a backup
  tui              Open the interactive day view
  version          Show version
  help             Show this help

Dates are YYYY-MM-DD, or the words "today" and "tomorrow".
Task and project ids may be abbreviated to a unique prefix.

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
