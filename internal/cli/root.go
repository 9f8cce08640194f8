// Package cli implements the headless nimbus commands. The TUI is launched
// from cmd/nimbus when no subcommand is given.
package cli

import (
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Run is the CLI entry point. Returns an exit code.
func Run(args []string, version, commit, date string) int {
	w := os.Stdout
	wErr := os.Stderr

	if len(args) == 0 {
		PrintUsage(wErr)
		return ExitUsage
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "doctor":
		return cmdDoctor(w, cmdArgs)
	case "trace":
		return cmdTrace(w, wErr, cmdArgs)
	case "version":
		fmt.Fprintf(w, "nimbus %s (commit: %s, built: %s)\n", version, commit, date)
		return ExitOK
	case "help":
		PrintUsage(w)
		return ExitOK
	default:
		fmt.Fprintf(wErr, "Unknown command: %s\n\n", cmd)
		PrintUsage(wErr)
		return ExitUsage
	}
}

// PrintUsage writes CLI help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText())
}

func usageText() string {
	return `Usage: nimbus <command> [flags]

Commands:
  doctor              Check configuration, content, and environment
  trace <file>        Replay a gesture trace through the transition rules
  version             Print version info
  help                Show this help
  (no command)        Launch the experience (default when TTY)

Trace files contain one event per line: <ms-since-start> <delta> [scrolled]
Lines starting with # are ignored.
`
}
