package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"github.com/andyrewlee/nimbus/internal/config"
	"github.com/andyrewlee/nimbus/internal/content"
)

type checkResult struct {
	Name    string
	Status  string // ok, warn, fail
	Message string
}

func cmdDoctor(w io.Writer, args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(w, "Usage: nimbus doctor")
		return ExitUsage
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		fmt.Fprintf(w, "failed to resolve nimbus home: %v\n", err)
		return ExitError
	}

	checks := []checkResult{
		checkHomeDir(paths.Home),
		checkConfig(paths),
		checkContent(paths),
		checkTerminal(),
	}

	failed := false
	for _, c := range checks {
		icon := "+"
		switch c.Status {
		case "warn":
			icon = "!"
		case "fail":
			icon = "x"
			failed = true
		}
		fmt.Fprintf(w, "  [%s] %-15s %s\n", icon, c.Name, c.Message)
	}
	if failed {
		return ExitError
	}
	return ExitOK
}

func checkHomeDir(home string) checkResult {
	info, err := os.Stat(home)
	if err != nil {
		// Missing is fine; nimbus creates it on first launch.
		return checkResult{Name: "nimbus_home", Status: "ok", Message: home + " (will be created)"}
	}
	if !info.IsDir() {
		return checkResult{Name: "nimbus_home", Status: "fail", Message: home + " is not a directory"}
	}
	tmp, err := os.CreateTemp(home, ".doctor-check-*")
	if err != nil {
		return checkResult{Name: "nimbus_home", Status: "warn", Message: home + " is not writable"}
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return checkResult{Name: "nimbus_home", Status: "ok", Message: home}
}

func checkConfig(paths *config.Paths) checkResult {
	if _, err := os.Stat(paths.ConfigPath); os.IsNotExist(err) {
		return checkResult{Name: "config", Status: "ok", Message: "using defaults"}
	}
	cfg, err := config.LoadFromPaths(paths)
	if err != nil {
		return checkResult{Name: "config", Status: "fail", Message: err.Error()}
	}
	return checkResult{Name: "config", Status: "ok", Message: fmt.Sprintf("%s experience", cfg.Experience)}
}

func checkContent(paths *config.Paths) checkResult {
	if _, err := os.Stat(paths.ContentPath); os.IsNotExist(err) {
		return checkResult{Name: "content", Status: "ok", Message: "using built-in copy"}
	}
	site, err := content.Load(paths)
	if err != nil {
		return checkResult{Name: "content", Status: "fail", Message: err.Error()}
	}
	return checkResult{Name: "content", Status: "ok", Message: fmt.Sprintf("%d section(s)", len(site.Sections))}
}

func checkTerminal() checkResult {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return checkResult{Name: "terminal", Status: "warn", Message: "stdout is not a TTY; the experience needs one"}
	}
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return checkResult{Name: "terminal", Status: "warn", Message: "could not determine terminal size"}
	}
	if w < 40 || h < 12 {
		return checkResult{Name: "terminal", Status: "warn", Message: fmt.Sprintf("%dx%d is cramped; 40x12 minimum recommended", w, h)}
	}
	return checkResult{Name: "terminal", Status: "ok", Message: fmt.Sprintf("%dx%d", w, h)}
}
