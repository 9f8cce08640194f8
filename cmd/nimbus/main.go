package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"

	"github.com/andyrewlee/nimbus/internal/cli"
	"github.com/andyrewlee/nimbus/internal/config"
	"github.com/andyrewlee/nimbus/internal/content"
	"github.com/andyrewlee/nimbus/internal/logging"
	"github.com/andyrewlee/nimbus/internal/render"
	"github.com/andyrewlee/nimbus/internal/safego"
	"github.com/andyrewlee/nimbus/internal/ui/experience"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI subcommands that route to the headless CLI.
var cliCommands = map[string]bool{
	"doctor": true, "trace": true,
	"version": true, "help": true,
}

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("nimbus %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if len(os.Args) > 1 {
		if cliCommands[os.Args[1]] {
			os.Exit(cli.Run(os.Args[1:], version, commit, date))
		}
		// Unknown argument: let the CLI render the usage error.
		os.Exit(cli.Run(os.Args[1:], version, commit, date))
	}

	// No subcommand: TTY → experience, non-TTY → usage.
	if !shouldLaunchTUI(
		term.IsTerminal(os.Stdin.Fd()),
		term.IsTerminal(os.Stdout.Fd()),
		term.IsTerminal(os.Stderr.Fd()),
	) {
		os.Exit(cli.Run(nil, version, commit, date))
	}

	runTUI()
}

func shouldLaunchTUI(stdinIsTTY, stdoutIsTTY, stderrIsTTY bool) bool {
	return stdinIsTTY && stdoutIsTTY && stderrIsTTY
}

func runTUI() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing %s: %v\n", cfg.Paths.Home, err)
		os.Exit(1)
	}

	if err := logging.Initialize(cfg.Paths.LogsDir, logging.LevelDebug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
	defer logging.Close()

	logging.Info("Starting nimbus")

	site, err := content.Load(cfg.Paths)
	if err != nil {
		logging.Error("Failed to load content: %v", err)
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	opts := experience.Options{}
	if degradedTerminal() {
		// No cloud visuals; boot straight into the site.
		opts.Adapter = &render.NullAdapter{}
		opts.StartInSite = true
	}

	m, err := experience.New(cfg, site, opts)
	if err != nil {
		logging.Error("Failed to initialize experience: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}
	startPprof()

	p := tea.NewProgram(
		m,
		tea.WithFilter(mouseEventFilter),
	)

	if _, err := p.Run(); err != nil {
		logging.Error("Exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running nimbus: %v\n", err)
		m.Close()
		os.Exit(1)
	}
	m.Close()

	logging.Info("nimbus shutdown complete")
}

// degradedTerminal reports whether to skip the cloud visuals entirely.
func degradedTerminal() bool {
	if os.Getenv("NIMBUS_NO_CLOUD") != "" {
		return true
	}
	return os.Getenv("NO_COLOR") != ""
}

var (
	lastMouseMotionEvent   time.Time
	lastMouseWheelEvent    time.Time
	lastMouseX, lastMouseY int
)

func mouseEventFilter(m tea.Model, msg tea.Msg) tea.Msg {
	switch msg := msg.(type) {
	case tea.MouseMotionMsg:
		// Always allow if position changed
		if msg.X != lastMouseX || msg.Y != lastMouseY {
			lastMouseX = msg.X
			lastMouseY = msg.Y
			lastMouseMotionEvent = time.Now()
			return msg
		}
		// Same position - apply time throttle
		now := time.Now()
		if now.Sub(lastMouseMotionEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseMotionEvent = now
	case tea.MouseWheelMsg:
		now := time.Now()
		if now.Sub(lastMouseWheelEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseWheelEvent = now
	}
	return msg
}

func startPprof() {
	raw := strings.TrimSpace(os.Getenv("NIMBUS_PPROF"))
	if raw == "" {
		return
	}
	switch strings.ToLower(raw) {
	case "0", "false", "no":
		return
	}

	addr := raw
	if raw == "1" || strings.ToLower(raw) == "true" {
		addr = "127.0.0.1:6060"
	} else if _, err := strconv.Atoi(raw); err == nil {
		addr = "127.0.0.1:" + raw
	}

	safego.Go("pprof", func() {
		logging.Info("pprof listening on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logging.Warn("pprof server stopped: %v", err)
		}
	})
}
