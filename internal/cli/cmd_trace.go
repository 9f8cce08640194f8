package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andyrewlee/nimbus/internal/render"
	"github.com/andyrewlee/nimbus/internal/transition"
)

// traceFrame mirrors the UI frame cadence during replay.
const traceFrame = 16 * time.Millisecond

// traceSettle is how long the replay keeps ticking after the last event so
// in-flight transitions resolve.
const traceSettle = 2 * time.Second

type traceEvent struct {
	at    time.Duration
	delta float64
	atTop bool
}

type traceCrossing struct {
	at   time.Duration
	from transition.Mode
	to   transition.Mode
	dir  transition.Direction
}

func cmdTrace(w, wErr io.Writer, args []string) int {
	var r io.Reader = os.Stdin
	switch len(args) {
	case 0:
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(wErr, "open trace: %v\n", err)
			return ExitError
		}
		defer f.Close()
		r = f
	default:
		fmt.Fprintln(wErr, "Usage: nimbus trace [file]")
		return ExitUsage
	}

	events, err := parseTrace(r)
	if err != nil {
		fmt.Fprintf(wErr, "parse trace: %v\n", err)
		return ExitUsage
	}

	crossings, final, err := replayTrace(events)
	if err != nil {
		fmt.Fprintf(wErr, "replay: %v\n", err)
		return ExitError
	}

	for _, c := range crossings {
		fmt.Fprintf(w, "  %6dms  %s -> %s (%s)\n", c.at.Milliseconds(), c.from, c.to, c.dir)
	}
	fmt.Fprintf(w, "final: %s after %d event(s)\n", final, len(events))
	return ExitOK
}

// parseTrace reads one event per line: <ms-since-start> <delta> [scrolled].
// "scrolled" marks events fired while the site sat below its top edge.
func parseTrace(r io.Reader) ([]traceEvent, error) {
	var events []traceEvent
	scanner := bufio.NewScanner(r)
	lineNo := 0
	last := time.Duration(-1)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: want \"<ms> <delta> [scrolled]\", got %q", lineNo, line)
		}
		ms, err := strconv.Atoi(fields[0])
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("line %d: bad timestamp %q", lineNo, fields[0])
		}
		delta, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad delta %q", lineNo, fields[1])
		}
		ev := traceEvent{at: time.Duration(ms) * time.Millisecond, delta: delta, atTop: true}
		if len(fields) == 3 {
			if fields[2] != "scrolled" {
				return nil, fmt.Errorf("line %d: unknown flag %q", lineNo, fields[2])
			}
			ev.atTop = false
		}
		if ev.at < last {
			return nil, fmt.Errorf("line %d: timestamps must not go backwards", lineNo)
		}
		last = ev.at
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// replayTrace drives the transition rules with a synthetic clock, ticking at
// the frame cadence between events exactly as the UI would.
func replayTrace(events []traceEvent) ([]traceCrossing, transition.Mode, error) {
	start := time.Unix(0, 0)
	now := start
	clock := func() time.Time { return now }

	machine, err := transition.New(&render.NullAdapter{}, transition.Config{}, transition.WithClock(clock))
	if err != nil {
		return nil, transition.ModeCloud, err
	}

	var crossings []traceCrossing
	machine.Subscribe(func(from, to transition.Mode, dir transition.Direction) {
		crossings = append(crossings, traceCrossing{at: now.Sub(start), from: from, to: to, dir: dir})
	})

	tickUntil := func(target time.Time) {
		for now.Before(target) {
			now = now.Add(traceFrame)
			if now.After(target) {
				now = target
			}
			machine.Tick()
		}
	}

	for _, ev := range events {
		tickUntil(start.Add(ev.at))
		machine.Feed(ev.delta, ev.atTop)
	}
	end := now.Add(traceSettle)
	tickUntil(end)

	return crossings, machine.Mode(), nil
}
