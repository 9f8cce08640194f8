package cli

import (
	"strings"
	"testing"

	"github.com/andyrewlee/nimbus/internal/transition"
)

func TestParseTrace(t *testing.T) {
	in := `
# forward burst
0 60
30 60
60 60
5000 -48 scrolled
`
	events, err := parseTrace(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parseTrace: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[3].atTop {
		t.Fatal("scrolled flag must clear atTop")
	}
	if events[1].delta != 60 {
		t.Fatalf("expected delta 60, got %v", events[1].delta)
	}
}

func TestParseTraceRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"nonsense",
		"0 60 upside-down",
		"100 60\n50 60", // timestamps go backwards
		"-5 60",
	} {
		if _, err := parseTrace(strings.NewReader(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestReplayForwardBurstReachesSite(t *testing.T) {
	events, err := parseTrace(strings.NewReader("0 60\n30 60\n60 60\n"))
	if err != nil {
		t.Fatalf("parseTrace: %v", err)
	}
	crossings, final, err := replayTrace(events)
	if err != nil {
		t.Fatalf("replayTrace: %v", err)
	}
	if final != transition.ModeSite {
		t.Fatalf("expected final mode site, got %s", final)
	}
	if len(crossings) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(crossings))
	}
	if crossings[0].to != transition.ModeTransitioning || crossings[1].to != transition.ModeSite {
		t.Fatalf("unexpected crossings: %+v", crossings)
	}
}

func TestReplaySubThresholdStaysInCloud(t *testing.T) {
	events, _ := parseTrace(strings.NewReader("0 60\n30 60\n"))
	crossings, final, err := replayTrace(events)
	if err != nil {
		t.Fatalf("replayTrace: %v", err)
	}
	if final != transition.ModeCloud {
		t.Fatalf("expected cloud, got %s", final)
	}
	if len(crossings) != 0 {
		t.Fatalf("expected no crossings, got %+v", crossings)
	}
}

func TestReplayRoundTrip(t *testing.T) {
	// Enter the site, pause, then hold a backward gesture at the top.
	in := "0 60\n30 60\n60 60\n5000 -48\n5100 -48\n5200 -48\n5300 -48\n5400 -48\n"
	events, err := parseTrace(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parseTrace: %v", err)
	}
	_, final, err := replayTrace(events)
	if err != nil {
		t.Fatalf("replayTrace: %v", err)
	}
	if final != transition.ModeCloud {
		t.Fatalf("expected round trip back to cloud, got %s", final)
	}
}
