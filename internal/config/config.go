package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andyrewlee/nimbus/internal/progress"
	"github.com/andyrewlee/nimbus/internal/transition"
)

// Experience variants.
const (
	// ExperienceModal is the full cloud ↔ site experience with discrete
	// mode transitions.
	ExperienceModal = "modal"
	// ExperienceDolly is the simplified continuous camera ride with no
	// mode duality.
	ExperienceDolly = "dolly"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// Config holds the application configuration
type Config struct {
	Paths *Paths `json:"-"`

	// Experience selects the landing variant: modal or dolly.
	Experience string `json:"experience"`

	// ScrollDistance is the scroll offset, in scroll units, mapped to
	// progress 1.0.
	ScrollDistance float64 `json:"scroll_distance"`
	// ActivationThreshold is the accumulated forward gesture needed to
	// leave the cloud.
	ActivationThreshold float64 `json:"activation_threshold"`
	// StaggerDelayMs is how long the backward gesture must be held at the
	// top of the site before returning to the cloud.
	StaggerDelayMs int `json:"stagger_delay_ms"`
	// TransitionDurationMs is the time budget for the transition visual.
	TransitionDurationMs int `json:"transition_duration_ms"`
	// ResetThreshold is the offset below which a completed dolly ride
	// resets.
	ResetThreshold float64 `json:"reset_threshold"`
	// GesturePauseMs is the silence after which a gesture no longer
	// counts as continuous.
	GesturePauseMs int `json:"gesture_pause_ms"`

	// ReversalReset is "reversal" or "pause": when the forward
	// accumulator is discarded.
	ReversalReset string `json:"reversal_reset"`
	// Completion is "deadline" or "adapter": the single authority for
	// resolving a transition in flight.
	Completion string `json:"completion"`

	// Debug shows the state overlay. Off unless explicitly configured.
	Debug bool `json:"debug"`

	KeyMap KeyMapConfig `json:"keymap"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	return &Config{
		Paths:                paths,
		Experience:           ExperienceModal,
		ScrollDistance:       600,
		ActivationThreshold:  150,
		StaggerDelayMs:       300,
		TransitionDurationMs: 600,
		ResetThreshold:       50,
		GesturePauseMs:       250,
		ReversalReset:        "reversal",
		Completion:           "deadline",
	}, nil
}

// fileConfig mirrors Config with pointer fields so absent keys leave the
// defaults untouched.
type fileConfig struct {
	Experience           *string      `json:"experience,omitempty"`
	ScrollDistance       *float64     `json:"scroll_distance,omitempty"`
	ActivationThreshold  *float64     `json:"activation_threshold,omitempty"`
	StaggerDelayMs       *int         `json:"stagger_delay_ms,omitempty"`
	TransitionDurationMs *int         `json:"transition_duration_ms,omitempty"`
	ResetThreshold       *float64     `json:"reset_threshold,omitempty"`
	GesturePauseMs       *int         `json:"gesture_pause_ms,omitempty"`
	ReversalReset        *string      `json:"reversal_reset,omitempty"`
	Completion           *string      `json:"completion,omitempty"`
	Debug                *bool        `json:"debug,omitempty"`
	KeyMap               KeyMapConfig `json:"keymap,omitempty"`
}

// Load loads config overrides from ~/.nimbus/config.json if present.
func Load() (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	return loadFrom(cfg, cfg.Paths.ConfigPath)
}

// LoadFromPaths loads overrides using explicit paths, for tests and reload.
func LoadFromPaths(paths *Paths) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	cfg.Paths = paths
	return loadFrom(cfg, paths.ConfigPath)
}

func loadFrom(cfg *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var user fileConfig
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if user.Experience != nil {
		cfg.Experience = *user.Experience
	}
	if user.ScrollDistance != nil {
		cfg.ScrollDistance = *user.ScrollDistance
	}
	if user.ActivationThreshold != nil {
		cfg.ActivationThreshold = *user.ActivationThreshold
	}
	if user.StaggerDelayMs != nil {
		cfg.StaggerDelayMs = *user.StaggerDelayMs
	}
	if user.TransitionDurationMs != nil {
		cfg.TransitionDurationMs = *user.TransitionDurationMs
	}
	if user.ResetThreshold != nil {
		cfg.ResetThreshold = *user.ResetThreshold
	}
	if user.GesturePauseMs != nil {
		cfg.GesturePauseMs = *user.GesturePauseMs
	}
	if user.ReversalReset != nil {
		cfg.ReversalReset = *user.ReversalReset
	}
	if user.Completion != nil {
		cfg.Completion = *user.Completion
	}
	if user.Debug != nil {
		cfg.Debug = *user.Debug
	}
	if len(user.KeyMap.Bindings) > 0 {
		cfg.KeyMap = user.KeyMap
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that would make the experience undefined,
// most importantly a zero scroll distance (progress would be NaN).
func (c *Config) Validate() error {
	switch c.Experience {
	case ExperienceModal, ExperienceDolly:
	default:
		return fmt.Errorf("config: unknown experience %q", c.Experience)
	}
	if c.ScrollDistance <= 0 {
		return fmt.Errorf("config: scroll_distance must be positive, got %v", c.ScrollDistance)
	}
	if c.ActivationThreshold <= 0 {
		return fmt.Errorf("config: activation_threshold must be positive, got %v", c.ActivationThreshold)
	}
	if c.StaggerDelayMs < 0 || c.TransitionDurationMs < 0 || c.GesturePauseMs < 0 {
		return fmt.Errorf("config: durations must not be negative")
	}
	if c.ResetThreshold < 0 {
		return fmt.Errorf("config: reset_threshold must not be negative, got %v", c.ResetThreshold)
	}
	switch c.ReversalReset {
	case "reversal", "pause":
	default:
		return fmt.Errorf("config: unknown reversal_reset %q", c.ReversalReset)
	}
	switch c.Completion {
	case "deadline", "adapter":
	default:
		return fmt.Errorf("config: unknown completion %q", c.Completion)
	}
	return nil
}

// MachineConfig derives the transition machine tuning.
func (c *Config) MachineConfig() transition.Config {
	mc := transition.Config{
		ActivationThreshold: c.ActivationThreshold,
		StaggerDelay:        time.Duration(c.StaggerDelayMs) * time.Millisecond,
		TransitionDuration:  time.Duration(c.TransitionDurationMs) * time.Millisecond,
		GesturePause:        time.Duration(c.GesturePauseMs) * time.Millisecond,
	}
	if c.ReversalReset == "pause" {
		mc.ReversalReset = transition.ResetOnPause
	}
	if c.Completion == "adapter" {
		mc.Completion = transition.CompleteOnAdapter
	}
	return mc
}

// ControllerConfig derives the continuous progress controller tuning.
func (c *Config) ControllerConfig() progress.Config {
	return progress.Config{
		ScrollDistance: c.ScrollDistance,
		ResetThreshold: c.ResetThreshold,
	}
}
