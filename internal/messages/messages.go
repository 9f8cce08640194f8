// Package messages defines the Bubble Tea messages shared across nimbus
// components.
package messages

import (
	"time"

	"github.com/andyrewlee/nimbus/internal/config"
	"github.com/andyrewlee/nimbus/internal/content"
	"github.com/andyrewlee/nimbus/internal/transition"
)

// FrameTick drives animation and coalesced scroll application while the
// experience is animating. At carries the tick time so frame deltas do not
// depend on message delivery latency.
type FrameTick struct {
	At time.Time
}

// ModeChanged announces a committed mode transition.
type ModeChanged struct {
	From      transition.Mode
	To        transition.Mode
	Direction transition.Direction
}

// ConfigReloaded carries a successfully re-read configuration.
type ConfigReloaded struct {
	Config *config.Config
}

// ContentReloaded carries successfully re-read site content.
type ContentReloaded struct {
	Site *content.Site
}

// FileChanged is emitted by the home-directory watcher; the experience
// decides whether it names the config or the content file.
type FileChanged struct {
	Path string
}

// ContactCopied reports the result of copying the contact address.
type ContactCopied struct {
	Value string
	Err   error
}

// Error reports a non-fatal error for the toast line. Logged marks errors
// already written to the log so handlers do not log twice.
type Error struct {
	Err     error
	Context string
	Logged  bool
}
