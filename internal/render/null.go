package render

// NullAdapter satisfies Adapter without drawing anything. Used when the
// terminal cannot host the cloud visuals; the experience then boots
// straight into the site and this adapter just keeps the completion
// contract honest.
type NullAdapter struct {
	progress float64
}

// UpdateScroll implements Adapter.
func (n *NullAdapter) UpdateScroll(progress float64) {
	n.progress = clamp01(progress)
}

// IsComplete implements Adapter.
func (n *NullAdapter) IsComplete() bool { return n.progress >= 1 }

// Reset implements Adapter.
func (n *NullAdapter) Reset() { n.progress = 0 }
