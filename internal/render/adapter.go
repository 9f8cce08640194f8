package render

// Adapter is the narrow contract the experience controllers use to drive a
// renderer. Implementations are purely visual: UpdateScroll carries no
// feedback into the controllers except through IsComplete.
//
// An Adapter instance is owned by exactly one controller at a time and all
// calls arrive on the UI event loop.
type Adapter interface {
	// UpdateScroll sets the renderer's scroll progress in [0,1]. Safe to
	// call every frame.
	UpdateScroll(progress float64)

	// IsComplete reports whether the renderer's own progress has reached
	// 1.0. Used when the renderer, not the controller, is authoritative
	// for transition completion.
	IsComplete() bool

	// Reset returns the renderer to its initial visual state. Idempotent.
	Reset()
}
