package render

import (
	"fmt"
	"sync"

	ffmpegbin "github.com/Rionsanfas/lunaburn/internal/ffmpeg"
)

// Engine is the shared ffmpeg runtime handle: lazily initialized on first
// Acquire, reference-counted so lifecycle and teardown are observable in
// tests. Renderers hold an Engine instead of touching process-wide state; the
// only process-wide piece is the underlying binary resolution, which is
// idempotent.
type Engine struct {
	mu     sync.Mutex
	refs   int
	loaded bool
	paths  ffmpegbin.BinaryPaths

	// overridable for tests
	ensure func() (ffmpegbin.BinaryPaths, error)
}

func NewEngine() *Engine {
	return &Engine{ensure: ffmpegbin.Ensure}
}

// Acquire loads the runtime if needed and takes a reference. Every successful
// Acquire must be paired with Release.
func (e *Engine) Acquire() (ffmpegbin.BinaryPaths, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		paths, err := e.ensure()
		if err != nil {
			return ffmpegbin.BinaryPaths{}, fmt.Errorf(
				"rendering engine unavailable: %w",
				err,
			)
		}
		e.paths = paths
		e.loaded = true
	}

	e.refs++
	return e.paths, nil
}

func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.refs > 0 {
		e.refs--
	}
}

// Refs reports the current reference count.
func (e *Engine) Refs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refs
}
