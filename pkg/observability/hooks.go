// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about inkblot
// composition and export without the library depending on a specific
// backend. The defaults are no-ops.
//
//	func main() {
//	    observability.SetComposeHooks(&myComposeHooks{})
//	    observability.SetExportHooks(&myExportHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Compose().OnComposeStart(ctx, width, height)
//	// ... draw ...
//	observability.Compose().OnComposeComplete(ctx, shapes, padding, blur, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Compose Hooks
// =============================================================================

// ComposeHooks receives events from the inkblot composer.
type ComposeHooks interface {
	OnComposeStart(ctx context.Context, width, height int)
	OnComposeComplete(ctx context.Context, shapes, padding, blur int, duration time.Duration)
}

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from image and batch export.
type ExportHooks interface {
	// OnImageExported records one encoded image.
	OnImageExported(ctx context.Context, name string, size int)

	// OnBatchComplete records the end of a batch, successful or not.
	OnBatchComplete(ctx context.Context, batchID string, count int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopComposeHooks is a no-op implementation of ComposeHooks.
type NoopComposeHooks struct{}

func (NoopComposeHooks) OnComposeStart(context.Context, int, int)                        {}
func (NoopComposeHooks) OnComposeComplete(context.Context, int, int, int, time.Duration) {}

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnImageExported(context.Context, string, int)                       {}
func (NoopExportHooks) OnBatchComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	composeHooks ComposeHooks = NoopComposeHooks{}
	exportHooks  ExportHooks  = NoopExportHooks{}
	hooksMu      sync.RWMutex
)

// SetComposeHooks registers custom compose hooks.
// This should be called once at application startup before any generation.
func SetComposeHooks(h ComposeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		composeHooks = h
	}
}

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any export.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// Compose returns the registered compose hooks.
func Compose() ComposeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return composeHooks
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	composeHooks = NoopComposeHooks{}
	exportHooks = NoopExportHooks{}
}
