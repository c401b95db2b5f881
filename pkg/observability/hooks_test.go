package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopComposeHooks{}
	c.OnComposeStart(ctx, 800, 800)
	c.OnComposeComplete(ctx, 120, 80, 9, time.Second)

	e := NoopExportHooks{}
	e.OnImageExported(ctx, "inkblot_image_001.png", 1024)
	e.OnBatchComplete(ctx, "batch", 10, time.Second, nil)
	e.OnBatchComplete(ctx, "batch", 3, time.Second, errors.New("boom"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Compose().(NoopComposeHooks); !ok {
		t.Error("Compose() should return NoopComposeHooks by default")
	}
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}

	customCompose := &testComposeHooks{}
	SetComposeHooks(customCompose)
	if Compose() != customCompose {
		t.Error("SetComposeHooks should set custom hooks")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}

	Reset()
	if _, ok := Compose().(NoopComposeHooks); !ok {
		t.Error("Reset() should restore NoopComposeHooks")
	}
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Reset() should restore NoopExportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testComposeHooks{}
	SetComposeHooks(custom)
	SetComposeHooks(nil)
	if Compose() != custom {
		t.Error("SetComposeHooks(nil) should keep the previous hooks")
	}

	exp := &testExportHooks{}
	SetExportHooks(exp)
	SetExportHooks(nil)
	if Export() != exp {
		t.Error("SetExportHooks(nil) should keep the previous hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testComposeHooks{}
	SetComposeHooks(h)

	ctx := context.Background()
	Compose().OnComposeStart(ctx, 10, 20)
	Compose().OnComposeComplete(ctx, 5, 2, 1, time.Millisecond)

	if h.starts != 1 || h.completes != 1 {
		t.Errorf("events = (%d starts, %d completes), want (1, 1)", h.starts, h.completes)
	}
	if h.lastShapes != 5 {
		t.Errorf("lastShapes = %d, want 5", h.lastShapes)
	}
}

func TestConcurrentAccess(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetExportHooks(&testExportHooks{})
		}()
		go func() {
			defer wg.Done()
			Export().OnImageExported(context.Background(), "x.png", 1)
		}()
	}
	wg.Wait()
}

type testComposeHooks struct {
	starts, completes int
	lastShapes        int
}

func (h *testComposeHooks) OnComposeStart(context.Context, int, int) { h.starts++ }
func (h *testComposeHooks) OnComposeComplete(_ context.Context, shapes, _, _ int, _ time.Duration) {
	h.completes++
	h.lastShapes = shapes
}

type testExportHooks struct {
	mu     sync.Mutex
	images int
}

func (h *testExportHooks) OnImageExported(context.Context, string, int) {
	h.mu.Lock()
	h.images++
	h.mu.Unlock()
}
func (h *testExportHooks) OnBatchComplete(context.Context, string, int, time.Duration, error) {}
