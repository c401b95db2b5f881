package export

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/inkblot/pkg/errors"
	"github.com/matzehuels/inkblot/pkg/inkblot"
	"github.com/matzehuels/inkblot/pkg/observability"
)

// DefaultYield is the pause taken after every image of a batch.
const DefaultYield = 10 * time.Millisecond

// BatchOptions configures batch export.
type BatchOptions struct {
	// Yield is the pause after every image. Zero means DefaultYield; a
	// negative value only yields the processor.
	Yield time.Duration

	// EmbedLog stores the CSV log inside the archive as well.
	EmbedLog bool

	// OnImage is called after every image with the 1-based count done so far.
	OnImage func(done, total int, entry LogEntry)
}

func (o BatchOptions) yield() time.Duration {
	if o.Yield == 0 {
		return DefaultYield
	}
	return o.Yield
}

// Batch generates a fixed number of inkblots into a ZIP archive, one image
// per Step. The archive is only valid after Close; an abandoned batch leaves
// an unfinished archive that callers should discard.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	id      string
	comp    *inkblot.Composer
	canvas  *inkblot.Canvas
	zw      *zip.Writer
	total   int
	opts    BatchOptions
	entries []LogEntry
	start   time.Time
	closed  bool
}

// NewBatch prepares a batch of n images written to w.
func NewBatch(comp *inkblot.Composer, canvas *inkblot.Canvas, w io.Writer, n int, opts BatchOptions) (*Batch, error) {
	if err := ValidateBatchSize(n); err != nil {
		return nil, err
	}
	return &Batch{
		id:      uuid.New().String(),
		comp:    comp,
		canvas:  canvas,
		zw:      zip.NewWriter(w),
		total:   n,
		opts:    opts,
		entries: make([]LogEntry, 0, n),
		start:   time.Now(),
	}, nil
}

// ID returns the unique identifier of this batch.
func (b *Batch) ID() string { return b.id }

// Total returns the number of images the batch produces.
func (b *Batch) Total() int { return b.total }

// Len returns the number of images generated so far.
func (b *Batch) Len() int { return len(b.entries) }

// Done reports whether every image has been generated.
func (b *Batch) Done() bool { return len(b.entries) >= b.total }

// Entries returns a copy of the log entries generated so far.
func (b *Batch) Entries() []LogEntry {
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Step generates the next image, adds it to the archive and returns its log entry.
func (b *Batch) Step(ctx context.Context) (LogEntry, error) {
	if b.closed {
		return LogEntry{}, errors.New(errors.ErrCodeInternal, "batch %s is closed", b.id)
	}
	if b.Done() {
		return LogEntry{}, errors.New(errors.ErrCodeInternal, "batch %s already has %d images", b.id, b.total)
	}
	if err := ctx.Err(); err != nil {
		return LogEntry{}, errors.Wrap(errors.ErrCodeCanceled, err, "batch %s", b.id)
	}

	i := len(b.entries) + 1
	name := ImageName(i)
	params := b.comp.Generate(ctx, b.canvas)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, b.canvas.Image()); err != nil {
		return LogEntry{}, err
	}
	if err := b.add(name, buf.Bytes()); err != nil {
		return LogEntry{}, err
	}

	entry := NewLogEntry(name, params)
	b.entries = append(b.entries, entry)
	observability.Export().OnImageExported(ctx, name, buf.Len())
	if b.opts.OnImage != nil {
		b.opts.OnImage(i, b.total, entry)
	}
	return entry, nil
}

// add stores data uncompressed; PNG data does not deflate further.
func (b *Batch) add(name string, data []byte) error {
	fw, err := b.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: time.Now(),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "add %s", name)
	}
	if _, err := fw.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", name)
	}
	return nil
}

// Close finalizes the archive. It fails if images are still missing.
func (b *Batch) Close(ctx context.Context) error {
	if b.closed {
		return nil
	}
	if !b.Done() {
		err := errors.New(errors.ErrCodeInternal, "batch %s incomplete: %d of %d images", b.id, len(b.entries), b.total)
		b.finish(ctx, err)
		return err
	}

	err := b.finalize()
	b.finish(ctx, err)
	return err
}

func (b *Batch) finalize() error {
	if b.opts.EmbedLog {
		var buf bytes.Buffer
		if err := WriteLog(&buf, b.entries); err != nil {
			return err
		}
		fw, err := b.zw.Create(LogFileName)
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "add %s", LogFileName)
		}
		if _, err := fw.Write(buf.Bytes()); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", LogFileName)
		}
	}
	if err := b.zw.SetComment("inkblot batch " + b.id); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "set archive comment")
	}
	if err := b.zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "finalize archive")
	}
	return nil
}

// Abort marks the batch as abandoned. The archive is left unfinished.
func (b *Batch) Abort(ctx context.Context, cause error) {
	if b.closed {
		return
	}
	b.finish(ctx, cause)
}

func (b *Batch) finish(ctx context.Context, err error) {
	b.closed = true
	observability.Export().OnBatchComplete(ctx, b.id, len(b.entries), time.Since(b.start), err)
}

// Yield pauses for d, returning early with a CANCELED error if ctx ends.
// A non-positive d only yields the processor.
func Yield(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeCanceled, err, "yield")
		}
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "yield")
	case <-t.C:
		return nil
	}
}

// RunBatch generates n images into a ZIP archive written to w, pausing after
// every image, and returns the log entries in image order.
func RunBatch(ctx context.Context, comp *inkblot.Composer, canvas *inkblot.Canvas, w io.Writer, n int, opts BatchOptions) ([]LogEntry, error) {
	b, err := NewBatch(comp, canvas, w, n, opts)
	if err != nil {
		return nil, err
	}
	if err := drive(ctx, b, opts); err != nil {
		return nil, err
	}
	if err := b.Close(ctx); err != nil {
		return nil, err
	}
	return b.Entries(), nil
}

// drive steps b until done, yielding between images.
func drive(ctx context.Context, b *Batch, opts BatchOptions) error {
	for !b.Done() {
		if _, err := b.Step(ctx); err != nil {
			b.Abort(ctx, err)
			return err
		}
		if err := Yield(ctx, opts.yield()); err != nil {
			b.Abort(ctx, err)
			return err
		}
	}
	return nil
}
