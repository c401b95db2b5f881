package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/inkblot/pkg/errors"
	"github.com/matzehuels/inkblot/pkg/inkblot"
)

// Result describes a finished batch export on disk.
type Result struct {
	ID          string
	ArchivePath string
	LogPath     string
	Entries     []LogEntry
}

// Job is a Batch writing to an archive file in a directory, with the CSV log
// saved next to it on Finish.
type Job struct {
	batch       *Batch
	file        *os.File
	archivePath string
	logPath     string
}

// NewJob creates dir if needed and opens inkblot_images_<n>.zip inside it.
func NewJob(comp *inkblot.Composer, canvas *inkblot.Canvas, dir string, n int, opts BatchOptions) (*Job, error) {
	if err := ValidateBatchSize(n); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
	}

	archivePath := filepath.Join(dir, ArchiveName(n))
	f, err := os.Create(archivePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", archivePath)
	}
	b, err := NewBatch(comp, canvas, f, n, opts)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(archivePath)
		return nil, err
	}
	return &Job{
		batch:       b,
		file:        f,
		archivePath: archivePath,
		logPath:     filepath.Join(dir, LogFileName),
	}, nil
}

// Batch returns the underlying batch.
func (j *Job) Batch() *Batch { return j.batch }

// ArchivePath returns the path of the archive being written.
func (j *Job) ArchivePath() string { return j.archivePath }

// Step generates the next image.
func (j *Job) Step(ctx context.Context) (LogEntry, error) { return j.batch.Step(ctx) }

// Done reports whether every image has been generated.
func (j *Job) Done() bool { return j.batch.Done() }

// Finish finalizes the archive and writes the CSV log.
// On failure, including a failed log write, the archive file is removed.
func (j *Job) Finish(ctx context.Context) (*Result, error) {
	if err := j.batch.Close(ctx); err != nil {
		j.discard()
		return nil, err
	}
	if err := j.file.Close(); err != nil {
		_ = os.Remove(j.archivePath)
		return nil, errors.Wrap(errors.ErrCodeIO, err, "close %s", j.archivePath)
	}
	entries := j.batch.Entries()
	if err := SaveLog(j.logPath, entries); err != nil {
		_ = os.Remove(j.archivePath)
		return nil, err
	}
	return &Result{
		ID:          j.batch.ID(),
		ArchivePath: j.archivePath,
		LogPath:     j.logPath,
		Entries:     entries,
	}, nil
}

// Abort abandons the job and removes the partial archive.
func (j *Job) Abort(ctx context.Context, cause error) {
	j.batch.Abort(ctx, cause)
	j.discard()
}

func (j *Job) discard() {
	_ = j.file.Close()
	_ = os.Remove(j.archivePath)
}

// ExportBatch generates n images into dir/inkblot_images_<n>.zip and writes
// dir/inkblot_logs.csv. A cancelled or failed export leaves no archive behind.
func ExportBatch(ctx context.Context, comp *inkblot.Composer, canvas *inkblot.Canvas, dir string, n int, opts BatchOptions) (*Result, error) {
	j, err := NewJob(comp, canvas, dir, n, opts)
	if err != nil {
		return nil, err
	}
	if err := drive(ctx, j.batch, opts); err != nil {
		j.discard()
		return nil, err
	}
	return j.Finish(ctx)
}
