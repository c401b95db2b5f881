package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/inkblot/pkg/errors"
	"github.com/matzehuels/inkblot/pkg/inkblot"
)

// LogHeader is the header row of the batch log.
var LogHeader = []string{"Inkblot", "Number of Shapes", "Padding", "Blur Intensity"}

// LogEntry records the parameters of one exported image.
type LogEntry struct {
	FileName string `json:"file_name"`
	Shapes   int    `json:"shapes"`
	Padding  int    `json:"padding"`
	Blur     int    `json:"blur"`
}

// NewLogEntry pairs an image name with the parameters it was generated from.
func NewLogEntry(name string, p inkblot.Params) LogEntry {
	return LogEntry{FileName: name, Shapes: p.Shapes, Padding: p.Padding, Blur: p.Blur}
}

func (e LogEntry) record() []string {
	return []string{
		e.FileName,
		strconv.Itoa(e.Shapes),
		strconv.Itoa(e.Padding),
		strconv.Itoa(e.Blur),
	}
}

// WriteLog writes the header followed by one comma-separated row per entry.
// Rows are separated by newlines; the last row has no line terminator.
func WriteLog(w io.Writer, entries []LogEntry) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(LogHeader); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write log header")
	}
	for _, e := range entries {
		if err := cw.Write(e.record()); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write log row %s", e.FileName)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "flush log")
	}
	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write log")
	}
	return nil
}

// SaveLog writes the log to a file, creating parent directories as needed.
func SaveLog(path string, entries []LogEntry) (err error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", path)
		}
	}()
	return WriteLog(f, entries)
}
