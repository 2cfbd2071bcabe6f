package logger

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/afero"
)

// timestampLayout renders local time with millisecond precision.
const timestampLayout = "2006-01-02 15:04:05.000"

func openSink(fs afero.Fs, path string) (afero.File, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open metrics file %s: %w", path, err)
	}
	return f, nil
}

// appendLine serialises batch as a single line:
//
//	2024-02-21 12:00:00.000 "requests" 42 "cpu" 0.85
//
// All snapshots of a cycle share one collection instant, so only the first
// timestamp is printed.
func appendLine(dst []byte, batch []Snapshot) []byte {
	dst = batch[0].Timestamp.Local().AppendFormat(dst, timestampLayout)
	for _, s := range batch {
		dst = append(dst, ' ')
		dst = strconv.AppendQuoteToGraphic(dst, s.Name)
		dst = append(dst, ' ')
		dst = s.Value.AppendText(dst)
	}
	return append(dst, '\n')
}

// writeLine appends line to f and flushes it to stable storage.
func writeLine(f afero.File, line []byte) error {
	if _, err := f.Write(line); err != nil {
		return TransientError{Op: "write", Err: err}
	}
	if err := f.Sync(); err != nil {
		return TransientError{Op: "sync", Err: err}
	}
	return nil
}

// FormatTimestamp renders t the way it appears at the start of each line.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}
