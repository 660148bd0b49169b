// Package persist implements the flat-file backing store the buffer pool
// reads through: a sequence of fixed-size page images indexed by id.
package persist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/anvil-db/clockpool/src/page"
)

// bufSize mirrors the original implementation's 8 KiB read/write buffers.
const bufSize = 8 * 1024

// Writer appends page images to the end of a backing file.
type Writer struct {
	path string
	m    sync.Mutex
}

// NewWriter returns a Writer appending to dir/filename.
func NewWriter(dir, filename string) *Writer {
	return &Writer{path: filepath.Join(dir, filename)}
}

// InsertPage appends page's raw bytes to the end of the backing file.
func (w *Writer) InsertPage(p *page.Page) error {
	w.m.Lock()
	defer w.m.Unlock()

	f, err := w.openWriteFile()
	if err != nil {
		return fmt.Errorf("persist: open for write: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(0, os.SEEK_END); err != nil {
		return fmt.Errorf("persist: seek to end: %w", err)
	}

	bw := bufio.NewWriterSize(f, bufSize)
	if _, err := bw.Write(p.Data[:]); err != nil {
		return fmt.Errorf("persist: write page: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("persist: flush page: %w", err)
	}
	return nil
}

func (w *Writer) openWriteFile() (*os.File, error) {
	return os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY, 0o600)
}
