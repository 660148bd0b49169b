package persist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anvil-db/clockpool/src/page"
)

// Reader is the buffer pool's Reader collaborator: it fills a Page frame
// from the byte offset page_id*Size in the backing file.
type Reader struct {
	path string
}

// NewReader returns a Reader for dir/filename. The file need not exist yet;
// ReadPage will surface an error if it's missing when called.
func NewReader(dir, filename string) *Reader {
	return &Reader{path: filepath.Join(dir, filename)}
}

// ReadPage fills dst.Data from the backing file at pageID's byte offset. It
// does not call dst.RefreshMetadata — that is the buffer pool's job, done
// once the frame is safely behind its directory entry's lock.
func (r *Reader) ReadPage(pageID page.PageID, dst *page.Page) error {
	f, err := r.openReadFile()
	if err != nil {
		return fmt.Errorf("persist: open for read: %w", err)
	}
	defer f.Close()

	offset := int64(pageID) * int64(page.Size)
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("persist: seek to page %d: %w", pageID, err)
	}

	br := bufio.NewReaderSize(f, bufSize)
	if _, err := io.ReadFull(br, dst.Data[:]); err != nil {
		return fmt.Errorf("persist: read page %d: %w", pageID, err)
	}
	return nil
}

// PageCount returns the total number of whole pages present in the backing
// file.
func (r *Reader) PageCount() (uint64, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return 0, fmt.Errorf("persist: stat backing file: %w", err)
	}
	return uint64(info.Size()) / page.Size, nil
}

func (r *Reader) openReadFile() (*os.File, error) {
	return os.OpenFile(r.path, os.O_RDONLY, 0)
}
