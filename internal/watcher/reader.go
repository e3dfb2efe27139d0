package watcher

import (
	"os"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sjzar/forge/pkg/util"
)

// handle is a pooled reference to an open, mapped file. mapFile/closeFile
// are platform-specific (reader_mmap_unix.go, reader_fallback.go).
type handle struct {
	path      string
	data      []byte // mmap'd (unix) or a plain read buffer (fallback)
	closeFile func() error
}

// HandlePool is the process-wide path->handle cache: readers take a
// shared read lock to find an existing mapping, and only take the
// exclusive lock to open and insert a new one.
type HandlePool struct {
	mu      sync.RWMutex
	handles map[string]*handle
}

func NewHandlePool() *HandlePool {
	return &HandlePool{handles: make(map[string]*handle)}
}

// Drop closes and removes the pooled handle for path, if any. Called on
// FileDelete and on the source side of a rename.
func (p *HandlePool) Drop(path string) {
	p.mu.Lock()
	h, ok := p.handles[path]
	delete(p.handles, path)
	p.mu.Unlock()
	if ok && h.closeFile != nil {
		_ = h.closeFile()
	}
}

// Read returns the decoded UTF-8 content of path, opening and mapping it
// if not already pooled. ok is false on any I/O or non-UTF-8 decode
// failure, in which case the caller must skip the event rather than
// emit an operation.
//
// A pooled mapping is sized to the file as it was when first opened; a
// file that has since grown or shrunk needs a fresh mapping, so Read
// checks the on-disk size against what's pooled and remaps on mismatch.
func (p *HandlePool) Read(path string) (content string, ok bool) {
	p.mu.RLock()
	h, found := p.handles[path]
	p.mu.RUnlock()

	if found {
		if info, err := os.Stat(path); err == nil && int64(len(h.data)) != info.Size() {
			p.Drop(path)
			found = false
		}
	}

	if !found {
		var err error
		h, err = p.open(path)
		if err != nil {
			return "", false
		}
	}

	return decodeUTF8(h.data)
}

func (p *HandlePool) open(path string) (*handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.handles[path]; ok {
		return h, nil
	}

	h, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	p.handles[path] = h
	return h, nil
}

// decodeUTF8 validates data as UTF-8 text rather than binary, using
// mimetype's content sniffing as a cheap first filter and then the
// stricter UTF-8 and printable-rune check in util.IsNormalString.
func decodeUTF8(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", true
	}
	mt := mimetype.Detect(data)
	if !isTextMIME(mt.String()) {
		return "", false
	}
	if !util.IsNormalString(data) {
		return "", false
	}
	return string(data), true
}

func isTextMIME(mime string) bool {
	return len(mime) >= 5 && mime[:5] == "text/" || mime == "application/json" ||
		mime == "application/xml" || mime == "application/x-sh" || mime == "inode/x-empty"
}
