//go:build !unix

package watcher

import "os"

// mapFile on non-unix platforms falls back to a plain read; there is no
// portable mmap primitive in golang.org/x/sys outside the unix build tag.
func mapFile(path string) (*handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &handle{
		path:      path,
		data:      data,
		closeFile: func() error { return nil },
	}, nil
}
