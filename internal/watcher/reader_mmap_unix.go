//go:build unix

package watcher

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile opens path and maps it read-only. An empty file cannot be
// mmap'd (zero-length mapping is invalid on every platform); its content
// is simply an empty byte slice.
func mapFile(path string) (*handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := info.Size()
	if size == 0 {
		return &handle{
			path: path,
			data: nil,
			closeFile: func() error {
				return f.Close()
			},
		}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &handle{
		path: path,
		data: data,
		closeFile: func() error {
			munmapErr := unix.Munmap(data)
			closeErr := f.Close()
			if munmapErr != nil {
				return munmapErr
			}
			return closeErr
		},
	}, nil
}
