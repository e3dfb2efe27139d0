package zstd

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))

	encoderOnce sync.Once
	encoder     *zstd.Encoder
)

func Decompress(src []byte) ([]byte, error) {
	return decoder.DecodeAll(src, nil)
}

// Compress returns the zstd frame for src using the fastest encoder level.
// Used to bound TempContentCache memory: atomic-save content is held only
// until the matching rename arrives, so speed matters more than ratio.
func Compress(src []byte) ([]byte, error) {
	encoderOnce.Do(func() {
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	})
	return encoder.EncodeAll(src, make([]byte, 0, len(src))), nil
}
