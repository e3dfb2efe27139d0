package watcher

import forgeerrors "github.com/sjzar/forge/internal/errors"

// classifyReadFailure turns a low-level read/stat error into the taxonomy
// internal/errors expects, for callers that want a typed error to log
// rather than the bare bool HandlePool.Read returns on its hot path.
func classifyReadFailure(path string, cause error) error {
	if cause == nil {
		return forgeerrors.DecodeFailed(path, nil)
	}
	return forgeerrors.ReadFileFailed(path, cause)
}
