package watcher

import (
	"path/filepath"
	"strings"
)

// Class is the three-way result of classifying a path.
type Class int

const (
	ClassIgnored Class = iota
	ClassTemp
	ClassTrackable
)

// ignoredComponents are reserved directory/file names compared per path
// component, case-insensitively, never by substring match against the
// whole path (so "src/target_api" is not mistaken for a "target" dir).
var ignoredComponents = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	".dx":          {},
	"node_modules": {},
	"target":       {},
	"dist":         {},
	"build":        {},
	".build":       {},
	"vendor":       {},
	".cache":       {},
	"__pycache__":  {},
}

var tempSuffixes = []string{"~", ".tmp", ".temp", ".swp", ".swx", ".bak", ".bk"}
var tempPrefixes = []string{"~", ".#", ".~", ".tmp"}

// Classifier decides whether a path is ignored, a temp/atomic-save
// artifact, or trackable, relative to a repository root.
type Classifier struct {
	root string
}

func NewClassifier(root string) *Classifier {
	return &Classifier{root: root}
}

// Classify applies the ignored/temp/trackable rules to path. size is the
// file's byte length when known; pass -1 when unknown (e.g. a rename-from
// notification for a file that no longer exists at that path). A known
// size over MaxTrackedFileBytes makes an otherwise trackable path
// ClassIgnored.
func (c *Classifier) Classify(path string, size int64) Class {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		rel = path
	}
	for _, comp := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := ignoredComponents[strings.ToLower(comp)]; ok {
			return ClassIgnored
		}
	}

	if isTempName(filepath.Base(path)) {
		return ClassTemp
	}

	if size >= 0 && Oversize(size) {
		return ClassIgnored
	}

	return ClassTrackable
}

func isTempName(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "goutputstream") {
		return true
	}
	for _, suf := range tempSuffixes {
		if strings.HasSuffix(lower, suf) {
			return true
		}
	}
	for _, pre := range tempPrefixes {
		if strings.HasPrefix(lower, pre) {
			return true
		}
	}
	return false
}

// Trackable is shorthand for Classify(path, size) == ClassTrackable, used
// by call sites that don't need the ignored/temp distinction.
func (c *Classifier) Trackable(path string, size int64) bool {
	return c.Classify(path, size) == ClassTrackable
}

// Oversize reports whether size exceeds the tracked-file cap; a trackable
// path that grows past this must be evicted from the snapshot store.
func Oversize(size int64) bool {
	return size > MaxTrackedFileBytes
}
