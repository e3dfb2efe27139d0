package watcher

import "unicode/utf8"

// FileSnapshot is the per-tracked-file in-memory record: content plus the
// indexes needed to translate between byte and character offsets cheaply.
//
// Invariants: len(CharToByte) is 0 or CharLen+1; when non-empty its last
// element equals ByteLen. LineStarts[0] is always 0; every other entry is
// one character past a newline.
type FileSnapshot struct {
	Content    string
	ByteLen    int
	CharLen    int
	CharToByte []int
	LineStarts []int
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// buildSnapshot is the hottest allocation in the core: compute byte/char
// lengths, a char->byte index only when non-ASCII, and the newline-offset
// index.
func buildSnapshot(content string) *FileSnapshot {
	byteLen := len(content)

	if isASCII(content) {
		return &FileSnapshot{
			Content:    content,
			ByteLen:    byteLen,
			CharLen:    byteLen,
			CharToByte: nil,
			LineStarts: scanLineStarts(content),
		}
	}

	charToByte := make([]int, 0, utf8.RuneCountInString(content)+1)
	for i := range content {
		charToByte = append(charToByte, i)
	}
	charToByte = append(charToByte, byteLen)

	return &FileSnapshot{
		Content:    content,
		ByteLen:    byteLen,
		CharLen:    len(charToByte) - 1,
		CharToByte: charToByte,
		LineStarts: scanLineStarts(content),
	}
}

// scanLineStarts records the character offset of each line start. Ranging
// over a string in Go already walks it rune-by-rune, which gives us
// character offsets directly without a second ASCII/non-ASCII branch.
func scanLineStarts(content string) []int {
	starts := make([]int, 1, 8)
	starts[0] = 0
	charIdx := 0
	for _, r := range content {
		if r == '\n' {
			starts = append(starts, charIdx+1)
		}
		charIdx++
	}
	return starts
}

// extendSnapshot is the append fast path: mutate s in place when doing so
// keeps the ASCII invariant intact, otherwise fall back to a full rebuild
// of the combined content.
func extendSnapshot(s *FileSnapshot, appended string) *FileSnapshot {
	if len(s.CharToByte) != 0 || !isASCII(appended) {
		rebuilt := buildSnapshot(s.Content + appended)
		*s = *rebuilt
		return s
	}

	base := s.CharLen
	for i, r := range appended {
		if r == '\n' {
			s.LineStarts = append(s.LineStarts, base+i+1)
		}
	}
	s.Content += appended
	s.ByteLen += len(appended)
	s.CharLen += len(appended)
	return s
}

// byteOffset maps a character offset into s's content to a byte offset,
// using CharToByte when present (non-ASCII content) or the identity
// mapping otherwise.
func (s *FileSnapshot) byteOffset(charOffset int) int {
	if len(s.CharToByte) == 0 {
		return charOffset
	}
	if charOffset < 0 {
		return 0
	}
	if charOffset >= len(s.CharToByte) {
		return s.ByteLen
	}
	return s.CharToByte[charOffset]
}

// charOffset maps a byte offset to the character offset of the character
// starting there (or ending there, for the common-suffix boundary case),
// by searching CharToByte; ASCII content again uses the identity mapping.
func (s *FileSnapshot) charOffset(byteOff int) int {
	if len(s.CharToByte) == 0 {
		return byteOff
	}
	for i, b := range s.CharToByte {
		if b == byteOff {
			return i
		}
	}
	// Should not happen for well-formed boundaries; clamp rather than
	// panic.
	if byteOff <= 0 {
		return 0
	}
	return len(s.CharToByte) - 1
}
