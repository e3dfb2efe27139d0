package watcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// OpKind tags the single closed sum of edit shapes the core ever emits.
// One match point lives here implicitly via the struct layout, a second
// in the diff engine (which builds one), a third in the report/emission
// path (which reads one) — no open interface dispatch.
type OpKind int

const (
	OpInsert OpKind = iota
	OpDelete
	OpReplace
	OpFileCreate
	OpFileDelete
	OpFileRename
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	case OpFileCreate:
		return "file_create"
	case OpFileDelete:
		return "file_delete"
	case OpFileRename:
		return "file_rename"
	default:
		return "unknown"
	}
}

// Position is the CRDT-resilient cursor attached to content-carrying
// operations. Line/Column are informational and recomputed at emit time;
// stable identity is the (ActorID, Lamport, Offset) triple.
type Position struct {
	Lamport uint64
	ActorID string
	Offset  int
	Line    int
	Column  int
}

// StableID is never used for merge decisions, only for logging/debugging.
func (p Position) StableID() string {
	return fmt.Sprintf("%s:%d:%d", p.ActorID, p.Lamport, p.Offset)
}

// Operation is the unit of output. Fields outside a variant's relevant
// set are left zero; Kind says which ones to read.
type Operation struct {
	ID        uuid.UUID
	Timestamp time.Time
	ActorID   string
	FilePath  string
	Kind      OpKind

	Position *Position // Insert, Delete, Replace

	Content    string // Insert.content, FileCreate.content
	Length     int    // Insert.length_chars, Delete.length_chars
	OldContent string // Replace.old
	NewContent string // Replace.new

	OldPath string // FileRename
	NewPath string // FileRename

	ParentOps []uuid.UUID
}

// Clone returns a value-independent copy safe to hand to a second consumer
// (the broadcast channel) after the first (the log) has already taken it.
func (op *Operation) Clone() *Operation {
	c := *op
	if op.Position != nil {
		p := *op.Position
		c.Position = &p
	}
	c.ParentOps = append([]uuid.UUID(nil), op.ParentOps...)
	return &c
}

// lamportSort orders ops by Lamport position in place. Nothing in the
// package calls it; across files the pipeline gives no ordering
// guarantee.
func lamportSort(ops []*Operation) {
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Position.Lamport < ops[j].Position.Lamport
	})
}

// Builder assembles Operations: advances the Lamport clock for
// position-carrying kinds, allocates a fresh id, and attaches a parent
// link from the LastOperation index.
type Builder struct {
	clock   *Clock
	actorID string
	last    *ShardedMap[uuid.UUID]
}

func NewBuilder(clock *Clock, actorID string) *Builder {
	return &Builder{
		clock:   clock,
		actorID: actorID,
		last:    NewShardedMap[uuid.UUID](),
	}
}

// carriesPosition reports whether kind advances the Lamport clock.
func carriesPosition(kind OpKind) bool {
	return kind == OpInsert || kind == OpDelete || kind == OpReplace
}

// newPosition allocates a Position at the given character offset, computing
// line/column from lineStarts (nil means "use (1, offset+1)").
func (b *Builder) newPosition(offset int, lineStarts []int) Position {
	lamport := b.clock.Tick()
	line, col := lineColumn(offset, lineStarts)
	return Position{
		Lamport: lamport,
		ActorID: b.actorID,
		Offset:  offset,
		Line:    line,
		Column:  col,
	}
}

// lineColumn binary searches lineStarts for the largest entry <= offset.
func lineColumn(offset int, lineStarts []int) (line, col int) {
	if len(lineStarts) == 0 {
		return 1, offset + 1
	}
	idx := sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, offset - lineStarts[idx] + 1
}

// build stamps an operation with id and parent link, then records it as
// the new LastOperation for filePath. op.Kind, op.Position and the
// variant-specific fields must already be set by the caller.
func (b *Builder) build(filePath string, op *Operation) *Operation {
	op.ID = uuid.New()
	op.Timestamp = time.Now()
	op.ActorID = b.actorID
	op.FilePath = filePath

	if parent, ok := b.last.Get(filePath); ok {
		op.ParentOps = []uuid.UUID{parent}
	} else {
		op.ParentOps = nil
	}
	b.last.Set(filePath, op.ID)
	return op
}

// Insert builds an Insert operation at the given prior-snapshot character
// offset. lineStarts is the snapshot's index (nil/minimal snapshot falls
// back to (1, offset+1)).
func (b *Builder) Insert(filePath string, offset int, content string, lengthChars int, lineStarts []int) *Operation {
	pos := b.newPosition(offset, lineStarts)
	return b.build(filePath, &Operation{
		Kind:     OpInsert,
		Position: &pos,
		Content:  content,
		Length:   lengthChars,
	})
}

func (b *Builder) Delete(filePath string, offset, lengthChars int, lineStarts []int) *Operation {
	pos := b.newPosition(offset, lineStarts)
	return b.build(filePath, &Operation{
		Kind:     OpDelete,
		Position: &pos,
		Length:   lengthChars,
	})
}

func (b *Builder) Replace(filePath string, offset int, oldContent, newContent string, lineStarts []int) *Operation {
	pos := b.newPosition(offset, lineStarts)
	return b.build(filePath, &Operation{
		Kind:       OpReplace,
		Position:   &pos,
		OldContent: oldContent,
		NewContent: newContent,
	})
}

func (b *Builder) FileCreate(filePath, content string) *Operation {
	return b.build(filePath, &Operation{
		Kind:    OpFileCreate,
		Content: content,
	})
}

func (b *Builder) FileDelete(filePath string) *Operation {
	op := b.build(filePath, &Operation{Kind: OpFileDelete})
	b.last.Delete(filePath)
	return op
}

// FileRename builds the rename operation and moves the LastOperation entry
// from oldPath to newPath so a subsequent edit on newPath chains from it.
func (b *Builder) FileRename(oldPath, newPath string) *Operation {
	op := b.build(oldPath, &Operation{
		FilePath: oldPath,
		Kind:     OpFileRename,
		OldPath:  oldPath,
		NewPath:  newPath,
	})
	op.FilePath = newPath
	if id, ok := b.last.Get(oldPath); ok {
		b.last.Set(newPath, id)
		b.last.Delete(oldPath)
	}
	return op
}

// ForgetFile drops the LastOperation entry for path, as though causality
// were reset (used when a file exceeds the size cap, and before the
// FileCreate for a path with no snapshot, e.g. after snapshot-store
// eviction).
func (b *Builder) ForgetFile(path string) {
	b.last.Delete(path)
}
