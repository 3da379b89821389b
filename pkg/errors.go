package unpacker

import "fmt"

// ErrSpillStructure represents a spill rejected wholesale before decoding.
type ErrSpillStructure struct {
	Words  int
	Reason string
}

func (e *ErrSpillStructure) Error() string {
	return fmt.Sprintf("bad spill structure (%d words): %s", e.Words, e.Reason)
}

// ErrTruncatedBuffer represents a module sub-buffer running past the end
// of its spill.
type ErrTruncatedBuffer struct {
	Position int
	Declared uint32
	Left     int
}

func (e *ErrTruncatedBuffer) Error() string {
	return fmt.Sprintf("truncated buffer at word %d: declared %d words, %d left",
		e.Position, e.Declared, e.Left)
}

// ErrBadHitHeader represents an impossible hit header inside a sub-buffer.
type ErrBadHitHeader struct {
	Position int
	Word     uint32
	Reason   string
}

func (e *ErrBadHitHeader) Error() string {
	return fmt.Sprintf("bad hit header at word %d (0x%08x): %s",
		e.Position, e.Word, e.Reason)
}
