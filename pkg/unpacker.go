package unpacker

import "fmt"

const (
	// DefaultEventWidth is the coincidence window in pixie16 clock
	// ticks (8 ns each).
	DefaultEventWidth = 100
	// DefaultMaxWords bounds the size of a single spill.
	DefaultMaxWords = 1 << 20
)

// CountsSink receives the channel-count table on Close. The layout of
// whatever it writes is its own business.
type CountsSink interface {
	WriteCounts(entries []CountEntry) error
}

// Unpacker reconstructs time-correlated raw events from pixie16 spill
// buffers. State (module queues, channel counts) persists across spills,
// so hits left un-grouped by one spill can close a window with hits from
// the next. One instance per acquisition stream; methods are not safe for
// concurrent use.
type Unpacker struct {
	eventWidth        uint32
	maxWords          uint32
	debugMode         bool
	stopOnDecodeError bool

	eventList  [][]*XiaHit
	rawEvent   []*XiaHit
	counts     *ChannelCounts
	processor  EventProcessor
	countsSink CountsSink

	admitted uint64
	retired  uint64
}

// NewUnpacker builds an engine delivering raw events to processor. A nil
// processor gets the no-op default, which still leaves the engine useful
// for format validation and channel statistics.
func NewUnpacker(processor EventProcessor) *Unpacker {
	if processor == nil {
		processor = NoopProcessor{}
	}
	return &Unpacker{
		eventWidth: DefaultEventWidth,
		maxWords:   DefaultMaxWords,
		counts:     NewChannelCounts(),
		processor:  processor,
	}
}

// SetEventWidth sets the coincidence window in clock ticks. Takes effect
// on the next spill; never mutate it mid-spill.
func (u *Unpacker) SetEventWidth(width uint32) uint32 {
	u.eventWidth = width
	return u.eventWidth
}

func (u *Unpacker) GetEventWidth() uint32 {
	return u.eventWidth
}

func (u *Unpacker) SetDebugMode(state bool) bool {
	u.debugMode = state
	return u.debugMode
}

func (u *Unpacker) SetMaxWords(words uint32) {
	u.maxWords = words
}

// StopOnDecodeError selects the decode-failure policy: abandon the rest
// of the spill (true) or resynchronize at the next sub-buffer boundary
// (false, default).
func (u *Unpacker) StopOnDecodeError(state bool) {
	u.stopOnDecodeError = state
}

func (u *Unpacker) SetCountsSink(sink CountsSink) {
	u.countsSink = sink
}

// Counts exposes the (module, channel) hit table, overflow buckets
// included.
func (u *Unpacker) Counts() *ChannelCounts {
	return u.counts
}

// Admitted returns the number of hits accepted into module queues.
func (u *Unpacker) Admitted() uint64 {
	return u.admitted
}

// Retired returns the number of hits delivered through a raw event.
func (u *Unpacker) Retired() uint64 {
	return u.retired
}

func (u *Unpacker) checkSpill(data []uint32) error {
	if data == nil {
		return &ErrSpillStructure{Words: 0, Reason: "nil buffer"}
	}
	if len(data) == 0 {
		return &ErrSpillStructure{Words: 0, Reason: "empty buffer"}
	}
	if uint32(len(data)) > u.maxWords {
		return &ErrSpillStructure{Words: len(data),
			Reason: fmt.Sprintf("exceeds maximum of %d words", u.maxWords)}
	}
	return nil
}

// ReadSpill ingests one spill: structural check, decode every module
// sub-buffer through intake, restore timestamp order, then drain all
// closed coincidence groups through the processor. Returns false only on
// a structural failure, with no state mutated; decode errors and
// out-of-range hits are recovered locally and counted.
func (u *Unpacker) ReadSpill(data []uint32) bool {
	if err := u.checkSpill(data); err != nil {
		logError(err.Error())
		return false
	}

	position := 0
	for position < len(data) {
		if len(data)-position < bufferHeaderWords {
			logError((&ErrTruncatedBuffer{
				Position: position,
				Declared: bufferHeaderWords,
				Left:     len(data) - position,
			}).Error())
			break
		}
		bufLen, moduleID, payloadStart := readBufferHeader(data, position)
		if bufLen < bufferHeaderWords || position+int(bufLen) > len(data) {
			// Corrupt framing: the buffer length is the only way to
			// find the next sub-buffer, so the decode phase ends here.
			logError((&ErrTruncatedBuffer{
				Position: position,
				Declared: bufLen,
				Left:     len(data) - position,
			}).Error())
			break
		}

		hits, err := ReadBuffer(moduleID, data[payloadStart:position+int(bufLen)])
		for _, hit := range hits {
			u.AddHit(hit)
		}
		if err != nil {
			logError(fmt.Sprintf("module %d buffer: %v", moduleID, err))
			if u.stopOnDecodeError {
				break
			}
		}
		position += int(bufLen)
	}

	u.TimeSort()
	u.drainClosed()

	if u.debugMode {
		logDebug(fmt.Sprintf("spill done: %d admitted, %d retired, %d residual",
			u.admitted, u.retired, u.Residual()))
	}
	return true
}

// Close frees every residual queued and grouped hit without processing
// them, and optionally hands the channel counts to the configured sink.
// Safe to call more than once.
func (u *Unpacker) Close(writeCountFile bool) {
	u.clearRawEvent()
	u.ClearEventList()
	if writeCountFile && u.countsSink != nil {
		if err := u.countsSink.WriteCounts(u.counts.Snapshot()); err != nil {
			logError(fmt.Sprintf("error writing channel counts: %v", err))
		}
	}
}
