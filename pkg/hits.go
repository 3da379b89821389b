package unpacker

// Bounds for valid hardware addresses, inherited from the UTK/ORNL
// pixie16 crate layout. Anything outside lands in the overflow buckets.
const (
	MaxModule  = 12
	MaxChannel = 15
)

// XiaHit is one fired-channel observation decoded from a spill.
type XiaHit struct {
	Module  uint16
	Channel uint16
	Crate   uint16
	Slot    uint16
	// Timestamp in pixie16 clock ticks (8 ns), 48 bits valid.
	Timestamp uint64
	Energy    uint16
	// CFD fractional time, raw units from the hit header.
	CFD             uint16
	PileUp          bool
	TraceOutOfRange bool
	Trace           []uint16
}

// RawEvent is one coincidence group: hits sorted ascending by timestamp,
// all within the event width of the first (seed) hit.
type RawEvent struct {
	Hits []*XiaHit
}

// Seed returns the hit that opened the window, or nil for an empty event.
func (e *RawEvent) Seed() *XiaHit {
	if len(e.Hits) == 0 {
		return nil
	}
	return e.Hits[0]
}

func (e *RawEvent) Multiplicity() int {
	return len(e.Hits)
}
