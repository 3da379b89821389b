package unpacker

// Builders for synthetic pixie16 rev-D list-mode words used across the
// package tests.

type hitSpec struct {
	channel uint16
	slot    uint16
	crate   uint16
	ts      uint64
	energy  uint16
	cfd     uint16
	pileUp  bool
	trace   []uint16
}

func encodeHit(spec hitSpec) []uint32 {
	traceWords := (len(spec.trace) + 1) / 2
	eventLen := uint32(hitHeaderWords + traceWords)

	w0 := uint32(spec.channel&0xF) |
		uint32(spec.slot&0xF)<<4 |
		uint32(spec.crate&0xF)<<8 |
		uint32(hitHeaderWords)<<12 |
		eventLen<<17
	if spec.pileUp {
		w0 |= 1 << 31
	}
	w1 := uint32(spec.ts & 0xFFFFFFFF)
	w2 := uint32((spec.ts>>32)&0xFFFF) | uint32(spec.cfd)<<16
	w3 := uint32(spec.energy) | uint32(len(spec.trace))<<16

	words := []uint32{w0, w1, w2, w3}
	for i := 0; i < len(spec.trace); i += 2 {
		word := uint32(spec.trace[i])
		if i+1 < len(spec.trace) {
			word |= uint32(spec.trace[i+1]) << 16
		}
		words = append(words, word)
	}
	return words
}

func moduleBuffer(module uint16, hits ...[]uint32) []uint32 {
	payload := make([]uint32, 0)
	for _, hit := range hits {
		payload = append(payload, hit...)
	}
	buffer := []uint32{uint32(len(payload) + bufferHeaderWords), uint32(module)}
	return append(buffer, payload...)
}

func spill(buffers ...[]uint32) []uint32 {
	words := make([]uint32, 0)
	for _, buffer := range buffers {
		words = append(words, buffer...)
	}
	return words
}

// simpleSpill frames one hit per module buffer: (module, channel, ts)
// triples in arrival order.
func simpleSpill(hits ...[3]uint64) []uint32 {
	buffers := make([][]uint32, len(hits))
	for i, hit := range hits {
		buffers[i] = moduleBuffer(uint16(hit[0]),
			encodeHit(hitSpec{channel: uint16(hit[1]), ts: hit[2]}))
	}
	return spill(buffers...)
}

// collector keeps the timestamps of every group and every retired hit.
type collector struct {
	groups [][]uint64
	hits   []*XiaHit
}

func (c *collector) ProcessRawEvent(event *RawEvent) {
	timestamps := make([]uint64, len(event.Hits))
	for i, hit := range event.Hits {
		timestamps[i] = hit.Timestamp
	}
	c.groups = append(c.groups, timestamps)
}

func (c *collector) RawStats(hit *XiaHit) {
	c.hits = append(c.hits, hit)
}
