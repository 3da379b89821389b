package unpacker

// pixie16 rev-D list mode decoding. A spill is a sequence of module
// sub-buffers, each framed as [bufLen, moduleID] followed by hit records.
// Hits carry a 4-word header and an optional trace packed two samples
// per 32-bit word.

const (
	bufferHeaderWords = 2
	hitHeaderWords    = 4
)

func readBufferHeader(data []uint32, position int) (uint32, uint16, int) {
	bufLen := data[position]
	moduleID := uint16(data[position+1] & 0xFFFF)
	position += bufferHeaderWords
	return bufLen, moduleID, position
}

func readHitHeader(word uint32) (channel, slot, crate, headerLen uint16, eventLen uint32, pileUp bool) {
	channel = uint16(word & 0x000F)
	slot = uint16((word & 0x00F0) >> 4)
	crate = uint16((word & 0x0F00) >> 8)
	headerLen = uint16((word & 0x1F000) >> 12)
	eventLen = (word & 0x7FFE0000) >> 17
	pileUp = (word & 0x80000000) > 0
	return
}

func readTimestamp(low uint32, high uint32) uint64 {
	// 48-bit timestamp: full low word plus the low 16 bits of the
	// second header word.
	return (uint64(high&0xFFFF) << 32) + uint64(low)
}

func readTrace(data []uint32, position int, nSamples int) ([]uint16, int) {
	trace := make([]uint16, nSamples)
	for i := 0; i < nSamples; i++ {
		word := data[position+i/2]
		if i%2 == 0 {
			trace[i] = uint16(word & 0xFFFF)
		} else {
			trace[i] = uint16((word & 0xFFFF0000) >> 16)
		}
	}
	position += (nSamples + 1) / 2
	return trace, position
}

// ReadBuffer parses every hit in one module sub-buffer payload (the words
// after the two-word buffer header). It performs no module/channel bounds
// checks; ingestion owns those so decode failures stay distinguishable
// from out-of-range hits. On a malformed hit the hits decoded so far are
// returned together with the error and the rest of the payload is
// abandoned.
func ReadBuffer(moduleID uint16, payload []uint32) ([]*XiaHit, error) {
	hits := make([]*XiaHit, 0)
	position := 0
	for position < len(payload) {
		if len(payload)-position < hitHeaderWords {
			return hits, &ErrTruncatedBuffer{
				Position: position,
				Declared: hitHeaderWords,
				Left:     len(payload) - position,
			}
		}

		word := payload[position]
		channel, slot, crate, headerLen, eventLen, pileUp := readHitHeader(word)
		if headerLen < hitHeaderWords {
			return hits, &ErrBadHitHeader{Position: position, Word: word,
				Reason: "header length below minimum"}
		}
		if eventLen < uint32(headerLen) {
			return hits, &ErrBadHitHeader{Position: position, Word: word,
				Reason: "event length below header length"}
		}
		if position+int(eventLen) > len(payload) {
			return hits, &ErrTruncatedBuffer{
				Position: position,
				Declared: eventLen,
				Left:     len(payload) - position,
			}
		}

		timestamp := readTimestamp(payload[position+1], payload[position+2])
		cfd := uint16((payload[position+2] & 0xFFFF0000) >> 16)
		energy := uint16(payload[position+3] & 0xFFFF)
		traceLen := int((payload[position+3] & 0x7FFF0000) >> 16)
		outOfRange := (payload[position+3] & 0x80000000) > 0

		traceWords := int(eventLen) - int(headerLen)
		if traceWords != (traceLen+1)/2 {
			return hits, &ErrBadHitHeader{Position: position, Word: payload[position+3],
				Reason: "trace length does not match event length"}
		}

		hit := &XiaHit{
			Module:          moduleID,
			Channel:         channel,
			Crate:           crate,
			Slot:            slot,
			Timestamp:       timestamp,
			Energy:          energy,
			CFD:             cfd,
			PileUp:          pileUp,
			TraceOutOfRange: outOfRange,
		}
		position += int(headerLen)
		if traceLen > 0 {
			hit.Trace, position = readTrace(payload, position, traceLen)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
