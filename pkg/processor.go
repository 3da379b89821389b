package unpacker

// EventProcessor is the extension point consuming built raw events. The
// engine owns the event and its hits for the duration of the call and
// clears them afterwards; implementations must copy anything they keep.
type EventProcessor interface {
	// ProcessRawEvent receives one completed coincidence group.
	ProcessRawEvent(event *RawEvent)
	// RawStats is invoked once per hit as it is retired from a group,
	// independent of ProcessRawEvent, for per-hit accounting.
	RawStats(hit *XiaHit)
}

// NoopProcessor discards everything, making the engine usable standalone
// for format validation and channel statistics.
type NoopProcessor struct{}

func (NoopProcessor) ProcessRawEvent(*RawEvent) {}

func (NoopProcessor) RawStats(*XiaHit) {}
