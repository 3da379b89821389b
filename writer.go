package main

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	unpacker "github.com/utk-scan/unpacker_go/pkg"
)

// Writer stores built raw events in an HDF5 file: one row per event in
// /Run/events, one row per hit in /RawData/hits, traces in a growable
// /RawData/traces array. It plugs into the engine as its EventProcessor.
type Writer struct {
	File         *hdf5.File
	FirstEvt     bool
	RunGroup     *hdf5.Group
	RawGroup     *hdf5.Group
	EventTable   *hdf5.Dataset
	RunInfoTable *hdf5.Dataset
	HitTable     *hdf5.Dataset
	Traces       *hdf5.Dataset

	runNumber  int32
	eventWidth int32
	evtCount   int32
	traceCount int32
	// Trace row width is fixed by the first traced hit; shorter traces
	// are padded, longer ones truncated.
	traceSamples int

	hitsWritten   int64
	pileUpHits    int64
	clippedTraces int64
}

func NewWriter(config Configuration) *Writer {
	writer := &Writer{
		runNumber:  int32(config.RunNumber),
		eventWidth: int32(config.EventWidth),
	}
	writer.File = openFile(config.FileOut)
	writer.RunGroup, _ = createGroup(writer.File, "Run")
	writer.RawGroup, _ = createGroup(writer.File, "RawData")
	writer.EventTable = createTable(writer.RunGroup, "events", EventDataHDF5{})
	writer.RunInfoTable = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{})
	writer.HitTable = createTable(writer.RawGroup, "hits", HitDataHDF5{})
	return writer
}

func (w *Writer) ProcessRawEvent(event *unpacker.RawEvent) {
	if !w.FirstEvt {
		writeEntryToTable(w.RunInfoTable, RunInfoHDF5{
			run_number:  w.runNumber,
			event_width: w.eventWidth,
		})
		w.FirstEvt = true
	}

	seed := event.Seed()
	writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number:   w.evtCount,
		timestamp:    seed.Timestamp,
		multiplicity: int32(event.Multiplicity()),
	})

	hits := make([]HitDataHDF5, len(event.Hits))
	for i, hit := range event.Hits {
		traceIdx := int32(-1)
		if len(hit.Trace) > 0 {
			traceIdx = w.writeTrace(hit.Trace)
		}
		hits[i] = HitDataHDF5{
			evt_number: w.evtCount,
			module:     int16(hit.Module),
			channel:    int16(hit.Channel),
			timestamp:  hit.Timestamp,
			energy:     int32(hit.Energy),
			cfd:        int32(hit.CFD),
			trace_idx:  traceIdx,
		}
	}
	writeArrayToTable(w.HitTable, &hits)

	w.evtCount++
}

func (w *Writer) RawStats(hit *unpacker.XiaHit) {
	w.hitsWritten++
	if hit.PileUp {
		w.pileUpHits++
	}
}

func (w *Writer) writeTrace(trace []uint16) int32 {
	if w.Traces == nil {
		w.traceSamples = len(trace)
		w.Traces = createTraceArray(w.RawGroup, "traces", w.traceSamples)
	}

	row := make([]int16, w.traceSamples)
	for i := 0; i < w.traceSamples && i < len(trace); i++ {
		row[i] = int16(trace[i])
	}
	if len(trace) != w.traceSamples {
		w.clippedTraces++
	}
	writeTraceRow(w.Traces, &row)

	idx := w.traceCount
	w.traceCount++
	return idx
}

func (w *Writer) Close() {
	logger.Info(fmt.Sprintf("events written: %d, hits: %d, pile-up: %d, clipped traces: %d",
		w.evtCount, w.hitsWritten, w.pileUpHits, w.clippedTraces), "module", "writer")
	w.EventTable.Close()
	w.RunInfoTable.Close()
	w.HitTable.Close()
	if w.Traces != nil {
		w.Traces.Close()
	}
	w.RunGroup.Close()
	w.RawGroup.Close()
	w.File.Close()
}
