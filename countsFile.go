package main

import (
	"fmt"
	"os"
	"strings"

	unpacker "github.com/utk-scan/unpacker_go/pkg"
)

// CountsFileWriter dumps the engine's (module, channel) hit table to a
// text file on Close. Rows with an out-of-range id show "ovf" on that
// axis; known channels get their detector label when a channel map was
// loaded.
type CountsFileWriter struct {
	Path     string
	Channels ChannelMap
}

func (w *CountsFileWriter) WriteCounts(entries []unpacker.CountEntry) error {
	return os.WriteFile(w.Path, []byte(FormatCounts(entries, w.Channels)), 0644)
}

func bucketLabel(b unpacker.BucketID) string {
	if b.Overflow {
		return "ovf"
	}
	return fmt.Sprintf("%d", b.ID)
}

func FormatCounts(entries []unpacker.CountEntry, channels ChannelMap) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%8s %8s %10s  %s\n", "module", "channel", "counts", "detector"))
	for _, entry := range entries {
		detector := "-"
		if !entry.Key.Module.Overflow && !entry.Key.Channel.Overflow {
			key := ChannelKey{entry.Key.Module.ID, entry.Key.Channel.ID}
			if name, ok := channels[key]; ok {
				detector = name
			}
		}
		builder.WriteString(fmt.Sprintf("%8s %8s %10d  %s\n",
			bucketLabel(entry.Key.Module), bucketLabel(entry.Key.Channel),
			entry.Count, detector))
	}
	return builder.String()
}
