package main

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	unpacker "github.com/utk-scan/unpacker_go/pkg"
)

func TestFormatCounts(t *testing.T) {
	counts := unpacker.NewChannelCounts()
	counts.Increment(0, 0)
	counts.Increment(0, 0)
	counts.Increment(0, 0)
	counts.Increment(0, 3)
	counts.IncrementChannelOverflow(1)
	counts.Increment(2, 15)
	counts.Increment(2, 15)
	counts.IncrementModuleOverflow(4)

	channels := ChannelMap{
		{Module: 0, Channel: 0}:  "clover_01",
		{Module: 2, Channel: 15}: "labr_03",
	}

	output := FormatCounts(counts.Snapshot(), channels)
	g := goldie.New(t)
	g.Assert(t, "counts", []byte(output))
}

func TestFormatCountsNoChannelMap(t *testing.T) {
	counts := unpacker.NewChannelCounts()
	counts.Increment(1, 2)

	output := FormatCounts(counts.Snapshot(), nil)
	require.Contains(t, output, "detector")
	require.Contains(t, output, "-")
}
