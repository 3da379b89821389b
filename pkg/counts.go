package unpacker

import (
	"sort"

	"golang.org/x/exp/maps"
)

// BucketID addresses one axis of the counter table. Overflow buckets
// collect hits whose module or channel id is out of range, so malformed
// input is counted instead of silently dropped.
type BucketID struct {
	ID       uint16
	Overflow bool
}

// CounterKey addresses one cell of the (module, channel) counter table.
type CounterKey struct {
	Module  BucketID
	Channel BucketID
}

// ChannelCounts tallies admitted hits per (module, channel), plus one
// overflow bucket per axis.
type ChannelCounts struct {
	counts map[CounterKey]uint64
}

func NewChannelCounts() *ChannelCounts {
	return &ChannelCounts{counts: make(map[CounterKey]uint64)}
}

func (c *ChannelCounts) Increment(module uint16, channel uint16) {
	key := CounterKey{
		Module:  BucketID{ID: module},
		Channel: BucketID{ID: channel},
	}
	c.counts[key]++
}

// IncrementModuleOverflow counts a hit whose module id is out of range.
func (c *ChannelCounts) IncrementModuleOverflow(channel uint16) {
	key := CounterKey{
		Module:  BucketID{Overflow: true},
		Channel: BucketID{ID: channel},
	}
	c.counts[key]++
}

// IncrementChannelOverflow counts a hit whose channel id is out of range.
func (c *ChannelCounts) IncrementChannelOverflow(module uint16) {
	key := CounterKey{
		Module:  BucketID{ID: module},
		Channel: BucketID{Overflow: true},
	}
	c.counts[key]++
}

func (c *ChannelCounts) Get(key CounterKey) uint64 {
	return c.counts[key]
}

// Total returns the number of hits counted, overflow buckets included.
func (c *ChannelCounts) Total() uint64 {
	var total uint64
	for _, n := range c.counts {
		total += n
	}
	return total
}

// CountEntry is one row of a counter snapshot.
type CountEntry struct {
	Key   CounterKey
	Count uint64
}

func bucketOrder(b BucketID) int {
	// Overflow sorts after every real id.
	if b.Overflow {
		return int(MaxModule+MaxChannel) + 2
	}
	return int(b.ID)
}

// Snapshot returns the table rows ordered by module then channel, with
// overflow buckets last on each axis.
func (c *ChannelCounts) Snapshot() []CountEntry {
	keys := maps.Keys(c.counts)
	sort.Slice(keys, func(i, j int) bool {
		if bucketOrder(keys[i].Module) != bucketOrder(keys[j].Module) {
			return bucketOrder(keys[i].Module) < bucketOrder(keys[j].Module)
		}
		return bucketOrder(keys[i].Channel) < bucketOrder(keys[j].Channel)
	})

	entries := make([]CountEntry, len(keys))
	for i, key := range keys {
		entries[i] = CountEntry{Key: key, Count: c.counts[key]}
	}
	return entries
}
