package unpacker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelCounts(t *testing.T) {
	t.Run("IncrementAndGet", func(t *testing.T) {
		counts := NewChannelCounts()
		counts.Increment(2, 7)
		counts.Increment(2, 7)
		counts.Increment(0, 0)

		key := CounterKey{Module: BucketID{ID: 2}, Channel: BucketID{ID: 7}}
		require.Equal(t, uint64(2), counts.Get(key))
		require.Equal(t, uint64(3), counts.Total())
	})

	t.Run("OverflowBuckets", func(t *testing.T) {
		counts := NewChannelCounts()
		counts.IncrementModuleOverflow(3)
		counts.IncrementChannelOverflow(1)

		moduleOvf := CounterKey{
			Module:  BucketID{Overflow: true},
			Channel: BucketID{ID: 3},
		}
		channelOvf := CounterKey{
			Module:  BucketID{ID: 1},
			Channel: BucketID{Overflow: true},
		}
		require.Equal(t, uint64(1), counts.Get(moduleOvf))
		require.Equal(t, uint64(1), counts.Get(channelOvf))

		// Overflow buckets never collide with real ids.
		real := CounterKey{Module: BucketID{ID: 1}, Channel: BucketID{ID: 3}}
		require.Zero(t, counts.Get(real))
	})

	t.Run("SnapshotOrder", func(t *testing.T) {
		counts := NewChannelCounts()
		counts.IncrementModuleOverflow(0)
		counts.Increment(4, 1)
		counts.Increment(0, 9)
		counts.Increment(0, 2)
		counts.IncrementChannelOverflow(0)

		entries := counts.Snapshot()
		require.Len(t, entries, 5)

		// Modules ascend with overflow last; channels likewise per module.
		require.Equal(t, BucketID{ID: 0}, entries[0].Key.Module)
		require.Equal(t, BucketID{ID: 2}, entries[0].Key.Channel)
		require.Equal(t, BucketID{ID: 9}, entries[1].Key.Channel)
		require.Equal(t, BucketID{Overflow: true}, entries[2].Key.Channel)
		require.Equal(t, BucketID{ID: 4}, entries[3].Key.Module)
		require.Equal(t, BucketID{Overflow: true}, entries[4].Key.Module)
	})
}

func TestAddHit(t *testing.T) {
	t.Run("Admitted", func(t *testing.T) {
		u := NewUnpacker(nil)
		require.True(t, u.AddHit(&XiaHit{Module: 3, Channel: 5, Timestamp: 10}))
		require.Equal(t, uint64(1), u.Admitted())
		require.Equal(t, 4, u.GetMaxModule())
		require.Equal(t, 1, u.Residual())

		key := CounterKey{Module: BucketID{ID: 3}, Channel: BucketID{ID: 5}}
		require.Equal(t, uint64(1), u.Counts().Get(key))
	})

	t.Run("ModuleOutOfRange", func(t *testing.T) {
		u := NewUnpacker(nil)
		require.False(t, u.AddHit(&XiaHit{Module: MaxModule + 5, Channel: 0}))
		require.Zero(t, u.Admitted())
		require.Zero(t, u.GetMaxModule())

		key := CounterKey{Module: BucketID{Overflow: true}, Channel: BucketID{ID: 0}}
		require.Equal(t, uint64(1), u.Counts().Get(key))
	})

	t.Run("ChannelOutOfRange", func(t *testing.T) {
		u := NewUnpacker(nil)
		require.False(t, u.AddHit(&XiaHit{Module: 0, Channel: MaxChannel + 1}))
		require.Zero(t, u.Admitted())

		key := CounterKey{Module: BucketID{ID: 0}, Channel: BucketID{Overflow: true}}
		require.Equal(t, uint64(1), u.Counts().Get(key))
	})
}
