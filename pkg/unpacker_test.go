package unpacker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadSpillStructural(t *testing.T) {
	t.Run("NilBuffer", func(t *testing.T) {
		u := NewUnpacker(nil)
		require.False(t, u.ReadSpill(nil))
		require.Zero(t, u.Admitted())
		require.Zero(t, u.GetMaxModule())
	})

	t.Run("EmptyBuffer", func(t *testing.T) {
		u := NewUnpacker(nil)
		require.False(t, u.ReadSpill([]uint32{}))
		require.Zero(t, u.Admitted())
	})

	t.Run("OverWordLimit", func(t *testing.T) {
		u := NewUnpacker(nil)
		u.SetMaxWords(8)
		words := simpleSpill([3]uint64{0, 0, 10}, [3]uint64{1, 0, 20})
		require.Greater(t, len(words), 8)
		require.False(t, u.ReadSpill(words))
		require.Zero(t, u.Admitted())
	})

	t.Run("WithinLimitAccepted", func(t *testing.T) {
		u := NewUnpacker(nil)
		u.SetMaxWords(64)
		require.True(t, u.ReadSpill(simpleSpill([3]uint64{0, 0, 10})))
		require.Equal(t, uint64(1), u.Admitted())
	})
}

func TestReadSpillScenarios(t *testing.T) {
	t.Run("CoincidenceGroups", func(t *testing.T) {
		// width 100, hits at 0 (mod 0), 50 (mod 1), 200 (mod 0):
		// group [0, 50] closes within the spill, [200] on flush.
		sink := &collector{}
		u := NewUnpacker(sink)
		u.SetEventWidth(100)

		words := simpleSpill(
			[3]uint64{0, 0, 0},
			[3]uint64{1, 0, 50},
			[3]uint64{0, 1, 200},
		)
		require.True(t, u.ReadSpill(words))
		require.Equal(t, [][]uint64{{0, 50}}, sink.groups)
		require.Equal(t, 1, u.Residual())

		u.Flush()
		require.Equal(t, [][]uint64{{0, 50}, {200}}, sink.groups)
		require.Zero(t, u.Residual())
		require.Equal(t, u.Admitted(), u.Retired())
	})

	t.Run("OutOfRangeModuleNeverGrouped", func(t *testing.T) {
		sink := &collector{}
		u := NewUnpacker(sink)
		u.SetEventWidth(100)

		words := simpleSpill(
			[3]uint64{0, 0, 10},
			[3]uint64{MaxModule + 5, 0, 20},
		)
		require.True(t, u.ReadSpill(words))
		u.Flush()

		key := CounterKey{Module: BucketID{Overflow: true}, Channel: BucketID{ID: 0}}
		require.Equal(t, uint64(1), u.Counts().Get(key))
		require.Equal(t, uint64(1), u.Admitted())
		for _, hit := range sink.hits {
			require.LessOrEqual(t, hit.Module, uint16(MaxModule))
		}
	})

	t.Run("GroupSpansTwoSpills", func(t *testing.T) {
		sink := &collector{}
		u := NewUnpacker(sink)
		u.SetEventWidth(100)

		// Spill 1 closes [0, 50] and leaves 1000 as residue.
		require.True(t, u.ReadSpill(simpleSpill(
			[3]uint64{0, 0, 0},
			[3]uint64{1, 0, 50},
			[3]uint64{0, 0, 1000},
		)))
		require.Equal(t, [][]uint64{{0, 50}}, sink.groups)
		require.Equal(t, 1, u.Residual())

		// Spill 2 brings the partner at 1050; 5000 pushes the window shut.
		require.True(t, u.ReadSpill(simpleSpill(
			[3]uint64{1, 0, 1050},
			[3]uint64{2, 0, 5000},
		)))
		require.Equal(t, [][]uint64{{0, 50}, {1000, 1050}}, sink.groups)

		u.Flush()
		require.Equal(t, [][]uint64{{0, 50}, {1000, 1050}, {5000}}, sink.groups)
	})

	t.Run("Reconciliation", func(t *testing.T) {
		u := NewUnpacker(nil)
		u.SetEventWidth(10)
		require.True(t, u.ReadSpill(simpleSpill(
			[3]uint64{0, 0, 5},
			[3]uint64{1, 1, 500},
			[3]uint64{2, 2, 900},
		)))
		require.Equal(t, u.Admitted(), u.Retired()+uint64(u.Residual()))

		u.Flush()
		require.Equal(t, u.Admitted(), u.Retired())
		require.Zero(t, u.Residual())
	})

	t.Run("WidthMutableBetweenSpills", func(t *testing.T) {
		sink := &collector{}
		u := NewUnpacker(sink)
		u.SetEventWidth(10)
		require.True(t, u.ReadSpill(simpleSpill([3]uint64{0, 0, 0}, [3]uint64{0, 0, 100})))
		u.Flush()
		require.Equal(t, [][]uint64{{0}, {100}}, sink.groups)

		require.Equal(t, uint32(200), u.SetEventWidth(200))
		require.True(t, u.ReadSpill(simpleSpill([3]uint64{0, 0, 1000}, [3]uint64{0, 0, 1100})))
		u.Flush()
		require.Equal(t, [][]uint64{{0}, {100}, {1000, 1100}}, sink.groups)
	})
}

func TestReadSpillDecodeErrors(t *testing.T) {
	corruptHit := func() []uint32 {
		words := encodeHit(hitSpec{channel: 1, ts: 10})
		words[0] &^= uint32(0x1F) << 12 // header length 0
		return words
	}

	t.Run("ResyncAtNextBuffer", func(t *testing.T) {
		u := NewUnpacker(nil)
		words := spill(
			moduleBuffer(0, corruptHit()),
			moduleBuffer(1, encodeHit(hitSpec{channel: 0, ts: 20})),
		)
		require.True(t, u.ReadSpill(words))
		require.Equal(t, uint64(1), u.Admitted())
	})

	t.Run("StopOnDecodeError", func(t *testing.T) {
		u := NewUnpacker(nil)
		u.StopOnDecodeError(true)
		words := spill(
			moduleBuffer(0, corruptHit()),
			moduleBuffer(1, encodeHit(hitSpec{channel: 0, ts: 20})),
		)
		require.True(t, u.ReadSpill(words))
		require.Zero(t, u.Admitted())
	})

	t.Run("GoodHitsInBadBufferKept", func(t *testing.T) {
		u := NewUnpacker(nil)
		words := spill(
			moduleBuffer(0, encodeHit(hitSpec{channel: 3, ts: 5}), corruptHit()),
		)
		require.True(t, u.ReadSpill(words))
		require.Equal(t, uint64(1), u.Admitted())
	})

	t.Run("CorruptFramingStopsDecode", func(t *testing.T) {
		u := NewUnpacker(nil)
		good := moduleBuffer(0, encodeHit(hitSpec{channel: 0, ts: 5}))
		words := append(good, 9999, 0) // declared length overruns the spill
		require.True(t, u.ReadSpill(words))
		require.Equal(t, uint64(1), u.Admitted())
	})
}

func TestClose(t *testing.T) {
	t.Run("FreesResidue", func(t *testing.T) {
		u := NewUnpacker(nil)
		require.True(t, u.ReadSpill(simpleSpill([3]uint64{0, 0, 10}, [3]uint64{1, 0, 20})))
		require.NotZero(t, u.Residual())

		u.Close(false)
		require.Zero(t, u.Residual())
		require.Zero(t, u.GetMaxModule())
	})

	t.Run("Idempotent", func(t *testing.T) {
		u := NewUnpacker(nil)
		u.ReadSpill(simpleSpill([3]uint64{0, 0, 10}))
		u.Close(false)
		u.Close(false)
		require.Zero(t, u.Residual())
	})

	t.Run("CountsHandedToSink", func(t *testing.T) {
		u := NewUnpacker(nil)
		sink := &countsCapture{}
		u.SetCountsSink(sink)
		u.ReadSpill(simpleSpill([3]uint64{0, 0, 10}, [3]uint64{0, 0, 20}))

		u.Close(true)
		require.Len(t, sink.entries, 1)
		require.Equal(t, uint64(2), sink.entries[0].Count)
	})
}

type countsCapture struct {
	entries []CountEntry
}

func (c *countsCapture) WriteCounts(entries []CountEntry) error {
	c.entries = append([]CountEntry(nil), entries...)
	return nil
}
