package keepalive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogramNoEventsAccruesToZeroBucket(t *testing.T) {
	t.Parallel()

	h := newHistogram(0)
	h.accrue(5000, 0, 0)

	reg, act := h.snapshot()
	require.Equal(t, []int64{5000}, reg)
	require.Equal(t, []int64{5000}, act)
}

func TestHistogramGrowsOnDemand(t *testing.T) {
	t.Parallel()

	h := newHistogram(0)
	h.accrue(1000, 0, 0)
	h.accrue(5000, 1, 1)

	reg, act := h.snapshot()
	require.Equal(t, []int64{1000, 4000}, reg)
	require.Equal(t, []int64{1000, 4000}, act)
}

func TestHistogramSnapshotPadsToLongerSeries(t *testing.T) {
	t.Parallel()

	h := newHistogram(0)
	// Registered count reaches 2 while active count never exceeds 1.
	h.accrue(1000, 0, 0)
	h.accrue(2000, 1, 1)
	h.accrue(3000, 2, 1)

	reg, act := h.snapshot()
	require.Len(t, reg, 3)
	require.Len(t, act, 3)
	require.Equal(t, int64(0), act[2])
}

func TestHistogramResetZeroesButKeepsLength(t *testing.T) {
	t.Parallel()

	h := newHistogram(0)
	h.accrue(1000, 0, 0)
	h.accrue(5000, 2, 2)

	h.reset(5000)
	reg, act := h.snapshot()
	require.Equal(t, []int64{0, 0, 0}, reg)
	require.Equal(t, []int64{0, 0, 0}, act)

	// A subsequent accrue at the same instant contributes nothing.
	h.accrue(5000, 2, 2)
	reg, act = h.snapshot()
	require.Equal(t, []int64{0, 0, 0}, reg)
	require.Equal(t, []int64{0, 0, 0}, act)
}

func TestHistogramAccrueIsIdempotentAtSameInstant(t *testing.T) {
	t.Parallel()

	h := newHistogram(0)
	h.accrue(1000, 0, 0)
	reg1, act1 := h.snapshot()
	h.accrue(1000, 0, 0)
	reg2, act2 := h.snapshot()
	require.Equal(t, reg1, reg2)
	require.Equal(t, act1, act2)
}
