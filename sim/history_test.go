package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoricalStats_RecordAndRead(t *testing.T) {
	h := NewHistoricalStats(2, 4)
	h.RecordEpoch(0, []int{10, 30}, 0.25, 5, map[AccountID]float64{"a": 2.5})

	load, ok := h.ShardLoad(1, 0)
	require.True(t, ok)
	assert.Equal(t, 30.0, load)

	ratio, ok := h.CrossRatio(0)
	require.True(t, ok)
	assert.Equal(t, 0.25, ratio)

	count, ok := h.CrossCount(0)
	require.True(t, ok)
	assert.Equal(t, 5.0, count)

	imb, ok := h.Imbalance(0)
	require.True(t, ok)
	assert.Equal(t, 3.0, imb)

	act, ok := h.Activity("a", 0)
	require.True(t, ok)
	assert.Equal(t, 2.5, act)

	_, ok = h.Activity("b", 0)
	assert.False(t, ok, "idle account has no entry")
}

func TestHistoricalStats_WindowWraparoundEvictsOldEpochs(t *testing.T) {
	h := NewHistoricalStats(1, 3)
	for epoch := 0; epoch < 5; epoch++ {
		h.RecordEpoch(epoch, []int{epoch * 10}, 0, 0, nil)
	}

	// Epochs 0 and 1 fell out of the 3-epoch window; 2..4 remain.
	_, ok := h.ShardLoad(0, 0)
	assert.False(t, ok)
	_, ok = h.ShardLoad(0, 1)
	assert.False(t, ok)
	for epoch := 2; epoch < 5; epoch++ {
		load, ok := h.ShardLoad(0, epoch)
		require.True(t, ok, "epoch %d", epoch)
		assert.Equal(t, float64(epoch*10), load)
	}

	_, ok = h.ShardLoad(0, -1)
	assert.False(t, ok)
}

func TestImbalanceOf_IgnoresEmptyShards(t *testing.T) {
	assert.Equal(t, 1.0, imbalanceOf([]int{0, 0, 0}))
	assert.Equal(t, 1.0, imbalanceOf([]int{0, 7, 0}))
	assert.Equal(t, 4.0, imbalanceOf([]int{8, 0, 2}))
}
