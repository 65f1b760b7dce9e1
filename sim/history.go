package sim

// epochRing is a fixed-size time series indexed by epoch modulo the window
// length. Reads outside the retained window report absence instead of stale
// values from an earlier wraparound.
type epochRing struct {
	vals   []float64
	epochs []int
}

func newEpochRing(window int) *epochRing {
	ring := &epochRing{
		vals:   make([]float64, window),
		epochs: make([]int, window),
	}
	for i := range ring.epochs {
		ring.epochs[i] = -1
	}
	return ring
}

func (r *epochRing) put(epoch int, v float64) {
	i := epoch % len(r.vals)
	r.vals[i] = v
	r.epochs[i] = epoch
}

func (r *epochRing) get(epoch int) (float64, bool) {
	if epoch < 0 {
		return 0, false
	}
	i := epoch % len(r.vals)
	if r.epochs[i] != epoch {
		return 0, false
	}
	return r.vals[i], true
}

// HistoricalStats holds the bounded per-shard and per-account time series
// the reactive and predictive protocols read. Owned by the engine; protocols
// only read it.
type HistoricalStats struct {
	window    int
	numShards int

	shardLoad  []*epochRing // per shard: load units per epoch
	crossRatio *epochRing   // global cross-shard ratio per epoch
	crossCount *epochRing   // cross-shard transaction count per epoch
	imbalance  *epochRing   // max/min per-shard load ratio per epoch

	activity map[AccountID]*epochRing // weighted activity per account
}

// NewHistoricalStats creates empty series with the given sliding window.
func NewHistoricalStats(numShards, window int) *HistoricalStats {
	loads := make([]*epochRing, numShards)
	for i := range loads {
		loads[i] = newEpochRing(window)
	}
	return &HistoricalStats{
		window:     window,
		numShards:  numShards,
		shardLoad:  loads,
		crossRatio: newEpochRing(window),
		crossCount: newEpochRing(window),
		imbalance:  newEpochRing(window),
		activity:   make(map[AccountID]*epochRing),
	}
}

// RecordEpoch stores one epoch's measurements: the per-shard load vector,
// the epoch's cross-shard ratio and count, and each active account's
// weighted transaction volume.
func (h *HistoricalStats) RecordEpoch(epoch int, shardLoad []int, crossRatio float64, crossCount int, accountActivity map[AccountID]float64) {
	for shard, load := range shardLoad {
		h.shardLoad[shard].put(epoch, float64(load))
	}
	h.crossRatio.put(epoch, crossRatio)
	h.crossCount.put(epoch, float64(crossCount))
	h.imbalance.put(epoch, imbalanceOf(shardLoad))
	for id, v := range accountActivity {
		ring, ok := h.activity[id]
		if !ok {
			ring = newEpochRing(h.window)
			h.activity[id] = ring
		}
		ring.put(epoch, v)
	}
}

// ShardLoad returns shard's load at epoch, if still within the window.
func (h *HistoricalStats) ShardLoad(shard ShardID, epoch int) (float64, bool) {
	if int(shard) < 0 || int(shard) >= h.numShards {
		return 0, false
	}
	return h.shardLoad[shard].get(epoch)
}

// CrossRatio returns the global cross-shard ratio at epoch.
func (h *HistoricalStats) CrossRatio(epoch int) (float64, bool) {
	return h.crossRatio.get(epoch)
}

// CrossCount returns the cross-shard transaction count at epoch.
func (h *HistoricalStats) CrossCount(epoch int) (float64, bool) {
	return h.crossCount.get(epoch)
}

// Imbalance returns the max/min per-shard load ratio at epoch. Shards with
// zero load are ignored; a single loaded shard reports 1.
func (h *HistoricalStats) Imbalance(epoch int) (float64, bool) {
	return h.imbalance.get(epoch)
}

// Activity returns the account's weighted activity at epoch. Absent entries
// mean the account was idle that epoch.
func (h *HistoricalStats) Activity(id AccountID, epoch int) (float64, bool) {
	ring, ok := h.activity[id]
	if !ok {
		return 0, false
	}
	return ring.get(epoch)
}

// Window returns the configured sliding-window length in epochs.
func (h *HistoricalStats) Window() int {
	return h.window
}

func imbalanceOf(shardLoad []int) float64 {
	minLoad, maxLoad := 0, 0
	seen := false
	for _, load := range shardLoad {
		if load == 0 {
			continue
		}
		if !seen || load < minLoad {
			minLoad = load
		}
		if !seen || load > maxLoad {
			maxLoad = load
		}
		seen = true
	}
	if !seen || minLoad == 0 {
		return 1
	}
	return float64(maxLoad) / float64(minLoad)
}
