package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// benchConfig is the compact reference experiment: a 4-shard, 100-account
// network running 50 epochs of 200 baseline transactions, with a 4000-tx
// mint burst at epoch 25 aimed at a 5-account cluster. DBSRP's imbalance
// trigger is parked out of reach so only the congestion count can fire,
// which the baseline load (at most 200 cross-shard tx) never does.
func benchConfig(protocol string) Config {
	cfg := DefaultConfig()
	cfg.Protocol = protocol
	cfg.NumShards = 4
	cfg.NumAccounts = 100
	cfg.NumEpochs = 50
	cfg.TxPerEpoch = 200
	cfg.SpikeEpoch = 25
	cfg.SpikeTxCount = 4000
	cfg.HotAccounts = 5
	cfg.ImbalanceThreshold = 1e9
	cfg.CongestionThreshold = 1000
	return cfg
}

func migratedBetween(recs []EpochRecord, lo, hi int) int {
	total := 0
	for _, rec := range recs {
		if rec.Epoch >= lo && rec.Epoch <= hi {
			total += rec.Migrated
		}
	}
	return total
}

func peakCrossBetween(recs []EpochRecord, lo, hi int) float64 {
	peak := 0.0
	for i := range recs {
		if recs[i].Epoch >= lo && recs[i].Epoch <= hi {
			if r := recs[i].CrossRatio(); r > peak {
				peak = r
			}
		}
	}
	return peak
}

func TestSpike_ProShardMigratesBeforeTheBurst(t *testing.T) {
	recs := runRecords(t, benchConfig(ProtocolProShard))
	assert.Positive(t, migratedBetween(recs, 23, 25),
		"proactive relocation inside the prediction window")
}

func TestSpike_DBSRPMigratesOnlyAfterTheBurst(t *testing.T) {
	recs := runRecords(t, benchConfig(ProtocolDBSRP))
	assert.Zero(t, migratedBetween(recs, 23, 25),
		"no trigger before the burst is observed")
	assert.Positive(t, migratedBetween(recs, 26, 28),
		"repartition once the burst shows up in settled stats")
}

func TestSpike_StaticNeverMigrates(t *testing.T) {
	recs := runRecords(t, benchConfig(ProtocolStatic))
	assert.Zero(t, migratedBetween(recs, 0, 49))
}

func TestSpike_ProShardPeakCrossAtMostReactive(t *testing.T) {
	proactive := runRecords(t, benchConfig(ProtocolProShard))
	reactive := runRecords(t, benchConfig(ProtocolDBSRP))
	assert.LessOrEqual(t,
		peakCrossBetween(proactive, 24, 26),
		peakCrossBetween(reactive, 24, 26),
		"pre-positioning the cluster should not lose to reacting after the fact")
}

func TestSpike_CLPAReducesCrossVersusStatic(t *testing.T) {
	cfg := benchConfig(ProtocolCLPA)
	clpa := NewAggregator(ProtocolCLPA, &cfg)
	clpa.IngestAll(runRecords(t, cfg))

	staticCfg := benchConfig(ProtocolStatic)
	static := NewAggregator(ProtocolStatic, &staticCfg)
	static.IngestAll(runRecords(t, staticCfg))

	assert.Less(t,
		clpa.Summarize().MeanCrossRatio,
		static.Summarize().MeanCrossRatio,
		"co-locating frequent partners should beat hash placement")
}

func meanCrossAtScale(t *testing.T, protocol string, numShards int) float64 {
	t.Helper()
	cfg := benchConfig(protocol)
	cfg.SpikeEpoch = -1
	cfg.NumEpochs = 20
	cfg.NumShards = numShards
	agg := NewAggregator(protocol, &cfg)
	agg.IngestAll(runRecords(t, cfg))
	return agg.Summarize().MeanCrossRatio
}

func TestScalability_CrossRatioGrowsWithShardCount(t *testing.T) {
	assert.Greater(t,
		meanCrossAtScale(t, ProtocolStatic, 64),
		meanCrossAtScale(t, ProtocolStatic, 4))
}

func TestScalability_GraphAwareDegradesNoFasterThanStatic(t *testing.T) {
	staticDelta := meanCrossAtScale(t, ProtocolStatic, 64) - meanCrossAtScale(t, ProtocolStatic, 4)
	clpaDelta := meanCrossAtScale(t, ProtocolCLPA, 64) - meanCrossAtScale(t, ProtocolCLPA, 4)
	assert.LessOrEqual(t, clpaDelta, staticDelta,
		"interaction-aware placement should not pay more for extra shards than hashing")
}

func TestScenarioPresets(t *testing.T) {
	for _, protocol := range Protocols() {
		steady := ScenarioSteadyState(protocol, 7)
		require.NoError(t, steady.Validate())
		assert.Negative(t, steady.SpikeEpoch)
		assert.Equal(t, int64(7), steady.Seed)

		spike := ScenarioSpike(protocol, 7)
		require.NoError(t, spike.Validate())
		assert.GreaterOrEqual(t, spike.SpikeEpoch, 0)

		assert.Equal(t, spike, ScenarioReconfiguration(protocol, 7))

		for _, shards := range ScalabilityShardCounts() {
			scale := ScenarioScalability(protocol, 7, shards)
			require.NoError(t, scale.Validate())
			assert.Equal(t, shards, scale.NumShards)
			assert.Negative(t, scale.SpikeEpoch)
		}
	}
}
