package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRecords(t *testing.T, cfg Config) []EpochRecord {
	t.Helper()
	eng, err := NewEngine(cfg)
	require.NoError(t, err)
	records, err := eng.RunScenario()
	require.NoError(t, err)
	require.Len(t, records, cfg.NumEpochs)
	return records
}

func TestEngine_SameSeedSameRecords(t *testing.T) {
	for _, protocol := range Protocols() {
		t.Run(protocol, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Protocol = protocol
			first := runRecords(t, cfg)
			second := runRecords(t, cfg)
			require.Equal(t, first, second)
		})
	}
}

func TestEngine_DifferentSeedsDiverge(t *testing.T) {
	cfg := smallConfig()
	a := runRecords(t, cfg)
	cfg.Seed = cfg.Seed + 1
	b := runRecords(t, cfg)
	assert.NotEqual(t, a, b)
}

func TestEngine_EveryTxAccountedPerEpoch(t *testing.T) {
	cfg := smallConfig()
	for _, rec := range runRecords(t, cfg) {
		want := cfg.TxPerEpoch
		if rec.Epoch == cfg.SpikeEpoch {
			want += cfg.SpikeTxCount
		}
		assert.Equal(t, want, rec.TotalTx, "epoch %d", rec.Epoch)
		assert.LessOrEqual(t, rec.CrossTx, rec.TotalTx)

		endpoints := 0
		for _, load := range rec.ShardLoad {
			endpoints += load
		}
		assert.Equal(t, 2*rec.TotalTx, endpoints, "each tx touches two shard-load slots")
	}
}

func TestEngine_CancelledContextStopsCleanly(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngine(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records, err := eng.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEngine_NotRestartable(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngine(cfg)
	require.NoError(t, err)
	_, err = eng.RunScenario()
	require.NoError(t, err)

	_, err = eng.RunScenario()
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
}

// omittingProtocol drops one account from the returned mapping, violating
// the completeness contract.
type omittingProtocol struct{}

func (omittingProtocol) Name() string { return "omitting" }

func (omittingProtocol) Assign(accounts []*Account, current Mapping, _ *AffinityGraph, _ *HistoricalStats, _ int) (AssignResult, error) {
	next := current.Clone()
	if len(accounts) > 0 {
		delete(next, accounts[0].ID)
	}
	return AssignResult{Mapping: next}, nil
}

func TestEngine_AbortsOnIncompleteMapping(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngineWithProtocol(cfg, omittingProtocol{})
	require.NoError(t, err)

	_, err = eng.Run(context.Background())
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "omitting", ie.Protocol)
	assert.Equal(t, 0, ie.Epoch)
}

// wildProtocol maps every account to a shard that does not exist.
type wildProtocol struct{ shards int }

func (wildProtocol) Name() string { return "wild" }

func (p wildProtocol) Assign(accounts []*Account, current Mapping, _ *AffinityGraph, _ *HistoricalStats, _ int) (AssignResult, error) {
	next := current.Clone()
	for _, acct := range accounts {
		next[acct.ID] = ShardID(p.shards)
	}
	return AssignResult{Mapping: next}, nil
}

func TestEngine_AbortsOnOutOfRangeShard(t *testing.T) {
	cfg := smallConfig()
	eng, err := NewEngineWithProtocol(cfg, wildProtocol{shards: cfg.NumShards})
	require.NoError(t, err)

	_, err = eng.Run(context.Background())
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, ie.Error(), "out-of-range")
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.NumShards = 0
	_, err := NewEngine(cfg)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}
