package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLPAProtocol_FrozenBetweenIntervals(t *testing.T) {
	p, err := NewCLPAProtocol(2, 5, 20)
	require.NoError(t, err)

	g := NewAffinityGraph(0.9, 0.01)
	g.Observe([]Transaction{tx("a", "b")})
	accounts := makeAccounts("a", "b")
	current := Mapping{"a": 0, "b": 1}

	for _, epoch := range []int{0, 1, 2, 3, 4, 6, 7, 11} {
		res, err := p.Assign(accounts, current, g, NewHistoricalStats(2, 4), epoch)
		require.NoError(t, err)
		assert.Equal(t, current, res.Mapping, "epoch %d", epoch)
		assert.Empty(t, res.Migrated, "epoch %d", epoch)
	}
}

func TestCLPAProtocol_AdoptsWeightedMajorityLabel(t *testing.T) {
	p, err := NewCLPAProtocol(2, 5, 20)
	require.NoError(t, err)

	// a is bound to the shard-0 pair {b, c} far more strongly than to d.
	g := NewAffinityGraph(0.9, 0.01)
	g.Observe([]Transaction{tx("a", "b"), tx("a", "b"), tx("a", "c"), tx("a", "c"), tx("a", "d")})
	accounts := makeAccounts("a", "b", "c", "d")
	current := Mapping{"a": 1, "b": 0, "c": 0, "d": 1}

	res, err := p.Assign(accounts, current, g, NewHistoricalStats(2, 4), 5)
	require.NoError(t, err)
	assert.Equal(t, ShardID(0), res.Mapping["a"])
	assert.Contains(t, res.Migrated, AccountID("a"))
	assert.Greater(t, res.Cost, int64(0))
}

func TestCLPAProtocol_TieBreaksToLowestShard(t *testing.T) {
	p, err := NewCLPAProtocol(3, 1, 1)
	require.NoError(t, err)

	// a sees equal weight toward shard 2 (via b) and shard 1 (via c).
	g := NewAffinityGraph(0.9, 0.01)
	g.Observe([]Transaction{tx("a", "b"), tx("a", "c")})
	accounts := makeAccounts("a", "b", "c")
	current := Mapping{"a": 0, "b": 2, "c": 1}

	res, err := p.Assign(accounts, current, g, NewHistoricalStats(3, 4), 1)
	require.NoError(t, err)
	assert.Equal(t, ShardID(1), res.Mapping["a"])
}

func TestCLPAProtocol_EngineMigratesOnlyOnIntervalEpochs(t *testing.T) {
	cfg := smallConfig()
	cfg.Protocol = ProtocolCLPA
	cfg.CLPAInterval = 5
	cfg.SpikeEpoch = -1
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	records, err := engine.RunScenario()
	require.NoError(t, err)
	for _, rec := range records {
		if rec.Epoch == 0 || rec.Epoch%cfg.CLPAInterval != 0 {
			assert.Zero(t, rec.Migrated, "epoch %d must not migrate", rec.Epoch)
		}
	}
}

func TestCLPAProtocol_EmptyAccountsReturnsUnchanged(t *testing.T) {
	p, err := NewCLPAProtocol(2, 1, 5)
	require.NoError(t, err)
	current := Mapping{"a": 0}
	res, err := p.Assign(nil, current, NewAffinityGraph(0.5, 0.01), NewHistoricalStats(2, 4), 5)
	require.NoError(t, err)
	assert.Equal(t, current, res.Mapping)
	assert.Empty(t, res.Migrated)
}
