package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAccounts(ids ...AccountID) []*Account {
	accounts := make([]*Account, len(ids))
	for i, id := range ids {
		accounts[i] = &Account{ID: id, Tag: TagWallet}
	}
	return accounts
}

func TestNewStaticProtocol_RejectsBadShardCount(t *testing.T) {
	_, err := NewStaticProtocol(0)
	require.Error(t, err)
}

func TestStaticProtocol_AssignIsANoOp(t *testing.T) {
	p, err := NewStaticProtocol(4)
	require.NoError(t, err)

	accounts := makeAccounts("a", "b", "c")
	current := Mapping{"a": staticShard("a", 4), "b": staticShard("b", 4), "c": staticShard("c", 4)}

	for epoch := 0; epoch < 5; epoch++ {
		res, err := p.Assign(accounts, current, NewAffinityGraph(0.5, 0.01), NewHistoricalStats(4, 4), epoch)
		require.NoError(t, err)
		assert.Equal(t, current, res.Mapping, "epoch %d", epoch)
		assert.Empty(t, res.Migrated, "epoch %d", epoch)
	}
}

func TestStaticProtocol_EngineRunNeverMigrates(t *testing.T) {
	cfg := smallConfig()
	cfg.Protocol = ProtocolStatic
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	records, err := engine.RunScenario()
	require.NoError(t, err)
	require.Len(t, records, cfg.NumEpochs)
	for _, rec := range records {
		assert.Zero(t, rec.Migrated, "epoch %d", rec.Epoch)
	}
}

func TestStaticShard_InRangeAndStable(t *testing.T) {
	for i := 0; i < 200; i++ {
		id := accountIDFor(i)
		shard := staticShard(id, 7)
		assert.GreaterOrEqual(t, int(shard), 0)
		assert.Less(t, int(shard), 7)
		assert.Equal(t, shard, staticShard(id, 7))
	}
}
