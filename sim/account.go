package sim

import (
	"fmt"
	"sort"
)

// AccountID is an opaque account key. Synthetic universes use sequential
// "acct_N" ids, but nothing in the engine or the protocols depends on that.
type AccountID string

// ShardID identifies a shard; valid values are [0, NumShards).
type ShardID int

// Semantic tags attached to accounts. ProShard's semantic scoring keys on
// TagMintTarget; the other two exist so baseline universes are not uniform.
const (
	TagWallet     = "wallet"
	TagContract   = "contract"
	TagMintTarget = "mint-target"
)

// Account is a participant in the simulated network. Accounts are created
// lazily on the first transaction that references them and persist for the
// run. Activity is an exponential moving average of the account's weighted
// transaction volume, updated by HistoricalStats every epoch it appears in.
type Account struct {
	ID       AccountID
	Tag      string
	Activity float64
}

// Transaction is a single transfer between two accounts. Immutable once
// generated; owned by the epoch batch that created it.
type Transaction struct {
	From   AccountID
	To     AccountID
	Epoch  int
	Weight float64 // value/gas proxy
	Kind   string  // TxBaseline or TxSpike
}

// Transaction kinds, inherited from the workload context that produced them.
const (
	TxBaseline = "baseline"
	TxSpike    = "spike"
)

func accountIDFor(n int) AccountID {
	return AccountID(fmt.Sprintf("acct_%d", n))
}

func sortAccounts(accounts []*Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
}

// Mapping assigns every known account to exactly one shard. It is owned by
// the active protocol; the engine reads it for routing and replaces it
// wholesale after Assign, never mutating entries in place.
type Mapping map[AccountID]ShardID

// Clone returns an independent copy of the mapping.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for id, shard := range m {
		out[id] = shard
	}
	return out
}

// DiffFrom returns the accounts whose assignment in m differs from prev,
// sorted by id. Accounts present only in m (newly created) do not count:
// a first placement is not a migration.
func (m Mapping) DiffFrom(prev Mapping) []AccountID {
	var moved []AccountID
	for id, shard := range m {
		if old, ok := prev[id]; ok && old != shard {
			moved = append(moved, id)
		}
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i] < moved[j] })
	return moved
}

// staticShard is the hash-based default placement shared by the static
// protocol and by lazy account creation.
func staticShard(id AccountID, numShards int) ShardID {
	h := uint64(fnv1a64(string(id)))
	return ShardID(h % uint64(numShards))
}

// tagFor derives the semantic tag of an account. Mint-target ids come from
// the configured hot cluster; the rest split into wallets and contracts by
// hash so predictive scoring has variety to work with.
func tagFor(id AccountID, hot map[AccountID]bool) string {
	if hot[id] {
		return TagMintTarget
	}
	if fnv1a64(string(id))%4 == 0 {
		return TagContract
	}
	return TagWallet
}
