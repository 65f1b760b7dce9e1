package sim

// StaticProtocol is the scalability baseline: every account lives on
// hash(id) mod numShards, fixed for the whole run. Because lazy account
// creation uses the same hash rule, the mapping the engine routes with is
// already the static assignment, so Assign is a no-op returning the current
// mapping unchanged and the migration set is always empty.
type StaticProtocol struct {
	numShards int
}

// NewStaticProtocol creates the static address-based protocol.
func NewStaticProtocol(numShards int) (*StaticProtocol, error) {
	if numShards < 1 {
		return nil, configErrorf("num_shards", "must be >= 1, got %d", numShards)
	}
	return &StaticProtocol{numShards: numShards}, nil
}

func (p *StaticProtocol) Name() string { return "static" }

// Assign returns the mapping unchanged. Every account's placement was fixed
// by the hash rule at first reference and is never revisited.
func (p *StaticProtocol) Assign(accounts []*Account, current Mapping, graph *AffinityGraph, stats *HistoricalStats, epoch int) (AssignResult, error) {
	return AssignResult{Mapping: current}, nil
}
