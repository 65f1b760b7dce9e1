package sim

// AssignResult is what a protocol hands back to the engine after its
// once-per-epoch decision.
type AssignResult struct {
	// Mapping is the assignment in force from the next epoch on. It may be
	// the unchanged current mapping.
	Mapping Mapping
	// Migrated lists the accounts whose shard changed versus the current
	// mapping, sorted by id. Empty when nothing moved.
	Migrated []AccountID
	// Cost is a deterministic decision-latency proxy: the number of
	// accounts and edges the protocol examined to reach its decision.
	// Wall-clock time would break run reproducibility.
	Cost int64
}

// Protocol decides the account-to-shard assignment. Assign is called once
// per epoch, after routing; the mapping it returns takes effect at the next
// epoch. Implementations own their mapping and any state they carry between
// calls; the engine never mutates either.
//
// Contract shared by all variants: an empty accounts slice returns the
// unchanged mapping with no migrations and no error.
type Protocol interface {
	Name() string
	Assign(accounts []*Account, current Mapping, graph *AffinityGraph, stats *HistoricalStats, epoch int) (AssignResult, error)
}

// NewProtocol builds the protocol variant selected by cfg.Protocol. The
// config must already be validated; an out-of-range shard count still fails
// here so a protocol can never be constructed in an invalid universe.
func NewProtocol(cfg *Config) (Protocol, error) {
	if cfg.NumShards < 1 {
		return nil, configErrorf("num_shards", "must be >= 1, got %d", cfg.NumShards)
	}
	switch cfg.Protocol {
	case ProtocolStatic:
		return NewStaticProtocol(cfg.NumShards)
	case ProtocolCLPA:
		return NewCLPAProtocol(cfg.NumShards, cfg.CLPAInterval, cfg.CLPAMaxIters)
	case ProtocolDBSRP:
		return NewDBSRPProtocol(cfg.NumShards, cfg.ImbalanceThreshold, cfg.CongestionThreshold)
	case ProtocolProShard:
		return NewProShardProtocol(cfg)
	default:
		return nil, configErrorf("protocol", "unknown protocol variant %q", cfg.Protocol)
	}
}
