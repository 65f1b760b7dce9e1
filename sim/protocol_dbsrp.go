package sim

import "sort"

// DBSRPProtocol models a state-of-the-art reactive repartitioner: it watches
// the per-shard load imbalance and the cross-shard traffic volume and runs a full
// rebalancing pass over the affinity graph only when a threshold is
// exceeded, not on a schedule. The monitor reads the most recent settled
// epoch (epoch-1), modeling the one-epoch lag of observing congestion before
// reacting to it; a spike at epoch E therefore triggers a repartition at
// E+1.
//
// The rebalancing pass is a greedy weighted balanced cut: accounts in
// descending order of incident affinity each join the shard they share the
// most edge weight with, subject to a capacity cap, falling back to the
// least-loaded shard.
type DBSRPProtocol struct {
	numShards           int
	imbalanceThreshold  float64
	congestionThreshold float64
}

// NewDBSRPProtocol creates the threshold-triggered reactive protocol.
func NewDBSRPProtocol(numShards int, imbalanceThreshold, congestionThreshold float64) (*DBSRPProtocol, error) {
	if numShards < 1 {
		return nil, configErrorf("num_shards", "must be >= 1, got %d", numShards)
	}
	if imbalanceThreshold < 1 {
		return nil, configErrorf("imbalance_threshold", "must be >= 1, got %g", imbalanceThreshold)
	}
	if congestionThreshold <= 0 {
		return nil, configErrorf("congestion_threshold", "must be > 0, got %g", congestionThreshold)
	}
	return &DBSRPProtocol{
		numShards:           numShards,
		imbalanceThreshold:  imbalanceThreshold,
		congestionThreshold: congestionThreshold,
	}, nil
}

func (p *DBSRPProtocol) Name() string { return "dbsrp-ml" }

// Assign repartitions only when the settled measurements exceed a threshold.
func (p *DBSRPProtocol) Assign(accounts []*Account, current Mapping, graph *AffinityGraph, stats *HistoricalStats, epoch int) (AssignResult, error) {
	if len(accounts) == 0 {
		return AssignResult{Mapping: current}, nil
	}
	if !p.triggered(stats, epoch) {
		return AssignResult{Mapping: current}, nil
	}

	next, cost := p.repartition(current, graph)
	migrated := next.DiffFrom(current)
	return AssignResult{Mapping: next, Migrated: migrated, Cost: cost}, nil
}

func (p *DBSRPProtocol) triggered(stats *HistoricalStats, epoch int) bool {
	settled := epoch - 1
	if imb, ok := stats.Imbalance(settled); ok && imb > p.imbalanceThreshold {
		return true
	}
	if count, ok := stats.CrossCount(settled); ok && count > p.congestionThreshold {
		return true
	}
	return false
}

// repartition runs the greedy weighted balanced cut over the graph. Accounts
// absent from the graph keep their current placement.
func (p *DBSRPProtocol) repartition(current Mapping, graph *AffinityGraph) (Mapping, int64) {
	ids := graph.Accounts()
	if len(ids) == 0 {
		return current, 0
	}

	// Heaviest accounts place first so hubs anchor their communities.
	sort.SliceStable(ids, func(i, j int) bool {
		wi, wj := graph.TotalWeight(ids[i]), graph.TotalWeight(ids[j])
		if wi != wj {
			return wi > wj
		}
		return ids[i] < ids[j]
	})

	capacity := len(ids)/p.numShards + 1
	next := current.Clone()
	sizes := make([]int, p.numShards)
	placed := make(map[AccountID]bool, len(ids))
	var cost int64

	for _, id := range ids {
		affinity := make([]float64, p.numShards)
		for _, nbr := range graph.Neighbors(id) {
			cost++
			if placed[nbr] {
				affinity[next[nbr]] += graph.Weight(id, nbr)
			}
		}

		best, bestScore := -1, 0.0
		for s := 0; s < p.numShards; s++ {
			if sizes[s] >= capacity {
				continue
			}
			if affinity[s] > bestScore {
				best, bestScore = s, affinity[s]
			}
		}
		if best < 0 {
			// No affinity under the cap: least-loaded shard, lowest id ties.
			best = 0
			for s := 1; s < p.numShards; s++ {
				if sizes[s] < sizes[best] {
					best = s
				}
			}
		}

		next[id] = ShardID(best)
		sizes[best]++
		placed[id] = true
	}

	return next, cost
}
