package sim

// CLPAProtocol is the reactive community protocol: every interval epochs it
// runs weighted label propagation over the affinity graph, seeded from the
// current mapping. Each account adopts the weighted-majority shard label
// among its neighbors, ties broken by the lowest shard id, until labels
// stabilize or maxIters passes complete. Between re-runs the mapping is
// frozen.
type CLPAProtocol struct {
	numShards int
	interval  int
	maxIters  int
}

// NewCLPAProtocol creates the label-propagation protocol.
func NewCLPAProtocol(numShards, interval, maxIters int) (*CLPAProtocol, error) {
	if numShards < 1 {
		return nil, configErrorf("num_shards", "must be >= 1, got %d", numShards)
	}
	if interval < 1 {
		return nil, configErrorf("clpa_interval", "must be >= 1, got %d", interval)
	}
	if maxIters < 1 {
		return nil, configErrorf("clpa_max_iters", "must be >= 1, got %d", maxIters)
	}
	return &CLPAProtocol{numShards: numShards, interval: interval, maxIters: maxIters}, nil
}

func (p *CLPAProtocol) Name() string { return "clpa" }

// Assign re-labels the graph on interval epochs and freezes the mapping
// otherwise. Epoch 0 is skipped: the graph holds no settled history yet.
func (p *CLPAProtocol) Assign(accounts []*Account, current Mapping, graph *AffinityGraph, stats *HistoricalStats, epoch int) (AssignResult, error) {
	if len(accounts) == 0 {
		return AssignResult{Mapping: current}, nil
	}
	if epoch == 0 || epoch%p.interval != 0 {
		return AssignResult{Mapping: current}, nil
	}

	labels := current.Clone()
	ids := graph.Accounts()
	var cost int64

	for iter := 0; iter < p.maxIters; iter++ {
		changed := false
		for _, id := range ids {
			best, ok := p.majorityLabel(id, labels, graph, &cost)
			if !ok {
				continue
			}
			if labels[id] != best {
				labels[id] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	migrated := labels.DiffFrom(current)
	return AssignResult{Mapping: labels, Migrated: migrated, Cost: cost}, nil
}

// majorityLabel returns the shard whose incident edge weight to id is
// largest, lowest shard id on ties. ok is false for isolated accounts.
func (p *CLPAProtocol) majorityLabel(id AccountID, labels Mapping, graph *AffinityGraph, cost *int64) (ShardID, bool) {
	votes := make([]float64, p.numShards)
	seen := false
	for _, nbr := range graph.Neighbors(id) {
		*cost++
		shard, ok := labels[nbr]
		if !ok {
			continue
		}
		votes[shard] += graph.Weight(id, nbr)
		seen = true
	}
	if !seen {
		return 0, false
	}
	best := ShardID(0)
	for s := 1; s < p.numShards; s++ {
		if votes[s] > votes[best] {
			best = ShardID(s)
		}
	}
	return best, true
}
