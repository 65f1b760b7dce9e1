package sim

import "sort"

// Composite risk weights, historical / predictive / semantic. The three
// signals are normalized to [0, 1] before weighting.
const (
	riskWeightHistorical = 0.2
	riskWeightPredictive = 0.5
	riskWeightSemantic   = 0.3
)

// ProShardProtocol is the proactive variant: it re-scores every account
// every epoch and relocates the ones projected to become hot before the
// congestion materializes. Three signals feed the composite risk score:
//
//   - predictive: an exponential moving average of each account's weighted
//     activity, extrapolated over the prediction horizon;
//   - semantic: mint-target accounts are flagged while a scheduled spike
//     lies within the horizon, and their predicted activity absorbs the
//     announced burst intensity;
//   - historical: current incident affinity in the interaction graph.
//
// Flagged mint-target accounts are co-located on the shard holding the most
// active accounts, since an announced mint draws senders from the whole
// universe; other at-risk accounts move to the shard that balances
// projected load, preferring shards that already hold their strongest
// affinity partners. Per-decision cost stays a lightweight scoring pass,
// which is what justifies the every-epoch cadence over the reactive
// protocols' full repartitions.
type ProShardProtocol struct {
	numShards     int
	horizon       int
	decay         float64
	riskThreshold float64

	spikeEpoch     int
	spikeIntensity float64

	ewma map[AccountID]float64
}

// NewProShardProtocol creates the proactive predictive protocol.
func NewProShardProtocol(cfg *Config) (*ProShardProtocol, error) {
	if cfg.NumShards < 1 {
		return nil, configErrorf("num_shards", "must be >= 1, got %d", cfg.NumShards)
	}
	if cfg.PredictionHorizon < 1 {
		return nil, configErrorf("prediction_horizon", "must be >= 1, got %d", cfg.PredictionHorizon)
	}
	if cfg.ActivityDecay <= 0 || cfg.ActivityDecay > 1 {
		return nil, configErrorf("activity_decay", "must be in (0, 1], got %g", cfg.ActivityDecay)
	}
	if cfg.RiskThreshold < 0 {
		return nil, configErrorf("risk_threshold", "must be >= 0, got %g", cfg.RiskThreshold)
	}
	p := &ProShardProtocol{
		numShards:     cfg.NumShards,
		horizon:       cfg.PredictionHorizon,
		decay:         cfg.ActivityDecay,
		riskThreshold: cfg.RiskThreshold,
		spikeEpoch:    cfg.SpikeEpoch,
		ewma:          make(map[AccountID]float64),
	}
	if cfg.SpikeEpoch >= 0 && cfg.HotAccounts > 0 {
		p.spikeIntensity = float64(cfg.SpikeTxCount) / float64(cfg.HotAccounts)
	}
	return p, nil
}

func (p *ProShardProtocol) Name() string { return "proshard" }

// Assign runs the scoring pass and relocates at-risk accounts.
func (p *ProShardProtocol) Assign(accounts []*Account, current Mapping, graph *AffinityGraph, stats *HistoricalStats, epoch int) (AssignResult, error) {
	if len(accounts) == 0 {
		return AssignResult{Mapping: current}, nil
	}

	sorted := make([]*Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	predicted, maxPred := p.predict(sorted, stats, epoch)
	cost := int64(len(sorted))

	maxAffinity := 0.0
	for _, acct := range sorted {
		if w := graph.TotalWeight(acct.ID); w > maxAffinity {
			maxAffinity = w
		}
	}

	semanticActive := p.semanticWindowOpen(epoch)
	var atRisk []*Account
	var cluster []*Account
	for _, acct := range sorted {
		semantic := 0.0
		if semanticActive && acct.Tag == TagMintTarget {
			semantic = 1.0
			cluster = append(cluster, acct)
		}
		risk := riskWeightSemantic * semantic
		if maxPred > 0 {
			risk += riskWeightPredictive * predicted[acct.ID] / maxPred
		}
		if maxAffinity > 0 {
			risk += riskWeightHistorical * graph.TotalWeight(acct.ID) / maxAffinity
		}
		if risk > p.riskThreshold && semantic == 0 {
			atRisk = append(atRisk, acct)
		}
	}

	// Highest predicted activity places first.
	sort.SliceStable(atRisk, func(i, j int) bool {
		pi, pj := predicted[atRisk[i].ID], predicted[atRisk[j].ID]
		if pi != pj {
			return pi > pj
		}
		return atRisk[i].ID < atRisk[j].ID
	})

	next := current.Clone()
	projected := p.projectedLoads(stats, epoch)

	if len(cluster) > 0 {
		target := p.busiestShardByMembership(sorted, cluster, current)
		for _, acct := range cluster {
			next[acct.ID] = target
			projected[target] += predicted[acct.ID]
		}
	}

	for _, acct := range atRisk {
		target := p.placeBalanced(acct.ID, next, graph, projected, &cost)
		next[acct.ID] = target
		projected[target] += predicted[acct.ID]
	}

	migrated := next.DiffFrom(current)
	return AssignResult{Mapping: next, Migrated: migrated, Cost: cost}, nil
}

// predict updates the EWMA of each account's weighted activity and returns
// the horizon projection. Flagged mint targets absorb the announced burst
// intensity, the oracle part of the proactive design.
func (p *ProShardProtocol) predict(accounts []*Account, stats *HistoricalStats, epoch int) (map[AccountID]float64, float64) {
	semanticActive := p.semanticWindowOpen(epoch)
	predicted := make(map[AccountID]float64, len(accounts))
	maxPred := 0.0
	for _, acct := range accounts {
		observed, _ := stats.Activity(acct.ID, epoch)
		ewma := p.decay*observed + (1-p.decay)*p.ewma[acct.ID]
		p.ewma[acct.ID] = ewma

		pred := ewma
		if semanticActive && acct.Tag == TagMintTarget {
			pred += p.spikeIntensity
		}
		predicted[acct.ID] = pred
		if pred > maxPred {
			maxPred = pred
		}
	}
	return predicted, maxPred
}

// semanticWindowOpen reports whether a scheduled spike lies within the
// prediction horizon (inclusive of the spike epoch itself).
func (p *ProShardProtocol) semanticWindowOpen(epoch int) bool {
	if p.spikeEpoch < 0 {
		return false
	}
	return epoch >= p.spikeEpoch-p.horizon && epoch <= p.spikeEpoch
}

// busiestShardByMembership returns the shard holding the most non-cluster
// accounts under the current mapping, lowest shard id on ties. An announced
// mint draws senders broadly, so the receivers sit where most senders live.
func (p *ProShardProtocol) busiestShardByMembership(accounts []*Account, cluster []*Account, current Mapping) ShardID {
	inCluster := make(map[AccountID]bool, len(cluster))
	for _, acct := range cluster {
		inCluster[acct.ID] = true
	}
	counts := make([]int, p.numShards)
	for _, acct := range accounts {
		if inCluster[acct.ID] {
			continue
		}
		if shard, ok := current[acct.ID]; ok {
			counts[shard]++
		}
	}
	best := 0
	for s := 1; s < p.numShards; s++ {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return ShardID(best)
}

// projectedLoads seeds the projection with the latest observed shard loads.
func (p *ProShardProtocol) projectedLoads(stats *HistoricalStats, epoch int) []float64 {
	loads := make([]float64, p.numShards)
	for s := range loads {
		if v, ok := stats.ShardLoad(ShardID(s), epoch); ok {
			loads[s] = v
		}
	}
	return loads
}

// placeBalanced picks the shard minimizing projected load discounted by the
// account's affinity toward accounts already placed there, lowest shard id
// on ties.
func (p *ProShardProtocol) placeBalanced(id AccountID, next Mapping, graph *AffinityGraph, projected []float64, cost *int64) ShardID {
	affinity := make([]float64, p.numShards)
	for _, nbr := range graph.Neighbors(id) {
		*cost++
		if shard, ok := next[nbr]; ok {
			affinity[shard] += graph.Weight(id, nbr)
		}
	}
	best := 0
	bestScore := projected[0] / (1 + affinity[0])
	for s := 1; s < p.numShards; s++ {
		score := projected[s] / (1 + affinity[s])
		if score < bestScore {
			best, bestScore = s, score
		}
	}
	return ShardID(best)
}
