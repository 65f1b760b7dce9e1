package sim

import "sort"

// AffinityGraph is an undirected weighted graph over accounts. An edge
// weight is the recency-decayed count of transactions between the two
// endpoints within the sliding window: Decay multiplies every weight by the
// configured factor before the epoch's transactions are observed, so recent
// affinity dominates and the graph stays bounded.
//
// Iteration order over accounts and neighbors is always sorted, so every
// consumer of the graph is deterministic.
type AffinityGraph struct {
	decay   float64
	epsilon float64
	adj     map[AccountID]map[AccountID]float64
}

// NewAffinityGraph creates an empty graph with the given decay factor and
// pruning threshold.
func NewAffinityGraph(decay, epsilon float64) *AffinityGraph {
	return &AffinityGraph{
		decay:   decay,
		epsilon: epsilon,
		adj:     make(map[AccountID]map[AccountID]float64),
	}
}

// Decay ages every edge by one epoch and prunes edges whose weight fell
// below epsilon, then drops accounts left without edges.
func (g *AffinityGraph) Decay() {
	for u, nbrs := range g.adj {
		for v, w := range nbrs {
			w *= g.decay
			if w < g.epsilon {
				delete(nbrs, v)
			} else {
				nbrs[v] = w
			}
		}
		if len(nbrs) == 0 {
			delete(g.adj, u)
		}
	}
}

// Observe adds one epoch's transactions: each transaction increments the
// weight of its (sender, receiver) edge by one.
func (g *AffinityGraph) Observe(txs []Transaction) {
	for i := range txs {
		g.addEdge(txs[i].From, txs[i].To, 1)
	}
}

func (g *AffinityGraph) addEdge(u, v AccountID, w float64) {
	if u == v {
		return
	}
	if g.adj[u] == nil {
		g.adj[u] = make(map[AccountID]float64)
	}
	if g.adj[v] == nil {
		g.adj[v] = make(map[AccountID]float64)
	}
	g.adj[u][v] += w
	g.adj[v][u] += w
}

// Weight returns the current weight of the (u, v) edge, zero if absent.
func (g *AffinityGraph) Weight(u, v AccountID) float64 {
	return g.adj[u][v]
}

// TotalWeight returns the summed weight of all edges incident to id.
func (g *AffinityGraph) TotalWeight(id AccountID) float64 {
	var total float64
	for _, w := range g.adj[id] {
		total += w
	}
	return total
}

// Accounts returns every account with at least one edge, sorted.
func (g *AffinityGraph) Accounts() []AccountID {
	ids := make([]AccountID, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Neighbors returns the accounts adjacent to id, sorted.
func (g *AffinityGraph) Neighbors(id AccountID) []AccountID {
	nbrs := make([]AccountID, 0, len(g.adj[id]))
	for v := range g.adj[id] {
		nbrs = append(nbrs, v)
	}
	sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
	return nbrs
}

// EdgeCount returns the number of undirected edges currently held.
func (g *AffinityGraph) EdgeCount() int {
	total := 0
	for _, nbrs := range g.adj {
		total += len(nbrs)
	}
	return total / 2
}

// Size returns the number of accounts with at least one edge.
func (g *AffinityGraph) Size() int {
	return len(g.adj)
}
