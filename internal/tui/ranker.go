package tui

import (
	"github.com/haruki/ats-backend/internal/matching"
	"github.com/haruki/ats-backend/internal/types"
)

// EngineRanker ranks an in-memory candidate pool with the matching engine.
// The pool is loaded once (from the database or an import file) and re-ranked
// per query.
type EngineRanker struct {
	engine     *matching.Engine
	candidates []map[string]any
}

// NewEngineRanker creates a ranker over the given candidate records.
func NewEngineRanker(engine *matching.Engine, candidates []map[string]any) *EngineRanker {
	return &EngineRanker{engine: engine, candidates: candidates}
}

// PoolSize reports how many candidates queries rank against.
func (r *EngineRanker) PoolSize() int { return len(r.candidates) }

// Rank scores every candidate against jobText and returns the top topK,
// best first. topK <= 0 returns the whole pool.
func (r *EngineRanker) Rank(jobText string, topK int) ([]types.RankedCandidate, error) {
	ranked := r.engine.RankCandidates(r.candidates, jobText)
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return types.DecodeRankedCandidates(ranked)
}
