package pipeline

import (
	"invoicehs/internal"
	"invoicehs/internal/catalog"
	"invoicehs/internal/util"
)

// ConfidenceFloor is the score a match must exceed. It is calibrated against
// util.TokenSetRatio; changing the scorer means re-tuning this value.
const ConfidenceFloor = 70.0

// Scorer rates query against one catalog description in [0,100].
type Scorer func(query, candidate string) float64

type Matcher struct {
	index *catalog.Index
	score Scorer
}

func NewMatcher(cat *catalog.Catalog) *Matcher {
	return NewMatcherWithScorer(cat, util.TokenSetRatio)
}

func NewMatcherWithScorer(cat *catalog.Catalog, score Scorer) *Matcher {
	idx := &catalog.Index{}
	if cat != nil && cat.Index != nil {
		idx = cat.Index
	}
	return &Matcher{index: idx, score: score}
}

// Match scores query against every catalog description. The highest score
// wins, ties going to the earliest row; it is a match only above
// ConfidenceFloor. An empty catalog never matches.
func (m *Matcher) Match(query string) internal.MatchResult {
	best := internal.MatchResult{Status: internal.MatchNotFound, Index: -1, Row: -1}
	for i, desc := range m.index.Descriptions {
		score := m.score(query, desc)
		if best.Index < 0 || score > best.Score {
			best.Score = score
			best.Index = i
		}
	}

	if best.Index < 0 || best.Score <= ConfidenceFloor {
		return best
	}
	entry := m.index.Entries[best.Index]
	best.Status = internal.MatchFound
	best.Row = m.index.Row(best.Index)
	best.Entry = &entry
	return best
}
