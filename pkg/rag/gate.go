package rag

import "github.com/openkisan/kisanq/pkg/docstore"

// Default gate settings.
const (
	// DefaultThreshold is the minimum similarity for a passage to count
	// as relevant.
	DefaultThreshold float32 = 0.5

	// DefaultTopK is the maximum number of passages to ground on.
	DefaultTopK = 3
)

// Quality bands for retrieval similarity.
const (
	QualityHigh   = "High"
	QualityMedium = "Medium"
	QualityLow    = "Low"

	qualityHighCutoff   float32 = 0.60
	qualityMediumCutoff float32 = 0.45
)

// Passage is a retrieved chunk paired with its similarity to the query.
type Passage struct {
	Chunk docstore.Chunk
	Score float32
}

// Decision is the gate's routing verdict for one query.
type Decision struct {
	// UseLocal is true when at least one passage cleared the threshold.
	UseLocal bool

	// Passages holds the passages that cleared the threshold, best
	// first, at most TopK of them. Empty when UseLocal is false.
	Passages []Passage

	// BestScore is the highest similarity among the candidates, zero
	// when retrieval returned nothing.
	BestScore float32
}

// Gate decides whether retrieved passages are relevant enough to answer
// from the local corpus. Candidates below the threshold never reach the
// prompt, even when fewer than TopK cleared it.
type Gate struct {
	// Threshold is the minimum similarity, inclusive.
	Threshold float32

	// TopK caps how many passages ground the answer.
	TopK int
}

// NewGate creates a gate, substituting defaults for zero values.
func NewGate(threshold float32, topK int) Gate {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return Gate{Threshold: threshold, TopK: topK}
}

// Decide routes a query based on its retrieval candidates. Candidates
// must arrive sorted by score, best first, as the vector drivers return
// them.
func (g Gate) Decide(candidates []Passage) Decision {
	var decision Decision
	if len(candidates) == 0 {
		return decision
	}

	decision.BestScore = candidates[0].Score

	for _, candidate := range candidates {
		if candidate.Score < g.Threshold {
			break
		}
		decision.Passages = append(decision.Passages, candidate)
		if len(decision.Passages) == g.TopK {
			break
		}
	}

	decision.UseLocal = len(decision.Passages) > 0
	return decision
}

// Grade maps a similarity score to its quality band.
func Grade(score float32) string {
	switch {
	case score >= qualityHighCutoff:
		return QualityHigh
	case score >= qualityMediumCutoff:
		return QualityMedium
	default:
		return QualityLow
	}
}
