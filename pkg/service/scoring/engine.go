package scoring

import (
	"slices"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/model/policy"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// Engine converts canonical attributes into framework sub-scores, a weighted
// total and a risk tier. It is stateless apart from its immutable policy and
// safe for concurrent use.
type Engine struct {
	policy *policy.Policy
}

// New creates an engine for p. A nil policy selects policy.Default().
func New(p *policy.Policy) *Engine {
	if p == nil {
		p = policy.Default()
	}
	return &Engine{policy: p}
}

// Policy returns the policy the engine scores with
func (e *Engine) Policy() *policy.Policy {
	return e.policy
}

// Score evaluates attrs against every framework table. Identical attributes
// always produce identical results.
func (e *Engine) Score(attrs model.Attributes) model.ScoreResult {
	var scores model.FrameworkScores
	for _, f := range types.AllFrameworks() {
		scores = scores.With(f, e.frameworkScore(f, attrs))
	}

	total := e.Total(scores)
	return model.ScoreResult{
		Scores:        scores,
		Total:         total,
		Tier:          types.RiskTierOf(total),
		PolicyVersion: e.policy.Version(),
	}
}

// Total blends sub-scores with the policy weights, rounding half up. The
// arithmetic is exact: weights are integral basis points.
func (e *Engine) Total(scores model.FrameworkScores) int {
	weighted := 0
	for _, f := range types.AllFrameworks() {
		weighted += scores.Of(f) * e.policy.WeightBasisPoints(f)
	}
	return (weighted + policy.BasisPoints/2) / policy.BasisPoints
}

func (e *Engine) frameworkScore(f types.Framework, attrs model.Attributes) int {
	sum := 0
	for _, rule := range e.policy.Rules(f) {
		if slices.Contains(attrs.Values(rule.Attribute), rule.Value) {
			sum += rule.Points
		}
	}
	return clip(sum)
}

func clip(v int) int {
	return min(max(v, 0), 100)
}
