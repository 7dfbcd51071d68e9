// Package policy holds the versioned point tables and framework weights used
// by the scoring engine. A Policy is immutable once built.
package policy

import (
	"math"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// BasisPoints is the fixed-point scale of framework weights; weights of a
// valid policy sum to exactly this value.
const BasisPoints = 10000

// weightSumTolerance absorbs float error when fractional weights sum to 1
const weightSumTolerance = 1e-9

// Sentinel errors for policy validation
var (
	ErrInvalidPolicy = goerr.New("invalid scoring policy")
	ErrInvalidRule   = goerr.New("invalid scoring rule")
	ErrInvalidWeight = goerr.New("invalid framework weight")
)

// Context keys for error values
const (
	FrameworkKey = "framework"
	AttributeKey = "attribute"
	ValueKey     = "value"
	WeightKey    = "weight"
)

// Rule adds Points to a framework sub-score when Attribute has Value
type Rule struct {
	Attribute string
	Value     string
	Points    int
}

// Policy is a versioned set of point tables, one per framework, plus the
// weights that blend sub-scores into a total.
type Policy struct {
	version string
	rules   map[types.Framework][]Rule
	weights map[types.Framework]int
}

// Weights maps each framework to its fractional weight. Fractions are
// converted to basis points and must sum to 1.
type Weights map[types.Framework]float64

// EqualWeights gives every framework the same share
func EqualWeights() Weights {
	w := Weights{}
	for _, f := range types.AllFrameworks() {
		w[f] = 1.0 / float64(len(types.AllFrameworks()))
	}
	return w
}

// New validates and builds a Policy. Every framework must have a weight and
// the rule tables may only reference scorable attributes and values in their
// domain. The inputs are copied.
func New(version string, rules map[types.Framework][]Rule, weights Weights) (*Policy, error) {
	if version == "" {
		return nil, goerr.Wrap(ErrInvalidPolicy, "policy version is required")
	}

	p := &Policy{
		version: version,
		rules:   make(map[types.Framework][]Rule, len(types.AllFrameworks())),
		weights: make(map[types.Framework]int, len(types.AllFrameworks())),
	}

	for f := range rules {
		if !f.IsValid() {
			return nil, goerr.Wrap(ErrInvalidRule, "unknown framework", goerr.V(FrameworkKey, f))
		}
	}
	for f := range weights {
		if !f.IsValid() {
			return nil, goerr.Wrap(ErrInvalidWeight, "unknown framework", goerr.V(FrameworkKey, f))
		}
	}

	total := 0
	sum := 0.0
	var largest types.Framework
	for _, f := range types.AllFrameworks() {
		for _, r := range rules[f] {
			if err := r.validate(); err != nil {
				return nil, goerr.Wrap(err, "invalid rule", goerr.V(FrameworkKey, f))
			}
		}
		p.rules[f] = slices.Clone(rules[f])

		w, ok := weights[f]
		if !ok {
			return nil, goerr.Wrap(ErrInvalidWeight, "weight is required", goerr.V(FrameworkKey, f))
		}
		if w < 0 || w > 1 || math.IsNaN(w) {
			return nil, goerr.Wrap(ErrInvalidWeight, "weight must be between 0 and 1",
				goerr.V(FrameworkKey, f), goerr.V(WeightKey, w))
		}
		bp := int(math.Round(w * BasisPoints))
		p.weights[f] = bp
		total += bp
		sum += w
		if largest == "" || w > weights[largest] {
			largest = f
		}
	}

	if total != BasisPoints {
		// Fractions such as thirds sum to 1 but lose basis points to
		// rounding; the largest weight absorbs the remainder.
		if math.Abs(sum-1) > weightSumTolerance {
			return nil, goerr.Wrap(ErrInvalidWeight, "weights must sum to 1", goerr.V("sum", sum))
		}
		p.weights[largest] += BasisPoints - total
	}

	return p, nil
}

func (r Rule) validate() error {
	domain, ok := model.AttributeDomain(r.Attribute)
	if !ok {
		return goerr.Wrap(ErrInvalidRule, "attribute is not scorable", goerr.V(AttributeKey, r.Attribute))
	}
	if !slices.Contains(domain, r.Value) {
		return goerr.Wrap(ErrInvalidRule, "value is outside the attribute domain",
			goerr.V(AttributeKey, r.Attribute),
			goerr.V(ValueKey, r.Value),
			goerr.V("domain", domain))
	}
	if r.Points < -100 || r.Points > 100 {
		return goerr.Wrap(ErrInvalidRule, "points must be between -100 and 100",
			goerr.V(AttributeKey, r.Attribute), goerr.V("points", r.Points))
	}
	return nil
}

// Version returns the policy version recorded on every breakdown
func (p *Policy) Version() string {
	return p.version
}

// Rules returns a copy of the point table of f
func (p *Policy) Rules(f types.Framework) []Rule {
	return slices.Clone(p.rules[f])
}

// WeightBasisPoints returns the weight of f in basis points
func (p *Policy) WeightBasisPoints(f types.Framework) int {
	return p.weights[f]
}

// Weight returns the weight of f as a fraction
func (p *Policy) Weight(f types.Framework) float64 {
	return float64(p.weights[f]) / BasisPoints
}
