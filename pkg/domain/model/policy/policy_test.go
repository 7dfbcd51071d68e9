package policy_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/model/policy"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

func TestDefault(t *testing.T) {
	p := policy.Default()
	gt.Value(t, p.Version()).Equal(policy.DefaultVersion)

	sum := 0
	for _, f := range types.AllFrameworks() {
		gt.A(t, p.Rules(f)).Longer(0)
		gt.Value(t, p.WeightBasisPoints(f)).Equal(2000)
		sum += p.WeightBasisPoints(f)
	}
	gt.Value(t, sum).Equal(policy.BasisPoints)
}

func TestPolicy_RulesAreCopied(t *testing.T) {
	rules := policy.DefaultRules()
	p, err := policy.New("test", rules, policy.EqualWeights())
	gt.NoError(t, err).Required()

	rules[types.FrameworkNIST][0].Points = 99
	gt.Value(t, p.Rules(types.FrameworkNIST)[0].Points).NotEqual(99)

	got := p.Rules(types.FrameworkNIST)
	got[0].Points = 77
	gt.Value(t, p.Rules(types.FrameworkNIST)[0].Points).NotEqual(77)
}

func TestNew_Errors(t *testing.T) {
	validRules := policy.DefaultRules()

	tests := []struct {
		name    string
		version string
		rules   map[types.Framework][]policy.Rule
		weights policy.Weights
		want    error
	}{
		{
			name:    "missing version",
			rules:   validRules,
			weights: policy.EqualWeights(),
			want:    policy.ErrInvalidPolicy,
		},
		{
			name:    "unknown attribute",
			version: "v",
			rules: map[types.Framework][]policy.Rule{
				types.FrameworkNIST: {{Attribute: "department", Value: "Finance", Points: 10}},
			},
			weights: policy.EqualWeights(),
			want:    policy.ErrInvalidRule,
		},
		{
			name:    "free text attribute",
			version: "v",
			rules: map[types.Framework][]policy.Rule{
				types.FrameworkSOX: {{Attribute: model.AttrBusinessImpact, Value: "finance", Points: 10}},
			},
			weights: policy.EqualWeights(),
			want:    policy.ErrInvalidRule,
		},
		{
			name:    "value outside domain",
			version: "v",
			rules: map[types.Framework][]policy.Rule{
				types.FrameworkSOC2: {{Attribute: model.AttrDataSensitivity, Value: "Secret", Points: 10}},
			},
			weights: policy.EqualWeights(),
			want:    policy.ErrInvalidRule,
		},
		{
			name:    "unknown framework",
			version: "v",
			rules: map[types.Framework][]policy.Rule{
				"iso27001": {{Attribute: model.AttrPIIInvolved, Value: "true", Points: 10}},
			},
			weights: policy.EqualWeights(),
			want:    policy.ErrInvalidRule,
		},
		{
			name:    "weights do not sum to one",
			version: "v",
			rules:   validRules,
			weights: policy.Weights{
				types.FrameworkNIST:    0.3,
				types.FrameworkSOC2:    0.3,
				types.FrameworkSOX:     0.2,
				types.FrameworkOWASP:   0.2,
				types.FrameworkMAESTRO: 0.2,
			},
			want: policy.ErrInvalidWeight,
		},
		{
			name:    "missing weight",
			version: "v",
			rules:   validRules,
			weights: policy.Weights{
				types.FrameworkNIST: 1.0,
			},
			want: policy.ErrInvalidWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.New(tt.version, tt.rules, tt.weights)
			gt.Error(t, err).Is(tt.want)
		})
	}
}

func TestNew_UnevenWeights(t *testing.T) {
	p, err := policy.New("uneven", policy.DefaultRules(), policy.Weights{
		types.FrameworkNIST:    0.3,
		types.FrameworkSOC2:    0.25,
		types.FrameworkSOX:     0.15,
		types.FrameworkOWASP:   0.2,
		types.FrameworkMAESTRO: 0.1,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, p.WeightBasisPoints(types.FrameworkNIST)).Equal(3000)
	gt.Value(t, p.Weight(types.FrameworkMAESTRO)).Equal(0.1)
}

func TestNew_RoundingRemainder(t *testing.T) {
	tests := []struct {
		name    string
		weights policy.Weights
		want    map[types.Framework]int
	}{
		{
			name: "thirds",
			weights: policy.Weights{
				types.FrameworkNIST:    1.0 / 3,
				types.FrameworkSOC2:    1.0 / 3,
				types.FrameworkSOX:     1.0 / 3,
				types.FrameworkOWASP:   0,
				types.FrameworkMAESTRO: 0,
			},
			// ties go to the first framework in the fixed order
			want: map[types.Framework]int{
				types.FrameworkNIST:    3334,
				types.FrameworkSOC2:    3333,
				types.FrameworkSOX:     3333,
				types.FrameworkOWASP:   0,
				types.FrameworkMAESTRO: 0,
			},
		},
		{
			name: "sevenths",
			weights: policy.Weights{
				types.FrameworkNIST:    1.0 / 7,
				types.FrameworkSOC2:    3.0 / 7,
				types.FrameworkSOX:     1.0 / 7,
				types.FrameworkOWASP:   1.0 / 7,
				types.FrameworkMAESTRO: 1.0 / 7,
			},
			want: map[types.Framework]int{
				types.FrameworkNIST:    1429,
				types.FrameworkSOC2:    4284,
				types.FrameworkSOX:     1429,
				types.FrameworkOWASP:   1429,
				types.FrameworkMAESTRO: 1429,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := policy.New("fractions", policy.DefaultRules(), tt.weights)
			gt.NoError(t, err).Required()

			sum := 0
			for _, f := range types.AllFrameworks() {
				gt.Value(t, p.WeightBasisPoints(f)).Equal(tt.want[f])
				sum += p.WeightBasisPoints(f)
			}
			gt.Value(t, sum).Equal(policy.BasisPoints)
		})
	}

	t.Run("fractions that do not sum to 1 are still rejected", func(t *testing.T) {
		_, err := policy.New("short", policy.DefaultRules(), policy.Weights{
			types.FrameworkNIST:    1.0 / 3,
			types.FrameworkSOC2:    1.0 / 3,
			types.FrameworkSOX:     0.3,
			types.FrameworkOWASP:   0,
			types.FrameworkMAESTRO: 0,
		})
		gt.Error(t, err).Is(policy.ErrInvalidWeight)
	})
}
