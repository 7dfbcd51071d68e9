package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/argus/pkg/domain/model/policy"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// PolicyFile is the TOML layout of a scoring policy override.
//
//	version = "2026.1"
//
//	[weights]
//	nist = 0.3
//	soc2 = 0.2
//	sox = 0.1
//	owasp = 0.2
//	maestro = 0.2
//
//	[[rules.owasp]]
//	attribute = "public_access"
//	value = "true"
//	points = 40
//
// A framework without a rules table keeps the built-in point table. Omitting
// the weights table keeps the built-in weights.
type PolicyFile struct {
	Version string                `toml:"version"`
	Weights map[string]float64    `toml:"weights"`
	Rules   map[string][]RuleFile `toml:"rules"`
}

// RuleFile is a single point rule
type RuleFile struct {
	Attribute string `toml:"attribute"`
	Value     string `toml:"value"`
	Points    int    `toml:"points"`
}

// Policy holds the path of an optional scoring policy override
type Policy struct {
	path string
}

// NewPolicy creates a Policy config without going through CLI flags
func NewPolicy(path string) *Policy {
	return &Policy{path: path}
}

// Flags returns CLI flags for scoring policy configuration
func (p *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy-file",
			Usage:       "Path to a TOML scoring policy (built-in policy when omitted)",
			Category:    "Scoring",
			Sources:     cli.EnvVars("ARGUS_POLICY_FILE"),
			Destination: &p.path,
		},
	}
}

// Path returns the configured policy file path
func (p *Policy) Path() string {
	return p.path
}

// Configure loads the policy file, or returns the built-in policy when no
// path is configured.
func (p *Policy) Configure() (*policy.Policy, error) {
	if p.path == "" {
		return policy.Default(), nil
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "policy file not found", goerr.V(ConfigPathKey, p.path))
		}
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V(ConfigPathKey, p.path))
	}

	pol, err := ParsePolicy(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load policy file", goerr.V(ConfigPathKey, p.path))
	}
	return pol, nil
}

// ParsePolicy decodes a TOML policy and validates it against the attribute
// domains and framework catalogue.
func ParsePolicy(raw []byte) (*policy.Policy, error) {
	var file PolicyFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse policy TOML", goerr.V("error", err.Error()))
	}
	if file.Version == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "policy version is required")
	}

	base := policy.Default()

	rules := make(map[types.Framework][]policy.Rule, len(types.AllFrameworks()))
	for _, f := range types.AllFrameworks() {
		rules[f] = base.Rules(f)
	}
	for name, entries := range file.Rules {
		f, err := types.ParseFramework(name)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown framework in rules", goerr.V(policy.FrameworkKey, name))
		}
		table := make([]policy.Rule, 0, len(entries))
		for _, e := range entries {
			table = append(table, policy.Rule{Attribute: e.Attribute, Value: e.Value, Points: e.Points})
		}
		rules[f] = table
	}

	weights := policy.Weights{}
	if len(file.Weights) == 0 {
		for _, f := range types.AllFrameworks() {
			weights[f] = base.Weight(f)
		}
	} else {
		for name, w := range file.Weights {
			f, err := types.ParseFramework(name)
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidConfig, "unknown framework in weights", goerr.V(policy.FrameworkKey, name))
			}
			weights[f] = w
		}
	}

	pol, err := policy.New(file.Version, rules, weights)
	if err != nil {
		return nil, goerr.Wrap(err, "policy is invalid")
	}
	return pol, nil
}

// LogValue returns structured log value
func (p Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", p.path),
	)
}
