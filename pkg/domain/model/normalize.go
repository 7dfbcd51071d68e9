package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

type attributeKind int

const (
	kindBool attributeKind = iota
	kindEnum
	kindSet
	kindText
	kindCount
)

func (k attributeKind) String() string {
	switch k {
	case kindBool:
		return "boolean"
	case kindEnum:
		return "enum"
	case kindSet:
		return "list of strings"
	case kindText:
		return "string"
	case kindCount:
		return "non-negative integer"
	default:
		return "unknown"
	}
}

// attributeField declares one recognized intake attribute. set receives a
// bool, string, []string or int according to kind. values is nil for
// attributes that scoring rules cannot reference.
type attributeField struct {
	key     string
	kind    attributeKind
	members []string
	reset   func(*Attributes)
	set     func(*Attributes, any)
	values  func(*Attributes) []string
}

func boolField(key string, ptr func(*Attributes) *bool) attributeField {
	return attributeField{
		key:     key,
		kind:    kindBool,
		members: []string{"false", "true"},
		reset:   func(a *Attributes) { *ptr(a) = false },
		set:     func(a *Attributes, v any) { *ptr(a) = v.(bool) },
		values:  func(a *Attributes) []string { return boolValues(*ptr(a)) },
	}
}

func enumField[T ~string](key string, members []T, ptr func(*Attributes) *T) attributeField {
	return attributeField{
		key:     key,
		kind:    kindEnum,
		members: enumStrings(members),
		reset:   func(a *Attributes) { *ptr(a) = members[0] },
		set:     func(a *Attributes, v any) { *ptr(a) = T(v.(string)) },
		values:  func(a *Attributes) []string { return []string{string(*ptr(a))} },
	}
}

func textField(key string, ptr func(*Attributes) *string) attributeField {
	return attributeField{
		key:   key,
		kind:  kindText,
		reset: func(a *Attributes) { *ptr(a) = "" },
		set:   func(a *Attributes, v any) { *ptr(a) = v.(string) },
	}
}

var attributeFields = []attributeField{
	enumField(AttrDataSensitivity, types.AllDataSensitivities(), func(a *Attributes) *types.DataSensitivity { return &a.DataSensitivity }),
	boolField(AttrPIIInvolved, func(a *Attributes) *bool { return &a.PIIInvolved }),
	boolField(AttrPHIInvolved, func(a *Attributes) *bool { return &a.PHIInvolved }),
	boolField(AttrCustomerData, func(a *Attributes) *bool { return &a.CustomerData }),
	enumField(AttrModelProvider, types.AllModelProviders(), func(a *Attributes) *types.ModelProvider { return &a.ModelProvider }),
	enumField(AttrDeploymentType, types.AllDeploymentTypes(), func(a *Attributes) *types.DeploymentType { return &a.DeploymentType }),
	enumField(AttrExpectedUserBase, types.AllUserBases(), func(a *Attributes) *types.UserBase { return &a.ExpectedUserBase }),
	textField(AttrBusinessImpact, func(a *Attributes) *string { return &a.BusinessImpact }),
	textField(AttrVendorName, func(a *Attributes) *string { return &a.VendorName }),
	{
		key:     AttrDataTypes,
		kind:    kindSet,
		members: enumStrings(types.AllDataTypes()),
		reset:   func(a *Attributes) { a.DataTypes = []types.DataType{} },
		set: func(a *Attributes, v any) {
			items := v.([]string)
			a.DataTypes = make([]types.DataType, len(items))
			for i, s := range items {
				a.DataTypes[i] = types.DataType(s)
			}
		},
		values: func(a *Attributes) []string { return enumStrings(a.DataTypes) },
	},
	enumField(AttrDataVolume, types.AllLevels(), func(a *Attributes) *types.Level { return &a.DataVolume }),
	enumField(AttrAutonomyLevel, types.AllAutonomyLevels(), func(a *Attributes) *types.AutonomyLevel { return &a.AutonomyLevel }),
	boolField(AttrAutomatedDecisionMaking, func(a *Attributes) *bool { return &a.AutomatedDecisionMaking }),
	boolField(AttrHumanInTheLoop, func(a *Attributes) *bool { return &a.HumanInTheLoop }),
	boolField(AttrPublicAccess, func(a *Attributes) *bool { return &a.PublicAccess }),
	boolField(AttrEncryptionAtRest, func(a *Attributes) *bool { return &a.EncryptionAtRest }),
	boolField(AttrEncryptionInTransit, func(a *Attributes) *bool { return &a.EncryptionInTransit }),
	boolField(AttrRequiresAuthentication, func(a *Attributes) *bool { return &a.RequiresAuthentication }),
	boolField(AttrIncidentResponsePlan, func(a *Attributes) *bool { return &a.IncidentResponsePlan }),
	boolField(AttrRateLimiting, func(a *Attributes) *bool { return &a.RateLimiting }),
	enumField(AttrFinancialImpact, types.AllFinancialImpacts(), func(a *Attributes) *types.FinancialImpact { return &a.FinancialImpact }),
	boolField(AttrAffectsFinancialReporting, func(a *Attributes) *bool { return &a.AffectsFinancialReporting }),
	{
		key:     AttrExternalIntegrations,
		kind:    kindCount,
		members: []string{IntegrationBandNone, IntegrationBandFew, IntegrationBandSome, IntegrationBandMany},
		reset:   func(a *Attributes) { a.ExternalIntegrations = 0 },
		set:     func(a *Attributes, v any) { a.ExternalIntegrations = v.(int) },
		values:  func(a *Attributes) []string { return []string{IntegrationBand(a.ExternalIntegrations)} },
	},
	enumField(AttrIntegrationComplexity, types.AllLevels(), func(a *Attributes) *types.Level { return &a.IntegrationComplexity }),
}

func lookupAttributeField(key string) (attributeField, bool) {
	for _, f := range attributeFields {
		if f.key == key {
			return f, true
		}
	}
	return attributeField{}, false
}

// Normalize converts a raw intake payload into canonical Attributes. Unknown
// keys are ignored and absent or null keys take their default. A value of the
// wrong type or outside an enum returns a *NormalizationError. Fields are
// checked in declaration order so the reported field is deterministic.
func Normalize(raw map[string]any) (*Attributes, error) {
	attrs := DefaultAttributes()

	for _, f := range attributeFields {
		v, ok := raw[f.key]
		if !ok || v == nil {
			continue
		}

		parsed, reason := f.parse(v)
		if reason != "" {
			return nil, goerr.Wrap(&NormalizationError{Field: f.key, Reason: reason},
				"failed to normalize intake attributes",
				goerr.V(AttributeKey, f.key),
				goerr.V(ActualTypeKey, fmt.Sprintf("%T", v)))
		}
		f.set(&attrs, parsed)
	}

	return &attrs, nil
}

// parse converts v into the representation expected by f.set. A non-empty
// reason describes why v was rejected.
func (f attributeField) parse(v any) (any, string) {
	switch f.kind {
	case kindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Sprintf("expected %s, got %T", f.kind, v)
		}
		return b, ""

	case kindText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Sprintf("expected %s, got %T", f.kind, v)
		}
		return s, ""

	case kindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Sprintf("expected %s, got %T", f.kind, v)
		}
		m, err := types.ParseEnum(s, f.members)
		if err != nil {
			return nil, fmt.Sprintf("unknown value %q, expected one of %s", s, strings.Join(f.members, ", "))
		}
		return m, ""

	case kindSet:
		items, ok := stringItems(v)
		if !ok {
			return nil, fmt.Sprintf("expected %s, got %T", f.kind, v)
		}
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			m, err := types.ParseEnum(item, f.members)
			if err != nil {
				return nil, fmt.Sprintf("unknown value %q, expected any of %s", item, strings.Join(f.members, ", "))
			}
			seen[m] = true
		}
		// members order keeps the set canonical regardless of input order
		set := make([]string, 0, len(seen))
		for _, m := range f.members {
			if seen[m] {
				set = append(set, m)
			}
		}
		return set, ""

	case kindCount:
		n, ok := countValue(v)
		if !ok {
			return nil, fmt.Sprintf("expected %s, got %v", f.kind, v)
		}
		return n, ""
	}

	return nil, "unsupported attribute kind"
}

func stringItems(v any) ([]string, bool) {
	switch items := v.(type) {
	case []string:
		return items, true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func countValue(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func enumStrings[T ~string](members []T) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = string(m)
	}
	return out
}
