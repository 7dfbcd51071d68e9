package types

import (
	"fmt"
	"strings"
)

// DataSensitivity is the classification tier of data handled by the system
type DataSensitivity string

const (
	DataSensitivityPublic       DataSensitivity = "Public"
	DataSensitivityInternal     DataSensitivity = "Internal"
	DataSensitivityConfidential DataSensitivity = "Confidential"
	DataSensitivityRestricted   DataSensitivity = "Restricted"
)

// AllDataSensitivities returns members from lowest to highest risk
func AllDataSensitivities() []DataSensitivity {
	return []DataSensitivity{
		DataSensitivityPublic,
		DataSensitivityInternal,
		DataSensitivityConfidential,
		DataSensitivityRestricted,
	}
}

// ModelProvider is the party supplying the model
type ModelProvider string

const (
	ModelProviderInternal  ModelProvider = "Internal"
	ModelProviderOpenAI    ModelProvider = "OpenAI"
	ModelProviderAnthropic ModelProvider = "Anthropic"
	ModelProviderGoogle    ModelProvider = "Google"
	ModelProviderOther     ModelProvider = "Other"
)

// AllModelProviders returns members with the lowest risk first
func AllModelProviders() []ModelProvider {
	return []ModelProvider{
		ModelProviderInternal,
		ModelProviderOpenAI,
		ModelProviderAnthropic,
		ModelProviderGoogle,
		ModelProviderOther,
	}
}

// IsThirdParty reports whether the model is hosted outside the organization
func (p ModelProvider) IsThirdParty() bool {
	return p != ModelProviderInternal && p != ""
}

// DeploymentType is where the system runs
type DeploymentType string

const (
	DeploymentOnPremise DeploymentType = "On-Premise"
	DeploymentHybrid    DeploymentType = "Hybrid"
	DeploymentCloud     DeploymentType = "Cloud"
	DeploymentSaaS      DeploymentType = "SaaS"
)

// AllDeploymentTypes returns members from lowest to highest risk
func AllDeploymentTypes() []DeploymentType {
	return []DeploymentType{
		DeploymentOnPremise,
		DeploymentHybrid,
		DeploymentCloud,
		DeploymentSaaS,
	}
}

// UserBase is the expected audience of the system
type UserBase string

const (
	UserBaseInternalOnly UserBase = "Internal Only"
	UserBasePartners     UserBase = "Partners"
	UserBasePublic       UserBase = "Public"
)

// AllUserBases returns members from lowest to highest risk
func AllUserBases() []UserBase {
	return []UserBase{
		UserBaseInternalOnly,
		UserBasePartners,
		UserBasePublic,
	}
}

// Level is a generic Low/Medium/High tier used by several attributes
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// AllLevels returns members from lowest to highest
func AllLevels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh}
}

// FinancialImpact is the magnitude of influence on financial outcomes
type FinancialImpact string

const (
	FinancialImpactNone   FinancialImpact = "None"
	FinancialImpactLow    FinancialImpact = "Low"
	FinancialImpactMedium FinancialImpact = "Medium"
	FinancialImpactHigh   FinancialImpact = "High"
)

// AllFinancialImpacts returns members from lowest to highest
func AllFinancialImpacts() []FinancialImpact {
	return []FinancialImpact{
		FinancialImpactNone,
		FinancialImpactLow,
		FinancialImpactMedium,
		FinancialImpactHigh,
	}
}

// AutonomyLevel is how independently the system acts on its outputs
type AutonomyLevel string

const (
	AutonomyAdvisory       AutonomyLevel = "Advisory"
	AutonomySupervised     AutonomyLevel = "Supervised"
	AutonomyFullyAutomated AutonomyLevel = "Fully Automated"
)

// AllAutonomyLevels returns members from lowest to highest risk
func AllAutonomyLevels() []AutonomyLevel {
	return []AutonomyLevel{
		AutonomyAdvisory,
		AutonomySupervised,
		AutonomyFullyAutomated,
	}
}

// DataType is a category of data processed by the system
type DataType string

const (
	DataTypePII                  DataType = "PII"
	DataTypePHI                  DataType = "PHI"
	DataTypeFinancial            DataType = "Financial"
	DataTypeIntellectualProperty DataType = "Intellectual Property"
	DataTypePublic               DataType = "Public"
)

// AllDataTypes returns every data type
func AllDataTypes() []DataType {
	return []DataType{
		DataTypePII,
		DataTypePHI,
		DataTypeFinancial,
		DataTypeIntellectualProperty,
		DataTypePublic,
	}
}

// ParseEnum resolves s against members. Matching ignores case, spaces,
// hyphens and underscores so "fully_automated" resolves to "Fully Automated".
func ParseEnum[T ~string](s string, members []T) (T, error) {
	key := enumKey(s)
	for _, m := range members {
		if enumKey(string(m)) == key {
			return m, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown value: %q", s)
}

func enumKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
