package policy

import (
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// DefaultVersion is the version of the built-in policy
const DefaultVersion = "2025.1"

// DefaultRules returns the built-in point tables
func DefaultRules() map[types.Framework][]Rule {
	return map[types.Framework][]Rule{
		types.FrameworkNIST: {
			{Attribute: model.AttrAutomatedDecisionMaking, Value: "true", Points: 25},
			{Attribute: model.AttrAutonomyLevel, Value: string(types.AutonomyFullyAutomated), Points: 30},
			{Attribute: model.AttrAutonomyLevel, Value: string(types.AutonomySupervised), Points: 10},
			{Attribute: model.AttrHumanInTheLoop, Value: "false", Points: 20},
			{Attribute: model.AttrPublicAccess, Value: "true", Points: 20},
			{Attribute: model.AttrExpectedUserBase, Value: string(types.UserBasePublic), Points: 10},
			{Attribute: model.AttrExpectedUserBase, Value: string(types.UserBasePartners), Points: 5},
			{Attribute: model.AttrDataSensitivity, Value: string(types.DataSensitivityRestricted), Points: 20},
			{Attribute: model.AttrDataSensitivity, Value: string(types.DataSensitivityConfidential), Points: 10},
			{Attribute: model.AttrPIIInvolved, Value: "true", Points: 10},
		},
		types.FrameworkSOC2: {
			{Attribute: model.AttrEncryptionAtRest, Value: "false", Points: 20},
			{Attribute: model.AttrEncryptionInTransit, Value: "false", Points: 20},
			{Attribute: model.AttrRequiresAuthentication, Value: "false", Points: 25},
			{Attribute: model.AttrIncidentResponsePlan, Value: "false", Points: 15},
			{Attribute: model.AttrDataSensitivity, Value: string(types.DataSensitivityRestricted), Points: 20},
			{Attribute: model.AttrDataSensitivity, Value: string(types.DataSensitivityConfidential), Points: 10},
			{Attribute: model.AttrDataSensitivity, Value: string(types.DataSensitivityInternal), Points: 5},
		},
		types.FrameworkSOX: {
			{Attribute: model.AttrFinancialImpact, Value: string(types.FinancialImpactHigh), Points: 45},
			{Attribute: model.AttrFinancialImpact, Value: string(types.FinancialImpactMedium), Points: 30},
			{Attribute: model.AttrFinancialImpact, Value: string(types.FinancialImpactLow), Points: 15},
			{Attribute: model.AttrAffectsFinancialReporting, Value: "true", Points: 40},
			{Attribute: model.AttrDataTypes, Value: string(types.DataTypeFinancial), Points: 15},
		},
		types.FrameworkOWASP: {
			{Attribute: model.AttrPublicAccess, Value: "true", Points: 25},
			{Attribute: model.AttrDeploymentType, Value: string(types.DeploymentSaaS), Points: 15},
			{Attribute: model.AttrDeploymentType, Value: string(types.DeploymentCloud), Points: 10},
			{Attribute: model.AttrDeploymentType, Value: string(types.DeploymentHybrid), Points: 5},
			{Attribute: model.AttrModelProvider, Value: string(types.ModelProviderOpenAI), Points: 10},
			{Attribute: model.AttrModelProvider, Value: string(types.ModelProviderAnthropic), Points: 10},
			{Attribute: model.AttrModelProvider, Value: string(types.ModelProviderGoogle), Points: 10},
			{Attribute: model.AttrModelProvider, Value: string(types.ModelProviderOther), Points: 15},
			{Attribute: model.AttrRateLimiting, Value: "false", Points: 15},
			{Attribute: model.AttrPIIInvolved, Value: "true", Points: 20},
			{Attribute: model.AttrPHIInvolved, Value: "true", Points: 20},
			{Attribute: model.AttrCustomerData, Value: "true", Points: 10},
			{Attribute: model.AttrDataSensitivity, Value: string(types.DataSensitivityRestricted), Points: 15},
			{Attribute: model.AttrDataSensitivity, Value: string(types.DataSensitivityConfidential), Points: 8},
		},
		types.FrameworkMAESTRO: {
			{Attribute: model.AttrAutomatedDecisionMaking, Value: "true", Points: 30},
			{Attribute: model.AttrAutonomyLevel, Value: string(types.AutonomyFullyAutomated), Points: 25},
			{Attribute: model.AttrAutonomyLevel, Value: string(types.AutonomySupervised), Points: 10},
			{Attribute: model.AttrHumanInTheLoop, Value: "false", Points: 20},
			{Attribute: model.AttrExternalIntegrations, Value: model.IntegrationBandFew, Points: 10},
			{Attribute: model.AttrExternalIntegrations, Value: model.IntegrationBandSome, Points: 20},
			{Attribute: model.AttrExternalIntegrations, Value: model.IntegrationBandMany, Points: 30},
			{Attribute: model.AttrIntegrationComplexity, Value: string(types.LevelMedium), Points: 10},
			{Attribute: model.AttrIntegrationComplexity, Value: string(types.LevelHigh), Points: 20},
		},
	}
}

// Default returns the built-in policy with equal weights
func Default() *Policy {
	p, err := New(DefaultVersion, DefaultRules(), EqualWeights())
	if err != nil {
		panic("built-in scoring policy is invalid: " + err.Error())
	}
	return p
}
