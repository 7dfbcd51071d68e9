package model

import (
	"slices"
	"strconv"

	"github.com/secmon-lab/argus/pkg/domain/types"
)

// Canonical attribute keys accepted in an intake payload
const (
	AttrDataSensitivity           = "data_sensitivity"
	AttrPIIInvolved               = "pii_involved"
	AttrPHIInvolved               = "phi_involved"
	AttrCustomerData              = "customer_data"
	AttrModelProvider             = "model_provider"
	AttrDeploymentType            = "deployment_type"
	AttrExpectedUserBase          = "expected_user_base"
	AttrBusinessImpact            = "business_impact"
	AttrVendorName                = "vendor_name"
	AttrDataTypes                 = "data_types"
	AttrDataVolume                = "data_volume"
	AttrAutonomyLevel             = "autonomy_level"
	AttrAutomatedDecisionMaking   = "automated_decision_making"
	AttrHumanInTheLoop            = "human_in_the_loop"
	AttrPublicAccess              = "public_access"
	AttrEncryptionAtRest          = "encryption_at_rest"
	AttrEncryptionInTransit       = "encryption_in_transit"
	AttrRequiresAuthentication    = "requires_authentication"
	AttrIncidentResponsePlan      = "incident_response_plan"
	AttrRateLimiting              = "rate_limiting"
	AttrFinancialImpact           = "financial_impact"
	AttrAffectsFinancialReporting = "affects_financial_reporting"
	AttrExternalIntegrations      = "external_integrations"
	AttrIntegrationComplexity     = "integration_complexity"
)

// Bands that external_integrations is exposed through when scoring
const (
	IntegrationBandNone = "0"
	IntegrationBandFew  = "1-2"
	IntegrationBandSome = "3-5"
	IntegrationBandMany = "6+"
)

// Attributes is the canonical, fully defaulted set of risk attributes of an
// intake request. Values are produced by Normalize; a zero Attributes is not
// canonical, use DefaultAttributes instead.
type Attributes struct {
	DataSensitivity           types.DataSensitivity `json:"data_sensitivity"`
	PIIInvolved               bool                  `json:"pii_involved"`
	PHIInvolved               bool                  `json:"phi_involved"`
	CustomerData              bool                  `json:"customer_data"`
	ModelProvider             types.ModelProvider   `json:"model_provider"`
	DeploymentType            types.DeploymentType  `json:"deployment_type"`
	ExpectedUserBase          types.UserBase        `json:"expected_user_base"`
	BusinessImpact            string                `json:"business_impact"`
	VendorName                string                `json:"vendor_name" masq:"secret"`
	DataTypes                 []types.DataType      `json:"data_types"`
	DataVolume                types.Level           `json:"data_volume"`
	AutonomyLevel             types.AutonomyLevel   `json:"autonomy_level"`
	AutomatedDecisionMaking   bool                  `json:"automated_decision_making"`
	HumanInTheLoop            bool                  `json:"human_in_the_loop"`
	PublicAccess              bool                  `json:"public_access"`
	EncryptionAtRest          bool                  `json:"encryption_at_rest"`
	EncryptionInTransit       bool                  `json:"encryption_in_transit"`
	RequiresAuthentication    bool                  `json:"requires_authentication"`
	IncidentResponsePlan      bool                  `json:"incident_response_plan"`
	RateLimiting              bool                  `json:"rate_limiting"`
	FinancialImpact           types.FinancialImpact `json:"financial_impact"`
	AffectsFinancialReporting bool                  `json:"affects_financial_reporting"`
	ExternalIntegrations      int                   `json:"external_integrations"`
	IntegrationComplexity     types.Level           `json:"integration_complexity"`
}

// DefaultAttributes returns attributes with every field at its default:
// false, empty, or the lowest-risk enum member.
func DefaultAttributes() Attributes {
	var a Attributes
	for _, f := range attributeFields {
		f.reset(&a)
	}
	return a
}

// Clone returns a deep copy
func (a Attributes) Clone() Attributes {
	c := a
	if a.DataTypes != nil {
		c.DataTypes = slices.Clone(a.DataTypes)
	}
	return c
}

// HasDataType reports whether the data type set contains dt
func (a Attributes) HasDataType(dt types.DataType) bool {
	return slices.Contains(a.DataTypes, dt)
}

// Values returns the canonical values of a scorable attribute as strings.
// Booleans yield "true" or "false", sets yield every member, and
// external_integrations yields its band. Free text and unknown keys yield nil.
func (a Attributes) Values(key string) []string {
	f, ok := lookupAttributeField(key)
	if !ok || f.values == nil {
		return nil
	}
	return f.values(&a)
}

// IntegrationBand maps an integration count to its scoring band
func IntegrationBand(n int) string {
	switch {
	case n <= 0:
		return IntegrationBandNone
	case n <= 2:
		return IntegrationBandFew
	case n <= 5:
		return IntegrationBandSome
	default:
		return IntegrationBandMany
	}
}

// ScorableAttributes returns the keys that scoring rules may reference, in
// declaration order.
func ScorableAttributes() []string {
	keys := make([]string, 0, len(attributeFields))
	for _, f := range attributeFields {
		if f.values != nil {
			keys = append(keys, f.key)
		}
	}
	return keys
}

// AttributeDomain returns every value a scorable attribute can take. The
// second result is false when key is not scorable.
func AttributeDomain(key string) ([]string, bool) {
	f, ok := lookupAttributeField(key)
	if !ok || f.values == nil {
		return nil, false
	}
	return slices.Clone(f.members), true
}

func boolValues(v bool) []string {
	return []string{strconv.FormatBool(v)}
}
