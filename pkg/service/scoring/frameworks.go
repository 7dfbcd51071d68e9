package scoring

import "github.com/secmon-lab/argus/pkg/domain/types"

// FrameworkInfo describes a scoring framework for catalogue listings
type FrameworkInfo struct {
	ID          types.Framework
	Name        string
	Description string
}

var frameworkCatalogue = []FrameworkInfo{
	{
		ID:          types.FrameworkNIST,
		Name:        "NIST AI Risk Management Framework",
		Description: "Governance, mapping and management of AI risk with emphasis on autonomy, human oversight and external exposure",
	},
	{
		ID:          types.FrameworkSOC2,
		Name:        "SOC 2",
		Description: "Security, availability and confidentiality controls such as encryption, authentication and incident response",
	},
	{
		ID:          types.FrameworkSOX,
		Name:        "Sarbanes-Oxley",
		Description: "Controls over systems that influence financial reporting and recorded financial outcomes",
	},
	{
		ID:          types.FrameworkOWASP,
		Name:        "OWASP Top 10 for LLM Applications",
		Description: "Application security exposure including public access, third-party hosting, rate limiting and sensitive data",
	},
	{
		ID:          types.FrameworkMAESTRO,
		Name:        "MAESTRO",
		Description: "Threat modeling for multi-agent and agentic systems covering automated decisions and integration surface",
	},
}

// Frameworks returns the catalogue of scoring frameworks in their fixed order
func Frameworks() []FrameworkInfo {
	out := make([]FrameworkInfo, len(frameworkCatalogue))
	copy(out, frameworkCatalogue)
	return out
}
