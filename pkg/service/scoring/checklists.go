package scoring

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/argus/pkg/domain/types"
)

// ChecklistQuestion is one assessment question. ID is stable across
// releases and is what stored answers refer to.
type ChecklistQuestion struct {
	ID   string
	Text string
}

// ChecklistSection groups the questions of one framework category
type ChecklistSection struct {
	Category  string
	Questions []ChecklistQuestion
}

type checklistCategory struct {
	name      string
	questions []string
}

var checklistCatalogue = map[types.Framework][]checklistCategory{
	types.FrameworkNIST: {
		{"Govern", []string{
			"Has AI governance structure been defined?",
			"Are roles and responsibilities documented?",
			"Is there executive oversight for AI initiatives?",
			"Have AI risk policies been established?",
			"Is there a process for AI risk identification?",
		}},
		{"Map", []string{
			"Has the AI system context been documented?",
			"Are potential impacts identified?",
			"Have stakeholders been identified?",
			"Is the intended use clearly defined?",
			"Are limitations and boundaries documented?",
		}},
		{"Measure", []string{
			"Are AI system metrics defined?",
			"Is performance monitoring in place?",
			"Are bias and fairness evaluated?",
			"Is model accuracy tracked?",
			"Are impact assessments conducted regularly?",
		}},
		{"Manage", []string{
			"Are risk mitigation strategies documented?",
			"Is incident response plan in place?",
			"Are regular audits scheduled?",
			"Is continuous monitoring implemented?",
			"Are remediation procedures established?",
		}},
	},
	types.FrameworkSOC2: {
		{"Security", []string{
			"Is data encrypted at rest and in transit?",
			"Are access controls implemented?",
			"Is multi-factor authentication enabled?",
			"Are security logs maintained?",
			"Is vulnerability scanning performed regularly?",
		}},
		{"Availability", []string{
			"Is system uptime monitored?",
			"Is disaster recovery plan documented?",
			"Are backups performed regularly?",
			"Is redundancy implemented?",
			"Are SLAs defined and monitored?",
		}},
		{"Confidentiality", []string{
			"Are confidentiality agreements in place?",
			"Is data classification implemented?",
			"Are confidential data access logs maintained?",
			"Is data sharing documented?",
			"Are encryption keys managed properly?",
		}},
		{"Processing Integrity", []string{
			"Is data processing accurate and complete?",
			"Are processing errors logged and monitored?",
			"Is data validation implemented?",
			"Are processing controls documented?",
			"Is system performance monitored?",
		}},
		{"Privacy", []string{
			"Is personal information collected with consent?",
			"Are privacy notices provided?",
			"Is data retention policy defined?",
			"Are data deletion requests handled?",
			"Is privacy training provided to staff?",
		}},
	},
	types.FrameworkSOX: {
		{"Internal Controls", []string{
			"Are financial reporting controls documented?",
			"Is segregation of duties enforced?",
			"Are control deficiencies tracked?",
			"Is management review process in place?",
			"Are control activities monitored?",
		}},
		{"Audit Trail", []string{
			"Are all changes to financial data logged?",
			"Is audit trail tamper-proof?",
			"Are logs retained for required period?",
			"Is log access restricted?",
			"Are logs regularly reviewed?",
		}},
		{"Access Control", []string{
			"Is access to financial systems restricted?",
			"Are access privileges regularly reviewed?",
			"Is privileged access monitored?",
			"Are terminated users removed promptly?",
			"Is least privilege principle applied?",
		}},
	},
	types.FrameworkOWASP: {
		{"Input Validation", []string{
			"Is prompt injection protection implemented?",
			"Are user inputs validated?",
			"Is input sanitization in place?",
			"Are rate limits configured?",
			"Is content filtering applied?",
		}},
		{"Data Security", []string{
			"Is training data vetted and secured?",
			"Are data leakage risks assessed?",
			"Is sensitive data filtered from outputs?",
			"Are data retention policies defined?",
			"Is PII redaction implemented?",
		}},
		{"Model Security", []string{
			"Is the model supply chain secured?",
			"Are model versions tracked?",
			"Is model access controlled?",
			"Are model vulnerabilities monitored?",
			"Is model behavior audited?",
		}},
		{"Output Handling", []string{
			"Are outputs validated before use?",
			"Is output sanitization implemented?",
			"Are harmful outputs filtered?",
			"Is output logging in place?",
			"Are output quality checks automated?",
		}},
	},
	types.FrameworkMAESTRO: {
		{"Model Evaluation", []string{
			"Are model performance metrics defined?",
			"Is model testing comprehensive?",
			"Are edge cases identified and tested?",
			"Is model bias evaluated?",
			"Are failure modes documented?",
		}},
		{"Monitoring", []string{
			"Is real-time monitoring implemented?",
			"Are anomalies detected automatically?",
			"Is model drift monitored?",
			"Are performance degradation alerts set?",
			"Is user feedback collected?",
		}},
		{"Explainability", []string{
			"Are model decisions explainable?",
			"Is reasoning transparency provided?",
			"Are stakeholders able to understand outputs?",
			"Is documentation maintained?",
			"Are explanation methods validated?",
		}},
	},
}

// Checklist returns the assessment questions of a framework in their fixed
// order. The result is a fresh copy. ok is false for unknown frameworks.
func Checklist(f types.Framework) (sections []ChecklistSection, ok bool) {
	categories, ok := checklistCatalogue[f]
	if !ok {
		return nil, false
	}

	sections = make([]ChecklistSection, len(categories))
	for i, c := range categories {
		questions := make([]ChecklistQuestion, len(c.questions))
		for j, text := range c.questions {
			questions[j] = ChecklistQuestion{
				ID:   checklistQuestionID(f, c.name, j),
				Text: text,
			}
		}
		sections[i] = ChecklistSection{Category: c.name, Questions: questions}
	}
	return sections, true
}

// checklistQuestionID builds IDs such as "soc2.processing_integrity.3"
func checklistQuestionID(f types.Framework, category string, index int) string {
	slug := strings.ReplaceAll(strings.ToLower(category), " ", "_")
	return fmt.Sprintf("%s.%s.%d", f, slug, index+1)
}
