package scoring_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/service/scoring"
)

func TestChecklist(t *testing.T) {
	testCases := []struct {
		framework  types.Framework
		categories []string
	}{
		{types.FrameworkNIST, []string{"Govern", "Map", "Measure", "Manage"}},
		{types.FrameworkSOC2, []string{"Security", "Availability", "Confidentiality", "Processing Integrity", "Privacy"}},
		{types.FrameworkSOX, []string{"Internal Controls", "Audit Trail", "Access Control"}},
		{types.FrameworkOWASP, []string{"Input Validation", "Data Security", "Model Security", "Output Handling"}},
		{types.FrameworkMAESTRO, []string{"Model Evaluation", "Monitoring", "Explainability"}},
	}

	for _, tc := range testCases {
		t.Run(tc.framework.String(), func(t *testing.T) {
			sections, ok := scoring.Checklist(tc.framework)
			gt.B(t, ok).True()
			gt.A(t, sections).Length(len(tc.categories))

			seen := map[string]bool{}
			for i, s := range sections {
				gt.Value(t, s.Category).Equal(tc.categories[i])
				gt.A(t, s.Questions).Length(5)
				for _, q := range s.Questions {
					gt.String(t, q.Text).NotEqual("")
					gt.B(t, seen[q.ID]).False()
					seen[q.ID] = true
				}
			}
		})
	}

	t.Run("question IDs are stable", func(t *testing.T) {
		sections, ok := scoring.Checklist(types.FrameworkSOC2)
		gt.B(t, ok).True()
		q := sections[3].Questions[2]
		gt.Value(t, q.ID).Equal("soc2.processing_integrity.3")
		gt.Value(t, q.Text).Equal("Is data validation implemented?")
	})

	t.Run("result is a copy", func(t *testing.T) {
		sections, _ := scoring.Checklist(types.FrameworkNIST)
		sections[0].Questions[0].Text = "changed"
		sections[0].Category = "changed"

		again, _ := scoring.Checklist(types.FrameworkNIST)
		gt.Value(t, again[0].Category).Equal("Govern")
		gt.Value(t, again[0].Questions[0].Text).Equal("Has AI governance structure been defined?")
	})

	t.Run("unknown framework", func(t *testing.T) {
		_, ok := scoring.Checklist(types.Framework("iso42001"))
		gt.B(t, ok).False()
	})
}
