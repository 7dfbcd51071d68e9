package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

func TestParseTeam(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.TeamID
		wantErr bool
	}{
		{name: "lower case", input: "legal", want: types.TeamLegal},
		{name: "display name", input: "Governance", want: types.TeamGovernance},
		{name: "padded", input: "  Architecture ", want: types.TeamArchitecture},
		{name: "unknown", input: "marketing", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseTeam(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestAllTeams(t *testing.T) {
	teams := types.AllTeams()
	gt.A(t, teams).Length(5)

	// Mutating the returned slice must not affect later calls
	teams[0] = "changed"
	gt.Value(t, types.AllTeams()[0]).Equal(types.TeamGovernance)

	for i, team := range types.AllTeams() {
		gt.Value(t, team.Order()).Equal(i)
		gt.String(t, team.Name()).NotEqual("")
	}
	gt.Value(t, types.TeamID("unknown").Order()).Equal(-1)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.TaskStatus
		wantErr bool
	}{
		{name: "approved", input: "approved", want: types.TaskStatusApproved},
		{name: "rejected upper", input: "REJECTED", want: types.TaskStatusRejected},
		{name: "needs-info", input: "needs-info", want: types.TaskStatusNeedsInfo},
		{name: "needs_info", input: "needs_info", want: types.TaskStatusNeedsInfo},
		{name: "pending is not a verdict", input: "pending", wantErr: true},
		{name: "unknown", input: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseVerdict(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	gt.B(t, types.TaskStatusApproved.IsTerminal()).True()
	gt.B(t, types.TaskStatusRejected.IsTerminal()).True()
	gt.B(t, types.TaskStatusNeedsInfo.IsTerminal()).False()
	gt.B(t, types.TaskStatusPending.IsTerminal()).False()
}

func TestParseRequestStatus(t *testing.T) {
	for _, s := range types.AllRequestStatuses() {
		got, err := types.ParseRequestStatus(s.String())
		gt.NoError(t, err).Required()
		gt.Value(t, got).Equal(s)
	}

	_, err := types.ParseRequestStatus("closed")
	gt.Value(t, err).NotNil()

	gt.B(t, types.RequestStatusApproved.IsTerminal()).True()
	gt.B(t, types.RequestStatusDenied.IsTerminal()).True()
	gt.B(t, types.RequestStatusReviewing.IsTerminal()).False()
}

func TestRiskTierOf(t *testing.T) {
	tests := []struct {
		total int
		want  types.RiskTier
	}{
		{total: 0, want: types.RiskTierLow},
		{total: 29, want: types.RiskTierLow},
		{total: 30, want: types.RiskTierMedium},
		{total: 59, want: types.RiskTierMedium},
		{total: 60, want: types.RiskTierHigh},
		{total: 100, want: types.RiskTierHigh},
	}

	for _, tt := range tests {
		gt.Value(t, types.RiskTierOf(tt.total)).Equal(tt.want)
	}
}

func TestParseEnum(t *testing.T) {
	got, err := types.ParseEnum("fully_automated", types.AllAutonomyLevels())
	gt.NoError(t, err).Required()
	gt.Value(t, got).Equal(types.AutonomyFullyAutomated)

	sens, err := types.ParseEnum("restricted", types.AllDataSensitivities())
	gt.NoError(t, err).Required()
	gt.Value(t, sens).Equal(types.DataSensitivityRestricted)

	base, err := types.ParseEnum("internal-only", types.AllUserBases())
	gt.NoError(t, err).Required()
	gt.Value(t, base).Equal(types.UserBaseInternalOnly)

	_, err = types.ParseEnum("secret", types.AllDataSensitivities())
	gt.Value(t, err).NotNil()
}

func TestParseFramework(t *testing.T) {
	f, err := types.ParseFramework("SOC2")
	gt.NoError(t, err).Required()
	gt.Value(t, f).Equal(types.FrameworkSOC2)

	_, err = types.ParseFramework("iso27001")
	gt.Value(t, err).NotNil()
}

func TestParseChecklistAnswer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.ChecklistAnswer
		wantErr bool
	}{
		{name: "yes", input: "yes", want: types.ChecklistAnswerYes},
		{name: "upper no", input: "NO", want: types.ChecklistAnswerNo},
		{name: "partial", input: " partial ", want: types.ChecklistAnswerPartial},
		{name: "underscore", input: "not_applicable", want: types.ChecklistAnswerNotApplicable},
		{name: "n/a", input: "N/A", want: types.ChecklistAnswerNotApplicable},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseChecklistAnswer(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}
