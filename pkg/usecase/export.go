package usecase

import (
	"context"
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
)

// ExportRecord is one line of an archive export: a request with its full
// review and scoring history.
type ExportRecord struct {
	Request    *model.IntakeRequest         `json:"request"`
	Tasks      []*model.ReviewTask          `json:"tasks"`
	Comments   []*model.ReviewComment       `json:"comments"`
	Checklists []*model.ComplianceChecklist `json:"checklists"`
	Scores     []*model.RiskScore           `json:"scores"`
	Audit      []*model.AuditLog            `json:"audit"`
}

// ExportUseCase writes archive snapshots of the request store
type ExportUseCase struct {
	repo interfaces.Repository
}

func NewExportUseCase(repo interfaces.Repository) *ExportUseCase {
	return &ExportUseCase{repo: repo}
}

// Export writes one JSON line per request to w and returns the number of
// records written. A non-empty status exports only requests in that status.
func (uc *ExportUseCase) Export(ctx context.Context, w io.Writer, status string) (int, error) {
	reqs, err := listRequests(ctx, uc.repo, status)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	for i, req := range reqs {
		record, err := uc.record(ctx, req)
		if err != nil {
			return i, err
		}
		if err := enc.Encode(record); err != nil {
			return i, goerr.Wrap(err, "failed to write export record", goerr.V(RequestIDKey, req.ID))
		}
	}
	return len(reqs), nil
}

func (uc *ExportUseCase) record(ctx context.Context, req *model.IntakeRequest) (*ExportRecord, error) {
	tasks, err := uc.repo.ReviewTask().ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review tasks", goerr.V(RequestIDKey, req.ID))
	}
	comments, err := uc.repo.ReviewComment().ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list review comments", goerr.V(RequestIDKey, req.ID))
	}
	checklists, err := uc.repo.Checklist().ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list checklists", goerr.V(RequestIDKey, req.ID))
	}
	scores, err := uc.repo.RiskScore().ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk scores", goerr.V(RequestIDKey, req.ID))
	}
	logs, err := uc.repo.AuditLog().ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list audit logs", goerr.V(RequestIDKey, req.ID))
	}

	return &ExportRecord{
		Request:    req,
		Tasks:      tasks,
		Comments:   comments,
		Checklists: checklists,
		Scores:     scores,
		Audit:      logs,
	}, nil
}
