package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/service/scoring"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/secmon-lab/argus/pkg/utils/metrics"
)

// ChecklistAnswerInput answers one question. An empty Answer keeps the
// stored answer, so notes can be added on their own.
type ChecklistAnswerInput struct {
	QuestionID string
	Answer     string
	Notes      string
}

// ChecklistInput saves answers to one framework's checklist of a request.
// Complete marks the checklist done and requires every question answered.
type ChecklistInput struct {
	RequestID model.RequestID
	Framework string
	ActorID   string
	Answers   []ChecklistAnswerInput
	Complete  bool
}

// ChecklistUseCase records per-request answers to the frameworks'
// assessment questions
type ChecklistUseCase struct {
	repo    interfaces.Repository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewChecklistUseCase(repo interfaces.Repository, m *metrics.Metrics, now func() time.Time) *ChecklistUseCase {
	return &ChecklistUseCase{
		repo:    repo,
		metrics: m,
		now:     now,
	}
}

// Template returns the assessment questions of a framework
func (uc *ChecklistUseCase) Template(framework string) (types.Framework, []scoring.ChecklistSection, error) {
	f, err := types.ParseFramework(framework)
	if err != nil {
		return "", nil, goerr.Wrap(ErrInvalidFramework, err.Error(), goerr.V(FrameworkKey, framework))
	}
	sections, ok := scoring.Checklist(f)
	if !ok {
		return "", nil, goerr.Wrap(ErrInvalidFramework, "framework has no checklist", goerr.V(FrameworkKey, f))
	}
	return f, sections, nil
}

// Get returns the request's checklist for a framework. A checklist nobody
// has answered yet comes back blank and unsaved, with zero timestamps.
func (uc *ChecklistUseCase) Get(ctx context.Context, id model.RequestID, framework string) (*model.ComplianceChecklist, error) {
	f, sections, err := uc.Template(framework)
	if err != nil {
		return nil, err
	}

	checklists, err := uc.List(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, c := range checklists {
		if c.Framework == f {
			return c, nil
		}
	}
	return newChecklist(id, f, sections, time.Time{}), nil
}

// List returns the saved checklists of a request in framework order
func (uc *ChecklistUseCase) List(ctx context.Context, id model.RequestID) ([]*model.ComplianceChecklist, error) {
	if _, err := uc.repo.Request().Get(ctx, id); err != nil {
		return nil, wrapStoreError(err, id, "failed to get request")
	}

	checklists, err := uc.repo.Checklist().ListByRequest(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list checklists", goerr.V(RequestIDKey, id))
	}
	return checklists, nil
}

// Save merges answers into the checklist and records an audit entry in the
// same transaction. A completed checklist is frozen.
func (uc *ChecklistUseCase) Save(ctx context.Context, in ChecklistInput) (*model.ComplianceChecklist, error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("save_checklist", time.Since(start)) }()

	f, sections, err := uc.Template(in.Framework)
	if err != nil {
		return nil, err
	}
	actorID := strings.TrimSpace(in.ActorID)
	if actorID == "" {
		return nil, goerr.Wrap(ErrInvalidChecklist, "actor_id is required")
	}

	answers := make(map[string]ChecklistAnswerInput, len(in.Answers))
	for _, a := range in.Answers {
		if _, dup := answers[a.QuestionID]; dup {
			return nil, goerr.Wrap(ErrInvalidChecklist, "question answered twice", goerr.V(QuestionKey, a.QuestionID))
		}
		if a.Answer != "" {
			parsed, err := types.ParseChecklistAnswer(a.Answer)
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidChecklist, err.Error(), goerr.V(QuestionKey, a.QuestionID))
			}
			a.Answer = parsed.String()
		}
		answers[a.QuestionID] = a
	}

	var saved *model.ComplianceChecklist
	err = uc.repo.RunInTransaction(ctx, in.RequestID, func(ctx context.Context, tx interfaces.RequestTransaction) error {
		now := uc.now()
		c := tx.Checklist(f)
		if c == nil {
			c = newChecklist(in.RequestID, f, sections, now)
		}
		if c.Completed {
			return goerr.Wrap(ErrChecklistComplete, "completed checklists cannot change",
				goerr.V(RequestIDKey, in.RequestID),
				goerr.V(FrameworkKey, f),
				goerr.V("completed_by", c.CompletedBy))
		}

		applied := 0
		for i := range c.Items {
			a, ok := answers[c.Items[i].QuestionID]
			if !ok {
				continue
			}
			if a.Answer != "" {
				c.Items[i].Answer = types.ChecklistAnswer(a.Answer)
			}
			if a.Notes != "" {
				c.Items[i].Notes = a.Notes
			}
			applied++
		}
		if applied != len(answers) {
			for qid := range answers {
				if !hasQuestion(c, qid) {
					return goerr.Wrap(ErrInvalidChecklist, "question is not part of the framework checklist",
						goerr.V(FrameworkKey, f), goerr.V(QuestionKey, qid))
				}
			}
		}

		if in.Complete {
			if n := c.Unanswered(); n > 0 {
				return goerr.Wrap(ErrInvalidChecklist, "every question must be answered to complete the checklist",
					goerr.V(FrameworkKey, f), goerr.V("unanswered", n))
			}
			c.Completed = true
			c.CompletedBy = actorID
			c.CompletedAt = &now
		}
		c.UpdatedAt = now
		tx.PutChecklist(c)

		tx.AddAuditLog(newAuditLog(in.RequestID, types.AuditActionChecklistSaved, actorID, map[string]string{
			"framework":  f.String(),
			"answered":   strconv.Itoa(len(c.Items) - c.Unanswered()),
			"unanswered": strconv.Itoa(c.Unanswered()),
			"completed":  strconv.FormatBool(c.Completed),
		}, now))

		saved = c
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err, in.RequestID, "failed to save checklist")
	}

	logging.From(ctx).Info("checklist saved",
		"request_id", in.RequestID,
		"framework", f,
		"completed", saved.Completed,
		"unanswered", saved.Unanswered(),
	)
	return saved, nil
}

func newChecklist(id model.RequestID, f types.Framework, sections []scoring.ChecklistSection, now time.Time) *model.ComplianceChecklist {
	var items []model.ChecklistItem
	for _, s := range sections {
		for _, q := range s.Questions {
			items = append(items, model.ChecklistItem{
				QuestionID: q.ID,
				Category:   s.Category,
				Question:   q.Text,
			})
		}
	}
	return &model.ComplianceChecklist{
		ID:        model.NewChecklistID(id, f),
		RequestID: id,
		Framework: f,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func hasQuestion(c *model.ComplianceChecklist, questionID string) bool {
	for _, item := range c.Items {
		if item.QuestionID == questionID {
			return true
		}
	}
	return false
}
