package usecase

import (
	"time"

	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/service/scoring"
	"github.com/secmon-lab/argus/pkg/utils/metrics"
)

type UseCases struct {
	repo    interfaces.Repository
	engine  *scoring.Engine
	metrics *metrics.Metrics
	now     func() time.Time

	Ledger    *Ledger
	Workflow  *WorkflowUseCase
	Scoring   *ScoringUseCase
	Checklist *ChecklistUseCase
	Export    *ExportUseCase
}

type Option func(*UseCases)

// WithEngine sets the scoring engine. The default policy is used otherwise.
func WithEngine(engine *scoring.Engine) Option {
	return func(uc *UseCases) {
		uc.engine = engine
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.engine == nil {
		uc.engine = scoring.New(nil)
	}

	clock := func() time.Time { return uc.now().UTC() }

	uc.Ledger = NewLedger(repo, clock)
	uc.Workflow = NewWorkflowUseCase(repo, uc.Ledger, uc.metrics, clock)
	uc.Scoring = NewScoringUseCase(repo, uc.engine, uc.metrics, clock)
	uc.Checklist = NewChecklistUseCase(repo, uc.metrics, clock)
	uc.Export = NewExportUseCase(repo)

	return uc
}

// Engine returns the scoring engine in use
func (uc *UseCases) Engine() *scoring.Engine {
	return uc.engine
}
