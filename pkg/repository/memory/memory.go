package memory

import (
	"sync"

	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-process request store for development and tests
type Memory struct {
	store *store

	request    *requestRepository
	reviewTask *reviewTaskRepository
	riskScore  *riskScoreRepository
	auditLog   *auditLogRepository
	comment    *reviewCommentRepository
	checklist  *checklistRepository
}

var _ interfaces.Repository = &Memory{}

// store holds all records. mu guards the maps; locks serializes
// transactions per request.
type store struct {
	mu       sync.RWMutex
	requests map[model.RequestID]*model.IntakeRequest
	order    []model.RequestID
	tasks    map[model.RequestID][]*model.ReviewTask
	scores   map[model.RequestID][]*model.RiskScore
	logs     map[model.RequestID][]*model.AuditLog
	comments map[model.RequestID][]*model.ReviewComment
	// checklists are keyed by request, then framework
	checklists map[model.RequestID]map[types.Framework]*model.ComplianceChecklist

	locksMu sync.Mutex
	locks   map[model.RequestID]*sync.Mutex
}

func New() *Memory {
	s := &store{
		requests: make(map[model.RequestID]*model.IntakeRequest),
		tasks:    make(map[model.RequestID][]*model.ReviewTask),
		scores:   make(map[model.RequestID][]*model.RiskScore),
		logs:     make(map[model.RequestID][]*model.AuditLog),
		comments: make(map[model.RequestID][]*model.ReviewComment),
		locks:    make(map[model.RequestID]*sync.Mutex),

		checklists: make(map[model.RequestID]map[types.Framework]*model.ComplianceChecklist),
	}

	return &Memory{
		store:      s,
		request:    &requestRepository{store: s},
		reviewTask: &reviewTaskRepository{store: s},
		riskScore:  &riskScoreRepository{store: s},
		auditLog:   &auditLogRepository{store: s},
		comment:    &reviewCommentRepository{store: s},
		checklist:  &checklistRepository{store: s},
	}
}

func (m *Memory) Request() interfaces.RequestRepository {
	return m.request
}

func (m *Memory) ReviewTask() interfaces.ReviewTaskRepository {
	return m.reviewTask
}

func (m *Memory) RiskScore() interfaces.RiskScoreRepository {
	return m.riskScore
}

func (m *Memory) AuditLog() interfaces.AuditLogRepository {
	return m.auditLog
}

func (m *Memory) ReviewComment() interfaces.ReviewCommentRepository {
	return m.comment
}

func (m *Memory) Checklist() interfaces.ChecklistRepository {
	return m.checklist
}

func (m *Memory) Close() error {
	return nil
}

// lockFor returns the transaction lock of an existing request. Unknown IDs
// get no lock, so lookups of missing requests leave nothing behind.
func (s *store) lockFor(id model.RequestID) (*sync.Mutex, bool) {
	s.mu.RLock()
	_, exists := s.requests[id]
	s.mu.RUnlock()
	if !exists {
		return nil, false
	}

	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	return mu, true
}
