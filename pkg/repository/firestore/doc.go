package firestore

import (
	"maps"
	"time"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

// Persistence models. Domain types never carry firestore tags.

type attributesDoc struct {
	DataSensitivity           string   `firestore:"data_sensitivity"`
	PIIInvolved               bool     `firestore:"pii_involved"`
	PHIInvolved               bool     `firestore:"phi_involved"`
	CustomerData              bool     `firestore:"customer_data"`
	ModelProvider             string   `firestore:"model_provider"`
	DeploymentType            string   `firestore:"deployment_type"`
	ExpectedUserBase          string   `firestore:"expected_user_base"`
	BusinessImpact            string   `firestore:"business_impact"`
	VendorName                string   `firestore:"vendor_name"`
	DataTypes                 []string `firestore:"data_types"`
	DataVolume                string   `firestore:"data_volume"`
	AutonomyLevel             string   `firestore:"autonomy_level"`
	AutomatedDecisionMaking   bool     `firestore:"automated_decision_making"`
	HumanInTheLoop            bool     `firestore:"human_in_the_loop"`
	PublicAccess              bool     `firestore:"public_access"`
	EncryptionAtRest          bool     `firestore:"encryption_at_rest"`
	EncryptionInTransit       bool     `firestore:"encryption_in_transit"`
	RequiresAuthentication    bool     `firestore:"requires_authentication"`
	IncidentResponsePlan      bool     `firestore:"incident_response_plan"`
	RateLimiting              bool     `firestore:"rate_limiting"`
	FinancialImpact           string   `firestore:"financial_impact"`
	AffectsFinancialReporting bool     `firestore:"affects_financial_reporting"`
	ExternalIntegrations      int64    `firestore:"external_integrations"`
	IntegrationComplexity     string   `firestore:"integration_complexity"`
}

type requestDoc struct {
	ID            string        `firestore:"id"`
	Title         string        `firestore:"title"`
	Description   string        `firestore:"description"`
	RequestorID   string        `firestore:"requestor_id"`
	Details       attributesDoc `firestore:"details"`
	Status        string        `firestore:"status"`
	RiskScore     *int64        `firestore:"risk_score"`
	LatestScoreID string        `firestore:"latest_score_id"`
	ScoreVersion  int64         `firestore:"score_version"`
	CreatedAt     time.Time     `firestore:"created_at"`
	UpdatedAt     time.Time     `firestore:"updated_at"`
}

type reviewTaskDoc struct {
	ID         string    `firestore:"id"`
	RequestID  string    `firestore:"request_id"`
	Team       string    `firestore:"team"`
	Status     string    `firestore:"status"`
	Comments   string    `firestore:"comments"`
	ReviewerID string    `firestore:"reviewer_id"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

type riskScoreDoc struct {
	ID            string    `firestore:"id"`
	RequestID     string    `firestore:"request_id"`
	Version       int64     `firestore:"version"`
	PolicyVersion string    `firestore:"policy_version"`
	NIST          int64     `firestore:"nist"`
	SOC2          int64     `firestore:"soc2"`
	SOX           int64     `firestore:"sox"`
	OWASP         int64     `firestore:"owasp"`
	MAESTRO       int64     `firestore:"maestro"`
	Total         int64     `firestore:"total"`
	Tier          string    `firestore:"tier"`
	CreatedAt     time.Time `firestore:"created_at"`
}

type auditLogDoc struct {
	ID        string            `firestore:"id"`
	RequestID string            `firestore:"request_id"`
	Action    string            `firestore:"action"`
	ActorID   string            `firestore:"actor_id"`
	Metadata  map[string]string `firestore:"metadata"`
	CreatedAt time.Time         `firestore:"created_at"`
}

type reviewCommentDoc struct {
	ID          string    `firestore:"id"`
	RequestID   string    `firestore:"request_id"`
	TaskID      string    `firestore:"task_id"`
	Team        string    `firestore:"team"`
	CommenterID string    `firestore:"commenter_id"`
	Section     string    `firestore:"section"`
	Text        string    `firestore:"text"`
	CreatedAt   time.Time `firestore:"created_at"`
}

type checklistItemDoc struct {
	QuestionID string `firestore:"question_id"`
	Category   string `firestore:"category"`
	Question   string `firestore:"question"`
	Answer     string `firestore:"answer"`
	Notes      string `firestore:"notes"`
}

type checklistDoc struct {
	ID          string             `firestore:"id"`
	RequestID   string             `firestore:"request_id"`
	Framework   string             `firestore:"framework"`
	Items       []checklistItemDoc `firestore:"questions"`
	Completed   bool               `firestore:"completed"`
	CompletedBy string             `firestore:"completed_by"`
	CompletedAt *time.Time         `firestore:"completed_at"`
	CreatedAt   time.Time          `firestore:"created_at"`
	UpdatedAt   time.Time          `firestore:"updated_at"`
}

func toAttributesDoc(a model.Attributes) attributesDoc {
	dataTypes := make([]string, len(a.DataTypes))
	for i, dt := range a.DataTypes {
		dataTypes[i] = string(dt)
	}
	return attributesDoc{
		DataSensitivity:           string(a.DataSensitivity),
		PIIInvolved:               a.PIIInvolved,
		PHIInvolved:               a.PHIInvolved,
		CustomerData:              a.CustomerData,
		ModelProvider:             string(a.ModelProvider),
		DeploymentType:            string(a.DeploymentType),
		ExpectedUserBase:          string(a.ExpectedUserBase),
		BusinessImpact:            a.BusinessImpact,
		VendorName:                a.VendorName,
		DataTypes:                 dataTypes,
		DataVolume:                string(a.DataVolume),
		AutonomyLevel:             string(a.AutonomyLevel),
		AutomatedDecisionMaking:   a.AutomatedDecisionMaking,
		HumanInTheLoop:            a.HumanInTheLoop,
		PublicAccess:              a.PublicAccess,
		EncryptionAtRest:          a.EncryptionAtRest,
		EncryptionInTransit:       a.EncryptionInTransit,
		RequiresAuthentication:    a.RequiresAuthentication,
		IncidentResponsePlan:      a.IncidentResponsePlan,
		RateLimiting:              a.RateLimiting,
		FinancialImpact:           string(a.FinancialImpact),
		AffectsFinancialReporting: a.AffectsFinancialReporting,
		ExternalIntegrations:      int64(a.ExternalIntegrations),
		IntegrationComplexity:     string(a.IntegrationComplexity),
	}
}

func (d attributesDoc) toModel() model.Attributes {
	dataTypes := make([]types.DataType, len(d.DataTypes))
	for i, dt := range d.DataTypes {
		dataTypes[i] = types.DataType(dt)
	}
	return model.Attributes{
		DataSensitivity:           types.DataSensitivity(d.DataSensitivity),
		PIIInvolved:               d.PIIInvolved,
		PHIInvolved:               d.PHIInvolved,
		CustomerData:              d.CustomerData,
		ModelProvider:             types.ModelProvider(d.ModelProvider),
		DeploymentType:            types.DeploymentType(d.DeploymentType),
		ExpectedUserBase:          types.UserBase(d.ExpectedUserBase),
		BusinessImpact:            d.BusinessImpact,
		VendorName:                d.VendorName,
		DataTypes:                 dataTypes,
		DataVolume:                types.Level(d.DataVolume),
		AutonomyLevel:             types.AutonomyLevel(d.AutonomyLevel),
		AutomatedDecisionMaking:   d.AutomatedDecisionMaking,
		HumanInTheLoop:            d.HumanInTheLoop,
		PublicAccess:              d.PublicAccess,
		EncryptionAtRest:          d.EncryptionAtRest,
		EncryptionInTransit:       d.EncryptionInTransit,
		RequiresAuthentication:    d.RequiresAuthentication,
		IncidentResponsePlan:      d.IncidentResponsePlan,
		RateLimiting:              d.RateLimiting,
		FinancialImpact:           types.FinancialImpact(d.FinancialImpact),
		AffectsFinancialReporting: d.AffectsFinancialReporting,
		ExternalIntegrations:      int(d.ExternalIntegrations),
		IntegrationComplexity:     types.Level(d.IntegrationComplexity),
	}
}

func toRequestDoc(r *model.IntakeRequest) *requestDoc {
	doc := &requestDoc{
		ID:            string(r.ID),
		Title:         r.Title,
		Description:   r.Description,
		RequestorID:   r.RequestorID,
		Details:       toAttributesDoc(r.Details),
		Status:        string(r.Status),
		LatestScoreID: string(r.LatestScoreID),
		ScoreVersion:  int64(r.ScoreVersion),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.RiskScore != nil {
		score := int64(*r.RiskScore)
		doc.RiskScore = &score
	}
	return doc
}

func (d *requestDoc) toModel() *model.IntakeRequest {
	r := &model.IntakeRequest{
		ID:            model.RequestID(d.ID),
		Title:         d.Title,
		Description:   d.Description,
		RequestorID:   d.RequestorID,
		Details:       d.Details.toModel(),
		Status:        types.RequestStatus(d.Status),
		LatestScoreID: model.RiskScoreID(d.LatestScoreID),
		ScoreVersion:  int(d.ScoreVersion),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.RiskScore != nil {
		score := int(*d.RiskScore)
		r.RiskScore = &score
	}
	return r
}

func toReviewTaskDoc(t *model.ReviewTask) *reviewTaskDoc {
	return &reviewTaskDoc{
		ID:         string(t.ID),
		RequestID:  string(t.RequestID),
		Team:       string(t.Team),
		Status:     string(t.Status),
		Comments:   t.Comments,
		ReviewerID: t.ReviewerID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (d *reviewTaskDoc) toModel() *model.ReviewTask {
	return &model.ReviewTask{
		ID:         model.ReviewTaskID(d.ID),
		RequestID:  model.RequestID(d.RequestID),
		Team:       types.TeamID(d.Team),
		Status:     types.TaskStatus(d.Status),
		Comments:   d.Comments,
		ReviewerID: d.ReviewerID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toRiskScoreDoc(s *model.RiskScore) *riskScoreDoc {
	return &riskScoreDoc{
		ID:            string(s.ID),
		RequestID:     string(s.RequestID),
		Version:       int64(s.Version),
		PolicyVersion: s.PolicyVersion,
		NIST:          int64(s.Scores.NIST),
		SOC2:          int64(s.Scores.SOC2),
		SOX:           int64(s.Scores.SOX),
		OWASP:         int64(s.Scores.OWASP),
		MAESTRO:       int64(s.Scores.MAESTRO),
		Total:         int64(s.Total),
		Tier:          string(s.Tier),
		CreatedAt:     s.CreatedAt,
	}
}

func (d *riskScoreDoc) toModel() *model.RiskScore {
	return &model.RiskScore{
		ID:            model.RiskScoreID(d.ID),
		RequestID:     model.RequestID(d.RequestID),
		Version:       int(d.Version),
		PolicyVersion: d.PolicyVersion,
		Scores: model.FrameworkScores{
			NIST:    int(d.NIST),
			SOC2:    int(d.SOC2),
			SOX:     int(d.SOX),
			OWASP:   int(d.OWASP),
			MAESTRO: int(d.MAESTRO),
		},
		Total:     int(d.Total),
		Tier:      types.RiskTier(d.Tier),
		CreatedAt: d.CreatedAt,
	}
}

func toAuditLogDoc(l *model.AuditLog) *auditLogDoc {
	return &auditLogDoc{
		ID:        string(l.ID),
		RequestID: string(l.RequestID),
		Action:    string(l.Action),
		ActorID:   l.ActorID,
		Metadata:  maps.Clone(l.Metadata),
		CreatedAt: l.CreatedAt,
	}
}

func (d *auditLogDoc) toModel() *model.AuditLog {
	return &model.AuditLog{
		ID:        model.AuditLogID(d.ID),
		RequestID: model.RequestID(d.RequestID),
		Action:    types.AuditAction(d.Action),
		ActorID:   d.ActorID,
		Metadata:  maps.Clone(d.Metadata),
		CreatedAt: d.CreatedAt,
	}
}

func toReviewCommentDoc(c *model.ReviewComment) *reviewCommentDoc {
	return &reviewCommentDoc{
		ID:          string(c.ID),
		RequestID:   string(c.RequestID),
		TaskID:      string(c.TaskID),
		Team:        string(c.Team),
		CommenterID: c.CommenterID,
		Section:     c.Section,
		Text:        c.Text,
		CreatedAt:   c.CreatedAt,
	}
}

func (d *reviewCommentDoc) toModel() *model.ReviewComment {
	return &model.ReviewComment{
		ID:          model.ReviewCommentID(d.ID),
		RequestID:   model.RequestID(d.RequestID),
		TaskID:      model.ReviewTaskID(d.TaskID),
		Team:        types.TeamID(d.Team),
		CommenterID: d.CommenterID,
		Section:     d.Section,
		Text:        d.Text,
		CreatedAt:   d.CreatedAt,
	}
}

func toChecklistDoc(c *model.ComplianceChecklist) *checklistDoc {
	items := make([]checklistItemDoc, len(c.Items))
	for i, item := range c.Items {
		items[i] = checklistItemDoc{
			QuestionID: item.QuestionID,
			Category:   item.Category,
			Question:   item.Question,
			Answer:     string(item.Answer),
			Notes:      item.Notes,
		}
	}
	return &checklistDoc{
		ID:          string(c.ID),
		RequestID:   string(c.RequestID),
		Framework:   string(c.Framework),
		Items:       items,
		Completed:   c.Completed,
		CompletedBy: c.CompletedBy,
		CompletedAt: c.CompletedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d *checklistDoc) toModel() *model.ComplianceChecklist {
	items := make([]model.ChecklistItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = model.ChecklistItem{
			QuestionID: item.QuestionID,
			Category:   item.Category,
			Question:   item.Question,
			Answer:     types.ChecklistAnswer(item.Answer),
			Notes:      item.Notes,
		}
	}
	return &model.ComplianceChecklist{
		ID:          model.ChecklistID(d.ID),
		RequestID:   model.RequestID(d.RequestID),
		Framework:   types.Framework(d.Framework),
		Items:       items,
		Completed:   d.Completed,
		CompletedBy: d.CompletedBy,
		CompletedAt: d.CompletedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
