package dto

import (
	"time"

	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// Request bodies and query strings of the tool endpoints. Struct tags catch
// shape errors at the edge; the domain still owns the business rules.

// SWOTItemRequest adds or edits a SWOT item. Priority and impact default to medium.
type SWOTItemRequest struct {
	Text     string `json:"text"               validate:"notempty,max=500"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Impact   string `json:"impact,omitempty"   validate:"omitempty,oneof=high medium low"`
}

// Input converts the request into the service input.
func (r SWOTItemRequest) Input() app.SWOTItemInput {
	return app.SWOTItemInput{
		Text:     r.Text,
		Priority: domain.Level(r.Priority),
		Impact:   domain.Level(r.Impact),
	}
}

// CanvasItemRequest adds an entry to one canvas section. Level is the
// importance of jobs and gains or the severity of pains; RefID links a
// reliever to a pain or a creator to a gain.
type CanvasItemRequest struct {
	Name        string `json:"name,omitempty"        validate:"max=200"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Level       string `json:"level,omitempty"       validate:"omitempty,oneof=high medium low"`
	RefID       string `json:"refId,omitempty"       validate:"max=100"`
}

// Input converts the request into the service input.
func (r CanvasItemRequest) Input() app.CanvasItemInput {
	return app.CanvasItemInput{
		Name:        r.Name,
		Description: r.Description,
		Level:       domain.Level(r.Level),
		RefID:       r.RefID,
	}
}

// GrantQuery filters the grants catalog.
type GrantQuery struct {
	PaginationRequest
	Search    string `form:"search"    json:"search"`
	Status    string `form:"status"    json:"status"    validate:"omitempty,oneof=closing-soon open upcoming closed"`
	Category  string `form:"category"  json:"category"`
	SavedOnly bool   `form:"savedOnly" json:"savedOnly"`
}

// Filter converts the query into a domain filter.
func (q GrantQuery) Filter() domain.GrantFilter {
	return domain.GrantFilter{
		Search:    q.Search,
		Status:    domain.GrantStatus(q.Status),
		Category:  q.Category,
		SavedOnly: q.SavedOnly,
	}
}

// InvestorQuery filters the investor directory.
type InvestorQuery struct {
	PaginationRequest
	Search    string `form:"search"    json:"search"`
	Type      string `form:"type"      json:"type"      validate:"omitempty,oneof=angel vc accelerator corporate"`
	Stage     string `form:"stage"     json:"stage"`
	Sector    string `form:"sector"    json:"sector"`
	SavedOnly bool   `form:"savedOnly" json:"savedOnly"`
}

// Filter converts the query into a domain filter.
func (q InvestorQuery) Filter() domain.InvestorFilter {
	return domain.InvestorFilter{
		Search:    q.Search,
		Type:      domain.InvestorType(q.Type),
		Stage:     q.Stage,
		Sector:    q.Sector,
		SavedOnly: q.SavedOnly,
	}
}

// ToolQuery filters the tool directories.
type ToolQuery struct {
	PaginationRequest
	Search       string `form:"search"       json:"search"`
	Kind         string `form:"kind"         json:"kind"         validate:"omitempty,oneof=ai cloud devops"`
	Category     string `form:"category"     json:"category"`
	Pricing      string `form:"pricing"      json:"pricing"      validate:"omitempty,oneof=free freemium paid"`
	FreeTierOnly bool   `form:"freeTierOnly" json:"freeTierOnly"`
	SavedOnly    bool   `form:"savedOnly"    json:"savedOnly"`
}

// Filter converts the query into a domain filter.
func (q ToolQuery) Filter() domain.ToolFilter {
	return domain.ToolFilter{
		Search:       q.Search,
		Kind:         domain.ToolKind(q.Kind),
		Category:     q.Category,
		Pricing:      domain.Pricing(q.Pricing),
		FreeTierOnly: q.FreeTierOnly,
		SavedOnly:    q.SavedOnly,
	}
}

// ChoiceRequest records the chosen legal structure.
type ChoiceRequest struct {
	StructureID string `json:"structureId" validate:"notempty"`
}

// QuestionnaireRequest feeds the legal structure recommender.
type QuestionnaireRequest struct {
	Owners              int    `json:"owners"                   validate:"gte=0,lte=1000"`
	WantsLiability      bool   `json:"wantsLiabilityProtection"`
	PlansToRaiseCapital bool   `json:"plansToRaiseCapital"`
	PrefersPassThrough  bool   `json:"prefersPassThroughTax"`
	PrefersSimplicity   bool   `json:"prefersSimplicity"`
	Nonprofit           bool   `json:"nonprofit"`
	Budget              string `json:"budget,omitempty"         validate:"omitempty,oneof=high medium low"`
}

// Questionnaire converts the request into the domain questionnaire.
func (r QuestionnaireRequest) Questionnaire() domain.Questionnaire {
	return domain.Questionnaire{
		Owners:              r.Owners,
		WantsLiability:      r.WantsLiability,
		PlansToRaiseCapital: r.PlansToRaiseCapital,
		PrefersPassThrough:  r.PrefersPassThrough,
		PrefersSimplicity:   r.PrefersSimplicity,
		Nonprofit:           r.Nonprofit,
		Budget:              domain.Level(r.Budget),
	}
}

// TaskRequest creates or replaces a compliance task.
type TaskRequest struct {
	Title       string    `json:"title"                 validate:"notempty,max=200"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	Category    string    `json:"category"              validate:"notempty,max=100"`
	Status      string    `json:"status,omitempty"      validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string    `json:"priority,omitempty"    validate:"omitempty,oneof=high medium low"`
	DueDate     time.Time `json:"dueDate"               validate:"required"`
	Recurring   bool      `json:"recurring,omitempty"`
}

// Input converts the request into the service input.
func (r TaskRequest) Input() app.ComplianceTaskInput {
	return app.ComplianceTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.Level(r.Priority),
		DueDate:     r.DueDate,
		Recurring:   r.Recurring,
	}
}

// TaskStatusRequest moves a task to a new status.
type TaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed"`
}

// TaskQuery filters the compliance task list.
type TaskQuery struct {
	Search   string `form:"search"   json:"search"`
	Status   string `form:"status"   json:"status"   validate:"omitempty,oneof=pending in-progress completed"`
	Category string `form:"category" json:"category"`
	Urgency  string `form:"urgency"  json:"urgency"  validate:"omitempty,oneof=done overdue upcoming later"`
}

// Filter converts the query into a domain filter.
func (q TaskQuery) Filter() domain.TaskFilter {
	return domain.TaskFilter{
		Search:   q.Search,
		Status:   domain.TaskStatus(q.Status),
		Category: q.Category,
		Urgency:  domain.TaskUrgency(q.Urgency),
	}
}

// CampaignRequest creates or edits a draft campaign.
type CampaignRequest struct {
	Name        string `json:"name"                  validate:"notempty,max=200"`
	Subject     string `json:"subject"               validate:"notempty,max=200"`
	PreviewText string `json:"previewText,omitempty" validate:"max=300"`
	Body        string `json:"body"                  validate:"notempty"`
	Segment     string `json:"segment,omitempty"     validate:"max=100"`
	Recipients  int    `json:"recipients"            validate:"gte=1,lte=1000000"`
}

// Input converts the request into the service input.
func (r CampaignRequest) Input() app.CampaignInput {
	return app.CampaignInput{
		Name:        r.Name,
		Subject:     r.Subject,
		PreviewText: r.PreviewText,
		Body:        r.Body,
		Segment:     r.Segment,
		Recipients:  r.Recipients,
	}
}

// PreviewRequest fills a contract template without saving it.
type PreviewRequest struct {
	Values map[string]string `json:"values"`
}

// DraftRequest fills a contract template and saves the result.
type DraftRequest struct {
	TemplateID string            `json:"templateId" validate:"notempty"`
	Title      string            `json:"title,omitempty" validate:"max=200"`
	Values     map[string]string `json:"values"`
}

// FormatQuery selects a download format.
type FormatQuery struct {
	Format string `form:"format" json:"format" validate:"omitempty,oneof=txt pdf"`
}

// ExportFormat returns the requested format, defaulting to text.
func (q FormatQuery) ExportFormat() domain.ExportFormat {
	if q.Format == "" {
		return domain.FormatText
	}

	return domain.ExportFormat(q.Format)
}

// CertificateQuery names the certificate recipient and format.
type CertificateQuery struct {
	FormatQuery
	Name string `form:"name" json:"name" validate:"max=100"`
}

// ExpertRequest is the expert network sign-up form.
type ExpertRequest struct {
	Name            string   `json:"name"                validate:"notempty,max=200"`
	Email           string   `json:"email"               validate:"required,email"`
	Phone           string   `json:"phone,omitempty"     validate:"max=40"`
	Company         string   `json:"company,omitempty"   validate:"max=200"`
	Title           string   `json:"title,omitempty"     validate:"max=200"`
	Expertise       []string `json:"expertise"           validate:"min=1,max=10,dive,notempty"`
	YearsExperience int      `json:"yearsExperience"     validate:"gte=0,lte=70"`
	HourlyRate      int      `json:"hourlyRate,omitempty" validate:"gte=0"`
	Availability    string   `json:"availability"        validate:"notempty"`
	LinkedIn        string   `json:"linkedin,omitempty"  validate:"omitempty,url"`
	Bio             string   `json:"bio"                 validate:"notempty,max=2000"`
}

// Registration converts the form into a domain registration.
func (r ExpertRequest) Registration() domain.ExpertRegistration {
	return domain.ExpertRegistration{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Company:         r.Company,
		Title:           r.Title,
		Expertise:       r.Expertise,
		YearsExperience: r.YearsExperience,
		HourlyRate:      r.HourlyRate,
		Availability:    r.Availability,
		LinkedIn:        r.LinkedIn,
		Bio:             r.Bio,
	}
}

// NameRequest asks the name generator for suggestions.
type NameRequest struct {
	Keywords []string `json:"keywords"         validate:"min=1,max=10,dive,notempty"`
	Industry string   `json:"industry,omitempty" validate:"max=100"`
	Style    string   `json:"style,omitempty"  validate:"omitempty,oneof=modern classic playful tech"`
	Count    int      `json:"count,omitempty"  validate:"gte=0,lte=50"`
}

// Request converts the body into the domain request.
func (r NameRequest) Request() domain.NameRequest {
	return domain.NameRequest{
		Keywords: r.Keywords,
		Industry: r.Industry,
		Style:    domain.NameStyle(r.Style),
		Count:    r.Count,
	}
}
