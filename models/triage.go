package models

// Category is the support queue a ticket is routed to
type Category string

const (
	CategoryBilling   Category = "billing"
	CategoryTechnical Category = "technical"
	CategoryAccount   Category = "account"
	CategorySales     Category = "sales"
	CategoryOther     Category = "other"
)

// Categories lists every accepted category in schema order
var Categories = []Category{
	CategoryBilling,
	CategoryTechnical,
	CategoryAccount,
	CategorySales,
	CategoryOther,
}

// IsValid checks if the category is one of the accepted values
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Priority is the urgency assigned to a ticket
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every accepted priority from least to most urgent
var Priorities = []Priority{
	PriorityLow,
	PriorityNormal,
	PriorityHigh,
	PriorityUrgent,
}

// IsValid checks if the priority is one of the accepted values
func (p Priority) IsValid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// TicketInput is the subject/body pair submitted for classification
type TicketInput struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// TriageFlags is the fixed set of boolean signals attached to every result.
// Exactly these four keys exist on the wire.
type TriageFlags struct {
	RequiresHuman bool `json:"requires_human"`
	IsAbusive     bool `json:"is_abusive"`
	MissingInfo   bool `json:"missing_info"`
	IsVIPCustomer bool `json:"is_vip_customer"`
}

// TriageOutput is the validated classification produced by a backend
type TriageOutput struct {
	Category Category    `json:"category"`
	Priority Priority    `json:"priority"`
	Flags    TriageFlags `json:"flags"`
}

// UsageRecord describes the token consumption and estimated cost of a triage
type UsageRecord struct {
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	CostUSD      float64 `json:"costUSD"`
	Model        string  `json:"model"`
}

// TriageResult is the only successful return value of the triage core
type TriageResult struct {
	TriageOutput
	Usage UsageRecord `json:"usage"`
}
