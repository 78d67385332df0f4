// Package domain defines the contact schema and the frozen quotation record.
package domain

import (
	"strings"
	"time"

	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	pricingdomain "github.com/smallbiznis/quoteflow/internal/pricing/domain"
	"github.com/smallbiznis/quoteflow/internal/scoring"
	"github.com/smallbiznis/quoteflow/pkg/validation"
)

// Contact is the lead captured at checkout. Last name and role are optional.
type Contact struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email_shape,max=254"`
	Company   string `json:"company" validate:"required,max=200"`
	Phone     string `json:"phone" validate:"required,max=40"`
	Role      string `json:"role" validate:"max=100"`
}

// Normalize trims surrounding whitespace so blank input counts as missing.
func (c Contact) Normalize() Contact {
	return Contact{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Company:   strings.TrimSpace(c.Company),
		Phone:     strings.TrimSpace(c.Phone),
		Role:      strings.TrimSpace(c.Role),
	}
}

// Validate returns nil or validation.FieldErrors in form order.
func (c Contact) Validate() error {
	return validation.Struct(c.Normalize())
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type PlanSnapshot struct {
	ID       catalogdomain.PlanID `json:"id"`
	Name     string               `json:"name"`
	Features []string             `json:"features"`
}

// Quotation is immutable once issued; every slice is owned by the record.
type Quotation struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"issued_at"`
	Currency string    `json:"currency"`

	Contact      Contact                    `json:"contact"`
	Plan         PlanSnapshot               `json:"plan"`
	BillingCycle catalogdomain.BillingCycle `json:"billing_cycle"`
	Breakdown    pricingdomain.Breakdown    `json:"breakdown"`
	Modules      []string                   `json:"modules"`

	ComplexityScore        float64              `json:"complexity_score"`
	RecommendedPlanID      catalogdomain.PlanID `json:"recommended_plan_id"`
	EstimatedEfficiencyPct float64              `json:"estimated_efficiency_pct"`
}

func (q Quotation) Clone() Quotation {
	out := q
	out.Plan.Features = append([]string(nil), q.Plan.Features...)
	out.Modules = append([]string(nil), q.Modules...)
	out.Breakdown = q.Breakdown.Clone()
	return out
}

// IssueRequest is everything a quotation freezes.
type IssueRequest struct {
	Contact   Contact
	Plan      catalogdomain.Plan
	Cycle     catalogdomain.BillingCycle
	Currency  string
	Breakdown pricingdomain.Breakdown
	Modules   []string
	Scores    scoring.Result
}
