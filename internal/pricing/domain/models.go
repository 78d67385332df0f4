// Package domain describes the inputs and the priced breakdown of a wizard
// configuration.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
)

// Discount is an applied discount code with a flat percentage off the
// subtotal.
type Discount struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
}

// Request carries everything the calculator needs. Selections maps add-on id
// to quantity; non-positive quantities and unknown ids are ignored.
type Request struct {
	PlanID     catalogdomain.PlanID
	Cycle      catalogdomain.BillingCycle
	Selections map[string]int
	Discount   *Discount
	StartDate  *time.Time
}

type LineKind string

const (
	LinePlan  LineKind = "plan"
	LineAddOn LineKind = "addon"
)

// Line is one itemised charge. Amount is what the line contributes to the
// subtotal, so recurring lines on a yearly cycle are already multiplied by
// Periods.
type Line struct {
	Kind        LineKind                  `json:"kind"`
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	PricingMode catalogdomain.PricingMode `json:"pricing_mode"`
	Unit        string                    `json:"unit,omitempty"`
	Quantity    int                       `json:"quantity"`
	UnitPrice   decimal.Decimal           `json:"unit_price"`
	Periods     int                       `json:"periods"`
	Amount      decimal.Decimal           `json:"amount"`
}

type Breakdown struct {
	PlanID   catalogdomain.PlanID       `json:"plan_id,omitempty"`
	Cycle    catalogdomain.BillingCycle `json:"billing_cycle,omitempty"`
	Currency string                     `json:"currency,omitempty"`

	BasePrice        decimal.Decimal `json:"base_price"`
	RecurringAddOns  decimal.Decimal `json:"recurring_addons"`
	MonthlyRecurring decimal.Decimal `json:"monthly_recurring"`
	OneTimeFees      decimal.Decimal `json:"one_time_fees"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountCode     string          `json:"discount_code,omitempty"`
	DiscountPercent  int             `json:"discount_percent"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalDue         decimal.Decimal `json:"total_due"`

	Lines     []Line     `json:"lines"`
	Proration *Proration `json:"proration,omitempty"`
}

// Empty reports whether the breakdown was produced without a resolvable plan.
func (b Breakdown) Empty() bool {
	return b.PlanID == ""
}

// Clone returns a deep copy safe to hand out of a session.
func (b Breakdown) Clone() Breakdown {
	out := b
	if b.Lines != nil {
		out.Lines = append([]Line(nil), b.Lines...)
	}
	if b.Proration != nil {
		p := *b.Proration
		out.Proration = &p
	}
	return out
}

// Proration previews what is due for the first, partial billing period when
// a start date is known. It never changes the breakdown totals.
type Proration struct {
	StartDate       time.Time       `json:"start_date"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
	Factor          float64         `json:"factor"`
	RecurringAmount decimal.Decimal `json:"recurring_amount"`
	OneTimeFees     decimal.Decimal `json:"one_time_fees"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DueNow          decimal.Decimal `json:"due_now"`
}
