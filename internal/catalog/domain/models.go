// Package domain holds the immutable plan and add-on reference data offered
// by the quote wizard.
package domain

import "sort"

type PlanID string

const (
	PlanStarter    PlanID = "starter"
	PlanBusiness   PlanID = "business"
	PlanEnterprise PlanID = "enterprise"
)

// PlanTiers lists plan ids from entry tier to highest tier.
var PlanTiers = []PlanID{PlanStarter, PlanBusiness, PlanEnterprise}

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

func (c BillingCycle) Valid() bool {
	return c == BillingMonthly || c == BillingYearly
}

// PricingMode tells the pricing engine whether an add-on is charged every
// billing period or once.
type PricingMode string

const (
	Recurring PricingMode = "recurring"
	OneTime   PricingMode = "one_time"
)

type Plan struct {
	ID           PlanID   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice int64    `json:"monthly_price"`
	YearlyPrice  int64    `json:"yearly_price"`
	Features     []string `json:"features"`
}

// Price returns the per-month price for the given cycle. Yearly prices are
// stored as the monthly equivalent when billed annually.
func (p Plan) Price(cycle BillingCycle) int64 {
	if cycle == BillingYearly {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}

type AddOn struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	UnitPrice   int64       `json:"unit_price"`
	PricingMode PricingMode `json:"pricing_mode"`
	Unit        string      `json:"unit"`
	// EligiblePlans is empty when the add-on is offered on every plan.
	EligiblePlans []PlanID `json:"eligible_plans,omitempty"`
}

func (a AddOn) EligibleFor(planID PlanID) bool {
	if len(a.EligiblePlans) == 0 {
		return true
	}
	for _, id := range a.EligiblePlans {
		if id == planID {
			return true
		}
	}
	return false
}

// Catalog is a read-only snapshot of plans and add-ons. A wizard session
// keeps the snapshot it started with.
type Catalog struct {
	Currency string  `json:"currency"`
	Plans    []Plan  `json:"plans"`
	AddOns   []AddOn `json:"addons"`

	plans  map[PlanID]Plan
	addOns map[string]AddOn
}

func NewCatalog(currency string, plans []Plan, addOns []AddOn) *Catalog {
	c := &Catalog{
		Currency: currency,
		Plans:    append([]Plan(nil), plans...),
		AddOns:   append([]AddOn(nil), addOns...),
		plans:    make(map[PlanID]Plan, len(plans)),
		addOns:   make(map[string]AddOn, len(addOns)),
	}
	for _, p := range c.Plans {
		c.plans[p.ID] = p
	}
	for _, a := range c.AddOns {
		c.addOns[a.ID] = a
	}
	return c
}

func (c *Catalog) Plan(id PlanID) (Plan, bool) {
	if c == nil {
		return Plan{}, false
	}
	p, ok := c.plans[id]
	return p, ok
}

func (c *Catalog) AddOn(id string) (AddOn, bool) {
	if c == nil {
		return AddOn{}, false
	}
	a, ok := c.addOns[id]
	return a, ok
}

// Eligible reports whether addOnID exists and may be selected with planID.
func (c *Catalog) Eligible(addOnID string, planID PlanID) bool {
	a, ok := c.AddOn(addOnID)
	if !ok {
		return false
	}
	return a.EligibleFor(planID)
}

// AddOnIDs returns the catalog add-on ids in sorted order.
func (c *Catalog) AddOnIDs() []string {
	ids := make([]string, 0, len(c.addOns))
	for id := range c.addOns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Add-on ids referenced by the recommendation rules.
const (
	AddOnImplStandard  = "impl_standard"
	AddOnImplPro       = "impl_pro"
	AddOnImplExpress   = "impl_express"
	AddOnDedicatedIP   = "dedicated_ip"
	AddOnExtraStorage  = "extra_storage"
	AddOnDataMigration = "data_migration"
	AddOnAPIIntegrate  = "api_integration"
	AddOnCustomReport  = "custom_report"
	AddOnTraining      = "training"
)
