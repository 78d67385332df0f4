// Package domain is the quote wizard state machine. A Session owns the
// assessment, the selection state and the issued quotation of one visitor
// and re-derives scores and prices whenever an input changes.
//
// A Session is not safe for concurrent use; callers serialise access.
package domain

import (
	"time"

	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	pricingdomain "github.com/smallbiznis/quoteflow/internal/pricing/domain"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"github.com/smallbiznis/quoteflow/internal/recommendation"
	"github.com/smallbiznis/quoteflow/internal/scoring"
	"github.com/smallbiznis/quoteflow/pkg/validation"
)

const (
	MaxAddOnQuantity = 10000

	InvalidDiscountMessage = "Invalid discount code"
)

// DiscountLookup resolves a free-text code.
type DiscountLookup interface {
	Lookup(code string) (pricingdomain.Discount, error)
}

// Engines are the collaborators a session derives values with.
type Engines struct {
	Pricing   pricingdomain.Service
	Quotation quotationdomain.Service
	Discounts DiscountLookup
}

// Selection is the customer's configuration. AddOns never holds a zero or
// negative quantity.
type Selection struct {
	PlanID       catalogdomain.PlanID       `json:"plan_id"`
	BillingCycle catalogdomain.BillingCycle `json:"billing_cycle"`
	AddOns       map[string]int             `json:"addons"`
}

func (s Selection) clone() Selection {
	out := s
	out.AddOns = make(map[string]int, len(s.AddOns))
	for id, qty := range s.AddOns {
		out.AddOns[id] = qty
	}
	return out
}

// Derived holds every value computed from the session inputs.
type Derived struct {
	scoring.Result
	DefaultAddOns map[string]int          `json:"default_addons"`
	Breakdown     pricingdomain.Breakdown `json:"breakdown"`
}

func (d Derived) clone() Derived {
	out := d
	out.DefaultAddOns = make(map[string]int, len(d.DefaultAddOns))
	for id, qty := range d.DefaultAddOns {
		out.DefaultAddOns[id] = qty
	}
	out.Breakdown = d.Breakdown.Clone()
	return out
}

type memo struct {
	revision int
	value    Derived
}

type Session struct {
	id      string
	catalog *catalogdomain.Catalog
	engines Engines

	stage      Stage
	step       int
	assessment assessmentdomain.Assessment
	selection  Selection
	discount   *pricingdomain.Discount
	startDate  *time.Time

	discountError string
	contactErrors validation.FieldErrors
	quotation     *quotationdomain.Quotation

	planSeeded   bool
	addOnsSeeded bool

	// revision is bumped on every write that can change a derived value.
	revision int
	memo     *memo
}

// NewSession starts a wizard at the first assessment step. The catalog
// snapshot stays fixed for the lifetime of the session.
func NewSession(id string, catalog *catalogdomain.Catalog, engines Engines) *Session {
	s := &Session{
		id:      id,
		catalog: catalog,
		engines: engines,
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.stage = StageAssessment
	s.step = FirstStep
	s.assessment = assessmentdomain.Defaults()
	s.selection = Selection{
		BillingCycle: catalogdomain.BillingMonthly,
		AddOns:       map[string]int{},
	}
	s.discount = nil
	s.startDate = nil
	s.discountError = ""
	s.contactErrors = nil
	s.quotation = nil
	s.planSeeded = false
	s.addOnsSeeded = false
	s.touch()
}

func (s *Session) touch() {
	s.revision++
	s.memo = nil
}

func (s *Session) ID() string                              { return s.id }
func (s *Session) Stage() Stage                            { return s.stage }
func (s *Session) Step() int                               { return s.step }
func (s *Session) Catalog() *catalogdomain.Catalog         { return s.catalog }
func (s *Session) Revision() int                           { return s.revision }
func (s *Session) Assessment() assessmentdomain.Assessment { return s.assessment }
func (s *Session) Selection() Selection                    { return s.selection.clone() }

// Quotation returns the issued quotation, if any.
func (s *Session) Quotation() (*quotationdomain.Quotation, bool) {
	if s.quotation == nil {
		return nil, false
	}
	q := s.quotation.Clone()
	return &q, true
}

// UpdateAssessment applies the answers of one step. An invalid patch
// changes nothing.
func (s *Session) UpdateAssessment(p assessmentdomain.Patch) error {
	if s.stage == StageThankYou {
		return ErrSessionCompleted
	}
	if err := s.assessment.Apply(p); err != nil {
		return err
	}
	s.touch()
	return nil
}

// CanProceed reports whether the current assessment step allows moving
// forward. Stages past the assessment have no gate.
func (s *Session) CanProceed() bool {
	if s.stage != StageAssessment {
		return true
	}
	switch s.step {
	case 1:
		return s.assessment.Industry != "" && s.assessment.CompanySize != ""
	case 2:
		return s.assessment.Deployment != "" && s.assessment.ServerLocation != ""
	default:
		return true
	}
}

// Next moves one step forward. It reports false, leaving the state as is,
// when the current step's gate is not satisfied or there is nowhere to go.
func (s *Session) Next() bool {
	switch s.stage {
	case StageAssessment:
		if !s.CanProceed() {
			return false
		}
		if s.step < LastStep {
			s.step++
			return true
		}
		s.enter(StageRecommendation)
		return true
	case StageRecommendation:
		s.enter(StageCustomize)
		return true
	case StageCustomize:
		s.enter(StageCheckout)
		return true
	default:
		return false
	}
}

// Prev moves one step back. The thank-you stage is final.
func (s *Session) Prev() bool {
	switch s.stage {
	case StageAssessment:
		if s.step <= FirstStep {
			return false
		}
		s.step--
		return true
	case StageRecommendation:
		s.stage = StageAssessment
		s.step = LastStep
		return true
	case StageCustomize:
		s.enter(StageRecommendation)
		return true
	case StageCheckout:
		s.enter(StageCustomize)
		return true
	default:
		return false
	}
}

// Jump moves straight to a top-level stage without evaluating step gates.
// Thank-you is reachable only after a quotation is issued and cannot be
// left except through Restart.
func (s *Session) Jump(target Stage) error {
	if !target.Valid() {
		return ErrInvalidStage
	}
	if s.stage == StageThankYou {
		if target == StageThankYou {
			return nil
		}
		return ErrSessionCompleted
	}
	if target == StageThankYou {
		return ErrQuotationNotIssued
	}
	s.enter(target)
	return nil
}

func (s *Session) enter(target Stage) {
	s.stage = target
	switch target {
	case StageRecommendation:
		s.seedPlan()
	case StageCustomize:
		s.seedAddOns()
	}
}

// seedPlan runs once per session and never overrides a chosen plan.
func (s *Session) seedPlan() {
	if s.planSeeded {
		return
	}
	s.planSeeded = true
	if s.selection.PlanID != "" {
		return
	}
	s.selection.PlanID = s.Derived().RecommendedPlanID
	s.pruneIneligibleAddOns()
	s.touch()
}

// seedAddOns runs once per session. Clearing every add-on afterwards does
// not bring the defaults back.
func (s *Session) seedAddOns() {
	if s.addOnsSeeded {
		return
	}
	s.addOnsSeeded = true
	if len(s.selection.AddOns) > 0 {
		return
	}
	for id, qty := range s.Derived().DefaultAddOns {
		s.selection.AddOns[id] = qty
	}
	s.touch()
}

// SetPlan selects a plan. Add-ons the new plan cannot carry are dropped.
func (s *Session) SetPlan(id catalogdomain.PlanID) error {
	if s.stage == StageThankYou {
		return ErrSessionCompleted
	}
	if _, ok := s.catalog.Plan(id); !ok {
		return catalogdomain.ErrPlanNotFound
	}
	s.selection.PlanID = id
	s.planSeeded = true
	s.pruneIneligibleAddOns()
	s.touch()
	return nil
}

// pruneIneligibleAddOns drops add-ons chosen before the current plan was
// known that the plan cannot carry.
func (s *Session) pruneIneligibleAddOns() {
	if s.selection.PlanID == "" {
		return
	}
	for addOnID := range s.selection.AddOns {
		if !s.catalog.Eligible(addOnID, s.selection.PlanID) {
			delete(s.selection.AddOns, addOnID)
		}
	}
}

func (s *Session) SetBillingCycle(cycle catalogdomain.BillingCycle) error {
	if s.stage == StageThankYou {
		return ErrSessionCompleted
	}
	if !cycle.Valid() {
		return ErrInvalidBillingCycle
	}
	s.selection.BillingCycle = cycle
	s.touch()
	return nil
}

// SetAddOnQuantity sets the quantity of one add-on. A quantity of zero or
// less removes the add-on from the selection.
func (s *Session) SetAddOnQuantity(id string, qty int) error {
	if s.stage == StageThankYou {
		return ErrSessionCompleted
	}
	addOn, ok := s.catalog.AddOn(id)
	if !ok {
		return catalogdomain.ErrAddOnNotFound
	}
	if qty <= 0 {
		delete(s.selection.AddOns, id)
		s.touch()
		return nil
	}
	if qty > MaxAddOnQuantity {
		return ErrInvalidQuantity
	}
	if s.selection.PlanID != "" && !addOn.EligibleFor(s.selection.PlanID) {
		return catalogdomain.ErrAddOnNotEligible
	}
	s.selection.AddOns[id] = qty
	s.touch()
	return nil
}

// ApplyDiscount validates code. A code that does not match clears any
// applied discount and records the invalid-code message.
func (s *Session) ApplyDiscount(code string) error {
	if s.stage == StageThankYou {
		return ErrSessionCompleted
	}
	d, err := s.engines.Discounts.Lookup(code)
	if err != nil {
		s.discount = nil
		s.discountError = InvalidDiscountMessage
		s.touch()
		return err
	}
	s.discount = &d
	s.discountError = ""
	s.touch()
	return nil
}

func (s *Session) ClearDiscount() {
	if s.stage == StageThankYou {
		return
	}
	s.discount = nil
	s.discountError = ""
	s.touch()
}

// SetStartDate records the subscription start used for the proration
// preview. Nil clears it. Only the calendar date is kept.
func (s *Session) SetStartDate(t *time.Time) error {
	if s.stage == StageThankYou {
		return ErrSessionCompleted
	}
	if t == nil {
		s.startDate = nil
	} else {
		u := t.UTC()
		d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		s.startDate = &d
	}
	s.touch()
	return nil
}

// SubmitQuotation validates contact and, when valid, freezes a quotation
// and moves to the thank-you stage. Invalid contact only records the field
// errors. Submitting again after success returns the same quotation.
func (s *Session) SubmitQuotation(contact quotationdomain.Contact) (*quotationdomain.Quotation, error) {
	if q, ok := s.Quotation(); ok {
		return q, nil
	}
	if s.stage != StageCheckout {
		return nil, ErrNotAtCheckout
	}

	derived := s.Derived()
	plan, _ := s.catalog.Plan(s.selection.PlanID)
	q, err := s.engines.Quotation.Issue(quotationdomain.IssueRequest{
		Contact:   contact,
		Plan:      plan,
		Cycle:     s.selection.BillingCycle,
		Currency:  s.catalog.Currency,
		Breakdown: derived.Breakdown,
		Modules:   s.assessment.Modules.SelectedNames(),
		Scores:    derived.Result,
	})
	if err != nil {
		if fe, ok := validation.AsFieldErrors(err); ok {
			s.contactErrors = fe
		}
		return nil, err
	}

	s.contactErrors = nil
	s.quotation = q
	s.stage = StageThankYou
	out := q.Clone()
	return &out, nil
}

// Restart discards every answer, selection and quotation.
func (s *Session) Restart() {
	s.reset()
}

// Derived returns the scores, default add-ons and price breakdown for the
// current inputs. Values are memoised until the next write.
func (s *Session) Derived() Derived {
	if s.memo != nil && s.memo.revision == s.revision {
		return s.memo.value.clone()
	}

	result := scoring.Evaluate(s.assessment)
	value := Derived{
		Result:        result,
		DefaultAddOns: s.eligibleDefaults(result.ComplexityScore),
		Breakdown: s.engines.Pricing.Calculate(s.catalog, pricingdomain.Request{
			PlanID:     s.selection.PlanID,
			Cycle:      s.selection.BillingCycle,
			Selections: s.selection.AddOns,
			Discount:   s.discount,
			StartDate:  s.startDate,
		}),
	}
	s.memo = &memo{revision: s.revision, value: value}
	return value.clone()
}

// eligibleDefaults keeps the recommended add-ons that exist in the catalog
// and may be combined with the selected plan.
func (s *Session) eligibleDefaults(complexity float64) map[string]int {
	out := make(map[string]int)
	for id, qty := range recommendation.DefaultAddOns(s.assessment, complexity) {
		addOn, ok := s.catalog.AddOn(id)
		if !ok || qty <= 0 {
			continue
		}
		if s.selection.PlanID != "" && !addOn.EligibleFor(s.selection.PlanID) {
			continue
		}
		out[id] = qty
	}
	return out
}
