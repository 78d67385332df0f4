package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	catalogservice "github.com/smallbiznis/quoteflow/internal/catalog/service"
	"github.com/smallbiznis/quoteflow/internal/clock"
	"github.com/smallbiznis/quoteflow/internal/config"
	"github.com/smallbiznis/quoteflow/internal/discount"
	pricingservice "github.com/smallbiznis/quoteflow/internal/pricing/service"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	quotationservice "github.com/smallbiznis/quoteflow/internal/quotation/service"
	"github.com/smallbiznis/quoteflow/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func newTestSession(t *testing.T) *Session {
	t.Helper()
	fake := clock.NewFakeClock(time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC))
	engines := Engines{
		Pricing:   pricingservice.New(pricingservice.Params{Log: zap.NewNop()}),
		Quotation: quotationservice.New(quotationservice.Params{Clock: fake, Log: zap.NewNop()}),
		Discounts: discount.NewStaticRegistry(config.DefaultQuoteConfig().DiscountCodes),
	}
	return NewSession("s-1", catalogservice.Default(), engines)
}

func answerGates(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{
		Industry:       ptr(assessmentdomain.IndustryRetail),
		CompanySize:    ptr("small"),
		Deployment:     ptr(assessmentdomain.DeploymentCloud),
		ServerLocation: ptr("indonesia"),
	}))
}

// walkToRecommendation answers the gated steps and presses next through
// every assessment step.
func walkToRecommendation(t *testing.T, s *Session) {
	t.Helper()
	answerGates(t, s)
	for i := FirstStep; i <= LastStep; i++ {
		require.True(t, s.Next())
	}
	require.Equal(t, StageRecommendation, s.Stage())
}

func validContact() quotationdomain.Contact {
	return quotationdomain.Contact{
		FirstName: "Dewi",
		Email:     "dewi@example.id",
		Company:   "PT Nusantara",
		Phone:     "+62 811 1111 111",
	}
}

func TestNewSessionStartsAtFirstStep(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, StageAssessment, s.Stage())
	assert.Equal(t, FirstStep, s.Step())
	assert.Empty(t, s.Selection().PlanID)
	assert.Equal(t, catalogdomain.BillingMonthly, s.Selection().BillingCycle)
	assert.True(t, s.Derived().Breakdown.Empty())
}

func TestStepGatesBlockNext(t *testing.T) {
	s := newTestSession(t)

	assert.False(t, s.CanProceed())
	assert.False(t, s.Next())
	assert.Equal(t, FirstStep, s.Step())

	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{Industry: ptr(assessmentdomain.IndustryRetail)}))
	assert.False(t, s.Next(), "company size is still missing")

	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{CompanySize: ptr("medium")}))
	require.True(t, s.Next())
	assert.Equal(t, 2, s.Step())

	assert.False(t, s.Next())
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{Deployment: ptr(assessmentdomain.DeploymentCloud)}))
	assert.False(t, s.Next(), "server location is still missing")
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{ServerLocation: ptr("singapore")}))
	require.True(t, s.Next())

	for step := 3; step <= LastStep; step++ {
		assert.Equal(t, step, s.Step())
		assert.True(t, s.CanProceed())
		require.True(t, s.Next())
	}
	assert.Equal(t, StageRecommendation, s.Stage())
}

func TestPrevNavigation(t *testing.T) {
	s := newTestSession(t)
	assert.False(t, s.Prev())

	walkToRecommendation(t, s)
	require.True(t, s.Prev())
	assert.Equal(t, StageAssessment, s.Stage())
	assert.Equal(t, LastStep, s.Step())

	require.True(t, s.Prev())
	assert.Equal(t, LastStep-1, s.Step())
}

func TestEnteringRecommendationSeedsPlanOnce(t *testing.T) {
	s := newTestSession(t)
	walkToRecommendation(t, s)
	assert.Equal(t, catalogdomain.PlanStarter, s.Selection().PlanID)

	require.NoError(t, s.SetPlan(catalogdomain.PlanEnterprise))
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{UserCount: ptr(500)}))
	require.NoError(t, s.Jump(StageAssessment))
	require.NoError(t, s.Jump(StageRecommendation))

	assert.Equal(t, catalogdomain.PlanEnterprise, s.Selection().PlanID)
}

func TestChosenPlanIsNotOverwrittenBySeeding(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanBusiness))

	walkToRecommendation(t, s)
	assert.Equal(t, catalogdomain.PlanBusiness, s.Selection().PlanID)
}

func TestLargeOnPremAssessmentSeedsHighestTier(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{
		UserCount:         ptr(400),
		Deployment:        ptr(assessmentdomain.DeploymentOnPrem),
		NeedsCustomModule: ptr(true),
	}))
	answerGates(t, s)
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{Deployment: ptr(assessmentdomain.DeploymentOnPrem)}))

	require.NoError(t, s.Jump(StageRecommendation))
	assert.Equal(t, catalogdomain.PlanEnterprise, s.Selection().PlanID)

	require.True(t, s.Next())
	assert.Equal(t, StageCustomize, s.Stage())
	assert.Equal(t, map[string]int{
		catalogdomain.AddOnImplPro:      1,
		catalogdomain.AddOnDedicatedIP:  1,
		catalogdomain.AddOnExtraStorage: 8,
		catalogdomain.AddOnTraining:     20,
	}, s.Selection().AddOns)
}

func TestAddOnSeedingHonoursManualChanges(t *testing.T) {
	s := newTestSession(t)
	walkToRecommendation(t, s)
	require.True(t, s.Next())
	assert.Equal(t, map[string]int{catalogdomain.AddOnImplStandard: 1}, s.Selection().AddOns)

	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnCustomReport, 3))
	require.NoError(t, s.Jump(StageRecommendation))
	require.NoError(t, s.Jump(StageCustomize))
	assert.Equal(t, map[string]int{
		catalogdomain.AddOnImplStandard: 1,
		catalogdomain.AddOnCustomReport: 3,
	}, s.Selection().AddOns)

	// Clearing everything does not bring the defaults back.
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnImplStandard, 0))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnCustomReport, 0))
	require.NoError(t, s.Jump(StageRecommendation))
	require.NoError(t, s.Jump(StageCustomize))
	assert.Empty(t, s.Selection().AddOns)
}

func TestZeroQuantityRemovesAddOn(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanBusiness))

	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, 4))
	assert.Equal(t, 4, s.Selection().AddOns[catalogdomain.AddOnTraining])

	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, 0))
	_, present := s.Selection().AddOns[catalogdomain.AddOnTraining]
	assert.False(t, present)

	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, 2))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, -5))
	_, present = s.Selection().AddOns[catalogdomain.AddOnTraining]
	assert.False(t, present)
}

func TestAddOnValidation(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanStarter))

	assert.ErrorIs(t, s.SetAddOnQuantity("unknown", 1), catalogdomain.ErrAddOnNotFound)
	assert.ErrorIs(t, s.SetAddOnQuantity(catalogdomain.AddOnDedicatedIP, 1), catalogdomain.ErrAddOnNotEligible)
	assert.ErrorIs(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, MaxAddOnQuantity+1), ErrInvalidQuantity)
	assert.Empty(t, s.Selection().AddOns)
}

func TestPlanSwitchDropsIneligibleAddOns(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanBusiness))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnDedicatedIP, 1))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, 2))

	require.NoError(t, s.SetPlan(catalogdomain.PlanStarter))
	assert.Equal(t, map[string]int{catalogdomain.AddOnTraining: 2}, s.Selection().AddOns)

	assert.ErrorIs(t, s.SetPlan("platinum"), catalogdomain.ErrPlanNotFound)
	assert.Equal(t, catalogdomain.PlanStarter, s.Selection().PlanID)
}

func TestJumpSkipsGates(t *testing.T) {
	s := newTestSession(t)
	require.False(t, s.CanProceed())

	require.NoError(t, s.Jump(StageCheckout))
	assert.Equal(t, StageCheckout, s.Stage())

	assert.ErrorIs(t, s.Jump("nowhere"), ErrInvalidStage)
	assert.ErrorIs(t, s.Jump(StageThankYou), ErrQuotationNotIssued)
}

func TestJumpingBackToRecommendationPrunesSeededAddOns(t *testing.T) {
	s := newTestSession(t)
	answerGates(t, s)
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{Locations: ptr(13)}))

	require.NoError(t, s.Jump(StageCustomize))
	assert.Empty(t, s.Selection().PlanID)
	assert.Contains(t, s.Selection().AddOns, catalogdomain.AddOnImplPro)

	require.NoError(t, s.Jump(StageRecommendation))
	sel := s.Selection()
	assert.Equal(t, catalogdomain.PlanStarter, sel.PlanID)
	assert.NotContains(t, sel.AddOns, catalogdomain.AddOnImplPro)
	for id := range sel.AddOns {
		assert.True(t, s.catalog.Eligible(id, sel.PlanID), id)
	}
	for _, line := range s.Derived().Breakdown.Lines {
		assert.NotEqual(t, catalogdomain.AddOnImplPro, line.ID)
	}
}

func TestAddOnPickedBeforePlanIsDroppedWhenPlanIsSeeded(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Jump(StageCheckout))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnDedicatedIP, 1))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, 3))

	require.NoError(t, s.Jump(StageRecommendation))
	sel := s.Selection()
	require.Equal(t, catalogdomain.PlanStarter, sel.PlanID)
	assert.Equal(t, map[string]int{catalogdomain.AddOnTraining: 3}, sel.AddOns)
}

func TestDerivedValuesFollowEveryWrite(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanStarter))
	first := s.Derived()
	rev := s.Revision()
	assert.True(t, decimal.NewFromInt(1_500_000).Equal(first.Breakdown.Subtotal))

	require.NoError(t, s.SetBillingCycle(catalogdomain.BillingYearly))
	assert.Greater(t, s.Revision(), rev)
	assert.True(t, decimal.NewFromInt(1_250_000*12).Equal(s.Derived().Breakdown.Subtotal))

	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnExtraStorage, 2))
	assert.True(t, decimal.NewFromInt(1_450_000*12).Equal(s.Derived().Breakdown.Subtotal))

	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{UserCount: ptr(100)}))
	assert.Equal(t, 55.0, s.Derived().ComplexityScore)

	assert.ErrorIs(t, s.SetBillingCycle("weekly"), ErrInvalidBillingCycle)
}

func TestDerivedIsCopiedOut(t *testing.T) {
	s := newTestSession(t)
	d := s.Derived()
	d.DefaultAddOns["hijack"] = 1

	assert.NotContains(t, s.Derived().DefaultAddOns, "hijack")
}

func TestDiscountCodes(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanBusiness))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnImplStandard, 1))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnCustomReport, 2))

	require.NoError(t, s.ApplyDiscount("bizops10"))
	b := s.Derived().Breakdown
	assert.True(t, decimal.NewFromInt(10_000_000).Equal(b.Subtotal))
	assert.True(t, decimal.NewFromInt(1_000_000).Equal(b.DiscountAmount))
	assert.True(t, decimal.NewFromInt(9_000_000).Equal(b.TotalDue))

	err := s.ApplyDiscount("FREESTUFF")
	assert.ErrorIs(t, err, discount.ErrInvalidCode)
	v := s.View()
	assert.Nil(t, v.Discount)
	assert.Equal(t, InvalidDiscountMessage, v.DiscountError)
	assert.True(t, v.Derived.Breakdown.TotalDue.Equal(v.Derived.Breakdown.Subtotal))

	require.NoError(t, s.ApplyDiscount("PARTNER20"))
	assert.Empty(t, s.View().DiscountError)
	s.ClearDiscount()
	assert.Nil(t, s.View().Discount)
}

func TestStartDateAddsProrationPreview(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanStarter))

	start := time.Date(2026, time.January, 16, 15, 45, 0, 0, time.UTC)
	require.NoError(t, s.SetStartDate(&start))

	v := s.View()
	require.NotNil(t, v.StartDate)
	assert.Equal(t, time.Date(2026, time.January, 16, 0, 0, 0, 0, time.UTC), *v.StartDate)
	require.NotNil(t, v.Derived.Breakdown.Proration)

	require.NoError(t, s.SetStartDate(nil))
	assert.Nil(t, s.Derived().Breakdown.Proration)
}

func TestSubmitQuotation(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.UpdateAssessment(assessmentdomain.Patch{
		Modules: map[string]bool{assessmentdomain.ModuleCRM: true, assessmentdomain.ModuleAccounting: true},
	}))
	walkToRecommendation(t, s)

	_, err := s.SubmitQuotation(validContact())
	assert.ErrorIs(t, err, ErrNotAtCheckout)

	require.True(t, s.Next())
	require.True(t, s.Next())
	require.Equal(t, StageCheckout, s.Stage())

	bad := validContact()
	bad.Email = "dewi-at-example"
	bad.Company = ""
	_, err = s.SubmitQuotation(bad)
	fe, ok := validation.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("email"))
	assert.True(t, fe.Has("company"))
	assert.Equal(t, StageCheckout, s.Stage())
	assert.Len(t, s.View().ContactErrors, 2)
	_, issued := s.Quotation()
	assert.False(t, issued)

	q, err := s.SubmitQuotation(validContact())
	require.NoError(t, err)
	assert.Regexp(t, `^QT-2026[1-9]\d{3}$`, q.ID)
	assert.Equal(t, StageThankYou, s.Stage())
	assert.Empty(t, s.View().ContactErrors)
	assert.Equal(t, []string{"CRM", "Accounting"}, q.Modules)
	assert.Equal(t, catalogdomain.PlanStarter, q.Plan.ID)
	assert.True(t, s.Derived().Breakdown.TotalDue.Equal(q.Breakdown.TotalDue))

	again, err := s.SubmitQuotation(validContact())
	require.NoError(t, err)
	assert.Equal(t, q.ID, again.ID)
}

func TestCompletedSessionIsFrozen(t *testing.T) {
	s := newTestSession(t)
	walkToRecommendation(t, s)
	require.NoError(t, s.Jump(StageCheckout))
	q, err := s.SubmitQuotation(validContact())
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetPlan(catalogdomain.PlanBusiness), ErrSessionCompleted)
	assert.ErrorIs(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, 1), ErrSessionCompleted)
	assert.ErrorIs(t, s.UpdateAssessment(assessmentdomain.Patch{UserCount: ptr(2)}), ErrSessionCompleted)
	assert.ErrorIs(t, s.Jump(StageCustomize), ErrSessionCompleted)
	assert.NoError(t, s.Jump(StageThankYou))
	assert.False(t, s.Prev())
	assert.False(t, s.Next())

	stored, ok := s.Quotation()
	require.True(t, ok)
	assert.Equal(t, q.ID, stored.ID)
}

func TestRestartClearsEverything(t *testing.T) {
	s := newTestSession(t)
	walkToRecommendation(t, s)
	require.True(t, s.Next())
	require.NoError(t, s.ApplyDiscount("BIZOPS10"))
	require.NoError(t, s.Jump(StageCheckout))
	_, err := s.SubmitQuotation(validContact())
	require.NoError(t, err)

	s.Restart()

	v := s.View()
	assert.Equal(t, "s-1", v.ID)
	assert.Equal(t, StageAssessment, v.Stage)
	assert.Equal(t, FirstStep, v.Step)
	assert.Equal(t, assessmentdomain.Defaults(), v.Assessment)
	assert.Empty(t, v.Selection.PlanID)
	assert.Empty(t, v.Selection.AddOns)
	assert.Nil(t, v.Discount)
	assert.Nil(t, v.Quotation)

	// Seeding runs again after a restart.
	walkToRecommendation(t, s)
	assert.Equal(t, catalogdomain.PlanStarter, s.Selection().PlanID)
	require.True(t, s.Next())
	assert.NotEmpty(t, s.Selection().AddOns)
}

func TestViewSharesNoMemory(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetPlan(catalogdomain.PlanBusiness))
	require.NoError(t, s.SetAddOnQuantity(catalogdomain.AddOnTraining, 1))

	v := s.View()
	v.Selection.AddOns[catalogdomain.AddOnTraining] = 99
	v.Derived.Breakdown.Lines[0].Name = "changed"

	assert.Equal(t, 1, s.Selection().AddOns[catalogdomain.AddOnTraining])
	assert.NotEqual(t, "changed", s.View().Derived.Breakdown.Lines[0].Name)
}
