package service

import (
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	pricingdomain "github.com/smallbiznis/quoteflow/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger
}

type Service struct {
	log *zap.Logger
}

func New(p Params) pricingdomain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log.Named("pricing.service")}
}

func (s *Service) Calculate(cat *catalogdomain.Catalog, req pricingdomain.Request) pricingdomain.Breakdown {
	b := Calculate(cat, req)
	if b.Empty() && req.PlanID != "" {
		s.log.Debug("plan not resolved, returning empty breakdown", zap.String("plan_id", string(req.PlanID)))
	}
	return b
}

var hundred = decimal.NewFromInt(100)

// Calculate prices the request against cat. An unresolved plan yields a
// zeroed breakdown.
func Calculate(cat *catalogdomain.Catalog, req pricingdomain.Request) pricingdomain.Breakdown {
	plan, ok := cat.Plan(req.PlanID)
	if !ok {
		return emptyBreakdown()
	}

	cycle := req.Cycle
	if !cycle.Valid() {
		cycle = catalogdomain.BillingMonthly
	}
	periods := periodsPerBilling(cycle)
	periodsDec := decimal.NewFromInt(int64(periods))

	base := decimal.NewFromInt(plan.Price(cycle))
	lines := []pricingdomain.Line{{
		Kind:        pricingdomain.LinePlan,
		ID:          string(plan.ID),
		Name:        plan.Name,
		PricingMode: catalogdomain.Recurring,
		Quantity:    1,
		UnitPrice:   base,
		Periods:     periods,
		Amount:      base.Mul(periodsDec),
	}}

	recurring := decimal.Zero
	oneTime := decimal.Zero
	// Catalog order keeps lines stable regardless of map iteration.
	for _, addOn := range cat.AddOns {
		qty := req.Selections[addOn.ID]
		if qty <= 0 {
			continue
		}

		unit := decimal.NewFromInt(addOn.UnitPrice)
		amount := unit.Mul(decimal.NewFromInt(int64(qty)))
		line := pricingdomain.Line{
			Kind:        pricingdomain.LineAddOn,
			ID:          addOn.ID,
			Name:        addOn.Name,
			PricingMode: addOn.PricingMode,
			Unit:        addOn.Unit,
			Quantity:    qty,
			UnitPrice:   unit,
		}

		switch addOn.PricingMode {
		case catalogdomain.OneTime:
			oneTime = oneTime.Add(amount)
			line.Periods = 1
			line.Amount = amount
		default:
			recurring = recurring.Add(amount)
			line.Periods = periods
			line.Amount = amount.Mul(periodsDec)
		}
		lines = append(lines, line)
	}

	monthly := base.Add(recurring)
	subtotal := monthly.Mul(periodsDec).Add(oneTime)

	percent, code := discountTerms(req.Discount)
	discount := percentOf(subtotal, percent)

	b := pricingdomain.Breakdown{
		PlanID:           plan.ID,
		Cycle:            cycle,
		Currency:         cat.Currency,
		BasePrice:        base,
		RecurringAddOns:  recurring,
		MonthlyRecurring: monthly,
		OneTimeFees:      oneTime,
		Subtotal:         subtotal,
		DiscountCode:     code,
		DiscountPercent:  percent,
		DiscountAmount:   discount,
		TotalDue:         subtotal.Sub(discount),
		Lines:            lines,
	}

	if req.StartDate != nil {
		b.Proration = prorate(*req.StartDate, cycle, monthly.Mul(periodsDec), oneTime, percent)
	}

	return b
}

func emptyBreakdown() pricingdomain.Breakdown {
	return pricingdomain.Breakdown{
		BasePrice:        decimal.Zero,
		RecurringAddOns:  decimal.Zero,
		MonthlyRecurring: decimal.Zero,
		OneTimeFees:      decimal.Zero,
		Subtotal:         decimal.Zero,
		DiscountAmount:   decimal.Zero,
		TotalDue:         decimal.Zero,
		Lines:            []pricingdomain.Line{},
	}
}

func periodsPerBilling(cycle catalogdomain.BillingCycle) int {
	if cycle == catalogdomain.BillingYearly {
		return 12
	}
	return 1
}

// discountTerms clamps the percent to 0..100 so the total never turns negative.
func discountTerms(d *pricingdomain.Discount) (int, string) {
	if d == nil {
		return 0, ""
	}
	percent := d.Percent
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent, d.Code
}

func percentOf(amount decimal.Decimal, percent int) decimal.Decimal {
	if percent == 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(int64(percent))).Div(hundred)
}

// BillingPeriod returns the calendar period containing t: the month for
// monthly billing, the year for yearly billing.
func BillingPeriod(t time.Time, cycle catalogdomain.BillingCycle) (time.Time, time.Time) {
	t = t.UTC()
	if cycle == catalogdomain.BillingYearly {
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func prorate(startDate time.Time, cycle catalogdomain.BillingCycle, periodRecurring, oneTime decimal.Decimal, percent int) *pricingdomain.Proration {
	start := startDate.UTC()
	periodStart, periodEnd := BillingPeriod(start, cycle)

	factor := periodEnd.Sub(start).Seconds() / periodEnd.Sub(periodStart).Seconds()
	if factor > 1 {
		factor = 1
	}
	if factor < 0 {
		factor = 0
	}

	prorated := periodRecurring.Mul(decimal.NewFromFloat(factor)).Round(0)
	due := prorated.Add(oneTime)
	discount := percentOf(due, percent)

	return &pricingdomain.Proration{
		StartDate:       start,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		Factor:          factor,
		RecurringAmount: prorated,
		OneTimeFees:     oneTime,
		DiscountAmount:  discount,
		DueNow:          due.Sub(discount),
	}
}
