package service

import (
	"math/rand/v2"

	"github.com/smallbiznis/quoteflow/internal/clock"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"github.com/smallbiznis/quoteflow/internal/quotation/format"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const suffixDigits = 4

type Params struct {
	fx.In

	Clock clock.Clock
	Log   *zap.Logger
}

type Service struct {
	clock    clock.Clock
	log      *zap.Logger
	template string
	randIntN func(int) int
}

func New(p Params) quotationdomain.Service {
	return newService(p.Clock, p.Log, rand.IntN)
}

func newService(c clock.Clock, log *zap.Logger, randIntN func(int) int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Service{
		clock:    c,
		log:      log.Named("quotation.service"),
		template: format.DefaultQuotationIDTemplate,
		randIntN: randIntN,
	}
}

func (s *Service) Validate(contact quotationdomain.Contact) error {
	return contact.Validate()
}

func (s *Service) Issue(req quotationdomain.IssueRequest) (*quotationdomain.Quotation, error) {
	contact := req.Contact.Normalize()
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if req.Plan.ID == "" {
		return nil, quotationdomain.ErrPlanRequired
	}

	issuedAt := s.clock.Now().UTC()
	lo, hi := format.SuffixRange(suffixDigits)
	id, err := format.FormatQuotationID(s.template, issuedAt, lo+s.randIntN(hi-lo+1))
	if err != nil {
		return nil, err
	}

	q := quotationdomain.Quotation{
		ID:       id,
		IssuedAt: issuedAt,
		Currency: req.Currency,
		Contact:  contact,
		Plan: quotationdomain.PlanSnapshot{
			ID:       req.Plan.ID,
			Name:     req.Plan.Name,
			Features: req.Plan.Features,
		},
		BillingCycle:           req.Cycle,
		Breakdown:              req.Breakdown,
		Modules:                req.Modules,
		ComplexityScore:        req.Scores.ComplexityScore,
		RecommendedPlanID:      req.Scores.RecommendedPlanID,
		EstimatedEfficiencyPct: req.Scores.EstimatedEfficiencyPct,
	}
	q = q.Clone()

	s.log.Info("quotation issued",
		zap.String("quotation_id", q.ID),
		zap.String("plan_id", string(q.Plan.ID)),
		zap.String("billing_cycle", string(q.BillingCycle)),
		zap.String("total_due", q.Breakdown.TotalDue.String()),
	)
	return &q, nil
}
