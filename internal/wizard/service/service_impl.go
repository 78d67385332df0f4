package service

import (
	"context"
	"errors"
	"time"

	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	"github.com/smallbiznis/quoteflow/internal/discount"
	obscontext "github.com/smallbiznis/quoteflow/internal/observability/context"
	obslogger "github.com/smallbiznis/quoteflow/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quoteflow/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/quoteflow/internal/pricing/domain"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"github.com/smallbiznis/quoteflow/internal/session"
	"github.com/smallbiznis/quoteflow/internal/wizard/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	discountResultApplied = "applied"
	discountResultInvalid = "invalid"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Store      *session.Store
	Catalog    catalogdomain.Service
	Pricing    pricingdomain.Service
	Quotations quotationdomain.Service
	Discounts  *discount.Registry
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	store   *session.Store
	catalog catalogdomain.Service
	engines domain.Engines
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("wizard.service"),
		store:   p.Store,
		catalog: p.Catalog,
		engines: domain.Engines{
			Pricing:   p.Pricing,
			Quotation: p.Quotations,
			Discounts: p.Discounts,
		},
		metrics: p.Metrics,
	}
}

func (s *Service) Start(ctx context.Context) (domain.View, error) {
	cat := s.catalog.Current()
	var view domain.View
	id := s.store.Create(func(id string) *domain.Session {
		sess := domain.NewSession(id, cat, s.engines)
		view = sess.View()
		return sess
	})
	s.metrics.RecordSessionStarted(ctx)
	obslogger.WithContext(obscontext.WithSessionID(ctx, id), s.log).Info("session started")
	return view, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.View, error) {
	return s.view(id, func(*domain.Session) error { return nil })
}

func (s *Service) End(ctx context.Context, id string) error {
	if !s.store.Delete(id) {
		return domain.ErrSessionNotFound
	}
	obslogger.WithContext(obscontext.WithSessionID(ctx, id), s.log).Debug("session ended")
	return nil
}

func (s *Service) UpdateAssessment(ctx context.Context, id string, patch assessmentdomain.Patch) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		return sess.UpdateAssessment(patch)
	})
}

// Next is not an error when the gate holds: the unchanged view carries
// can_proceed=false.
func (s *Service) Next(ctx context.Context, id string) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		sess.Next()
		return nil
	})
}

func (s *Service) Prev(ctx context.Context, id string) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		sess.Prev()
		return nil
	})
}

func (s *Service) Jump(ctx context.Context, id string, stage domain.Stage) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		return sess.Jump(stage)
	})
}

func (s *Service) Restart(ctx context.Context, id string) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		sess.Restart()
		return nil
	})
}

func (s *Service) SetPlan(ctx context.Context, id string, planID catalogdomain.PlanID) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		return sess.SetPlan(planID)
	})
}

func (s *Service) SetBillingCycle(ctx context.Context, id string, cycle catalogdomain.BillingCycle) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		return sess.SetBillingCycle(cycle)
	})
}

func (s *Service) SetAddOnQuantity(ctx context.Context, id, addOnID string, qty int) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		return sess.SetAddOnQuantity(addOnID, qty)
	})
}

func (s *Service) SetStartDate(ctx context.Context, id string, date *time.Time) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		return sess.SetStartDate(date)
	})
}

// ApplyDiscount records an unknown code on the session instead of failing
// the call; the view carries the message.
func (s *Service) ApplyDiscount(ctx context.Context, id, code string) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		err := sess.ApplyDiscount(code)
		switch {
		case err == nil:
			s.metrics.RecordDiscountAttempt(ctx, discountResultApplied)
			return nil
		case errors.Is(err, discount.ErrInvalidCode):
			s.metrics.RecordDiscountAttempt(ctx, discountResultInvalid)
			return nil
		default:
			return err
		}
	})
}

func (s *Service) ClearDiscount(ctx context.Context, id string) (domain.View, error) {
	return s.view(id, func(sess *domain.Session) error {
		if sess.Stage() == domain.StageThankYou {
			return domain.ErrSessionCompleted
		}
		sess.ClearDiscount()
		return nil
	})
}

// SubmitQuotation issues the quotation once. Invalid contact details come
// back as validation.FieldErrors together with the view holding them.
func (s *Service) SubmitQuotation(ctx context.Context, id string, contact quotationdomain.Contact) (domain.SubmitResult, error) {
	ctx, span := otel.Tracer("quoteflow/wizard").Start(obscontext.WithSessionID(ctx, id), "wizard.SubmitQuotation")
	defer span.End()

	var result domain.SubmitResult
	err := s.store.Do(id, func(sess *domain.Session) error {
		_, already := sess.Quotation()
		q, err := sess.SubmitQuotation(contact)
		result.View = sess.View()
		if err != nil {
			return err
		}
		result.Issued = !already
		if result.Issued {
			s.metrics.RecordQuotationIssued(ctx, string(q.Plan.ID), string(q.BillingCycle))
			span.SetAttributes(
				attribute.String("quotation_id", q.ID),
				attribute.String("plan_id", string(q.Plan.ID)),
			)
			obslogger.WithContext(ctx, s.log).Info("quotation submitted",
				zap.String("quotation_id", q.ID),
			)
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (s *Service) Quotation(ctx context.Context, id string) (*quotationdomain.Quotation, error) {
	var out *quotationdomain.Quotation
	err := s.store.Do(id, func(sess *domain.Session) error {
		q, ok := sess.Quotation()
		if !ok {
			return domain.ErrQuotationNotIssued
		}
		out = q
		return nil
	})
	return out, err
}

// view runs fn under the session lock and snapshots the result. The view
// is returned even when fn fails so callers can show field errors.
func (s *Service) view(id string, fn func(*domain.Session) error) (domain.View, error) {
	var view domain.View
	err := s.store.Do(id, func(sess *domain.Session) error {
		err := fn(sess)
		view = sess.View()
		return err
	})
	return view, err
}
