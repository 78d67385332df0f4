package domain

import (
	"time"

	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	pricingdomain "github.com/smallbiznis/quoteflow/internal/pricing/domain"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"github.com/smallbiznis/quoteflow/pkg/validation"
)

// View is a read-only snapshot of a session handed to the presentation
// layer. It shares no memory with the session.
type View struct {
	ID            string                      `json:"id"`
	Stage         Stage                       `json:"stage"`
	Step          int                         `json:"step"`
	CanProceed    bool                        `json:"can_proceed"`
	Assessment    assessmentdomain.Assessment `json:"assessment"`
	Selection     Selection                   `json:"selection"`
	Discount      *pricingdomain.Discount     `json:"discount,omitempty"`
	DiscountError string                      `json:"discount_error,omitempty"`
	StartDate     *time.Time                  `json:"start_date,omitempty"`
	Derived       Derived                     `json:"derived"`
	ContactErrors validation.FieldErrors      `json:"contact_errors,omitempty"`
	Quotation     *quotationdomain.Quotation  `json:"quotation,omitempty"`
	Revision      int                         `json:"revision"`
}

func (s *Session) View() View {
	v := View{
		ID:            s.id,
		Stage:         s.stage,
		Step:          s.step,
		CanProceed:    s.CanProceed(),
		Assessment:    s.assessment,
		Selection:     s.selection.clone(),
		DiscountError: s.discountError,
		Derived:       s.Derived(),
		Revision:      s.revision,
	}
	if s.discount != nil {
		d := *s.discount
		v.Discount = &d
	}
	if s.startDate != nil {
		t := *s.startDate
		v.StartDate = &t
	}
	if len(s.contactErrors) > 0 {
		v.ContactErrors = append(validation.FieldErrors(nil), s.contactErrors...)
	}
	if q, ok := s.Quotation(); ok {
		v.Quotation = q
	}
	return v
}
