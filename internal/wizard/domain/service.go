package domain

import (
	"context"
	"time"

	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
)

// Service drives stored sessions by id. Every method returns the view of
// the session after the operation.
type Service interface {
	Start(ctx context.Context) (View, error)
	Get(ctx context.Context, id string) (View, error)
	End(ctx context.Context, id string) error

	UpdateAssessment(ctx context.Context, id string, patch assessmentdomain.Patch) (View, error)
	Next(ctx context.Context, id string) (View, error)
	Prev(ctx context.Context, id string) (View, error)
	Jump(ctx context.Context, id string, stage Stage) (View, error)
	Restart(ctx context.Context, id string) (View, error)

	SetPlan(ctx context.Context, id string, planID catalogdomain.PlanID) (View, error)
	SetBillingCycle(ctx context.Context, id string, cycle catalogdomain.BillingCycle) (View, error)
	SetAddOnQuantity(ctx context.Context, id, addOnID string, qty int) (View, error)
	SetStartDate(ctx context.Context, id string, date *time.Time) (View, error)
	ApplyDiscount(ctx context.Context, id, code string) (View, error)
	ClearDiscount(ctx context.Context, id string) (View, error)

	SubmitQuotation(ctx context.Context, id string, contact quotationdomain.Contact) (SubmitResult, error)
	Quotation(ctx context.Context, id string) (*quotationdomain.Quotation, error)
}

// SubmitResult reports whether this call issued the quotation or replayed
// one issued earlier.
type SubmitResult struct {
	View   View
	Issued bool
}
