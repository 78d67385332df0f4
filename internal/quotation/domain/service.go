package domain

import "errors"

type Service interface {
	// Validate returns nil or validation.FieldErrors.
	Validate(Contact) error
	// Issue validates the contact and freezes a new quotation.
	Issue(IssueRequest) (*Quotation, error)
}

var ErrPlanRequired = errors.New("plan_required")
