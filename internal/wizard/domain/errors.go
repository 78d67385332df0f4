package domain

import "errors"

var (
	ErrInvalidStage        = errors.New("invalid_stage")
	ErrInvalidBillingCycle = errors.New("invalid_billing_cycle")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrNotAtCheckout       = errors.New("not_at_checkout")
	ErrSessionCompleted    = errors.New("session_completed")
	ErrQuotationNotIssued  = errors.New("quotation_not_issued")
	ErrSessionNotFound     = errors.New("session_not_found")
)
