package domain

import "errors"

type Service interface {
	// Current builds a catalog snapshot from the active quote configuration.
	Current() *Catalog
}

var (
	ErrPlanNotFound     = errors.New("plan_not_found")
	ErrAddOnNotFound    = errors.New("addon_not_found")
	ErrAddOnNotEligible = errors.New("addon_not_eligible")
)
