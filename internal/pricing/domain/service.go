package domain

import catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"

// Service prices a configuration against a catalog snapshot. Calculate has
// no side effects and returns identical breakdowns for identical inputs.
type Service interface {
	Calculate(*catalogdomain.Catalog, Request) Breakdown
}
