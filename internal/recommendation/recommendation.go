// Package recommendation proposes the default add-on selection for an
// assessment. Rules are independent and every matching rule contributes.
package recommendation

import (
	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
)

const (
	implProComplexity   = 60
	dedicatedUserCount  = 100
	usersPerStorageUnit = 50
	trainingUserCount   = 50
	usersPerTraining    = 20
)

// DefaultAddOns returns add-on id to quantity. Quantities are always
// positive; ids with nothing to add are absent.
func DefaultAddOns(a assessmentdomain.Assessment, complexity float64) map[string]int {
	out := map[string]int{
		implementationPackage(a, complexity): 1,
	}

	if a.UserCount > dedicatedUserCount || a.DataVolume == assessmentdomain.DataVolumeHigh {
		out[catalogdomain.AddOnDedicatedIP] = 1
		if qty := ceilDiv(a.UserCount, usersPerStorageUnit); qty > 0 {
			out[catalogdomain.AddOnExtraStorage] = qty
		}
	}

	if a.HasLegacySystem {
		out[catalogdomain.AddOnDataMigration] = 1
	}

	if a.APIIntegrations > 0 {
		out[catalogdomain.AddOnAPIIntegrate] = a.APIIntegrations
	}

	if a.CustomReports > 0 {
		out[catalogdomain.AddOnCustomReport] = a.CustomReports
	}

	if a.TrainingNeed == assessmentdomain.TrainingExtensive || a.UserCount > trainingUserCount {
		if qty := ceilDiv(a.UserCount, usersPerTraining); qty > 0 {
			out[catalogdomain.AddOnTraining] = qty
		}
	}

	return out
}

func implementationPackage(a assessmentdomain.Assessment, complexity float64) string {
	switch {
	case a.Timeline == assessmentdomain.TimelineUrgent:
		return catalogdomain.AddOnImplExpress
	case complexity > implProComplexity:
		return catalogdomain.AddOnImplPro
	default:
		return catalogdomain.AddOnImplStandard
	}
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
