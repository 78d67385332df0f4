// Package scoring derives the complexity score, the recommended plan and the
// estimated efficiency gain from an assessment. Every function is pure.
package scoring

import (
	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
)

const (
	MaxEfficiencyPct  = 65.0
	baseEfficiencyPct = 20.0

	highestTierThreshold = 60
	middleTierThreshold  = 25
)

// Result bundles every derived score for one assessment.
type Result struct {
	ComplexityScore        float64              `json:"complexity_score"`
	RecommendationScore    int                  `json:"recommendation_score"`
	RecommendedPlanID      catalogdomain.PlanID `json:"recommended_plan_id"`
	EstimatedEfficiencyPct float64              `json:"estimated_efficiency_pct"`
}

func Evaluate(a assessmentdomain.Assessment) Result {
	complexity := ComplexityScore(a)
	score := RecommendationScore(a, complexity)
	return Result{
		ComplexityScore:        complexity,
		RecommendationScore:    score,
		RecommendedPlanID:      PlanForScore(score),
		EstimatedEfficiencyPct: EstimatedEfficiencyPct(a),
	}
}

// ComplexityScore is a weighted proxy for implementation difficulty. It has
// no upper bound and never decreases when any input grows.
func ComplexityScore(a assessmentdomain.Assessment) float64 {
	score := 0.5*float64(nonNegative(a.UserCount)) + 5*float64(nonNegative(a.Locations))

	if a.Modules.Manufacturing {
		score += 20
	}
	if a.Modules.ECommerce {
		score += 15
	}
	if a.Modules.Accounting {
		score += 5
	}
	if a.Modules.HRM {
		score += 5
	}
	if a.Modules.POS {
		score += 10
	}
	if a.HasLegacySystem {
		score += 15
	}
	if a.Deployment == assessmentdomain.DeploymentOnPrem {
		score += 25
	}
	score += 5 * float64(nonNegative(a.APIIntegrations))

	return score
}

// RecommendationScore is independent from the complexity score; complexity
// only contributes through its brackets.
func RecommendationScore(a assessmentdomain.Assessment, complexity float64) int {
	score := 0

	switch {
	case a.UserCount > 300:
		score += 40
	case a.UserCount > 50:
		score += 15
	}

	switch a.Industry {
	case assessmentdomain.IndustryManufacturing:
		score += 25
	case assessmentdomain.IndustryHealthcare:
		score += 15
	}

	switch a.Deployment {
	case assessmentdomain.DeploymentOnPrem:
		score += 50
	case assessmentdomain.DeploymentDedicated:
		score += 25
	}

	switch {
	case complexity > 80:
		score += 30
	case complexity > 40:
		score += 15
	}

	if a.NeedsCustomModule {
		score += 35
	}

	return score
}

// PlanForScore maps a recommendation score onto a tier. Thresholds are
// inclusive lower bounds evaluated from the highest tier down.
func PlanForScore(score int) catalogdomain.PlanID {
	switch {
	case score >= highestTierThreshold:
		return catalogdomain.PlanEnterprise
	case score >= middleTierThreshold:
		return catalogdomain.PlanBusiness
	default:
		return catalogdomain.PlanStarter
	}
}

func RecommendedPlanID(a assessmentdomain.Assessment, complexity float64) catalogdomain.PlanID {
	return PlanForScore(RecommendationScore(a, complexity))
}

// EstimatedEfficiencyPct is capped at MaxEfficiencyPct.
func EstimatedEfficiencyPct(a assessmentdomain.Assessment) float64 {
	pct := baseEfficiencyPct

	if a.Modules.Inventory && a.Modules.Procurement {
		pct += 10
	}
	if a.Modules.Accounting && a.Modules.CRM {
		pct += 5
	}
	if a.Modules.Manufacturing {
		pct += 15
	}
	if a.Modules.HRM {
		pct += 5
	}

	if pct > MaxEfficiencyPct {
		return MaxEfficiencyPct
	}
	return pct
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
