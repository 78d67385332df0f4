package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	assessmentdomain "github.com/smallbiznis/quoteflow/internal/assessment/domain"
)

// navigable excludes thank-you, which Jump refuses before a quotation exists.
var navigable = []Stage{StageAssessment, StageRecommendation, StageCustomize, StageCheckout}

func TestSelectedAddOnsStayEligibleAcrossJumps(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every selected add-on is eligible for the selected plan", prop.ForAll(
		func(users, locations int, picks, jumps []int) bool {
			s := newTestSession(t)
			if err := s.UpdateAssessment(assessmentdomain.Patch{
				UserCount: ptr(users),
				Locations: ptr(locations),
			}); err != nil {
				return false
			}

			ids := s.catalog.AddOnIDs()
			for _, pick := range picks {
				if err := s.SetAddOnQuantity(ids[pick%len(ids)], 1); err != nil {
					return false
				}
			}
			for _, j := range jumps {
				if err := s.Jump(navigable[j%len(navigable)]); err != nil {
					return false
				}
				sel := s.Selection()
				if sel.PlanID == "" {
					continue
				}
				for id := range sel.AddOns {
					if !s.catalog.Eligible(id, sel.PlanID) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 40),
		gen.SliceOfN(3, gen.IntRange(0, 100)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}
