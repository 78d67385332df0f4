package domain

type Stage string

const (
	StageAssessment     Stage = "assessment"
	StageRecommendation Stage = "recommendation"
	StageCustomize      Stage = "customize"
	StageCheckout       Stage = "checkout"
	StageThankYou       Stage = "thankyou"
)

// Stages lists the top-level stages in wizard order.
var Stages = []Stage{
	StageAssessment,
	StageRecommendation,
	StageCustomize,
	StageCheckout,
	StageThankYou,
}

const (
	FirstStep = 1
	LastStep  = 6
)

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}
