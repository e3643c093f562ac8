package recommend

import "github.com/okian/sensei/internal/domain/analysis"

// Milestone describes progress toward the next skill level.
type Milestone struct {
	Description     string
	Progress        float64 // 0-100
	ScoreTarget     float64
	ProblemsTarget  int
	CurrentScore    float64
	CurrentProblems int
}

// milestoneTarget defines what the next level demands.
type milestoneTarget struct {
	next           string
	scoreTarget    float64
	problemsTarget int
}

var milestoneTargets = map[analysis.SkillLevel]milestoneTarget{
	analysis.SkillBeginner:     {next: "intermediate", scoreTarget: 40, problemsTarget: 20},
	analysis.SkillIntermediate: {next: "advanced", scoreTarget: 70, problemsTarget: 50},
	analysis.SkillAdvanced:     {next: "expert", scoreTarget: 90, problemsTarget: 100},
}

// NextMilestone computes progress toward the next skill level as the
// mean of score progress and solved-count progress, each capped at 100.
func NextMilestone(profile analysis.Profile, solvedCount int) Milestone {
	target, ok := milestoneTargets[profile.SkillLevel]
	if !ok {
		target = milestoneTargets[analysis.SkillBeginner]
	}

	scoreProgress := capPercent(profile.OverallScore / target.scoreTarget * 100)
	problemsProgress := capPercent(float64(solvedCount) / float64(target.problemsTarget) * 100)

	return Milestone{
		Description:     "Reach " + target.next + " level",
		Progress:        (scoreProgress + problemsProgress) / 2,
		ScoreTarget:     target.scoreTarget,
		ProblemsTarget:  target.problemsTarget,
		CurrentScore:    profile.OverallScore,
		CurrentProblems: solvedCount,
	}
}

func capPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
