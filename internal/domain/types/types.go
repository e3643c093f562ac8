// Package types contains wire shapes shared between the service and the API layer.
package types

// RecommendedProblem is one entry in the recommendation response.
type RecommendedProblem struct {
	ProblemID  string `json:"problem_id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
	Reason     string `json:"reason"`
	Commentary string `json:"commentary,omitempty"`
}

// TopicList wraps a topic name list for the strengths/weaknesses blocks.
type TopicList struct {
	Topics []string `json:"topics"`
}

// RecommendationSet is the stable response contract for GET /recommendations.
type RecommendationSet struct {
	RecommendedProblems []RecommendedProblem `json:"recommended_problems"`
	Strengths           TopicList            `json:"strengths"`
	Weaknesses          TopicList            `json:"weaknesses"`
	SkillLevel          string               `json:"skill_level"`
	OverallScore        float64              `json:"overall_score"`
}

// TopicReport is the per-topic block of the analysis response.
type TopicReport struct {
	Topic                  string         `json:"topic"`
	Attempted              int            `json:"problems_attempted"`
	Solved                 int            `json:"problems_solved"`
	Accuracy               float64        `json:"accuracy"`
	AverageScore           float64        `json:"average_score"`
	AverageEfficiency      float64        `json:"average_efficiency"`
	AverageAttempts        float64        `json:"average_attempts"`
	DifficultyDistribution map[string]int `json:"difficulty_distribution"`
}

// AnalysisReport is the response contract for GET /analysis.
type AnalysisReport struct {
	OverallScore     float64         `json:"overall_score"`
	SkillLevel       string          `json:"skill_level"`
	EfficiencyRating string          `json:"efficiency_rating"`
	Strengths        []string        `json:"strengths"`
	Weaknesses       []string        `json:"weaknesses"`
	UntriedTopics    []string        `json:"untried_topics"`
	Topics           []TopicReport   `json:"topic_breakdown"`
	Statistics       AnalysisNumbers `json:"statistics"`
	NextMilestone    Milestone       `json:"next_milestone"`
}

// AnalysisNumbers aggregates history-wide counters.
type AnalysisNumbers struct {
	TotalAttempted      int     `json:"total_problems_attempted"`
	TotalSolved         int     `json:"total_problems_solved"`
	BruteForceSolutions int     `json:"brute_force_solutions"`
	AverageAttempts     float64 `json:"average_attempts"`
	AverageEfficiency   float64 `json:"average_efficiency_score"`
}

// Milestone describes progress toward the next skill level.
type Milestone struct {
	Description     string  `json:"description"`
	Progress        float64 `json:"progress"`
	ScoreTarget     float64 `json:"score_target"`
	ProblemsTarget  int     `json:"problems_target"`
	CurrentScore    float64 `json:"current_score"`
	CurrentProblems int     `json:"current_problems"`
}

// Problem is the catalog listing shape for GET /problems.
type Problem struct {
	ProblemID           string  `json:"problem_id"`
	Title               string  `json:"title"`
	Topic               string  `json:"topic"`
	Difficulty          string  `json:"difficulty"`
	ExpectedComplexity  string  `json:"expected_complexity"`
	ExpectedTimeMinutes float64 `json:"expected_time_minutes"`
}
