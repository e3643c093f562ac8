package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL  string        // Base URL of the service
	NumUsers int           // Number of synthetic users to create
	PerUser  int           // Number of submissions per user
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for run output
	Verbose  bool          // Enable verbose logging
}

// Submission is the wire form of a practice submission.
type Submission struct {
	SubmissionID       string  `json:"submission_id"`
	UserID             string  `json:"user_id"`
	ProblemID          string  `json:"problem_id"`
	Topic              string  `json:"topic"`
	Difficulty         string  `json:"difficulty"`
	Passed             bool    `json:"passed"`
	Attempts           int     `json:"attempts"`
	TimeTakenMinutes   float64 `json:"time_taken_minutes"`
	ReportedComplexity string  `json:"reported_complexity"`
	TS                 string  `json:"ts"`
}

// AckResponse is the response from submission intake.
type AckResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
}

// Stats holds run statistics.
type Stats struct {
	SubmissionsGenerated int
	SubmissionsSubmitted int
	SubmissionsAccepted  int
	SubmissionsDuplicate int
	SubmissionsFailed    int
	UsersAnalyzed        int
	UsersRecommended     int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
