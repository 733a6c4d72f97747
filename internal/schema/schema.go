// Package schema holds the data model shared by the pipeline stages.
package schema

import "time"

// Application status values. New rows always start as discovered;
// the other statuses exist for consumers of the tracked log.
const (
	StatusDiscovered = "discovered"
	StatusApplied    = "applied"
	StatusRejected   = "rejected"
	StatusInterview  = "interview"
)

// Resume is the structured form of a parsed resume. Optional fields are
// represented by their zero values.
type Resume struct {
	Name                 string   `json:"name"`
	TotalExperienceYears float64  `json:"total_experience_years"`
	Roles                []string `json:"roles"`
	Skills               []string `json:"skills"`
	Tools                []string `json:"tools"`
	Summary              string   `json:"summary"`
}

// Job is one discovered job posting.
type Job struct {
	JobID          string   `json:"job_id,omitempty"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location,omitempty"`
	EmploymentType string   `json:"employment_type,omitempty"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills,omitempty"`
	Source         string   `json:"source,omitempty"`
	URL            string   `json:"url,omitempty"`
}

// ScoredJob pairs a job with its fit score for one pipeline run.
type ScoredJob struct {
	Job      Job
	FitScore int
}

// Application is one persisted row of the tracked-applications log.
// Rows are append-only; the pipeline never updates or deletes them.
type Application struct {
	ID              int64      `json:"id,omitempty"`
	JobID           string     `json:"job_id,omitempty"`
	JobTitle        string     `json:"job_title"`
	Company         string     `json:"company"`
	FitScore        int        `json:"fit_score"`
	Status          string     `json:"status"`
	OutreachMessage string     `json:"outreach_message,omitempty"`
	AppliedAt       *time.Time `json:"applied_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ClampScore bounds a fit score to the [0, 100] range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
