// Package pipeline sequences the job-search stages: parse the resume,
// discover jobs, score them, then gate, generate outreach and persist. One
// invocation is strictly linear and all-or-nothing: the first unrecoverable
// error aborts the run with no partial result.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/Fastpacer/jobcraft/internal/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults applied to zero-valued request fields.
const (
	DefaultMaxResults = 5
	DefaultMinScore   = 50
)

// ResumeParser turns raw resume text into the structured schema.
type ResumeParser interface {
	Parse(ctx context.Context, resumeText string) (*schema.Resume, error)
}

// JobSearcher discovers candidate job postings.
type JobSearcher interface {
	Search(ctx context.Context, query, location string, maxResults int) ([]schema.Job, error)
}

// Scorer assigns each job a fit score against the resume.
type Scorer interface {
	Score(ctx context.Context, resume *schema.Resume, jobs []schema.Job) ([]schema.ScoredJob, error)
}

// MessageGenerator produces one outreach message per gated job.
type MessageGenerator interface {
	Message(ctx context.Context, resume *schema.Resume, job schema.Job, fitScore int) (string, error)
}

// ApplicationTracker persists one record per gated job.
type ApplicationTracker interface {
	Track(ctx context.Context, job schema.Job, fitScore int, outreachMessage string) error
}

// Request carries one pipeline invocation's inputs.
type Request struct {
	ResumeText string
	Query      string
	Location   string
	MaxResults int
	MinScore   int
}

// Result is one gated, enriched job returned to the caller.
type Result struct {
	JobID           string `json:"job_id,omitempty"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	FitScore        int    `json:"fit_score"`
	OutreachMessage string `json:"outreach_message"`
	URL             string `json:"url,omitempty"`
}

// Pipeline wires the stages together.
type Pipeline struct {
	parser   ResumeParser
	searcher JobSearcher
	scorer   Scorer
	outreach MessageGenerator
	tracker  ApplicationTracker
	logger   *zap.Logger
}

func New(parser ResumeParser, searcher JobSearcher, scorer Scorer, outreach MessageGenerator, tracker ApplicationTracker, log *zap.Logger) *Pipeline {
	return &Pipeline{
		parser:   parser,
		searcher: searcher,
		scorer:   scorer,
		outreach: outreach,
		tracker:  tracker,
		logger:   log,
	}
}

// Run executes one pipeline invocation. Jobs scoring strictly below the
// minimum are dropped silently: not persisted and not reported.
func (p *Pipeline) Run(ctx context.Context, req Request) ([]Result, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, errors.New("resume text is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New("search query is required")
	}
	if req.MaxResults <= 0 {
		req.MaxResults = DefaultMaxResults
	}
	if req.MinScore == 0 {
		req.MinScore = DefaultMinScore
	}

	log := p.logger.With(zap.String("run_id", uuid.NewString()))

	log.Info("starting pipeline run",
		zap.String("query", req.Query),
		zap.String("location", req.Location),
		zap.Int("max_results", req.MaxResults),
		zap.Int("min_score", req.MinScore),
	)

	resume, err := p.parser.Parse(ctx, req.ResumeText)
	if err != nil {
		return nil, err
	}

	log.Info("resume parsed",
		zap.Int("skills", len(resume.Skills)),
		zap.Int("roles", len(resume.Roles)),
	)

	jobs, err := p.searcher.Search(ctx, req.Query, req.Location, req.MaxResults)
	if err != nil {
		return nil, err
	}

	log.Info("jobs discovered", zap.Int("count", len(jobs)))

	scored, err := p.scorer.Score(ctx, resume, jobs)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(scored))
	for _, sj := range scored {
		if sj.FitScore < req.MinScore {
			continue
		}

		message, err := p.outreach.Message(ctx, resume, sj.Job, sj.FitScore)
		if err != nil {
			return nil, err
		}

		if err := p.tracker.Track(ctx, sj.Job, sj.FitScore, message); err != nil {
			return nil, err
		}

		results = append(results, Result{
			JobID:           sj.Job.JobID,
			Title:           sj.Job.Title,
			Company:         sj.Job.Company,
			FitScore:        sj.FitScore,
			OutreachMessage: message,
			URL:             sj.Job.URL,
		})
	}

	log.Info("score gate applied",
		zap.Int("initial", len(scored)),
		zap.Int("dropped", len(scored)-len(results)),
		zap.Int("left", len(results)),
	)

	return results, nil
}
