package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Fastpacer/jobcraft/internal/schema"

	"go.uber.org/zap"
)

type stubParser struct {
	resume *schema.Resume
	texts  []string
	err    error
}

func (s *stubParser) Parse(_ context.Context, resumeText string) (*schema.Resume, error) {
	s.texts = append(s.texts, resumeText)
	if s.err != nil {
		return nil, s.err
	}
	return s.resume, nil
}

type stubSearcher struct {
	jobs       []schema.Job
	query      string
	location   string
	maxResults int
	err        error
}

func (s *stubSearcher) Search(_ context.Context, query, location string, maxResults int) ([]schema.Job, error) {
	s.query = query
	s.location = location
	s.maxResults = maxResults
	if s.err != nil {
		return nil, s.err
	}
	return s.jobs, nil
}

type stubScorer struct {
	scores map[string]int
	err    error
}

func (s *stubScorer) Score(_ context.Context, _ *schema.Resume, jobs []schema.Job) ([]schema.ScoredJob, error) {
	if s.err != nil {
		return nil, s.err
	}
	scored := make([]schema.ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		scored = append(scored, schema.ScoredJob{Job: job, FitScore: s.scores[job.Title]})
	}
	return scored, nil
}

type stubOutreach struct {
	calls int
	err   error
}

func (s *stubOutreach) Message(_ context.Context, _ *schema.Resume, job schema.Job, _ int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("message for %s", job.Title), nil
}

type stubTracker struct {
	tracked []schema.Job
	err     error
}

func (s *stubTracker) Track(_ context.Context, job schema.Job, _ int, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.tracked = append(s.tracked, job)
	return nil
}

func fixtureRequest() Request {
	return Request{
		ResumeText: "Sam Rivera. Backend engineer.",
		Query:      "golang developer",
		Location:   "Berlin",
	}
}

func newTestPipeline(parser *stubParser, searcher *stubSearcher, scorer *stubScorer, outreach *stubOutreach, tracker *stubTracker) *Pipeline {
	if parser == nil {
		parser = &stubParser{resume: &schema.Resume{Name: "Sam"}}
	}
	if searcher == nil {
		searcher = &stubSearcher{}
	}
	if scorer == nil {
		scorer = &stubScorer{}
	}
	if outreach == nil {
		outreach = &stubOutreach{}
	}
	if tracker == nil {
		tracker = &stubTracker{}
	}
	return New(parser, searcher, scorer, outreach, tracker, zap.NewNop())
}

func TestRunScoreGate(t *testing.T) {
	searcher := &stubSearcher{jobs: []schema.Job{
		{Title: "High"},
		{Title: "Boundary"},
		{Title: "Low"},
	}}
	scorer := &stubScorer{scores: map[string]int{
		"High":     90,
		"Boundary": 50,
		"Low":      49,
	}}
	outreach := &stubOutreach{}
	tracker := &stubTracker{}
	p := newTestPipeline(nil, searcher, scorer, outreach, tracker)

	results, err := p.Run(context.Background(), fixtureRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The default gate is 50; scores at the gate pass, below it are dropped.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "High" || results[1].Title != "Boundary" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if outreach.calls != 2 {
		t.Fatalf("expected 2 outreach calls, got %d", outreach.calls)
	}
	if len(tracker.tracked) != 2 {
		t.Fatalf("expected 2 tracked applications, got %d", len(tracker.tracked))
	}
}

func TestRunCustomMinScore(t *testing.T) {
	searcher := &stubSearcher{jobs: []schema.Job{{Title: "Mid"}}}
	scorer := &stubScorer{scores: map[string]int{"Mid": 60}}
	tracker := &stubTracker{}
	p := newTestPipeline(nil, searcher, scorer, nil, tracker)

	req := fixtureRequest()
	req.MinScore = 75

	results, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results above custom gate, got %+v", results)
	}
	if len(tracker.tracked) != 0 {
		t.Fatalf("expected nothing tracked, got %d", len(tracker.tracked))
	}
}

func TestRunAppliesDefaults(t *testing.T) {
	searcher := &stubSearcher{}
	p := newTestPipeline(nil, searcher, nil, nil, nil)

	if _, err := p.Run(context.Background(), fixtureRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if searcher.maxResults != DefaultMaxResults {
		t.Fatalf("max results %d, want default %d", searcher.maxResults, DefaultMaxResults)
	}
	if searcher.query != "golang developer" || searcher.location != "Berlin" {
		t.Fatalf("unexpected search inputs: %q %q", searcher.query, searcher.location)
	}
}

func TestRunResultFields(t *testing.T) {
	searcher := &stubSearcher{jobs: []schema.Job{
		{JobID: "abc123", Title: "Go Developer", Company: "Acme", URL: "https://acme.example/jobs/1"},
	}}
	scorer := &stubScorer{scores: map[string]int{"Go Developer": 88}}
	p := newTestPipeline(nil, searcher, scorer, nil, nil)

	results, err := p.Run(context.Background(), fixtureRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := results[0]
	if got.JobID != "abc123" || got.Company != "Acme" || got.FitScore != 88 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.OutreachMessage != "message for Go Developer" {
		t.Fatalf("message %q", got.OutreachMessage)
	}
	if got.URL != "https://acme.example/jobs/1" {
		t.Fatalf("url %q", got.URL)
	}
}

func TestRunValidation(t *testing.T) {
	p := newTestPipeline(nil, nil, nil, nil, nil)

	req := fixtureRequest()
	req.ResumeText = "  "
	if _, err := p.Run(context.Background(), req); err == nil {
		t.Fatal("expected error for missing resume text")
	}

	req = fixtureRequest()
	req.Query = ""
	if _, err := p.Run(context.Background(), req); err == nil {
		t.Fatal("expected error for missing query")
	}
}

func TestRunParserFailureAborts(t *testing.T) {
	wantErr := errors.New("model did not return valid JSON")
	parser := &stubParser{err: wantErr}
	searcher := &stubSearcher{}
	p := newTestPipeline(parser, searcher, nil, nil, nil)

	_, err := p.Run(context.Background(), fixtureRequest())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected parser error, got %v", err)
	}
	if searcher.query != "" {
		t.Fatal("search ran after parser failure")
	}
}

func TestRunSearchFailureAborts(t *testing.T) {
	wantErr := errors.New("job search unavailable")
	searcher := &stubSearcher{err: wantErr}
	p := newTestPipeline(nil, searcher, nil, nil, nil)

	_, err := p.Run(context.Background(), fixtureRequest())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected search error, got %v", err)
	}
}

func TestRunOutreachFailureAbortsBeforeTracking(t *testing.T) {
	searcher := &stubSearcher{jobs: []schema.Job{{Title: "High"}}}
	scorer := &stubScorer{scores: map[string]int{"High": 90}}
	wantErr := errors.New("model unavailable")
	outreach := &stubOutreach{err: wantErr}
	tracker := &stubTracker{}
	p := newTestPipeline(nil, searcher, scorer, outreach, tracker)

	_, err := p.Run(context.Background(), fixtureRequest())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected outreach error, got %v", err)
	}
	if len(tracker.tracked) != 0 {
		t.Fatal("tracking ran after outreach failure")
	}
}

func TestRunTrackerFailureAborts(t *testing.T) {
	searcher := &stubSearcher{jobs: []schema.Job{{Title: "High"}, {Title: "Also High"}}}
	scorer := &stubScorer{scores: map[string]int{"High": 90, "Also High": 85}}
	wantErr := errors.New("disk full")
	tracker := &stubTracker{err: wantErr}
	p := newTestPipeline(nil, searcher, scorer, nil, tracker)

	results, err := p.Run(context.Background(), fixtureRequest())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected tracker error, got %v", err)
	}
	if results != nil {
		t.Fatalf("expected no partial results, got %+v", results)
	}
}
