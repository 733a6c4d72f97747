// Package serpapi implements job discovery against the SerpAPI Google Jobs
// engine. Discovery is best-effort at the item level: malformed items map to
// jobs with empty fields, never to an error. Transport and API failures are
// fatal for the run.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Fastpacer/jobcraft/internal/schema"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	apiURL     = "https://serpapi.com/search"
	engine     = "google_jobs"
	sourceName = "google_jobs"
)

// UnavailableError reports a search capability failure (network or API).
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("job search unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Client queries SerpAPI for job postings.
type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func New(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		APIURL: apiURL,
	}
}

type searchResponse struct {
	JobsResults []map[string]any `json:"jobs_results"`
}

// jobResult is the subset of a SerpAPI job item the pipeline consumes.
type jobResult struct {
	JobID          string `json:"job_id"`
	Title          string `json:"title"`
	CompanyName    string `json:"company_name"`
	Location       string `json:"location"`
	EmploymentType string `json:"employment_type"`
	Description    string `json:"description"`
	RelatedLinks   []struct {
		Link string `json:"link"`
	} `json:"related_links"`
}

// Search runs one query and maps up to maxResults items into jobs.
func (c *Client) Search(ctx context.Context, query, location string, maxResults int) ([]schema.Job, error) {
	q := url.Values{}
	q.Set("engine", engine)
	q.Set("q", query)
	q.Set("hl", "en")
	q.Set("api_key", c.apiKey)
	if location != "" {
		q.Set("location", location)
	}

	response, err := c.getJSON(ctx, q)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}

	items := response.JobsResults
	if maxResults > 0 && len(items) > maxResults {
		items = items[:maxResults]
	}

	jobs := make([]schema.Job, 0, len(items))
	for _, item := range items {
		jobs = append(jobs, mapJob(item))
	}

	c.logger.Debug("mapped search results",
		zap.Int("found", len(response.JobsResults)),
		zap.Int("returned", len(jobs)),
	)

	return jobs, nil
}

func (c *Client) getJSON(ctx context.Context, q url.Values) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("make request", zap.String("url", req.URL.Host+req.URL.Path))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

// mapJob converts one raw item into a Job. Missing fields become empty
// strings; the url comes from the first related link when present.
func mapJob(item map[string]any) schema.Job {
	var result jobResult

	cfg := &mapstructure.DecoderConfig{
		Result:  &result,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	// Item-level decode errors leave fields at their zero values.
	_ = decoder.Decode(item)

	job := schema.Job{
		JobID:          result.JobID,
		Title:          result.Title,
		Company:        result.CompanyName,
		Location:       result.Location,
		EmploymentType: result.EmploymentType,
		Description:    result.Description,
		Source:         sourceName,
	}

	if len(result.RelatedLinks) > 0 {
		job.URL = result.RelatedLinks[0].Link
	}

	return job
}
