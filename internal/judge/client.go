package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	endpointRating      = "user.rating"
	endpointSubmissions = "user.status"
)

// ContestEntry is one rating-history row as returned by the judge API.
type ContestEntry struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Rank                    int    `json:"rank"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
}

// ProblemEntry is the problem descriptor embedded in a submission.
type ProblemEntry struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Rating    *int     `json:"rating,omitempty"`
}

// SubmissionEntry is one submission row as returned by the judge API.
type SubmissionEntry struct {
	ID                  int64        `json:"id"`
	CreationTimeSeconds int64        `json:"creationTimeSeconds"`
	Problem             ProblemEntry `json:"problem"`
	Verdict             string       `json:"verdict"`
}

type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// FetchRecorder observes judge API calls for metrics.
type FetchRecorder interface {
	RecordJudgeFetch(endpoint string, success bool, duration time.Duration)
}

// Client is a stateless read-only client for the judge platform API. Fetch
// failures (transport, non-2xx, non-OK envelope) are returned as errors so
// callers can tell an outage apart from a legitimately empty history.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics FetchRecorder
}

// NewClient constructs a judge API client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger, metrics FetchRecorder) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchRatingHistory returns the student's rating changes, oldest first.
func (c *Client) FetchRatingHistory(ctx context.Context, handle string) ([]ContestEntry, error) {
	var entries []ContestEntry
	if err := c.get(ctx, endpointRating, handle, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchSubmissions returns the student's submission history.
func (c *Client) FetchSubmissions(ctx context.Context, handle string) ([]SubmissionEntry, error) {
	var entries []SubmissionEntry
	if err := c.get(ctx, endpointSubmissions, handle, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, endpoint, handle string, dest interface{}) error {
	start := time.Now()
	err := c.doGet(ctx, endpoint, handle, dest)
	if c.metrics != nil {
		c.metrics.RecordJudgeFetch(endpoint, err == nil, time.Since(start))
	}
	if err != nil {
		c.logger.Sugar().Warnw("judge fetch failed",
			"endpoint", endpoint,
			"handle", handle,
			"error", err,
		)
	}
	return err
}

func (c *Client) doGet(ctx context.Context, endpoint, handle string, dest interface{}) error {
	u := fmt.Sprintf("%s/%s?handle=%s", c.baseURL, endpoint, url.QueryEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", endpoint, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode envelope: %w", endpoint, err)
	}
	if env.Status != "OK" {
		return fmt.Errorf("%s: judge responded %q: %s", endpoint, env.Status, env.Comment)
	}
	if err := json.Unmarshal(env.Result, dest); err != nil {
		return fmt.Errorf("%s: decode result: %w", endpoint, err)
	}
	return nil
}
