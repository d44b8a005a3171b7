package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Ranadipgithub/CodeUP/internal/config"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

// Judge0 status IDs. 1 and 2 mean still processing; 3 is Accepted; 4 is
// Wrong Answer; everything above maps through its description verbatim.
const (
	StatusProcessingMax = 2
	StatusAccepted      = 3
	StatusWrongAnswer   = 4
)

var (
	pollInterval   = 1 * time.Second
	maxPollElapsed = 90 * time.Second
)

// ErrJudgeTimeout is returned when the judge does not report every batch item
// terminal within maxPollElapsed. Distinct from transport or rejection errors
// so callers can surface it as 503 instead of a generic failure.
var ErrJudgeTimeout = errors.New("judge0: timed out waiting for batch results")

// BatchSubmission is one (source, stdin, expected) triple sent to Judge0.
type BatchSubmission struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type SubmissionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// SubmissionResult is the judge's verdict for a single batch item.
type SubmissionResult struct {
	Token  string           `json:"token"`
	Status SubmissionStatus `json:"status"`
	Stdout string           `json:"stdout"`
	Stderr string           `json:"stderr"`
	Time   string           `json:"time"`   // seconds, decimal string
	Memory int              `json:"memory"` // KB
}

// Client submits batches to a remote judge and waits for their verdicts.
// Workflows depend on this interface so tests can swap in a fake.
type Client interface {
	SubmitBatch(ctx context.Context, items []BatchSubmission) ([]string, error)
	WaitForResults(ctx context.Context, tokens []string) ([]SubmissionResult, error)
}

// Judge is the process-wide client used by the handlers.
var Judge Client = &judge0Client{http: &http.Client{Timeout: 30 * time.Second}}

var languageIDs = map[string]int{
	"c++":        54,
	"java":       62,
	"python":     71,
	"javascript": 63,
}

// GetLanguageID maps a user-facing language name to its Judge0 identifier.
// Unknown languages return 0, which Judge0 rejects.
func GetLanguageID(lang string) int {
	return languageIDs[strings.ToLower(lang)]
}

type judge0Client struct {
	http *http.Client
}

type tokenResponse struct {
	Token string `json:"token"`
}

type batchResultResponse struct {
	Submissions []SubmissionResult `json:"submissions"`
}

func (c *judge0Client) SubmitBatch(ctx context.Context, items []BatchSubmission) ([]string, error) {
	cfg := config.AppConfig

	body, err := json.Marshal(map[string]interface{}{"submissions": items})
	if err != nil {
		return nil, err
	}

	url := cfg.Judge0URL + "/submissions/batch?base64_encoded=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", cfg.Judge0APIKey)
	req.Header.Set("x-rapidapi-host", cfg.Judge0APIHost)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("judge0: batch submit failed with status %d", resp.StatusCode)
	}

	var created []tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(created))
	for _, t := range created {
		tokens = append(tokens, t.Token)
	}

	logger.Debug().Int("items", len(items)).Msg("Submitted batch to Judge0")
	return tokens, nil
}

func (c *judge0Client) WaitForResults(ctx context.Context, tokens []string) ([]SubmissionResult, error) {
	cfg := config.AppConfig

	url := fmt.Sprintf("%s/submissions/batch?tokens=%s&base64_encoded=false&fields=*",
		cfg.Judge0URL, strings.Join(tokens, ","))

	deadline := time.Now().Add(maxPollElapsed)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-rapidapi-key", cfg.Judge0APIKey)
		req.Header.Set("x-rapidapi-host", cfg.Judge0APIHost)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("judge0: batch status failed with status %d", resp.StatusCode)
		}

		var result batchResultResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		done := len(result.Submissions) > 0
		for _, r := range result.Submissions {
			if r.Status.ID <= StatusProcessingMax {
				done = false
				break
			}
		}
		if done {
			return result.Submissions, nil
		}

		if time.Now().After(deadline) {
			logger.Warn().Int("tokens", len(tokens)).Msg("Judge0 poll deadline exceeded")
			return nil, ErrJudgeTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
