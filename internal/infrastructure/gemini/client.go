// Package gemini implements the deal-discovery and analysis collaborators
// over the Google Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

// Client handles communication with the Gemini API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a Gemini client. An empty API key is allowed; calls then
// fail fast with ErrAPIKeyMissing so callers can run in demo mode.
func NewClient(apiKey, baseURL, model string) *Client {
	// Keep a little headroom under the free-tier quota: ~1 request every 2s
	// with a small burst for the compare+analyze pair.
	limiter := rate.NewLimiter(rate.Limit(0.5), 4)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// generateRequest is the wire shape of a generateContent call.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// FindLiveDeals asks Gemini for active buying options for a product title.
// Returns an empty slice when the model finds nothing; returns an error for
// transport or parse failures so the caller can substitute zero deals.
func (c *Client) FindLiveDeals(ctx context.Context, productTitle string) ([]domain.CandidateDeal, error) {
	if c.apiKey == "" {
		return nil, domain.ErrAPIKeyMissing
	}
	log.Printf("[GEMINI] FindLiveDeals called for: %q", productTitle)

	raw, err := c.generateJSON(ctx, buildDealsPrompt(productTitle))
	if err != nil {
		return nil, err
	}

	deals, err := parseDeals(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode deals: %w", err)
	}

	log.Printf("[GEMINI] Found %d live deals for: %q", len(deals), productTitle)
	return deals, nil
}

// AnalyzeComparison asks Gemini to compare the reference product against its
// competitors using the provided reviews.
func (c *Client) AnalyzeComparison(ctx context.Context, current domain.Listing, competitors []domain.Listing, reviews []domain.Review) (*domain.AnalysisResult, error) {
	if c.apiKey == "" {
		return nil, domain.ErrAPIKeyMissing
	}

	prompt, err := buildAnalysisPrompt(current, competitors, reviews)
	if err != nil {
		return nil, err
	}

	raw, err := c.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return result, nil
}

// generateJSON runs one generateContent call with JSON output enforced and
// returns the first candidate's text. Transient failures are retried up to
// three times with exponential backoff.
func (c *Client) generateJSON(ctx context.Context, prompt string) ([]byte, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL, reqBody)
		if err != nil {
			log.Printf("[GEMINI] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			sleepCtx(ctx, exponentialBackoff(attempt))
			continue
		}

		if status != http.StatusOK {
			if c.debug {
				log.Printf("[GEMINI] API error (attempt %d) - Status: %d, Body: %s", attempt, status, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrGeminiAPIFailure, status)
			// Client errors other than rate limiting will not heal on retry.
			if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
				return nil, lastErr
			}
			sleepCtx(ctx, exponentialBackoff(attempt))
			continue
		}

		var resp generateResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, domain.ErrEmptyResponse
		}

		text := resp.Candidates[0].Content.Parts[0].Text
		if c.debug {
			log.Printf("[GEMINI] Response text: %s", text)
		}
		return []byte(text), nil
	}

	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SmartComparison/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailure, err)
	}
	return respBody, resp.StatusCode, nil
}

// exponentialBackoff returns the wait before the next retry: 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
