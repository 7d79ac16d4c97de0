package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/veristream/veristream/internal/cache"
	"github.com/veristream/veristream/internal/model"
)

const claimBusterName = "ClaimBuster"

// ClaimBuster scores claim check-worthiness as a continuous value in [0,1],
// normalized here to an integer percent. This is the primary numeric
// provider: its score is the base of the aggregation.
type ClaimBuster struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	limiter    *Limiter
	responses  cache.Cache
	cacheTTL   time.Duration
}

// NewClaimBuster creates the ClaimBuster adapter
func NewClaimBuster(cfg model.ClaimBusterConfig, httpCfg model.HTTPConfig, timeout time.Duration, limiter *Limiter, responses cache.Cache, cacheTTL time.Duration) *ClaimBuster {
	return &ClaimBuster{
		httpClient: newHTTPClient(httpCfg),
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		userAgent:  httpCfg.UserAgent,
		timeout:    timeout,
		limiter:    limiter,
		responses:  responses,
		cacheTTL:   cacheTTL,
	}
}

// Name returns the provider name as recorded on fact-check entries
func (c *ClaimBuster) Name() string { return claimBusterName }

// Kind identifies ClaimBuster as the continuous-score provider
func (c *ClaimBuster) Kind() Kind { return KindNumeric }

// Check scores the claim text. A missing credential, transport error,
// non-success status or malformed payload comes back as a failed Result.
func (c *ClaimBuster) Check(ctx context.Context, text string) Result {
	if c.apiKey == "" {
		return failure(claimBusterName, KindNumeric, "api key not configured")
	}
	if r, ok := cachedResult(c.responses, claimBusterName, text); ok {
		return r
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, claimBusterName); err != nil {
			return failure(claimBusterName, KindNumeric, fmt.Sprintf("rate limit wait: %v", err))
		}
	}

	var r Result
	for attempt := 0; attempt < checkMaxRetries; attempt++ {
		var retryable bool
		r, retryable = c.check(ctx, text)
		if r.Succeeded || !retryable {
			break
		}
		if attempt < checkMaxRetries-1 {
			checkSleepFunc(retryBackoff(attempt))
		}
	}
	rememberResult(c.responses, claimBusterName, text, r, c.cacheTTL)
	return r
}

// check performs a single scoring request
func (c *ClaimBuster) check(ctx context.Context, text string) (Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return failure(claimBusterName, KindNumeric, fmt.Sprintf("encode request: %v", err)), false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(claimBusterName, KindNumeric, fmt.Sprintf("create request: %v", err)), false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are transient
		return failure(claimBusterName, KindNumeric, fmt.Sprintf("request failed: %v", err)), true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(claimBusterName, KindNumeric, fmt.Sprintf("unexpected status: %d", resp.StatusCode)), isRetryableStatus(resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Score *float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return failure(claimBusterName, KindNumeric, fmt.Sprintf("decode response: %v", err)), false
	}
	if len(payload.Results) == 0 || payload.Results[0].Score == nil {
		return failure(claimBusterName, KindNumeric, "response missing results[0].score"), false
	}

	score := int(math.Round(*payload.Results[0].Score * 100))
	return Result{
		Source:      claimBusterName,
		Kind:        KindNumeric,
		Score:       score,
		Explanation: fmt.Sprintf("Claim check score: %d%%", score),
		Succeeded:   true,
	}, false
}
