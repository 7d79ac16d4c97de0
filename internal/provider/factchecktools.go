package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veristream/veristream/internal/cache"
	"github.com/veristream/veristream/internal/model"
)

const factCheckName = "Google Fact Check Tools"

// Qualitative entries record the confidence of the label, not a continuous
// measurement: 90 when an independent review corroborates, 30 when it does
// not.
const (
	corroboratedScore    = 90
	notCorroboratedScore = 30
)

// FactCheckTools searches published fact-check reviews for the claim text.
// It is a corroborating qualitative provider: its binary signal can raise
// the aggregated confidence but its score never becomes the base.
type FactCheckTools struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	predicate  RatingPredicate
	limiter    *Limiter
	responses  cache.Cache
	cacheTTL   time.Duration
}

// NewFactCheckTools creates the review-search adapter. A nil predicate falls
// back to DefaultRatingPredicate.
func NewFactCheckTools(cfg model.FactCheckConfig, httpCfg model.HTTPConfig, timeout time.Duration, predicate RatingPredicate, limiter *Limiter, responses cache.Cache, cacheTTL time.Duration) *FactCheckTools {
	if predicate == nil {
		predicate = DefaultRatingPredicate
	}
	return &FactCheckTools{
		httpClient: newHTTPClient(httpCfg),
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		userAgent:  httpCfg.UserAgent,
		timeout:    timeout,
		predicate:  predicate,
		limiter:    limiter,
		responses:  responses,
		cacheTTL:   cacheTTL,
	}
}

// Name returns the provider name as recorded on fact-check entries
func (f *FactCheckTools) Name() string { return factCheckName }

// Kind identifies the provider as a qualitative corroborator
func (f *FactCheckTools) Kind() Kind { return KindQualitative }

// Check searches reviews for the claim text. An empty claims list is "no
// corroboration", not an error; only transport or payload problems fail.
func (f *FactCheckTools) Check(ctx context.Context, text string) Result {
	if f.apiKey == "" {
		return failure(factCheckName, KindQualitative, "api key not configured")
	}
	if r, ok := cachedResult(f.responses, factCheckName, text); ok {
		return r
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, factCheckName); err != nil {
			return failure(factCheckName, KindQualitative, fmt.Sprintf("rate limit wait: %v", err))
		}
	}

	var r Result
	for attempt := 0; attempt < checkMaxRetries; attempt++ {
		var retryable bool
		r, retryable = f.check(ctx, text)
		if r.Succeeded || !retryable {
			break
		}
		if attempt < checkMaxRetries-1 {
			checkSleepFunc(retryBackoff(attempt))
		}
	}
	rememberResult(f.responses, factCheckName, text, r, f.cacheTTL)
	return r
}

// check performs a single review search
func (f *FactCheckTools) check(ctx context.Context, text string) (Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("query", text)
	query.Set("key", f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return failure(factCheckName, KindQualitative, fmt.Sprintf("create request: %v", err)), false
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return failure(factCheckName, KindQualitative, fmt.Sprintf("request failed: %v", err)), true
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(factCheckName, KindQualitative, fmt.Sprintf("unexpected status: %d", resp.StatusCode)), isRetryableStatus(resp.StatusCode)
	}

	var payload struct {
		Claims []struct {
			ClaimReview []struct {
				TextualRating string `json:"textualRating"`
			} `json:"claimReview"`
		} `json:"claims"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return failure(factCheckName, KindQualitative, fmt.Sprintf("decode response: %v", err)), false
	}

	if len(payload.Claims) == 0 {
		return Result{
			Source:      factCheckName,
			Kind:        KindQualitative,
			Score:       notCorroboratedScore,
			Explanation: "No independent fact checks found for this claim",
			Succeeded:   true,
		}, false
	}

	var firstRating string
	for _, claim := range payload.Claims {
		for _, review := range claim.ClaimReview {
			if firstRating == "" {
				firstRating = review.TextualRating
			}
			if f.predicate(review.TextualRating) {
				return Result{
					Source:       factCheckName,
					Kind:         KindQualitative,
					Score:        corroboratedScore,
					Explanation:  fmt.Sprintf("Independent review rated this claim %q", review.TextualRating),
					Corroborated: true,
					Succeeded:    true,
				}, false
			}
		}
	}

	explanation := "Independent reviews did not corroborate this claim"
	if firstRating != "" {
		explanation = fmt.Sprintf("Independent review rated this claim %q", firstRating)
	}
	return Result{
		Source:      factCheckName,
		Kind:        KindQualitative,
		Score:       notCorroboratedScore,
		Explanation: explanation,
		Succeeded:   true,
	}, false
}
