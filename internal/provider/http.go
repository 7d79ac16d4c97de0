package provider

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/veristream/veristream/internal/cache"
	"github.com/veristream/veristream/internal/model"
)

// maxBodyBytes caps how much of a provider response is read
const maxBodyBytes = 1 << 20

const checkMaxRetries = 3

// checkSleepFunc is the sleep function used between retries (injectable for tests)
var checkSleepFunc = time.Sleep

// newHTTPClient builds the outbound client shared by the HTTP-based
// providers. Per-call deadlines come from the request context, so the client
// itself carries no timeout.
func newHTTPClient(cfg model.HTTPConfig) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: newProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
		},
	}
}

// newProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// isRetryableStatus returns true for transport statuses worth retrying
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// retryBackoff is the exponential backoff between retry attempts
func retryBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// cachedResult looks up a previously memoized result for this provider+text
func cachedResult(responses cache.Cache, source, text string) (Result, bool) {
	if responses == nil {
		return Result{}, false
	}
	data, ok := responses.Get(cache.CacheKey(source, text))
	if !ok {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, false
	}
	return r, true
}

// rememberResult memoizes a succeeded result. Failures are never cached: a
// provider that was down a minute ago deserves a fresh call.
func rememberResult(responses cache.Cache, source, text string, r Result, ttl time.Duration) {
	if responses == nil || !r.Succeeded {
		return
	}
	if data, err := json.Marshal(r); err == nil {
		_ = responses.Set(cache.CacheKey(source, text), data, ttl)
	}
}
