package provider

import (
	"github.com/veristream/veristream/internal/cache"
	"github.com/veristream/veristream/internal/model"
)

// New assembles the configured providers in invocation order: the numeric
// scorer first, then the qualitative corroborators. A provider with a missing
// credential is still returned; it reports a configuration failure per call,
// which the pipeline absorbs like any other failed result.
func New(cfg *model.Config) []Provider {
	limiter := NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var responses cache.Cache
	if cfg.Cache.Enabled {
		responses = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
	}

	providers := []Provider{
		NewClaimBuster(cfg.Providers.ClaimBuster, cfg.HTTP, cfg.Providers.Timeout, limiter, responses, cfg.Cache.TTL),
		NewFactCheckTools(cfg.Providers.FactCheck, cfg.HTTP, cfg.Providers.Timeout, DefaultRatingPredicate, limiter, responses, cfg.Cache.TTL),
	}
	if cfg.Providers.OpenAI.Enabled {
		providers = append(providers, NewOpenAIVerdict(cfg.Providers.OpenAI, cfg.Providers.Timeout, DefaultRatingPredicate))
	}
	return providers
}
