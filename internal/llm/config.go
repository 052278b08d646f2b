// Package llm wraps the Gemini API behind a small client interface so
// extraction call sites stay provider-neutral.
package llm

import "maps"

// ModelTier picks how much model capability a call pays for. Extraction and
// classification run on the lite tier; the heavier tiers are for reranking
// and summarization work.
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard"
	TierAdvanced ModelTier = "advanced"
)

// Provider names an LLM vendor.
type Provider string

// ProviderGemini is the only provider currently wired.
const ProviderGemini Provider = "gemini"

// Config maps tiers to concrete model names for one provider.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// tierFallback is the lookup order when a tier has no model configured.
var tierFallback = []ModelTier{TierStandard, TierLite}

// DefaultConfig returns the Gemini models each tier uses out of the box.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel resolves the model name for tier, trying standard and then lite
// when the tier itself is not configured. Returns "" when nothing is.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	for _, fallback := range tierFallback {
		if model, ok := c.Models[fallback]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := maps.Clone(c.Models)
	if models == nil {
		models = make(map[ModelTier]string)
	}
	models[tier] = model
	return &Config{Provider: c.Provider, Models: models}
}
