// Package llm wraps the generative model used for resume tailoring behind a
// small client interface, so the provider can be swapped in one place.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short, cheap generations
	TierLite ModelTier = "lite"
	// TierStandard is for tailoring a resume summary to one listing
	TierStandard ModelTier = "standard"
)

// DefaultTemperature keeps generations close to the prompt.
const DefaultTemperature float32 = 0.3

// DefaultMaxOutputTokens bounds one answer; tailored notes are a few sentences.
const DefaultMaxOutputTokens int32 = 512

// DefaultSystemInstruction is sent with every prompt.
const DefaultSystemInstruction = "Answer in plain text. Do not use markdown or code fences."

// Config holds the model configuration
type Config struct {
	Models            map[ModelTier]string
	Temperature       float32
	MaxOutputTokens   int32  // 0 leaves the provider default
	SystemInstruction string // Empty sends none
}

// DefaultConfig returns the default Gemini models
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:       DefaultTemperature,
		MaxOutputTokens:   DefaultMaxOutputTokens,
		SystemInstruction: DefaultSystemInstruction,
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// tier and then the lite tier. Returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c that uses model for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return &out
}
