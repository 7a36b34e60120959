package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, DefaultTemperature, config.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, config.MaxOutputTokens)
	assert.NotEmpty(t, config.SystemInstruction)
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		models   map[ModelTier]string
		tier     ModelTier
		expected string
	}{
		{"exact", map[ModelTier]string{TierLite: "lite-model"}, TierLite, "lite-model"},
		{"unknown tier uses standard", map[ModelTier]string{TierStandard: "std"}, "unknown", "std"},
		{"then lite", map[ModelTier]string{TierLite: "lite-model"}, TierStandard, "lite-model"},
		{"empty name skipped", map[ModelTier]string{TierStandard: "", TierLite: "lite-model"}, TierStandard, "lite-model"},
		{"nothing configured", map[ModelTier]string{}, TierStandard, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Models: tt.models}
			assert.Equal(t, tt.expected, config.GetModel(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	original := DefaultConfig()
	modified := original.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "custom-model", modified.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash", original.GetModel(TierStandard))
	assert.Equal(t, original.Temperature, modified.Temperature)
	assert.Equal(t, original.SystemInstruction, modified.SystemInstruction)
}
