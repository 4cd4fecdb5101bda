// Package gemini calls the Gemini generateContent endpoint with the fixed
// generation settings used for bail eligibility analyses.
package gemini

import (
	"context"
	"sort"
)

// DefaultModel is the completion model used when none is configured
const DefaultModel = "gemini-2.0-flash"

// DefaultBaseURL is the public Generative Language API root
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// HarmCategory is a content-safety category name
type HarmCategory string

// HarmThreshold is a content-safety blocking level
type HarmThreshold string

const (
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
)

const (
	BlockNone           HarmThreshold = "BLOCK_NONE"
	BlockOnlyHigh       HarmThreshold = "BLOCK_ONLY_HIGH"
	BlockMediumAndAbove HarmThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	BlockLowAndAbove    HarmThreshold = "BLOCK_LOW_AND_ABOVE"
)

// categoryOrder fixes the wire order of the well-known categories
var categoryOrder = []HarmCategory{
	HarmCategoryHarassment,
	HarmCategoryHateSpeech,
	HarmCategorySexuallyExplicit,
	HarmCategoryDangerousContent,
}

// GenerationConfig holds the sampling and safety settings sent with every request
type GenerationConfig struct {
	Temperature      float32
	MaxOutputTokens  int32
	SafetyThresholds map[HarmCategory]HarmThreshold
}

// DefaultGenerationConfig blocks medium-and-above severity in all four categories
var DefaultGenerationConfig = GenerationConfig{
	Temperature:     0.7,
	MaxOutputTokens: 2048,
	SafetyThresholds: map[HarmCategory]HarmThreshold{
		HarmCategoryHarassment:       BlockMediumAndAbove,
		HarmCategoryHateSpeech:       BlockMediumAndAbove,
		HarmCategorySexuallyExplicit: BlockMediumAndAbove,
		HarmCategoryDangerousContent: BlockMediumAndAbove,
	},
}

// SafetySetting is one category/threshold pair
type SafetySetting struct {
	Category  HarmCategory  `json:"category"`
	Threshold HarmThreshold `json:"threshold"`
}

// SafetySettings flattens the thresholds in a stable order: the well-known
// categories first, then any others sorted by name.
func (c GenerationConfig) SafetySettings() []SafetySetting {
	settings := make([]SafetySetting, 0, len(c.SafetyThresholds))
	seen := make(map[HarmCategory]bool, len(categoryOrder))
	for _, cat := range categoryOrder {
		seen[cat] = true
		if th, ok := c.SafetyThresholds[cat]; ok {
			settings = append(settings, SafetySetting{Category: cat, Threshold: th})
		}
	}

	var rest []HarmCategory
	for cat := range c.SafetyThresholds {
		if !seen[cat] {
			rest = append(rest, cat)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, cat := range rest {
		settings = append(settings, SafetySetting{Category: cat, Threshold: c.SafetyThresholds[cat]})
	}

	return settings
}

// Generator sends one prompt and returns the raw completion response
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (*Response, error)
}
