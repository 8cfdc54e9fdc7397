package providers

import "math"

// DefaultPricingModel is the table key used for unknown model identifiers
const DefaultPricingModel = "default"

// tokenPrice is the USD price of a single token
type tokenPrice struct {
	Input  float64
	Output float64
}

// pricePerToken uses published per-model pricing (USD per token). Backends only
// report token usage, so cost is always derived locally. Built once, read-only.
var pricePerToken = map[string]tokenPrice{
	"gpt-4o-mini":       {Input: 0.15 / 1_000_000, Output: 0.60 / 1_000_000},
	"gemini-3-flash":    {Input: 0.50 / 1_000_000, Output: 3.00 / 1_000_000},
	"gemini-2.5-flash":  {Input: 0.15 / 1_000_000, Output: 0.60 / 1_000_000},
	DefaultPricingModel: {Input: 0.50 / 1_000_000, Output: 1.50 / 1_000_000},
}

// EstimateCost returns the USD cost of a call, rounded to 6 decimal places.
// Unknown models are priced with the default tier; it never fails.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	price, ok := pricePerToken[model]
	if !ok {
		price = pricePerToken[DefaultPricingModel]
	}

	cost := float64(max(inputTokens, 0))*price.Input + float64(max(outputTokens, 0))*price.Output
	return math.Round(cost*1e6) / 1e6
}

// IsKnownPricingModel reports whether the model has its own pricing entry
func IsKnownPricingModel(model string) bool {
	_, ok := pricePerToken[model]
	return ok && model != DefaultPricingModel
}
