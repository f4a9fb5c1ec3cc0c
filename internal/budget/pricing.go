package budget

// ModelPricing is the cost in cents per 1000 tokens.
type ModelPricing struct {
	InputCentsPer1K  float64
	OutputCentsPer1K float64
}

// defaultPricing is the fallback tier for models missing from the table.
// Cost tracking must never block a feature because a new model name has not
// been priced yet; a small accounting inaccuracy beats unavailability.
var defaultPricing = ModelPricing{InputCentsPer1K: 0.5, OutputCentsPer1K: 1.5}

// modelPricingTable maps model names to their price tier.
var modelPricingTable = map[string]ModelPricing{
	"gpt-4o":            {InputCentsPer1K: 0.25, OutputCentsPer1K: 1.0},
	"gpt-4o-mini":       {InputCentsPer1K: 0.015, OutputCentsPer1K: 0.06},
	"gpt-4-turbo":       {InputCentsPer1K: 1.0, OutputCentsPer1K: 3.0},
	"claude-3-5-sonnet": {InputCentsPer1K: 0.3, OutputCentsPer1K: 1.5},
	"claude-3-haiku":    {InputCentsPer1K: 0.025, OutputCentsPer1K: 0.125},
}

// PricingFor returns the price tier for a model and whether it was found in
// the table. Unknown models get the default tier.
func PricingFor(model string) (ModelPricing, bool) {
	if pricing, ok := modelPricingTable[model]; ok {
		return pricing, true
	}
	return defaultPricing, false
}

// Cost computes the cost in cents for one call.
func (p ModelPricing) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*p.InputCentsPer1K +
		float64(outputTokens)/1000*p.OutputCentsPer1K
}
