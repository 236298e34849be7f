package cost

import (
	"github.com/mpeterson/aikit/pricing"
	"github.com/mpeterson/aikit/tokens"
)

// Estimate predicts the cost of a call before making it: the prompt is
// token-counted with the given counter and the completion is assumed to use
// maxCompletionTokens in full. A nil counter uses the default estimator.
func Estimate(table pricing.Table, counter tokens.Counter, prompt, model string, maxCompletionTokens int) (float64, error) {
	if counter == nil {
		counter = tokens.NewEstimatingCounter()
	}
	return table.Cost(model, counter.Count(prompt), maxCompletionTokens)
}
