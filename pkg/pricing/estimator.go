package pricing

import (
	"fmt"
	"strings"
)

// Rate holds per-1000-token prices in USD for a single model.
type Rate struct {
	Input  float64
	Output float64
}

// 1 word ≈ 1.3 tokens for natural language. Not exact tokenization.
const tokensPerWord = 1.3

// rateTable maps a model identifier to its pricing. Prices are per token
// (the per-1k published rate divided by 1000).
var rateTable = map[string]Rate{
	"gpt-4o": {Input: 0.0025 / 1000, Output: 0.01 / 1000},
}

// Estimate approximates the API cost of one pipeline run from the word
// counts of the transcription (input) and the clinical note (output).
// It is a pure function: identical inputs always yield the identical result.
func Estimate(inputWords, outputWords int, model string) (float64, error) {
	rate, ok := rateTable[model]
	if !ok {
		return 0, fmt.Errorf("unsupported model: %s", model)
	}

	inputTokens := float64(inputWords) * tokensPerWord
	outputTokens := float64(outputWords) * tokensPerWord

	return inputTokens*rate.Input + outputTokens*rate.Output, nil
}

// WordCount counts words by splitting on whitespace runs.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
