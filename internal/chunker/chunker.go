package chunker

import (
	"errors"
	"strings"
)

// ErrInvalidChunkSize is returned when max tokens is zero or negative.
var ErrInvalidChunkSize = errors.New("chunker: max tokens must be positive")

// Chunk is a bounded contiguous slice of source text sized to fit one
// model context window.
type Chunk struct {
	Index         int
	Text          string
	TokenEstimate int
}

// tokensPerWord scales a whitespace word count into a rough token count.
// The estimate only needs to be deterministic, not exact.
const tokensPerWord = 1.3

// EstimateTokens returns the approximate token count for text.
func EstimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * tokensPerWord)
}

// Split divides text into chunks of at most maxTokens estimated tokens.
// Lines are kept intact unless a single line alone exceeds the limit, in
// which case it is hard-split at the whitespace boundary closest to the
// limit. Concatenating the chunk texts in order reproduces the input
// modulo whitespace normalization.
func Split(text string, maxTokens int) ([]Chunk, error) {
	if maxTokens <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var (
		chunks        []string
		currentLines  []string
		currentTokens int
	)

	flush := func() {
		if len(currentLines) > 0 {
			chunks = append(chunks, strings.Join(currentLines, "\n"))
			currentLines = nil
			currentTokens = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		lineTokens := EstimateTokens(line)

		if lineTokens > maxTokens {
			flush()
			for _, piece := range hardSplit(line, maxTokens) {
				chunks = append(chunks, piece)
			}
			continue
		}

		if currentTokens+lineTokens > maxTokens && len(currentLines) > 0 {
			flush()
		}
		currentLines = append(currentLines, line)
		currentTokens += lineTokens
	}
	flush()

	result := make([]Chunk, len(chunks))
	for i, c := range chunks {
		result[i] = Chunk{Index: i, Text: c, TokenEstimate: EstimateTokens(c)}
	}
	return result, nil
}

// hardSplit breaks a single over-long line into word groups that each fit
// within maxTokens. Every group contains at least one word.
func hardSplit(line string, maxTokens int) []string {
	words := strings.Fields(line)
	var (
		pieces  []string
		current []string
	)
	for _, word := range words {
		candidate := append(current, word)
		if EstimateTokens(strings.Join(candidate, " ")) > maxTokens && len(current) > 0 {
			pieces = append(pieces, strings.Join(current, " "))
			current = []string{word}
			continue
		}
		current = candidate
	}
	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, " "))
	}
	return pieces
}
