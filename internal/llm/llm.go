// Package llm talks to a generative text/vision model. Responses are
// free-form prose expected to contain an embedded JSON object; extraction
// tolerates surrounding text and treats missing or malformed JSON as a
// recoverable error, never a crash.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client is the model-facing interface. image may be nil for text-only
// prompts.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, image []byte) (string, error)
	Close() error
}

// ErrNoJSON indicates the model response contained no extractable JSON
// object.
var ErrNoJSON = errors.New("no JSON object in model response")

// ExtractJSON returns the first balanced top-level JSON object embedded in
// text, tolerating surrounding prose and markdown fences.
func ExtractJSON(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w", ErrNoJSON)
}
