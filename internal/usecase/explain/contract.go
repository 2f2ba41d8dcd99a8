package explain

import "context"

// Generator produces short natural-language text for a prompt. A failed
// or unavailable generator is an explicit error here; collapsing failures
// to null happens in this package's service, so logs keep the distinction
// between "not requested", "disabled", and "failed".
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
