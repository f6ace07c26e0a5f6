// Package ai turns free-text commands into structured actions using a
// text-generation backend.
//
// The package exposes a single Provider capability interface with two
// implementations (hosted Anthropic API, local CLI subprocess) chosen at
// construction time. Callers never branch on the backend.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates text for a prompt. Implementations fail with
// *types.ProviderError on transport, auth, or timeout problems and never
// fail because the model produced malformed output — tolerating that is
// the caller's job.
type Provider interface {
	// Generate returns the raw model response for the prompt. When
	// extra is non-nil it is serialized and appended as context.
	Generate(ctx context.Context, prompt string, extra any) (string, error)

	// Name identifies the backend for logging and error reporting.
	Name() string
}

// withContext appends a serialized context block to a prompt, matching
// the format the interpretation prompt documents.
func withContext(prompt string, extra any) (string, error) {
	if extra == nil {
		return prompt, nil
	}
	blob, err := json.MarshalIndent(extra, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing prompt context: %w", err)
	}
	return prompt + "\n\nContexto actual:\n" + string(blob), nil
}
