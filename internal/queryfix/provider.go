// Package queryfix talks to hosted AI models to repair unintelligible search
// queries and to identify products from photos. Every entry point degrades
// gracefully: a provider failure never surfaces to the caller as an error that
// would break the search flow.
package queryfix

import "context"

// Provider is a hosted text/vision model behind an HTTP API.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// GenerateText sends a text-only prompt and returns the model's reply.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateVision sends a prompt together with an image (as a data URL)
	// and returns the model's reply.
	GenerateVision(ctx context.Context, prompt, imageDataURL string) (string, error)
}

// Catalog supplies the known product names that scope every prompt. The AI is
// only ever asked to pick from this list, never to invent products.
type Catalog interface {
	Names() []string
}
