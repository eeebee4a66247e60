package llm

import (
	"context"

	"eternal-valentine/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// ResponseSchema constrains a response to a JSON object whose properties are
// all strings.
type ResponseSchema struct {
	Properties []string
	Required   []string
}

// TextGenerator is an interface for generating text from a prompt. A non-nil
// schema asks the backend for a JSON object of that shape.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, schema *ResponseSchema) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
