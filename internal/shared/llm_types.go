package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a generation request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Source tells where a resolved message came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourcePartial  Source = "partial"
	SourceFallback Source = "fallback"
)

// GenerationMeta holds operational metadata for one message resolution.
type GenerationMeta struct {
	Holiday string
	Source  Source
	Usage   TokenUsage
	Latency time.Duration
	// Reason is set when the resolution did not come back verbatim from the model.
	Reason string
}
