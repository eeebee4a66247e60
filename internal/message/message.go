// Package message resolves the romantic message shown on the back of a card.
package message

import "eternal-valentine/internal/shared"

// Message is the three-part text shown on a revealed card.
type Message struct {
	Quote      string `json:"quote"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion"`
}

// Resolution is a Message tagged with where it came from.
type Resolution struct {
	Message Message
	Source  shared.Source
	Meta    shared.GenerationMeta
}

// Per-field replacements used when a generated message lacks a field.
const (
	DefaultQuote      = "Love is the only reality and it is not a mere sentiment. It is the ultimate truth that lies at the heart of creation."
	DefaultReason     = "This day celebrates the initial sparks of affection and the beauty of shared moments."
	DefaultSuggestion = "Spend quality time together watching a movie or taking a walk."
)
