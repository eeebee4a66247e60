package message

var fallbacks = map[string]Message{
	"Rose Day": {
		Quote:      "A rose speaks of love silently, in a language known only to the heart.",
		Reason:     "Roses are nature's way to say 'I care'.",
		Suggestion: "Surprise them with a single red rose.",
	},
	"Propose Day": {
		Quote:      "Grow old with me! The best is yet to be.",
		Reason:     "Today is about sharing your heart.",
		Suggestion: "Tell them what they truly mean to you.",
	},
	"Chocolate Day": {
		Quote:      "All you need is love. But a little chocolate now and then doesn't hurt.",
		Reason:     "Sweetness shared is sweetness doubled.",
		Suggestion: "Make hot chocolate together and talk until it goes cold.",
	},
	"Teddy Day": {
		Quote:      "Some hugs are meant to be kept for the nights we spend apart.",
		Reason:     "A soft companion keeps your warmth close when you can't be.",
		Suggestion: "Tuck a teddy somewhere they'll find it with a note attached.",
	},
	"Promise Day": {
		Quote:      "I promise to love you today, tomorrow and on all the days in between.",
		Reason:     "Love grows strongest on the promises we keep.",
		Suggestion: "Write down one promise and seal it in an envelope for next year.",
	},
	"Hug Day": {
		Quote:      "A hug is the shortest distance between two hearts.",
		Reason:     "An embrace says what words are too small to hold.",
		Suggestion: "Give them a long hug without saying a word.",
	},
	"Kiss Day": {
		Quote:      "A kiss is a secret told to the mouth instead of the ear.",
		Reason:     "Closeness is the language love speaks best.",
		Suggestion: "Plan a quiet evening with candles and no phones.",
	},
	"Valentine's Day": {
		Quote:      "Love is not just looking at each other, it's looking in the same direction.",
		Reason:     "Celebrate your soul connection.",
		Suggestion: "Visit the place you first met.",
	},
}

var catchAll = Message{
	Quote:      "Love makes every day special.",
	Reason:     "Every moment together is a gift.",
	Suggestion: "Write a handwritten note.",
}

// Fallback returns the static message for a holiday by exact display name,
// or the catch-all message when the name is unknown.
func Fallback(holidayName string) Message {
	if msg, ok := fallbacks[holidayName]; ok {
		return msg
	}
	return catchAll
}

// CatchAll returns the message used for names without a dedicated entry.
func CatchAll() Message {
	return catchAll
}
