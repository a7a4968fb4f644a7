package model

// Mood classifies the emotional valence of a user message.
type Mood string

const (
	MoodNegative Mood = "negative"
	MoodNeutral  Mood = "neutral"
	MoodPositive Mood = "positive"
)

// Valid reports whether the mood is one of the three enumerated values.
func (m Mood) Valid() bool {
	switch m {
	case MoodNegative, MoodNeutral, MoodPositive:
		return true
	}
	return false
}

// Mode is the response style selected from a detected mood.
type Mode string

const (
	ModeSupportive  Mode = "Supportive"
	ModeExploratory Mode = "Exploratory"
)

// MoodResult is the structured judgment produced by the mood classifier.
// It is produced fresh per request and never persisted.
type MoodResult struct {
	Mood       Mood    `json:"mood"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}
