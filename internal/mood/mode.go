package mood

import (
	"github.com/bridgeme/chat-platform/internal/model"
)

// ModeFor maps a detected mood to a response mode. Negative moods route to
// Supportive; neutral and positive route to Exploratory.
func ModeFor(mood model.Mood) model.Mode {
	if mood == model.MoodNegative {
		return model.ModeSupportive
	}
	return model.ModeExploratory
}

// SystemPrompt returns the system prompt for a response mode.
func SystemPrompt(mode model.Mode) string {
	if mode == model.ModeSupportive {
		return SupportiveSystem
	}
	return ExploratorySystem
}
