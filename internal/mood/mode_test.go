package mood

import (
	"testing"

	"github.com/bridgeme/chat-platform/internal/model"
)

func TestModeForIsExhaustive(t *testing.T) {
	cases := []struct {
		mood model.Mood
		want model.Mode
	}{
		{model.MoodNegative, model.ModeSupportive},
		{model.MoodNeutral, model.ModeExploratory},
		{model.MoodPositive, model.ModeExploratory},
	}

	for _, tc := range cases {
		if got := ModeFor(tc.mood); got != tc.want {
			t.Fatalf("ModeFor(%s): expected %s, got %s", tc.mood, tc.want, got)
		}
	}
}

func TestSystemPromptSelection(t *testing.T) {
	if SystemPrompt(model.ModeSupportive) != SupportiveSystem {
		t.Fatal("Supportive mode must select the supportive prompt")
	}
	if SystemPrompt(model.ModeExploratory) != ExploratorySystem {
		t.Fatal("Exploratory mode must select the exploratory prompt")
	}
}
