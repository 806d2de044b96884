package synthesis

import (
	"context"

	"speech-arithmetic-quiz/quiz"
)

// Interface is a synthesizer whose queue is drained by Run.
type Interface interface {
	quiz.Synthesizer
	Run(ctx context.Context) error
}

// Backend speaks a single utterance and returns once it has finished.
type Backend interface {
	Say(ctx context.Context, utterance quiz.Utterance) error
}

// Player plays signed 16-bit mono samples.
type Player interface {
	Play(ctx context.Context, samples []int16, sampleRate int) error
}
