package quiz

import "context"

// EventSink accepts events from adapters. Post may be called from any goroutine.
type EventSink interface {
	Post(event Event)
}

// Recognizer is a speech-to-text service.
// Start must not block; the session reports back through sink and always
// finishes with a RecognitionEnded event once it was started successfully.
type Recognizer interface {
	Start(ctx context.Context, session int, sink EventSink) error
	Stop(session int)
}

// Utterance is a unit of text to be spoken.
type Utterance struct {
	ID    int
	Text  string
	Lang  string
	Rate  float64
	Pitch float64
}

// Synthesizer is a text-to-speech service.
// Speak queues the utterance; playback reports SynthesisStarted and SynthesisEnded through sink.
type Synthesizer interface {
	Speak(ctx context.Context, utterance Utterance, sink EventSink) error
}

// Observer receives a snapshot after each handled event.
type Observer func(state State)
