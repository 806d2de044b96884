package quiz

import "speech-arithmetic-quiz/question"

// EventKind identifies the type of quiz event.
type EventKind int

const (
	// EventStart begins a quiz with the enabled categories.
	EventStart EventKind = iota
	// EventQuestionReady delivers a freshly generated question.
	EventQuestionReady
	// EventSynthesisStarted signals an utterance began playing.
	EventSynthesisStarted
	// EventSynthesisEnded signals an utterance finished or failed.
	EventSynthesisEnded
	// EventRecognitionAudio signals the recognizer picked up sound.
	EventRecognitionAudio
	// EventRecognitionResult delivers an interim or final transcript.
	EventRecognitionResult
	// EventRecognitionError reports a recognizer failure.
	EventRecognitionError
	// EventRecognitionEnded signals a recognition session is over.
	EventRecognitionEnded
	// EventTimerFired delivers an expired timer.
	EventTimerFired
	// EventReset asks for a manual recognizer restart.
	EventReset
	// EventStop ends the quiz.
	EventStop
)

var eventNames = map[EventKind]string{
	EventStart:             "start",
	EventQuestionReady:     "question-ready",
	EventSynthesisStarted:  "synthesis-started",
	EventSynthesisEnded:    "synthesis-ended",
	EventRecognitionAudio:  "recognition-audio",
	EventRecognitionResult: "recognition-result",
	EventRecognitionError:  "recognition-error",
	EventRecognitionEnded:  "recognition-ended",
	EventTimerFired:        "timer-fired",
	EventReset:             "reset",
	EventStop:              "stop",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}

	return "unknown"
}

// Event carries a state machine input.
type Event struct {
	Kind       EventKind
	Session    int
	Utterance  int
	Transcript string
	Final      bool
	Error      *RecognitionError
	Timer      TimerKind
	Token      int
	Question   question.Question
	Categories []question.Category
}

// Start builds a start event.
func Start(categories []question.Category) Event {
	return Event{Kind: EventStart, Categories: categories}
}

// QuestionReady builds a question delivery event.
func QuestionReady(q question.Question) Event {
	return Event{Kind: EventQuestionReady, Question: q}
}

// SynthesisStarted builds an utterance start event.
func SynthesisStarted(utterance int) Event {
	return Event{Kind: EventSynthesisStarted, Utterance: utterance}
}

// SynthesisEnded builds an utterance end event.
func SynthesisEnded(utterance int) Event {
	return Event{Kind: EventSynthesisEnded, Utterance: utterance}
}

// RecognitionAudio builds an audio detected event.
func RecognitionAudio(session int) Event {
	return Event{Kind: EventRecognitionAudio, Session: session}
}

// RecognitionResult builds a transcript event.
func RecognitionResult(session int, transcript string, final bool) Event {
	return Event{Kind: EventRecognitionResult, Session: session, Transcript: transcript, Final: final}
}

// RecognitionFailed builds a recognizer error event.
func RecognitionFailed(session int, code, message string) Event {
	return Event{Kind: EventRecognitionError, Session: session, Error: &RecognitionError{Code: code, Message: message}}
}

// RecognitionEnded builds a session end event.
func RecognitionEnded(session int) Event {
	return Event{Kind: EventRecognitionEnded, Session: session}
}

// TimerFired builds a timer expiry event.
func TimerFired(kind TimerKind, token int) Event {
	return Event{Kind: EventTimerFired, Timer: kind, Token: token}
}

// Reset builds a manual recognizer reset event.
func Reset() Event {
	return Event{Kind: EventReset}
}

// Stop builds a quiz stop event.
func Stop() Event {
	return Event{Kind: EventStop}
}
