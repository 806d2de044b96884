package quiz

import (
	"time"

	"speech-arithmetic-quiz/question"
)

// Phase is the step of the ask/listen/evaluate cycle.
type Phase int

const (
	// PhaseIdle means no quiz is running.
	PhaseIdle Phase = iota
	// PhaseAsking means the question utterance is queued or playing.
	PhaseAsking
	// PhaseListening means answers are accepted from the recognizer.
	PhaseListening
	// PhaseEvaluating means an answer was accepted and feedback is queued.
	PhaseEvaluating
	// PhaseFeedback means feedback is playing or the post-feedback pause runs.
	PhaseFeedback
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAsking:
		return "asking"
	case PhaseListening:
		return "listening"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// AnswerKind distinguishes "nothing heard yet" from "heard, but no number".
type AnswerKind int

const (
	AnswerUnset AnswerKind = iota
	AnswerNone
	AnswerParsed
)

// Answer is the spoken answer for the current question.
type Answer struct {
	Kind  AnswerKind
	Value int
}

// RecognitionError is a failure reported by the speech-to-text service.
type RecognitionError struct {
	Code    string
	Message string
}

func (e RecognitionError) Error() string {
	return e.Code + ": " + e.Message
}

// Timing holds the fixed delays of the cycle.
type Timing struct {
	// Debounce is how long an interim transcript must stay unchanged before it is evaluated.
	Debounce time.Duration
	// FeedbackPause runs after the feedback utterance before moving on.
	FeedbackPause time.Duration
	// ErrorRestart is the delay before a failed recognizer is restarted.
	ErrorRestart time.Duration
}

// DefaultTiming returns the delays used when nothing is configured.
func DefaultTiming() Timing {
	return Timing{
		Debounce:      600 * time.Millisecond,
		FeedbackPause: time.Second,
		ErrorRestart:  time.Second,
	}
}

// Score counts evaluated answers.
type Score struct {
	Correct   int
	Incorrect int
}

type timerSlot struct {
	token   int
	pending bool
}

// State is the whole quiz state. It is a value: Reduce returns a new one.
type State struct {
	Phase      Phase
	Categories []question.Category

	Question    question.Question
	HasQuestion bool

	SpokenWord       string
	Answer           Answer
	Correct          bool
	Speaking         bool
	RecognitionError *RecognitionError
	Score            Score

	// Recognizing is set from the moment a session is started until it is stopped or ends.
	Recognizing bool
	// Session numbers the current recognition session; events of older sessions are dropped.
	Session int
	// PendingUtterances counts utterances queued or playing; recognition waits for zero.
	PendingUtterances int

	Timing   Timing
	Language question.Language

	utteranceSeq      int
	feedbackUtterance int
	pendingTranscript string
	timers            [timerKindCount]timerSlot
}

// NewState returns an idle state.
func NewState(lang question.Language, timing Timing) State {
	return State{
		Phase:    PhaseIdle,
		Timing:   timing,
		Language: lang,
	}
}

// Synthesizing reports whether any utterance is queued or playing.
func (s State) Synthesizing() bool {
	return s.PendingUtterances > 0
}

// TimerPending reports whether a timer of the kind is armed.
func (s State) TimerPending(kind TimerKind) bool {
	return s.timers[kind].pending
}

// TimerToken returns the token the next firing of the kind must carry.
func (s State) TimerToken(kind TimerKind) int {
	return s.timers[kind].token
}
