package quiz

import "time"

// TimerKind names one of the cycle's timers. Each kind has at most one armed timer.
type TimerKind int

const (
	TimerDebounce TimerKind = iota
	TimerFeedback
	TimerRestart
	timerKindCount
)

func (k TimerKind) String() string {
	switch k {
	case TimerDebounce:
		return "debounce"
	case TimerFeedback:
		return "feedback"
	case TimerRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// EffectKind identifies a command for the engine.
type EffectKind int

const (
	// EffectSpeak queues an utterance.
	EffectSpeak EffectKind = iota
	// EffectStartRecognition starts a recognition session.
	EffectStartRecognition
	// EffectStopRecognition stops a recognition session.
	EffectStopRecognition
	// EffectScheduleTimer arms a timer.
	EffectScheduleTimer
	// EffectCancelTimer disarms a timer.
	EffectCancelTimer
	// EffectNewQuestion asks for a question from the enabled categories.
	EffectNewQuestion
)

// Effect is a side effect requested by Reduce.
type Effect struct {
	Kind      EffectKind
	Text      string
	Utterance int
	Session   int
	Timer     TimerKind
	Token     int
	Delay     time.Duration
}
