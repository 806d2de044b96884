package quiz

import (
	"context"
	"fmt"
	"log"
	"time"

	"speech-arithmetic-quiz/question"
)

const eventQueueSize = 64

// Voice configures how utterances are spoken.
type Voice struct {
	Rate  float64
	Pitch float64
}

// Engine runs the quiz state machine on a single goroutine.
type Engine struct {
	recognizer  Recognizer
	synthesizer Synthesizer
	generator   *question.Generator
	voice       Voice
	observer    Observer

	events chan Event
	done   chan struct{}
	timers [timerKindCount]*time.Timer
	state  State
}

// Config wires an engine to its collaborators.
type Config struct {
	Recognizer  Recognizer
	Synthesizer Synthesizer
	Generator   *question.Generator
	Language    question.Language
	Timing      Timing
	Voice       Voice
	Observer    Observer
}

// New creates an idle engine.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Recognizer == nil {
		return nil, fmt.Errorf("recognizer is nil")
	}

	if cfg.Synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is nil")
	}

	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is nil")
	}

	return &Engine{
		recognizer:  cfg.Recognizer,
		synthesizer: cfg.Synthesizer,
		generator:   cfg.Generator,
		voice:       cfg.Voice,
		observer:    cfg.Observer,
		events:      make(chan Event, eventQueueSize),
		done:        make(chan struct{}),
		state:       NewState(cfg.Language, cfg.Timing),
	}, nil
}

// Post hands an event to the loop. It returns without delivering once the engine stopped.
func (e *Engine) Post(event Event) {
	select {
	case e.events <- event:
	case <-e.done:
	}
}

// Run processes events until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)
	defer e.shutdown()

	e.notify()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-e.events:
			e.handle(ctx, event)
		}
	}
}

// handle reduces one event, plus any events its effects produce synchronously.
func (e *Engine) handle(ctx context.Context, event Event) {
	queue := []Event{event}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		state, effects := Reduce(e.state, next)
		if state.Phase != e.state.Phase {
			log.Printf("quiz: %s -> %s (%s)", e.state.Phase, state.Phase, next.Kind)
		}

		e.state = state

		for _, effect := range effects {
			if follow, ok := e.apply(ctx, effect); ok {
				queue = append(queue, follow)
			}
		}
	}

	e.notify()
}

func (e *Engine) apply(ctx context.Context, effect Effect) (Event, bool) {
	switch effect.Kind {
	case EffectSpeak:
		utterance := Utterance{
			ID:    effect.Utterance,
			Text:  effect.Text,
			Lang:  e.state.Language.Code,
			Rate:  e.voice.Rate,
			Pitch: e.voice.Pitch,
		}

		if err := e.synthesizer.Speak(ctx, utterance, e); err != nil {
			log.Printf("error queueing utterance %q: %v", effect.Text, err)

			return SynthesisEnded(effect.Utterance), true
		}
	case EffectStartRecognition:
		if err := e.recognizer.Start(ctx, effect.Session, e); err != nil {
			log.Printf("error starting recognition session %d: %v", effect.Session, err)

			return RecognitionFailed(effect.Session, "start-failed", err.Error()), true
		}
	case EffectStopRecognition:
		e.recognizer.Stop(effect.Session)
	case EffectScheduleTimer:
		e.stopTimer(effect.Timer)

		kind, token := effect.Timer, effect.Token
		e.timers[kind] = time.AfterFunc(effect.Delay, func() {
			e.Post(TimerFired(kind, token))
		})
	case EffectCancelTimer:
		e.stopTimer(effect.Timer)
	case EffectNewQuestion:
		q, err := e.generator.New(e.state.Categories)
		if err != nil {
			log.Printf("error creating question: %v", err)

			return Stop(), true
		}

		return QuestionReady(q), true
	}

	return Event{}, false
}

func (e *Engine) stopTimer(kind TimerKind) {
	if t := e.timers[kind]; t != nil {
		t.Stop()
		e.timers[kind] = nil
	}
}

func (e *Engine) shutdown() {
	for kind := TimerKind(0); kind < timerKindCount; kind++ {
		e.stopTimer(kind)
	}

	if e.state.Recognizing {
		e.recognizer.Stop(e.state.Session)
	}
}

func (e *Engine) notify() {
	if e.observer != nil {
		e.observer(e.state)
	}
}
