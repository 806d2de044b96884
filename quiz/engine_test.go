package quiz

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"

	"speech-arithmetic-quiz/question"
)

type fakeRecognizer struct {
	mu       sync.Mutex
	started  chan int
	stopped  []int
	failures int
}

func (f *fakeRecognizer) Start(_ context.Context, session int, _ EventSink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures > 0 {
		f.failures--

		return errors.New("microphone busy")
	}

	f.started <- session

	return nil
}

func (f *fakeRecognizer) Stop(session int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = append(f.stopped, session)
}

type fakeSynthesizer struct {
	mu     sync.Mutex
	spoken []string
}

func (f *fakeSynthesizer) Speak(_ context.Context, utterance Utterance, sink EventSink) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, utterance.Text)
	f.mu.Unlock()

	go func() {
		sink.Post(SynthesisStarted(utterance.ID))
		sink.Post(SynthesisEnded(utterance.ID))
	}()

	return nil
}

func (f *fakeSynthesizer) said(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.spoken {
		if s == text {
			return true
		}
	}

	return false
}

type engineHarness struct {
	engine      *Engine
	recognizer  *fakeRecognizer
	synthesizer *fakeSynthesizer

	mu     sync.Mutex
	latest State
}

func newEngineHarness(t *testing.T, failures int) *engineHarness {
	t.Helper()

	lang, err := question.LanguageFor("en")
	if err != nil {
		t.Fatal(err)
	}

	generator, err := question.NewGenerator(lang, rand.NewSource(7))
	if err != nil {
		t.Fatal(err)
	}

	h := &engineHarness{
		recognizer:  &fakeRecognizer{started: make(chan int, 32), failures: failures},
		synthesizer: &fakeSynthesizer{},
	}

	h.engine, err = New(&Config{
		Recognizer:  h.recognizer,
		Synthesizer: h.synthesizer,
		Generator:   generator,
		Language:    lang,
		Timing: Timing{
			Debounce:      10 * time.Millisecond,
			FeedbackPause: 10 * time.Millisecond,
			ErrorRestart:  10 * time.Millisecond,
		},
		Voice: Voice{Rate: 1.1, Pitch: 1.1},
		Observer: func(state State) {
			h.mu.Lock()
			h.latest = state
			h.mu.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = h.engine.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return h
}

func (h *engineHarness) state() State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.latest
}

func (h *engineHarness) waitFor(t *testing.T, what string, cond func(State) bool) State {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := h.state(); cond(s) {
			return s
		}

		time.Sleep(2 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %s, last state %+v", what, h.state())

	return State{}
}

func (h *engineHarness) nextSession(t *testing.T) int {
	t.Helper()

	select {
	case session := <-h.recognizer.started:
		return session
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a recognition session")
	}

	return 0
}

func TestEngineCycle(t *testing.T) {
	h := newEngineHarness(t, 0)

	h.engine.Post(Start([]question.Category{question.Addition, question.Multiplication}))

	session := h.nextSession(t)
	state := h.waitFor(t, "listening", func(s State) bool {
		return s.Phase == PhaseListening && s.Session == session
	})

	if !h.synthesizer.said(state.Question.SpeechText) {
		t.Fatalf("expected the question to be spoken")
	}

	first := state.Question

	t.Run("a wrong answer retries the same question", func(t *testing.T) {
		h.engine.Post(RecognitionResult(session, strconv.Itoa(first.CorrectAnswer+1), true))

		session = h.nextSession(t)
		state := h.waitFor(t, "retry", func(s State) bool {
			return s.Phase == PhaseListening && s.Score.Incorrect == 1 && s.Session == session
		})

		if state.Question != first {
			t.Fatalf("expected the same question")
		}

		if !h.synthesizer.said(state.Language.Incorrect) {
			t.Fatalf("expected negative feedback to be spoken")
		}
	})

	t.Run("a correct interim answer settles and moves on", func(t *testing.T) {
		h.engine.Post(RecognitionResult(session, "the answer is "+strconv.Itoa(first.CorrectAnswer), false))

		session = h.nextSession(t)
		state := h.waitFor(t, "next question", func(s State) bool {
			return s.Phase == PhaseListening && s.Score.Correct == 1 && s.Session == session
		})

		if state.Answer.Kind != AnswerUnset {
			t.Fatalf("expected a fresh answer slot, got %+v", state.Answer)
		}

		if !h.synthesizer.said(state.Language.Correct) {
			t.Fatalf("expected positive feedback to be spoken")
		}
	})
}

func TestEngineRestartsFailedRecognizer(t *testing.T) {
	h := newEngineHarness(t, 2)

	h.engine.Post(Start([]question.Category{question.Subtraction}))

	session := h.nextSession(t)
	if session != 3 {
		t.Fatalf("expected two failed sessions before session 3, got %d", session)
	}

	h.waitFor(t, "error cleared", func(s State) bool {
		return s.Session == 3 && s.RecognitionError == nil && s.Recognizing
	})
}

func TestNew(t *testing.T) {
	t.Run("config is required", func(t *testing.T) {
		if _, err := New(nil); err == nil {
			t.Fatalf("expected an error")
		}
	})

	t.Run("collaborators are required", func(t *testing.T) {
		if _, err := New(&Config{Recognizer: &fakeRecognizer{}}); err == nil {
			t.Fatalf("expected an error")
		}
	})
}
