package synthesis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"speech-arithmetic-quiz/clients/tts"
	"speech-arithmetic-quiz/quiz"
)

type recordingBackend struct {
	mu     sync.Mutex
	spoken []string
	err    error
}

func (r *recordingBackend) Say(_ context.Context, utterance quiz.Utterance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spoken = append(r.spoken, utterance.Text)

	return r.err
}

type channelSink chan quiz.Event

func (c channelSink) Post(event quiz.Event) { c <- event }

func (c channelSink) next(t *testing.T) quiz.Event {
	t.Helper()

	select {
	case event := <-c:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for an event")
	}

	return quiz.Event{}
}

func TestSynthesizer(t *testing.T) {
	t.Run("utterances are spoken in order between started and ended", func(t *testing.T) {
		backend := &recordingBackend{}

		synth, err := New(&Config{Backend: backend})
		if err != nil {
			t.Fatal(err)
		}

		sink := make(channelSink, 8)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := synth.Speak(ctx, quiz.Utterance{ID: 1, Text: "3 たす 4 は?"}, sink); err != nil {
			t.Fatal(err)
		}

		if err := synth.Speak(ctx, quiz.Utterance{ID: 2, Text: "せいかい!"}, sink); err != nil {
			t.Fatal(err)
		}

		go synth.Run(ctx)

		expected := []quiz.Event{
			quiz.SynthesisStarted(1), quiz.SynthesisEnded(1),
			quiz.SynthesisStarted(2), quiz.SynthesisEnded(2),
		}

		for _, want := range expected {
			got := sink.next(t)
			if got.Kind != want.Kind || got.Utterance != want.Utterance {
				t.Fatalf("expected %s(%d), got %s(%d)", want.Kind, want.Utterance, got.Kind, got.Utterance)
			}
		}

		backend.mu.Lock()
		defer backend.mu.Unlock()

		if len(backend.spoken) != 2 || backend.spoken[1] != "せいかい!" {
			t.Errorf("unexpected utterances %v", backend.spoken)
		}
	})

	t.Run("a failing backend still ends the utterance", func(t *testing.T) {
		synth, err := New(&Config{Backend: &recordingBackend{err: errors.New("no speaker")}})
		if err != nil {
			t.Fatal(err)
		}

		sink := make(channelSink, 4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go synth.Run(ctx)

		if err := synth.Speak(ctx, quiz.Utterance{ID: 5, Text: "x"}, sink); err != nil {
			t.Fatal(err)
		}

		if event := sink.next(t); event.Kind != quiz.EventSynthesisStarted {
			t.Fatalf("expected started, got %s", event.Kind)
		}

		if event := sink.next(t); event.Kind != quiz.EventSynthesisEnded || event.Utterance != 5 {
			t.Fatalf("expected utterance 5 to end, got %+v", event)
		}
	})

	t.Run("a full queue is rejected", func(t *testing.T) {
		synth, err := New(&Config{Backend: &recordingBackend{}, QueueSize: 1})
		if err != nil {
			t.Fatal(err)
		}

		sink := make(channelSink, 4)

		if err := synth.Speak(context.Background(), quiz.Utterance{ID: 1}, sink); err != nil {
			t.Fatal(err)
		}

		if err := synth.Speak(context.Background(), quiz.Utterance{ID: 2}, sink); err == nil {
			t.Errorf("expected an error")
		}
	})

	t.Run("config is validated", func(t *testing.T) {
		if _, err := New(nil); err == nil {
			t.Errorf("expected an error for a nil config")
		}

		if _, err := New(&Config{}); err == nil {
			t.Errorf("expected an error without a backend")
		}
	})
}

type fakeTTS struct {
	text  string
	speed float64
}

func (f *fakeTTS) Synthesize(_ context.Context, text string, speed float64) ([]byte, error) {
	f.text, f.speed = text, speed

	return []byte{1, 0, 0xff, 0xff, 0x00, 0x80}, nil
}

type fakePlayer struct {
	samples    []int16
	sampleRate int
}

func (f *fakePlayer) Play(_ context.Context, samples []int16, sampleRate int) error {
	f.samples, f.sampleRate = samples, sampleRate

	return nil
}

func TestHTTPVoice(t *testing.T) {
	client := &fakeTTS{}
	player := &fakePlayer{}

	voice, err := NewHTTPVoice(client, player)
	if err != nil {
		t.Fatal(err)
	}

	err = voice.Say(context.Background(), quiz.Utterance{Text: "せいかい!", Rate: 1.1, Pitch: 1.1})
	if err != nil {
		t.Fatal(err)
	}

	if client.text != "せいかい!" || client.speed != 1 {
		t.Errorf("unexpected request %q at speed %v", client.text, client.speed)
	}

	if player.sampleRate != int(float64(tts.SampleRate)*1.1) {
		t.Errorf("expected the pitch to raise the sample rate, got %d", player.sampleRate)
	}

	expected := []int16{1, -1, -32768}
	for i := range expected {
		if player.samples[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, player.samples)
		}
	}

	if _, err := NewHTTPVoice(nil, player); err == nil {
		t.Errorf("expected an error without a client")
	}
}

func TestConsoleVoice(t *testing.T) {
	voice := NewConsoleVoice(time.Millisecond)

	start := time.Now()
	if err := voice.Say(context.Background(), quiz.Utterance{Text: "ざんねん", Rate: 1}); err != nil {
		t.Fatal(err)
	}

	if elapsed := time.Since(start); elapsed < 4*time.Millisecond {
		t.Errorf("expected to take about 4ms, took %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewConsoleVoice(time.Hour).Say(ctx, quiz.Utterance{Text: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}
