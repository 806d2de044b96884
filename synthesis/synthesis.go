package synthesis

import (
	"context"
	"fmt"
	"log"

	"speech-arithmetic-quiz/quiz"
)

const defaultQueueSize = 16

type job struct {
	utterance quiz.Utterance
	sink      quiz.EventSink
}

type synthesizerImpl struct {
	backend Backend
	queue   chan job
}

type Config struct {
	Backend   Backend
	QueueSize int
}

// New creates a synthesizer that speaks utterances one at a time, in order.
func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}

	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	return &synthesizerImpl{
		backend: cfg.Backend,
		queue:   make(chan job, size),
	}, nil
}

// Speak never blocks; a full queue is reported as an error.
func (s *synthesizerImpl) Speak(_ context.Context, utterance quiz.Utterance, sink quiz.EventSink) error {
	select {
	case s.queue <- job{utterance: utterance, sink: sink}:
		return nil
	default:
		return fmt.Errorf("speech queue is full")
	}
}

func (s *synthesizerImpl) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next := <-s.queue:
			s.say(ctx, next)
		}
	}
}

func (s *synthesizerImpl) say(ctx context.Context, next job) {
	next.sink.Post(quiz.SynthesisStarted(next.utterance.ID))
	defer next.sink.Post(quiz.SynthesisEnded(next.utterance.ID))

	if err := s.backend.Say(ctx, next.utterance); err != nil {
		log.Printf("error speaking %q: %v", next.utterance.Text, err)
	}
}
