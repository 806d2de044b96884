package listener

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"speech-arithmetic-quiz/clients/deepgram"
	"speech-arithmetic-quiz/quiz"
)

type streamingImpl struct {
	newSource SourceFactory
	newClient func() (deepgram.Interface, error)

	mu       sync.Mutex
	sessions map[int]context.CancelFunc
}

type StreamingConfig struct {
	NewSource SourceFactory
	// NewClient creates one streaming connection per session.
	NewClient func() (deepgram.Interface, error)
}

// NewStreaming creates a recognizer that streams raw audio to a remote service.
func NewStreaming(cfg *StreamingConfig) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.NewSource == nil {
		return nil, fmt.Errorf("newSource is nil")
	}

	if cfg.NewClient == nil {
		return nil, fmt.Errorf("newClient is nil")
	}

	return &streamingImpl{
		newSource: cfg.NewSource,
		newClient: cfg.NewClient,
		sessions:  make(map[int]context.CancelFunc),
	}, nil
}

func (s *streamingImpl) Start(ctx context.Context, session int, sink quiz.EventSink) error {
	client, err := s.newClient()
	if err != nil {
		return err
	}

	var heard atomic.Bool

	client.OnTranscript(func(transcript string, isFinal bool) {
		if heard.CompareAndSwap(false, true) {
			sink.Post(quiz.RecognitionAudio(session))
		}

		sink.Post(quiz.RecognitionResult(session, transcript, isFinal))
	})
	client.OnError(func(err error) {
		sink.Post(quiz.RecognitionFailed(session, "network", err.Error()))
	})

	src, err := s.newSource()
	if err != nil {
		return err
	}

	err = src.Open()
	if err != nil {
		return fmt.Errorf("open audio source: %w", err)
	}

	err = client.Connect(ctx)
	if err != nil {
		src.Close()

		return err
	}

	sessionCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.sessions[session] = cancel
	s.mu.Unlock()

	go s.pump(sessionCtx, session, sink, src, client)

	return nil
}

func (s *streamingImpl) Stop(session int) {
	s.mu.Lock()
	cancel, ok := s.sessions[session]
	delete(s.sessions, session)
	s.mu.Unlock()

	if ok {
		cancel()
	}
}

// pump forwards audio frames as 16-bit little-endian PCM until the session stops.
func (s *streamingImpl) pump(ctx context.Context, session int, sink quiz.EventSink, src Source, client deepgram.Interface) {
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("error closing stream: %v", err)
		}

		if err := src.Close(); err != nil {
			log.Printf("error closing audio source: %v", err)
		}

		s.Stop(session)
		sink.Post(quiz.RecognitionEnded(session))
	}()

	for ctx.Err() == nil {
		frame, err := src.Read()
		if errors.Is(err, io.EOF) {
			// give the service a chance to flush its last transcript
			<-ctx.Done()

			return
		}

		if err != nil {
			sink.Post(quiz.RecognitionFailed(session, "audio-capture", err.Error()))
			<-ctx.Done()

			return
		}

		err = client.SendAudio(encodePCM(frame))
		if err != nil {
			sink.Post(quiz.RecognitionFailed(session, "network", err.Error()))
			<-ctx.Done()

			return
		}
	}
}

func encodePCM(frame []int16) []byte {
	pcm := make([]byte, len(frame)*2)
	for i, sample := range frame {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}

	return pcm
}
