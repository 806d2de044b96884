package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/audio"

	"speech-arithmetic-quiz/listener/voice_activity_detection"
	"speech-arithmetic-quiz/quiz"
	"speech-arithmetic-quiz/ring_buffer"
	"speech-arithmetic-quiz/speech_extraction"
	"speech-arithmetic-quiz/speech_to_text"
)

const (
	quietTimePeriod = time.Millisecond * 200
	// a frame counts as an onset when its flux is this many times the previous one
	fluxRatio = 1.75
	// how much audio before the onset is kept
	preRoll = time.Millisecond * 500
)

type voiceImpl struct {
	newSource SourceFactory
	sttEngine speech_to_text.Interface
	recorder  speech_extraction.Interface
	quietTime time.Duration
	maxTime   time.Duration

	mu       sync.Mutex
	sessions map[int]context.CancelFunc
}

type Config struct {
	NewSource SourceFactory
	STTEngine speech_to_text.Interface
	// Recorder is optional; when set every detected utterance is saved.
	Recorder  speech_extraction.Interface
	QuietTime time.Duration
	// MaxTime caps a single utterance; zero means no cap.
	MaxTime time.Duration
}

// New creates a recognizer that detects utterances locally and transcribes them with whisper.
func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.NewSource == nil {
		return nil, fmt.Errorf("newSource is nil")
	}

	if cfg.STTEngine == nil {
		return nil, fmt.Errorf("sttEngine is nil")
	}

	quietTime := cfg.QuietTime
	if quietTime <= 0 {
		quietTime = quietTimePeriod
	}

	return &voiceImpl{
		newSource: cfg.NewSource,
		sttEngine: cfg.STTEngine,
		recorder:  cfg.Recorder,
		quietTime: quietTime,
		maxTime:   cfg.MaxTime,
		sessions:  make(map[int]context.CancelFunc),
	}, nil
}

func (v *voiceImpl) Start(ctx context.Context, session int, sink quiz.EventSink) error {
	src, err := v.newSource()
	if err != nil {
		return err
	}

	err = src.Open()
	if err != nil {
		return fmt.Errorf("open audio source: %w", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)

	v.mu.Lock()
	v.sessions[session] = cancel
	v.mu.Unlock()

	go v.listenLoop(sessionCtx, session, sink, src)

	return nil
}

func (v *voiceImpl) Stop(session int) {
	v.mu.Lock()
	cancel, ok := v.sessions[session]
	delete(v.sessions, session)
	v.mu.Unlock()

	if ok {
		cancel()
	}
}

func (v *voiceImpl) listenLoop(ctx context.Context, session int, sink quiz.EventSink, src Source) {
	defer func() {
		if err := src.Close(); err != nil {
			log.Printf("error closing audio source: %v", err)
		}

		v.Stop(session)
		sink.Post(quiz.RecognitionEnded(session))
	}()

	for {
		waveBuffer, err := v.listenIntoBuffer(ctx, src, func() {
			sink.Post(quiz.RecognitionAudio(session))
		})
		if ctx.Err() != nil {
			return
		}

		exhausted := errors.Is(err, io.EOF)
		if err != nil && !exhausted {
			sink.Post(quiz.RecognitionFailed(session, "audio-capture", err.Error()))
			<-ctx.Done()

			return
		}

		if len(waveBuffer.Data) > 0 {
			if !v.transcribe(ctx, session, sink, waveBuffer) {
				<-ctx.Done()

				return
			}
		}

		if exhausted {
			return
		}
	}
}

// transcribe posts interim results per segment and a final result; false means it failed.
func (v *voiceImpl) transcribe(ctx context.Context, session int, sink quiz.EventSink, waveBuffer *audio.IntBuffer) bool {
	if v.recorder != nil {
		if _, err := v.recorder.Save(waveBuffer); err != nil {
			log.Printf("error saving utterance: %v", err)
		}
	}

	var interim []string

	segments, err := v.sttEngine.Process(waveBuffer, func(segment speech_to_text.Segment) {
		interim = append(interim, segment.Text)
		sink.Post(quiz.RecognitionResult(session, strings.Join(interim, " "), false))
	})
	if err != nil {
		log.Printf("error running model: %v", err)
		sink.Post(quiz.RecognitionFailed(session, "transcription", err.Error()))

		return false
	}

	if ctx.Err() != nil {
		return true
	}

	for _, segment := range segments {
		log.Printf("[%6s->%6s] %s\n",
			segment.Start.Truncate(time.Millisecond), segment.End.Truncate(time.Millisecond), segment.Text)
	}

	if transcript := speech_to_text.Join(segments); transcript != "" {
		sink.Post(quiz.RecognitionResult(session, transcript, true))
	}

	return true
}

// listenIntoBuffer waits for an utterance and returns it once the speaker goes quiet.
// On io.EOF the audio collected so far is returned together with the error.
func (v *voiceImpl) listenIntoBuffer(ctx context.Context, src Source, onAudio func()) (*audio.IntBuffer, error) {
	var (
		heardSomething bool
		quiet          bool
		quietSamples   int
		heardSamples   int
		lastFlux       float64
		vad            *voice_activity_detection.Detector
	)

	sampleRate := src.SampleRate()
	quietLimit := samplesFor(v.quietTime, sampleRate)
	maxSamples := samplesFor(v.maxTime, sampleRate)

	ringBuffer := ring_buffer.New(samplesFor(preRoll, sampleRate))

	intBuffer := make([]int, 0)

	wavBuffer := func() *audio.IntBuffer {
		return &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  sampleRate,
			},
			Data:           intBuffer,
			SourceBitDepth: 16,
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return wavBuffer(), err
		}

		in, err := src.Read()
		if err != nil {
			return wavBuffer(), err
		}

		if vad == nil {
			vad = voice_activity_detection.New(len(in))
		}

		// keep a buffer of the first bit of audio before detection
		if !heardSomething {
			ringBuffer.Add(in)
		} else {
			for _, sample := range in {
				intBuffer = append(intBuffer, int(sample))
			}

			heardSamples += len(in)

			if maxSamples > 0 && heardSamples >= maxSamples {
				break
			}
		}

		flux := vad.Flux(in)

		if lastFlux == 0 {
			lastFlux = flux
			continue
		}

		if heardSomething {
			if flux*fluxRatio <= lastFlux {
				if !quiet {
					quietSamples = 0
				}

				quietSamples += len(in)
				quiet = true

				if quietSamples > quietLimit {
					break
				}
			} else {
				quiet = false
				lastFlux = flux
			}
		} else {
			if flux >= lastFlux*fluxRatio {
				heardSomething = true
				onAudio()

				// the pre-roll already holds the onset frame
				for _, sample := range ringBuffer.Read() {
					intBuffer = append(intBuffer, int(sample))
				}
			}

			lastFlux = flux
		}
	}

	return wavBuffer(), nil
}

func samplesFor(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}
