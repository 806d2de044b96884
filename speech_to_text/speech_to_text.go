package speech_to_text

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/audio"
)

type sttImpl struct {
	model    whisper.Model
	language string
	// whisper contexts share the model; one transcription at a time
	mu sync.Mutex
}

type Config struct {
	Model    whisper.Model
	Language string
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Model == nil {
		return nil, fmt.Errorf("model is nil")
	}

	return &sttImpl{
		model:    cfg.Model,
		language: cfg.Language,
	}, nil
}

func (stt *sttImpl) Process(wavBuffer audio.Buffer, onSegment SegmentCallback) ([]Segment, error) {
	stt.mu.Lock()
	defer stt.mu.Unlock()

	context, err := stt.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create whisper context: %w", err)
	}

	if stt.language != "" {
		if err := context.SetLanguage(stt.language); err != nil {
			return nil, fmt.Errorf("set language %q: %w", stt.language, err)
		}
	}

	filter := newSegmentFilter()

	var cb whisper.SegmentCallback
	if onSegment != nil {
		cb = func(segment whisper.Segment) {
			if filter.keep(segment.Text) {
				onSegment(toSegment(segment))
			}
		}
	}

	err = context.Process(normalize(wavBuffer), cb)
	if err != nil {
		return nil, fmt.Errorf("whisper process: %w", err)
	}

	return outputSegments(context)
}

// normalize scales 16-bit samples into the [-1, 1] range whisper expects.
func normalize(wavBuffer audio.Buffer) []float32 {
	ints := wavBuffer.AsIntBuffer()
	data := make([]float32, len(ints.Data))

	for i, sample := range ints.Data {
		data[i] = float32(sample) / 32768
	}

	return data
}

func outputSegments(context whisper.Context) ([]Segment, error) {
	filter := newSegmentFilter()

	segments := make([]Segment, 0)

	for {
		segment, err := context.NextSegment()
		if err == io.EOF {
			return segments, nil
		} else if err != nil {
			return nil, err
		}

		if !filter.keep(segment.Text) {
			continue
		}

		segments = append(segments, toSegment(segment))
	}
}

func toSegment(segment whisper.Segment) Segment {
	return Segment{
		Start: segment.Start,
		End:   segment.End,
		Text:  strings.TrimSpace(segment.Text),
	}
}

// Join concatenates segment texts into one transcript.
func Join(segments []Segment) string {
	texts := make([]string, 0, len(segments))
	for _, segment := range segments {
		texts = append(texts, segment.Text)
	}

	return strings.Join(texts, " ")
}
