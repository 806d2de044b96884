package speech_to_text

import (
	"time"

	"github.com/go-audio/audio"
)

// Segment is a piece of transcribed speech.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// SegmentCallback receives segments while a buffer is still being transcribed.
type SegmentCallback func(segment Segment)

type Interface interface {
	Process(wavBuffer audio.Buffer, onSegment SegmentCallback) ([]Segment, error)
}
