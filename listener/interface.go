package listener

import (
	"context"

	"speech-arithmetic-quiz/quiz"
)

// Interface is a recognizer driven by the quiz engine, one session at a time.
type Interface interface {
	Start(ctx context.Context, session int, sink quiz.EventSink) error
	Stop(session int)
}

// Source delivers audio frames. Read returns io.EOF when the source is exhausted.
type Source interface {
	Open() error
	Read() ([]int16, error)
	Close() error
	SampleRate() int
}

// SourceFactory opens a fresh source for every recognition session.
type SourceFactory func() (Source, error)
