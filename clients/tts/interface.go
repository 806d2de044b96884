package tts

import "context"

// SampleRate of the PCM returned by Synthesize.
const SampleRate = 22050

type Interface interface {
	// Synthesize returns signed 16-bit little-endian mono PCM at SampleRate.
	Synthesize(ctx context.Context, text string, speed float64) ([]byte, error)
}
