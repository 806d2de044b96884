package synthesis

import (
	"context"

	"github.com/gordonklaus/portaudio"
)

const speakerFrames = 1024

type speaker struct{}

// NewSpeaker plays through the default output device. Audio must be initialized.
func NewSpeaker() Player {
	return speaker{}
}

func (speaker) Play(ctx context.Context, samples []int16, sampleRate int) error {
	out := make([]int16, speakerFrames)

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(out), out)
	if err != nil {
		return err
	}

	defer stream.Close()

	err = stream.Start()
	if err != nil {
		return err
	}

	defer stream.Stop()

	for pos := 0; pos < len(samples); pos += len(out) {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := copy(out, samples[pos:])
		for i := n; i < len(out); i++ {
			out[i] = 0
		}

		err = stream.Write()
		if err != nil {
			return err
		}
	}

	return nil
}
