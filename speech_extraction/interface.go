package speech_extraction

import "github.com/go-audio/audio"

// Interface stores captured utterances.
type Interface interface {
	Save(buffer *audio.IntBuffer) (string, error)
}
