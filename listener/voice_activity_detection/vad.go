package voice_activity_detection

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Detector measures spectral flux: how much energy appeared in each frequency
// bin compared to the previous frame. Speech onsets produce a jump in flux.
type Detector struct {
	frame    []float64
	previous []float64
}

func New(frameSize int) *Detector {
	if frameSize < 2 {
		frameSize = 2
	}

	return &Detector{
		frame:    make([]float64, frameSize),
		previous: make([]float64, frameSize/2+1),
	}
}

// Flux returns the positive spectral difference between samples and the previous call.
// Shorter inputs are zero padded, longer ones truncated to the frame size.
func (d *Detector) Flux(samples []int16) float64 {
	for i := range d.frame {
		if i < len(samples) {
			d.frame[i] = float64(samples[i]) / 32768
		} else {
			d.frame[i] = 0
		}
	}

	spectrum := fft.FFTReal(d.frame)

	var flux float64

	for i := range d.previous {
		magnitude := cmplx.Abs(spectrum[i])

		if diff := magnitude - d.previous[i]; diff > 0 {
			flux += diff
		}

		d.previous[i] = magnitude
	}

	return flux
}

func (d *Detector) Reset() {
	for i := range d.previous {
		d.previous[i] = 0
	}
}
