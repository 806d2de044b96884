package listener

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/afero"

	"speech-arithmetic-quiz/speech_extraction"
)

const (
	defaultFrequency = 16000
	defaultSamples   = 8196
)

var (
	audioMu      sync.Mutex
	audioRunning bool
)

// InitAudio initializes portaudio once for the process.
func InitAudio() error {
	audioMu.Lock()
	defer audioMu.Unlock()

	if !audioRunning {
		err := portaudio.Initialize()
		if err != nil {
			return err
		}

		audioRunning = true
	}

	return nil
}

// FreeAudio releases portaudio.
func FreeAudio() {
	audioMu.Lock()
	defer audioMu.Unlock()

	if audioRunning {
		err := portaudio.Terminate()
		if err != nil {
			log.Printf("Error while freeing audio: %v", err)
		}

		audioRunning = false
	}
}

type microphone struct {
	sampleRate int
	in         []int16
	stream     *portaudio.Stream
}

// NewMicrophone returns a factory for the default input device.
func NewMicrophone(sampleRate, frameSize int) SourceFactory {
	if sampleRate <= 0 {
		sampleRate = defaultFrequency
	}

	if frameSize <= 0 {
		frameSize = defaultSamples
	}

	return func() (Source, error) {
		return &microphone{
			sampleRate: sampleRate,
			in:         make([]int16, frameSize),
		}, nil
	}
}

func (m *microphone) Open() error {
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), len(m.in), m.in)
	if err != nil {
		return err
	}

	err = stream.Start()
	if err != nil {
		stream.Close()

		return err
	}

	m.stream = stream

	return nil
}

func (m *microphone) Read() ([]int16, error) {
	if m.stream == nil {
		return nil, fmt.Errorf("microphone is not open")
	}

	err := m.stream.Read()
	if err != nil {
		return nil, err
	}

	frame := make([]int16, len(m.in))
	copy(frame, m.in)

	return frame, nil
}

func (m *microphone) Close() error {
	if m.stream == nil {
		return nil
	}

	stopErr := m.stream.Stop()
	closeErr := m.stream.Close()
	m.stream = nil

	if stopErr != nil {
		return stopErr
	}

	return closeErr
}

func (m *microphone) SampleRate() int {
	return m.sampleRate
}

type waveSource struct {
	fileSys   afero.Fs
	path      string
	frameSize int

	sampleRate int
	data       []int
	pos        int
}

// NewReplay returns a factory that plays the wav files in order, one per session, wrapping around.
func NewReplay(fileSys afero.Fs, paths []string, frameSize int) (SourceFactory, error) {
	if fileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no wav files to replay")
	}

	if frameSize <= 0 {
		frameSize = defaultSamples
	}

	var (
		mu   sync.Mutex
		next int
	)

	return func() (Source, error) {
		mu.Lock()
		path := paths[next%len(paths)]
		next++
		mu.Unlock()

		return &waveSource{fileSys: fileSys, path: path, frameSize: frameSize}, nil
	}, nil
}

func (w *waveSource) Open() error {
	buffer, err := speech_extraction.Load(w.fileSys, w.path)
	if err != nil {
		return err
	}

	w.data = buffer.Data
	w.sampleRate = defaultFrequency

	if buffer.Format != nil && buffer.Format.SampleRate > 0 {
		w.sampleRate = buffer.Format.SampleRate
	}

	log.Printf("replaying %s", w.path)

	return nil
}

func (w *waveSource) Read() ([]int16, error) {
	if w.pos >= len(w.data) {
		return nil, io.EOF
	}

	end := w.pos + w.frameSize
	if end > len(w.data) {
		end = len(w.data)
	}

	frame := make([]int16, end-w.pos)
	for i, s := range w.data[w.pos:end] {
		frame[i] = int16(s)
	}

	w.pos = end

	return frame, nil
}

func (w *waveSource) Close() error {
	w.data = nil

	return nil
}

func (w *waveSource) SampleRate() int {
	return w.sampleRate
}
