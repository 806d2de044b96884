package speech_extraction

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/zenwerk/go-wave"
)

const (
	defaultSampleRate = 16000
	bitsPerSample     = 16
)

type recorderImpl struct {
	fileSys afero.Fs
	dir     string
	runID   string

	mu    sync.Mutex
	count int
}

type Config struct {
	FileSys afero.Fs
	Dir     string
}

// New creates a recorder writing one wav file per utterance into Dir.
func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if err := cfg.FileSys.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}

	return &recorderImpl{
		fileSys: cfg.FileSys,
		dir:     cfg.Dir,
		runID:   uuid.NewString(),
	}, nil
}

func (r *recorderImpl) Save(buffer *audio.IntBuffer) (string, error) {
	if buffer == nil || len(buffer.Data) == 0 {
		return "", fmt.Errorf("buffer is empty")
	}

	r.mu.Lock()
	r.count++
	waveFilename := filepath.Join(r.dir, fmt.Sprintf("%s-%04d.wav", r.runID, r.count))
	r.mu.Unlock()

	waveFile, err := r.fileSys.Create(waveFilename)
	if err != nil {
		return "", err
	}

	sampleRate := defaultSampleRate
	if buffer.Format != nil && buffer.Format.SampleRate > 0 {
		sampleRate = buffer.Format.SampleRate
	}

	param := wave.WriterParam{
		Out:           waveFile,
		Channel:       1,
		SampleRate:    sampleRate,
		BitsPerSample: bitsPerSample,
	}

	waveWriter, err := wave.NewWriter(param)
	if err != nil {
		waveFile.Close()

		return "", err
	}

	samples := make([]int16, len(buffer.Data))
	for i, s := range buffer.Data {
		samples[i] = int16(s)
	}

	_, err = waveWriter.WriteSample16(samples)
	if err != nil {
		waveWriter.Close()

		return "", err
	}

	if err := waveWriter.Close(); err != nil {
		return "", err
	}

	log.Printf("saved utterance to %s", waveFilename)

	return waveFilename, nil
}

// Load reads a mono 16-bit wav file into a buffer.
func Load(fileSys afero.Fs, path string) (*audio.IntBuffer, error) {
	f, err := fileSys.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}

	if decoder.NumChans != 1 || decoder.BitDepth != bitsPerSample {
		return nil, fmt.Errorf("%s: expected mono 16-bit audio, got %d channels at %d bits",
			path, decoder.NumChans, decoder.BitDepth)
	}

	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return buffer, nil
}
