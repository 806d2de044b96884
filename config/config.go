package config

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	RecognizerWhisper  = "whisper"
	RecognizerDeepgram = "deepgram"

	SynthesizerHTTP    = "http"
	SynthesizerConsole = "console"
)

// Config is the quiz configuration file.
type Config struct {
	Language    string      `yaml:"language"`
	Categories  []string    `yaml:"categories"`
	Voice       Voice       `yaml:"voice"`
	Timing      Timing      `yaml:"timing"`
	Recognizer  Recognizer  `yaml:"recognizer"`
	Synthesizer Synthesizer `yaml:"synthesizer"`
	// RecordingsDir, when set, keeps a wav file of every detected utterance.
	RecordingsDir string `yaml:"recordings_dir"`
}

type Voice struct {
	Rate  float64 `yaml:"rate"`
	Pitch float64 `yaml:"pitch"`
}

type Timing struct {
	Debounce      time.Duration `yaml:"debounce"`
	FeedbackPause time.Duration `yaml:"feedback_pause"`
	ErrorRestart  time.Duration `yaml:"error_restart"`
}

type Recognizer struct {
	Backend    string        `yaml:"backend"`
	Model      string        `yaml:"model"`
	SampleRate int           `yaml:"sample_rate"`
	FrameSize  int           `yaml:"frame_size"`
	QuietTime  time.Duration `yaml:"quiet_time"`
	MaxTime    time.Duration `yaml:"max_time"`
	URL        string        `yaml:"url"`
	APIKeyEnv  string        `yaml:"api_key_env"`
}

type Synthesizer struct {
	Backend   string        `yaml:"backend"`
	APIHost   string        `yaml:"api_host"`
	APIKeyEnv string        `yaml:"api_key_env"`
	VoiceID   string        `yaml:"voice_id"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Parse decodes a single YAML document, rejecting unknown fields.
func Parse(data []byte) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}

		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Load reads, parses, normalizes and validates a config file.
// An empty path yields the defaults.
func Load(fileSys afero.Fs, path string) (Config, error) {
	var (
		cfg Config
		err error
	)

	if path != "" {
		data, err := afero.ReadFile(fileSys, path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		cfg, err = Parse(data)
		if err != nil {
			return Config{}, err
		}
	}

	Normalize(&cfg)

	err = Validate(&cfg)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}
