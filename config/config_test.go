package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"speech-arithmetic-quiz/question"
)

const sampleConfig = `language: en
categories: [addition, multiplication]
voice:
  rate: 1.0
timing:
  debounce: 400ms
recognizer:
  backend: deepgram
  url: ws://localhost:9000/listen
synthesizer:
  backend: http
  voice_id: abc
recordings_dir: out
`

func TestParse(t *testing.T) {
	t.Run("fields and durations are decoded", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleConfig))
		if err != nil {
			t.Fatal(err)
		}

		if cfg.Language != "en" || len(cfg.Categories) != 2 {
			t.Errorf("unexpected config %+v", cfg)
		}

		if cfg.Timing.Debounce != 400*time.Millisecond {
			t.Errorf("expected 400ms, got %v", cfg.Timing.Debounce)
		}

		if cfg.Recognizer.URL != "ws://localhost:9000/listen" || cfg.Synthesizer.VoiceID != "abc" {
			t.Errorf("unexpected adapters %+v %+v", cfg.Recognizer, cfg.Synthesizer)
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		if _, err := Parse([]byte("langauge: en\n")); err == nil {
			t.Errorf("expected an error")
		}
	})

	t.Run("multiple documents are rejected", func(t *testing.T) {
		_, err := Parse([]byte("language: en\n---\nlanguage: ja\n"))
		if err == nil || !strings.Contains(err.Error(), "multiple") {
			t.Errorf("expected a multiple documents error, got %v", err)
		}
	})

	t.Run("an empty document is allowed", func(t *testing.T) {
		if _, err := Parse(nil); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	var cfg Config

	Normalize(&cfg)

	if cfg.Language != question.DefaultLanguage {
		t.Errorf("expected %q, got %q", question.DefaultLanguage, cfg.Language)
	}

	if len(cfg.Categories) != len(question.Factories()) {
		t.Errorf("expected every category enabled, got %v", cfg.Categories)
	}

	if cfg.Voice.Rate != 1.1 || cfg.Voice.Pitch != 1.1 {
		t.Errorf("unexpected voice %+v", cfg.Voice)
	}

	if cfg.Timing.Debounce != 600*time.Millisecond || cfg.Timing.FeedbackPause != time.Second ||
		cfg.Timing.ErrorRestart != time.Second {
		t.Errorf("unexpected timing %+v", cfg.Timing)
	}

	if cfg.Recognizer.Backend != RecognizerWhisper || cfg.Synthesizer.Backend != SynthesizerConsole {
		t.Errorf("unexpected backends %q %q", cfg.Recognizer.Backend, cfg.Synthesizer.Backend)
	}

	t.Run("remote backends get an api key variable", func(t *testing.T) {
		cfg := Config{
			Recognizer:  Recognizer{Backend: RecognizerDeepgram},
			Synthesizer: Synthesizer{Backend: SynthesizerHTTP},
		}

		Normalize(&cfg)

		if cfg.Recognizer.APIKeyEnv != "DEEPGRAM_API_KEY" || cfg.Synthesizer.APIKeyEnv != "ELEVENLABS_API_KEY" {
			t.Errorf("unexpected key variables %q %q", cfg.Recognizer.APIKeyEnv, cfg.Synthesizer.APIKeyEnv)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		Normalize(&cfg)

		return cfg
	}

	tests := []struct {
		name   string
		modify func(cfg *Config)
		field  string
	}{
		{"unknown language", func(cfg *Config) { cfg.Language = "fr" }, "language"},
		{"unknown category", func(cfg *Config) { cfg.Categories = []string{"division"} }, "categories[0]"},
		{"duplicate category", func(cfg *Config) { cfg.Categories = []string{"addition", "addition"} }, "categories[1]"},
		{"negative rate", func(cfg *Config) { cfg.Voice.Rate = -1 }, "voice.rate"},
		{"negative duration", func(cfg *Config) { cfg.Timing.Debounce = -time.Second }, "timing.debounce"},
		{"unknown recognizer", func(cfg *Config) { cfg.Recognizer.Backend = "vosk" }, "recognizer.backend"},
		{"unknown synthesizer", func(cfg *Config) { cfg.Synthesizer.Backend = "say" }, "synthesizer.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)

			err := Validate(&cfg)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected a validation error, got %v", err)
			}

			if validationErr.Issues[0].Field != tt.field {
				t.Errorf("expected an issue with %s, got %+v", tt.field, validationErr.Issues)
			}
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		cfg := valid()
		if err := Validate(&cfg); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	fileSys := afero.NewMemMapFs()

	if err := afero.WriteFile(fileSys, "quiz.yaml", []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fileSys, "quiz.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Voice.Rate != 1.0 || cfg.Voice.Pitch != 1.1 {
		t.Errorf("expected the rate to be kept and the pitch defaulted, got %+v", cfg.Voice)
	}

	categories := cfg.CategoryList()
	if len(categories) != 2 || categories[1] != question.Multiplication {
		t.Errorf("unexpected categories %v", categories)
	}

	t.Run("no path means defaults", func(t *testing.T) {
		cfg, err := Load(fileSys, "")
		if err != nil {
			t.Fatal(err)
		}

		if cfg.Language != question.DefaultLanguage {
			t.Errorf("expected the default language, got %q", cfg.Language)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(fileSys, "missing.yaml"); err == nil {
			t.Errorf("expected an error")
		}
	})
}
