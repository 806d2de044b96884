package config

import (
	"time"

	"speech-arithmetic-quiz/question"
)

// Normalize fills in defaults for everything left unset.
func Normalize(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = question.DefaultLanguage
	}

	if cfg.Categories == nil {
		for _, f := range question.Factories() {
			cfg.Categories = append(cfg.Categories, string(f.Category))
		}
	}

	if cfg.Voice.Rate == 0 {
		cfg.Voice.Rate = 1.1
	}

	if cfg.Voice.Pitch == 0 {
		cfg.Voice.Pitch = 1.1
	}

	setDuration(&cfg.Timing.Debounce, 600*time.Millisecond)
	setDuration(&cfg.Timing.FeedbackPause, time.Second)
	setDuration(&cfg.Timing.ErrorRestart, time.Second)

	if cfg.Recognizer.Backend == "" {
		cfg.Recognizer.Backend = RecognizerWhisper
	}

	if cfg.Recognizer.SampleRate == 0 {
		cfg.Recognizer.SampleRate = 16000
	}

	if cfg.Recognizer.FrameSize == 0 {
		cfg.Recognizer.FrameSize = 1024
	}

	setDuration(&cfg.Recognizer.QuietTime, 200*time.Millisecond)
	setDuration(&cfg.Recognizer.MaxTime, 10*time.Second)

	if cfg.Recognizer.Backend == RecognizerDeepgram && cfg.Recognizer.APIKeyEnv == "" {
		cfg.Recognizer.APIKeyEnv = "DEEPGRAM_API_KEY"
	}

	if cfg.Synthesizer.Backend == "" {
		cfg.Synthesizer.Backend = SynthesizerConsole
	}

	if cfg.Synthesizer.Backend == SynthesizerHTTP && cfg.Synthesizer.APIKeyEnv == "" {
		cfg.Synthesizer.APIKeyEnv = "ELEVENLABS_API_KEY"
	}

	setDuration(&cfg.Synthesizer.Timeout, 30*time.Second)
}

func setDuration(d *time.Duration, fallback time.Duration) {
	if *d == 0 {
		*d = fallback
	}
}
