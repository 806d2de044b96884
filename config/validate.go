package config

import (
	"fmt"
	"strings"
	"time"

	"speech-arithmetic-quiz/question"
)

// Issue is a single validation problem.
type Issue struct {
	Field   string
	Message string
}

// ValidationError lists every problem found in a config.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s %s", issue.Field, issue.Message))
	}

	return "invalid config: " + strings.Join(parts, "; ")
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}

	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	if _, err := question.LanguageFor(cfg.Language); err != nil {
		collector.add("language", fmt.Sprintf("unsupported language %q", cfg.Language))
	}

	seen := make(map[string]bool)
	for i, name := range cfg.Categories {
		if _, err := question.ParseCategory(name); err != nil {
			collector.add(fmt.Sprintf("categories[%d]", i), fmt.Sprintf("unknown category %q", name))
		}

		if seen[name] {
			collector.add(fmt.Sprintf("categories[%d]", i), fmt.Sprintf("duplicate category %q", name))
		}

		seen[name] = true
	}

	if cfg.Voice.Rate < 0 {
		collector.add("voice.rate", "must be positive")
	}

	if cfg.Voice.Pitch < 0 {
		collector.add("voice.pitch", "must be positive")
	}

	validateDurations(collector.add, []namedDuration{
		{"timing.debounce", cfg.Timing.Debounce},
		{"timing.feedback_pause", cfg.Timing.FeedbackPause},
		{"timing.error_restart", cfg.Timing.ErrorRestart},
		{"recognizer.quiet_time", cfg.Recognizer.QuietTime},
		{"recognizer.max_time", cfg.Recognizer.MaxTime},
		{"synthesizer.timeout", cfg.Synthesizer.Timeout},
	})

	switch cfg.Recognizer.Backend {
	case RecognizerWhisper:
	case RecognizerDeepgram:
		if cfg.Recognizer.APIKeyEnv == "" {
			collector.add("recognizer.api_key_env", "is required for deepgram")
		}
	default:
		collector.add("recognizer.backend", fmt.Sprintf("unsupported backend %q", cfg.Recognizer.Backend))
	}

	if cfg.Recognizer.SampleRate < 0 {
		collector.add("recognizer.sample_rate", "must be positive")
	}

	if cfg.Recognizer.FrameSize < 0 {
		collector.add("recognizer.frame_size", "must be positive")
	}

	switch cfg.Synthesizer.Backend {
	case SynthesizerConsole:
	case SynthesizerHTTP:
		if cfg.Synthesizer.APIKeyEnv == "" {
			collector.add("synthesizer.api_key_env", "is required for http")
		}
	default:
		collector.add("synthesizer.backend", fmt.Sprintf("unsupported backend %q", cfg.Synthesizer.Backend))
	}

	return collector.result()
}

type namedDuration struct {
	field string
	value time.Duration
}

func validateDurations(add func(field, message string), durations []namedDuration) {
	for _, d := range durations {
		if d.value < 0 {
			add(d.field, "must not be negative")
		}
	}
}

// CategoryList converts the configured names. The config must be valid.
func (cfg *Config) CategoryList() []question.Category {
	categories := make([]question.Category, 0, len(cfg.Categories))
	for _, name := range cfg.Categories {
		if c, err := question.ParseCategory(name); err == nil {
			categories = append(categories, c)
		}
	}

	return categories
}
