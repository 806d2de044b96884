package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"speech-arithmetic-quiz/clients/deepgram"
	"speech-arithmetic-quiz/clients/tts"
	"speech-arithmetic-quiz/config"
	"speech-arithmetic-quiz/listener"
	"speech-arithmetic-quiz/question"
	"speech-arithmetic-quiz/quiz"
	"speech-arithmetic-quiz/speech_extraction"
	"speech-arithmetic-quiz/speech_to_text"
	"speech-arithmetic-quiz/synthesis"
	"speech-arithmetic-quiz/ui"
)

var version = "dev"

func main() {
	configFlag := flag.String("c", "", "config file")
	modelFlag := flag.String("m", "", "model file for whisper, overrides the config")
	headlessFlag := flag.Bool("headless", false, "run without the terminal UI and log instead")
	replayFlag := flag.String("replay", "", "comma separated wav files to use instead of the microphone")
	logFlag := flag.String("log", "quiz.log", "log file used while the terminal UI is running")
	versionFlag := flag.Bool("version", false, "print the version and exit")

	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return
	}

	// without a terminal there is nothing to draw on
	if !*headlessFlag && !term.IsTerminal(int(os.Stdout.Fd())) {
		*headlessFlag = true
	}

	if !*headlessFlag {
		logFile, err := tea.LogToFile(*logFlag, "quiz")
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}

		defer logFile.Close()
	}

	fileSys := afero.NewOsFs()

	cfg, err := config.Load(fileSys, *configFlag)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if *modelFlag != "" {
		cfg.Recognizer.Model = *modelFlag
	}

	lang, err := question.LanguageFor(cfg.Language)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	generator, err := question.NewGenerator(lang, rand.NewSource(time.Now().UnixNano()))
	if err != nil {
		log.Fatalf("error with question.NewGenerator: %v", err)
	}

	// replaying into the console voice needs no audio device
	if *replayFlag == "" || cfg.Synthesizer.Backend == config.SynthesizerHTTP {
		err = listener.InitAudio()
		if err != nil {
			log.Fatalf("error initializing audio: %v", err)
		}

		defer listener.FreeAudio()
	}

	newSource := listener.NewMicrophone(cfg.Recognizer.SampleRate, cfg.Recognizer.FrameSize)
	if *replayFlag != "" {
		newSource, err = listener.NewReplay(fileSys, strings.Split(*replayFlag, ","), cfg.Recognizer.FrameSize)
		if err != nil {
			log.Fatalf("error with listener.NewReplay: %v", err)
		}
	}

	recognizer, closeRecognizer, err := newRecognizer(cfg, fileSys, newSource)
	if err != nil {
		log.Fatalf("error creating recognizer: %v", err)
	}

	defer closeRecognizer()

	backend, err := newVoice(cfg)
	if err != nil {
		log.Fatalf("error creating voice: %v", err)
	}

	synthesizer, err := synthesis.New(&synthesis.Config{Backend: backend})
	if err != nil {
		log.Fatalf("error with synthesis.New: %v", err)
	}

	feed := ui.NewFeed()

	observer := feed.Observe
	if *headlessFlag {
		observer = headlessObserver()
	}

	engine, err := quiz.New(&quiz.Config{
		Recognizer:  recognizer,
		Synthesizer: synthesizer,
		Generator:   generator,
		Language:    lang,
		Timing: quiz.Timing{
			Debounce:      cfg.Timing.Debounce,
			FeedbackPause: cfg.Timing.FeedbackPause,
			ErrorRestart:  cfg.Timing.ErrorRestart,
		},
		Voice:    quiz.Voice{Rate: cfg.Voice.Rate, Pitch: cfg.Voice.Pitch},
		Observer: observer,
	})
	if err != nil {
		log.Fatalf("error with quiz.New: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		if err := synthesizer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("synthesizer stopped: %v", err)
		}
	}()

	engineDone := make(chan struct{})

	go func() {
		defer close(engineDone)
		_ = engine.Run(ctx)
	}()

	if *headlessFlag {
		engine.Post(quiz.Start(cfg.CategoryList()))
		<-ctx.Done()
		<-engineDone

		return
	}

	model := ui.NewModel(engine, feed.Snapshots(), ui.Options{
		Enabled: cfg.CategoryList(),
		Version: version,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() == nil {
		log.Printf("error running ui: %v", err)
	}

	cancel()
	<-engineDone
}

// newRecognizer builds the configured speech-to-text backend; the returned
// func releases what it loaded.
func newRecognizer(cfg config.Config, fileSys afero.Fs, newSource listener.SourceFactory) (listener.Interface, func(), error) {
	switch cfg.Recognizer.Backend {
	case config.RecognizerDeepgram:
		apiKey := os.Getenv(cfg.Recognizer.APIKeyEnv)

		recognizer, err := listener.NewStreaming(&listener.StreamingConfig{
			NewSource: newSource,
			NewClient: func() (deepgram.Interface, error) {
				return deepgram.NewClient(&deepgram.Config{
					URL:        cfg.Recognizer.URL,
					APIKey:     apiKey,
					Language:   cfg.Language,
					SampleRate: cfg.Recognizer.SampleRate,
				})
			},
		})

		return recognizer, func() {}, err
	}

	if cfg.Recognizer.Model == "" {
		return nil, nil, fmt.Errorf("model file not specified")
	}

	model, err := whisper.New(cfg.Recognizer.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}

	sttEngine, err := speech_to_text.New(&speech_to_text.Config{
		Model:    model,
		Language: cfg.Language,
	})
	if err != nil {
		model.Close()

		return nil, nil, err
	}

	var recorder speech_extraction.Interface

	if cfg.RecordingsDir != "" {
		recorder, err = speech_extraction.New(&speech_extraction.Config{
			FileSys: fileSys,
			Dir:     cfg.RecordingsDir,
		})
		if err != nil {
			model.Close()

			return nil, nil, err
		}
	}

	recognizer, err := listener.New(&listener.Config{
		NewSource: newSource,
		STTEngine: sttEngine,
		Recorder:  recorder,
		QuietTime: cfg.Recognizer.QuietTime,
		MaxTime:   cfg.Recognizer.MaxTime,
	})
	if err != nil {
		model.Close()

		return nil, nil, err
	}

	return recognizer, func() { model.Close() }, nil
}

func newVoice(cfg config.Config) (synthesis.Backend, error) {
	if cfg.Synthesizer.Backend == config.SynthesizerConsole {
		return synthesis.NewConsoleVoice(0), nil
	}

	client, err := tts.NewClient(&tts.Config{
		APIHost: cfg.Synthesizer.APIHost,
		APIKey:  os.Getenv(cfg.Synthesizer.APIKeyEnv),
		VoiceID: cfg.Synthesizer.VoiceID,
		Model:   cfg.Synthesizer.Model,
		Timeout: cfg.Synthesizer.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return synthesis.NewHTTPVoice(client, synthesis.NewSpeaker())
}

// headlessObserver logs what a child would see on screen.
func headlessObserver() quiz.Observer {
	var last quiz.State

	return func(state quiz.State) {
		if state.HasQuestion && state.Question != last.Question {
			log.Printf("question: %s", state.Question.DisplayText)
		}

		if state.SpokenWord != "" && state.SpokenWord != last.SpokenWord {
			log.Printf("heard: %s", state.SpokenWord)
		}

		if state.Score != last.Score {
			log.Printf("score: %d correct, %d incorrect", state.Score.Correct, state.Score.Incorrect)
		}

		if state.RecognitionError != nil && last.RecognitionError == nil {
			log.Printf("recognition error: %v", state.RecognitionError)
		}

		last = state
	}
}
