package synthesis

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"speech-arithmetic-quiz/clients/tts"
	"speech-arithmetic-quiz/quiz"
)

const defaultPerRune = 120 * time.Millisecond

type httpVoice struct {
	client tts.Interface
	player Player
}

// NewHTTPVoice speaks through a TTS service. Pitch is applied by playing the
// audio back faster, so the requested speed is reduced to keep the rate.
func NewHTTPVoice(client tts.Interface, player Player) (Backend, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}

	if player == nil {
		return nil, fmt.Errorf("player is nil")
	}

	return &httpVoice{client: client, player: player}, nil
}

func (v *httpVoice) Say(ctx context.Context, utterance quiz.Utterance) error {
	rate, pitch := orOne(utterance.Rate), orOne(utterance.Pitch)

	pcm, err := v.client.Synthesize(ctx, utterance.Text, rate/pitch)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	return v.player.Play(ctx, decodePCM(pcm), int(float64(tts.SampleRate)*pitch))
}

type consoleVoice struct {
	perRune time.Duration
}

// NewConsoleVoice prints utterances instead of speaking them, taking roughly
// as long as saying them would.
func NewConsoleVoice(perRune time.Duration) Backend {
	if perRune <= 0 {
		perRune = defaultPerRune
	}

	return &consoleVoice{perRune: perRune}
}

func (v *consoleVoice) Say(ctx context.Context, utterance quiz.Utterance) error {
	log.Printf("say: %s", utterance.Text)

	duration := time.Duration(float64(v.perRune) * float64(utf8.RuneCountInString(utterance.Text)) / orOne(utterance.Rate))

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}

	return v
}

func decodePCM(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}

	return samples
}
