package quiz

import (
	"time"

	"speech-arithmetic-quiz/answer"
	"speech-arithmetic-quiz/question"
)

// Reduce applies an event to the quiz state and returns the effects to run.
func Reduce(state State, event Event) (State, []Effect) {
	r := &reduction{state: state}

	switch event.Kind {
	case EventStart:
		r.start(event.Categories)
	case EventQuestionReady:
		r.questionReady(event.Question)
	case EventSynthesisStarted:
		r.synthesisStarted(event.Utterance)
	case EventSynthesisEnded:
		r.synthesisEnded(event.Utterance)
	case EventRecognitionAudio:
		if r.current(event.Session) {
			r.state.Speaking = true
		}
	case EventRecognitionResult:
		r.result(event.Session, event.Transcript, event.Final)
	case EventRecognitionError:
		r.recognitionError(event.Session, event.Error)
	case EventRecognitionEnded:
		r.recognitionEnded(event.Session)
	case EventTimerFired:
		r.timerFired(event.Timer, event.Token)
	case EventReset:
		if r.state.Phase != PhaseIdle {
			r.restartRecognition()
		}
	case EventStop:
		r.stop()
	}

	return r.state, r.effects
}

type reduction struct {
	state   State
	effects []Effect
}

func (r *reduction) emit(effect Effect) {
	r.effects = append(r.effects, effect)
}

// current reports whether an event belongs to the live recognition session.
func (r *reduction) current(session int) bool {
	return r.state.Recognizing && session == r.state.Session
}

func (r *reduction) start(categories []question.Category) {
	if r.state.Phase != PhaseIdle || len(categories) == 0 {
		return
	}

	r.state.Categories = append([]question.Category(nil), categories...)
	r.state.Score = Score{}
	r.state.HasQuestion = false
	r.state.Phase = PhaseAsking
	r.emit(Effect{Kind: EffectNewQuestion})
}

func (r *reduction) questionReady(q question.Question) {
	if r.state.Phase == PhaseIdle {
		return
	}

	r.state.Question = q
	r.state.HasQuestion = true
	r.clearAnswer()
	r.state.Phase = PhaseAsking
	r.stopRecognition()
	r.speak(q.SpeechText)
}

func (r *reduction) synthesisStarted(utterance int) {
	// never listen to our own voice
	r.stopRecognition()

	if utterance == r.state.feedbackUtterance && r.state.Phase == PhaseEvaluating {
		r.state.Phase = PhaseFeedback
	}
}

func (r *reduction) synthesisEnded(utterance int) {
	if r.state.PendingUtterances > 0 {
		r.state.PendingUtterances--
	}

	switch {
	case r.state.Phase == PhaseAsking && r.state.PendingUtterances == 0 && r.state.HasQuestion:
		r.state.Phase = PhaseListening
	case utterance == r.state.feedbackUtterance &&
		(r.state.Phase == PhaseEvaluating || r.state.Phase == PhaseFeedback):
		r.state.Phase = PhaseFeedback
		r.schedule(TimerFeedback, r.state.Timing.FeedbackPause)
	}

	r.resume()
}

func (r *reduction) result(session int, transcript string, final bool) {
	if !r.current(session) || r.state.Phase != PhaseListening {
		return
	}

	r.state.SpokenWord = transcript
	r.cancel(TimerDebounce)

	if final {
		r.evaluate(transcript)

		return
	}

	r.state.pendingTranscript = transcript
	r.schedule(TimerDebounce, r.state.Timing.Debounce)
}

func (r *reduction) evaluate(transcript string) {
	value, ok := answer.Parse(transcript)
	if !ok {
		r.state.Answer = Answer{Kind: AnswerNone}
		r.restartRecognition()

		return
	}

	r.state.Answer = Answer{Kind: AnswerParsed, Value: value}
	r.state.Correct = value == r.state.Question.CorrectAnswer

	phrase := r.state.Language.Incorrect
	if r.state.Correct {
		r.state.Score.Correct++
		phrase = r.state.Language.Correct
	} else {
		r.state.Score.Incorrect++
	}

	r.state.Phase = PhaseEvaluating
	r.stopRecognition()
	r.state.feedbackUtterance = r.speak(phrase)
}

func (r *reduction) recognitionError(session int, err *RecognitionError) {
	if !r.current(session) || err == nil {
		return
	}

	r.state.RecognitionError = err
	r.schedule(TimerRestart, r.state.Timing.ErrorRestart)
}

func (r *reduction) recognitionEnded(session int) {
	if session != r.state.Session {
		return
	}

	r.state.Recognizing = false
	r.state.Speaking = false
	r.state.SpokenWord = ""
	r.cancel(TimerDebounce)
	r.resume()
}

func (r *reduction) timerFired(kind TimerKind, token int) {
	if kind < 0 || kind >= timerKindCount {
		return
	}

	slot := r.state.timers[kind]
	if !slot.pending || slot.token != token {
		return
	}

	r.state.timers[kind].pending = false

	switch kind {
	case TimerDebounce:
		if r.state.Phase == PhaseListening && r.state.Recognizing {
			r.evaluate(r.state.pendingTranscript)
		}
	case TimerFeedback:
		if r.state.Phase != PhaseFeedback {
			return
		}

		if r.state.Correct {
			r.state.Phase = PhaseAsking
			r.emit(Effect{Kind: EffectNewQuestion})

			return
		}

		r.state.Answer = Answer{}
		r.state.Phase = PhaseListening
		r.resume()
	case TimerRestart:
		r.restartRecognition()
	}
}

func (r *reduction) stop() {
	r.stopRecognition()

	for kind := TimerKind(0); kind < timerKindCount; kind++ {
		r.cancel(kind)
	}

	r.state.Phase = PhaseIdle
}

func (r *reduction) clearAnswer() {
	r.state.SpokenWord = ""
	r.state.Answer = Answer{}
	r.state.Correct = false
	r.state.pendingTranscript = ""
}

func (r *reduction) speak(text string) int {
	r.state.utteranceSeq++
	r.state.PendingUtterances++
	r.emit(Effect{Kind: EffectSpeak, Text: text, Utterance: r.state.utteranceSeq})

	return r.state.utteranceSeq
}

func (r *reduction) stopRecognition() {
	if !r.state.Recognizing {
		return
	}

	r.state.Recognizing = false
	r.state.Speaking = false
	r.cancel(TimerDebounce)
	r.emit(Effect{Kind: EffectStopRecognition, Session: r.state.Session})
}

// resume starts a new session when the cycle is listening and nothing is being spoken.
func (r *reduction) resume() {
	if r.state.Phase != PhaseListening || r.state.Recognizing || r.state.Synthesizing() {
		return
	}

	r.cancel(TimerRestart)
	r.state.Session++
	r.state.Recognizing = true
	r.state.Speaking = false
	r.state.SpokenWord = ""
	r.state.RecognitionError = nil
	r.emit(Effect{Kind: EffectStartRecognition, Session: r.state.Session})
}

func (r *reduction) restartRecognition() {
	r.stopRecognition()
	r.resume()
}

func (r *reduction) schedule(kind TimerKind, delay time.Duration) {
	r.state.timers[kind].token++
	r.state.timers[kind].pending = true
	r.emit(Effect{Kind: EffectScheduleTimer, Timer: kind, Token: r.state.timers[kind].token, Delay: delay})
}

func (r *reduction) cancel(kind TimerKind) {
	if !r.state.timers[kind].pending {
		return
	}

	r.state.timers[kind].token++
	r.state.timers[kind].pending = false
	r.emit(Effect{Kind: EffectCancelTimer, Timer: kind})
}
