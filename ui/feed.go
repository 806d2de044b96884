package ui

import "speech-arithmetic-quiz/quiz"

// Feed hands quiz snapshots to the UI, keeping only the latest one.
type Feed struct {
	snapshots chan quiz.State
}

func NewFeed() *Feed {
	return &Feed{snapshots: make(chan quiz.State, 1)}
}

// Observe never blocks; it has the quiz.Observer signature.
func (f *Feed) Observe(state quiz.State) {
	for {
		select {
		case f.snapshots <- state:
			return
		default:
		}

		// drop the stale snapshot
		select {
		case <-f.snapshots:
		default:
		}
	}
}

func (f *Feed) Snapshots() <-chan quiz.State {
	return f.snapshots
}
