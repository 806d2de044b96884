package ring_buffer

// Buffer keeps the most recent samples so the start of an utterance is not
// lost while the detector is still deciding whether anyone is speaking.
type Buffer struct {
	samples []int16
	head    int
	filled  int
}

func New(size int) *Buffer {
	if size < 1 {
		size = 1
	}

	return &Buffer{
		samples: make([]int16, size),
	}
}

func (r *Buffer) Add(samples []int16) {
	for _, s := range samples {
		r.samples[r.head] = s
		r.head = (r.head + 1) % len(r.samples)

		if r.filled < len(r.samples) {
			r.filled++
		}
	}
}

// Read returns the buffered samples, oldest first. Slots never written are skipped.
func (r *Buffer) Read() []int16 {
	out := make([]int16, r.filled)
	start := (r.head - r.filled + len(r.samples)) % len(r.samples)

	for i := 0; i < r.filled; i++ {
		out[i] = r.samples[(start+i)%len(r.samples)]
	}

	return out
}

func (r *Buffer) Len() int {
	return r.filled
}

func (r *Buffer) Clear() {
	for i := range r.samples {
		r.samples[i] = 0
	}

	r.head = 0
	r.filled = 0
}
