package speech_to_text

import "strings"

// segmentFilter drops annotations like "[BLANK_AUDIO]" or "(music)" and repeated text.
type segmentFilter struct {
	seen map[string]bool
}

func newSegmentFilter() *segmentFilter {
	return &segmentFilter{seen: make(map[string]bool)}
}

func (f *segmentFilter) keep(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	if text[0] == '(' || text[0] == '[' || text[len(text)-1] == ')' || text[len(text)-1] == ']' {
		return false
	}

	if f.seen[text] {
		return false
	}

	f.seen[text] = true

	return true
}
