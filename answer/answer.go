package answer

import (
	"regexp"
	"strconv"

	"golang.org/x/text/width"
)

// trailingNumber matches the last signed digit run; anything after it must be non-digits.
var trailingNumber = regexp.MustCompile(`(-?[0-9]+)[^0-9]*$`)

// Parse extracts the last integer spoken in a transcript.
// ok is false when the transcript holds no digits, which is not the same as a zero answer.
// Interim transcripts are fine to pass repeatedly.
func Parse(transcript string) (value int, ok bool) {
	if transcript == "" {
		return 0, false
	}

	// recognizers for Japanese often emit full-width digits and minus signs
	narrowed := width.Narrow.String(transcript)

	match := trailingNumber.FindStringSubmatch(narrowed)
	if match == nil {
		return 0, false
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	return value, true
}
