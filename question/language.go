package question

import (
	"fmt"
	"strconv"
)

// Language holds the words used to speak questions and feedback.
type Language struct {
	Code      string
	Zero      string
	Plus      string
	Minus     string
	Times     string
	Correct   string
	Incorrect string
	// Ask renders the spoken question from the two operands and the operator word.
	Ask func(x, op, y string) string
}

var languages = map[string]Language{
	"ja": {
		Code:      "ja",
		Zero:      "ゼロ",
		Plus:      "たす",
		Minus:     "ひく",
		Times:     "かける",
		Correct:   "せいかい!",
		Incorrect: "ざんねん、もういちど",
		Ask: func(x, op, y string) string {
			return fmt.Sprintf("%s %s %s は?", x, op, y)
		},
	},
	"en": {
		Code:      "en",
		Zero:      "zero",
		Plus:      "plus",
		Minus:     "minus",
		Times:     "times",
		Correct:   "Correct!",
		Incorrect: "Not quite, try again",
		Ask: func(x, op, y string) string {
			return fmt.Sprintf("What is %s %s %s?", x, op, y)
		},
	},
}

// DefaultLanguage is the language used when none is configured.
const DefaultLanguage = "ja"

// LanguageFor returns the phrasebook for a language code.
func LanguageFor(code string) (Language, error) {
	lang, ok := languages[code]
	if !ok {
		return Language{}, fmt.Errorf("unsupported language %q", code)
	}

	return lang, nil
}

// Number renders a number for speech; zero is spoken as a word because
// synthesizers tend to swallow a lone "0".
func (l Language) Number(n int) string {
	if n == 0 {
		return l.Zero
	}

	return strconv.Itoa(n)
}
