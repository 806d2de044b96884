package question

import (
	"errors"
	"fmt"
	"math/rand"
)

// Category identifies a kind of question.
type Category string

const (
	Addition       Category = "addition"
	Subtraction    Category = "subtraction"
	Multiplication Category = "multiplication"
)

// ErrNoCategories is returned when a question is requested with nothing enabled.
var ErrNoCategories = errors.New("no question categories enabled")

// Question is a single arithmetic prompt. It is never modified after creation.
type Question struct {
	Category      Category
	Operands      [2]int
	CorrectAnswer int
	DisplayText   string
	SpeechText    string
}

// Factory builds questions of one category.
type Factory struct {
	Category Category
	// Label is shown when picking which categories to practice.
	Label string
	build func(rng *rand.Rand, lang Language) Question
}

var factories = []Factory{
	{
		Category: Addition,
		Label:    "x + y",
		build: func(rng *rand.Rand, lang Language) Question {
			x, y := rng.Intn(20), rng.Intn(20)

			return Question{
				Category:      Addition,
				Operands:      [2]int{x, y},
				CorrectAnswer: x + y,
				DisplayText:   fmt.Sprintf("%d + %d = ", x, y),
				SpeechText:    lang.Ask(lang.Number(x), lang.Plus, lang.Number(y)),
			}
		},
	},
	{
		Category: Subtraction,
		Label:    "x - y",
		build: func(rng *rand.Rand, lang Language) Question {
			x, y := rng.Intn(20), rng.Intn(20)
			if x < y {
				x, y = y, x
			}

			return Question{
				Category:      Subtraction,
				Operands:      [2]int{x, y},
				CorrectAnswer: x - y,
				DisplayText:   fmt.Sprintf("%d - %d = ", x, y),
				SpeechText:    lang.Ask(lang.Number(x), lang.Minus, lang.Number(y)),
			}
		},
	},
	{
		Category: Multiplication,
		Label:    "x × y",
		build: func(rng *rand.Rand, lang Language) Question {
			x, y := rng.Intn(10), rng.Intn(10)

			return Question{
				Category:      Multiplication,
				Operands:      [2]int{x, y},
				CorrectAnswer: x * y,
				DisplayText:   fmt.Sprintf("%d × %d = ", x, y),
				SpeechText:    lang.Ask(lang.Number(x), lang.Times, lang.Number(y)),
			}
		},
	},
}

// Factories lists every known question factory in display order.
func Factories() []Factory {
	out := make([]Factory, len(factories))
	copy(out, factories)

	return out
}

// ParseCategory validates a category name.
func ParseCategory(name string) (Category, error) {
	for _, f := range factories {
		if string(f.Category) == name {
			return f.Category, nil
		}
	}

	return "", fmt.Errorf("unknown question category %q", name)
}
