package question

import (
	"fmt"
	"math/rand"
)

// Generator picks questions from the enabled categories.
// It is not safe for concurrent use; the quiz engine calls it from its loop only.
type Generator struct {
	rng  *rand.Rand
	lang Language
}

// NewGenerator creates a generator speaking the given language.
func NewGenerator(lang Language, src rand.Source) (*Generator, error) {
	if src == nil {
		return nil, fmt.Errorf("random source is nil")
	}

	if lang.Ask == nil {
		return nil, fmt.Errorf("language %q has no question phrasing", lang.Code)
	}

	return &Generator{
		rng:  rand.New(src),
		lang: lang,
	}, nil
}

// New returns a question from a uniformly chosen enabled category.
func (g *Generator) New(enabled []Category) (Question, error) {
	candidates := make([]Factory, 0, len(factories))

	for _, f := range factories {
		for _, c := range enabled {
			if f.Category == c {
				candidates = append(candidates, f)

				break
			}
		}
	}

	if len(candidates) == 0 {
		return Question{}, ErrNoCategories
	}

	f := candidates[g.rng.Intn(len(candidates))]

	return f.build(g.rng, g.lang), nil
}

// Of returns a question of one category.
func (g *Generator) Of(category Category) (Question, error) {
	return g.New([]Category{category})
}
