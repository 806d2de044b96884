package question

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func newTestGenerator(t *testing.T, code string) *Generator {
	t.Helper()

	lang, err := LanguageFor(code)
	if err != nil {
		t.Fatalf("LanguageFor(%q): %v", code, err)
	}

	g, err := NewGenerator(lang, rand.NewSource(42))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	return g
}

func TestGenerator(t *testing.T) {
	g := newTestGenerator(t, "ja")

	t.Run("addition operands stay in range and sum up", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			q, err := g.Of(Addition)
			if err != nil {
				t.Fatal(err)
			}

			x, y := q.Operands[0], q.Operands[1]
			if x < 0 || x > 19 || y < 0 || y > 19 {
				t.Fatalf("operands out of range: %v", q.Operands)
			}

			if q.CorrectAnswer != x+y {
				t.Fatalf("expected %d, got %d", x+y, q.CorrectAnswer)
			}
		}
	})

	t.Run("subtraction never goes negative", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			q, err := g.Of(Subtraction)
			if err != nil {
				t.Fatal(err)
			}

			if q.CorrectAnswer < 0 {
				t.Fatalf("negative result for %q", q.DisplayText)
			}

			if q.CorrectAnswer != q.Operands[0]-q.Operands[1] {
				t.Fatalf("expected %d, got %d", q.Operands[0]-q.Operands[1], q.CorrectAnswer)
			}
		}
	})

	t.Run("multiplication operands stay in range", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			q, err := g.Of(Multiplication)
			if err != nil {
				t.Fatal(err)
			}

			x, y := q.Operands[0], q.Operands[1]
			if x < 0 || x > 9 || y < 0 || y > 9 {
				t.Fatalf("operands out of range: %v", q.Operands)
			}

			if q.CorrectAnswer != x*y {
				t.Fatalf("expected %d, got %d", x*y, q.CorrectAnswer)
			}
		}
	})

	t.Run("only enabled categories are picked", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			q, err := g.New([]Category{Subtraction, Multiplication})
			if err != nil {
				t.Fatal(err)
			}

			if q.Category == Addition {
				t.Fatalf("addition was disabled")
			}
		}
	})

	t.Run("nothing enabled is an error", func(t *testing.T) {
		_, err := g.New(nil)
		if !errors.Is(err, ErrNoCategories) {
			t.Fatalf("expected ErrNoCategories, got %v", err)
		}
	})
}

func TestQuestionText(t *testing.T) {
	t.Run("display text ends with an equals sign", func(t *testing.T) {
		g := newTestGenerator(t, "ja")

		q, err := g.Of(Addition)
		if err != nil {
			t.Fatal(err)
		}

		if !strings.HasSuffix(q.DisplayText, " = ") {
			t.Errorf("unexpected display text %q", q.DisplayText)
		}
	})

	t.Run("zero is spoken as a word", func(t *testing.T) {
		for _, code := range []string{"ja", "en"} {
			lang, _ := LanguageFor(code)

			if lang.Number(0) != lang.Zero {
				t.Errorf("%s: expected %q, got %q", code, lang.Zero, lang.Number(0))
			}

			if lang.Number(12) != "12" {
				t.Errorf("%s: expected 12, got %q", code, lang.Number(12))
			}
		}
	})

	t.Run("japanese prompt", func(t *testing.T) {
		lang, _ := LanguageFor("ja")

		if got := lang.Ask(lang.Number(3), lang.Plus, lang.Number(0)); got != "3 たす ゼロ は?" {
			t.Errorf("unexpected prompt %q", got)
		}
	})

	t.Run("unknown language", func(t *testing.T) {
		if _, err := LanguageFor("xx"); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestParseCategory(t *testing.T) {
	for _, f := range Factories() {
		c, err := ParseCategory(string(f.Category))
		if err != nil || c != f.Category {
			t.Errorf("ParseCategory(%q) = %q, %v", f.Category, c, err)
		}
	}

	if _, err := ParseCategory("division"); err == nil {
		t.Errorf("expected division to be rejected")
	}
}
