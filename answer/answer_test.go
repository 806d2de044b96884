package answer

import "testing"

func TestParse(t *testing.T) {
	t.Run("transcripts without digits have no answer", func(t *testing.T) {
		for _, transcript := range []string{"", "nana", "こたえは なな", "-"} {
			if value, ok := Parse(transcript); ok {
				t.Errorf("Parse(%q): expected no answer, got %d", transcript, value)
			}
		}
	})

	t.Run("the trailing number is returned", func(t *testing.T) {
		cases := map[string]int{
			"kotae wa 7": 7,
			"-3 desu":    -3,
			"12 3":       3,
			"0":          0,
			"15です":      15,
			"１２":         12,
			"－４":         -4,
			"answer 10!": 10,
		}

		for transcript, expected := range cases {
			value, ok := Parse(transcript)
			if !ok {
				t.Errorf("Parse(%q): expected %d, got no answer", transcript, expected)

				continue
			}

			if value != expected {
				t.Errorf("Parse(%q): expected %d, got %d", transcript, expected, value)
			}
		}
	})

	t.Run("zero is an answer", func(t *testing.T) {
		value, ok := Parse("zero is 0")
		if !ok || value != 0 {
			t.Errorf("expected 0, got %d (ok=%v)", value, ok)
		}
	})

	t.Run("numbers too large for int are not answers", func(t *testing.T) {
		if _, ok := Parse("99999999999999999999999999"); ok {
			t.Errorf("expected overflow to be rejected")
		}
	})
}
