package postprocess

import "testing"

func TestClean_CodeFence(t *testing.T) {
	in := "```json\n{\"title\": \"Aries\"}\n```"
	if got := Clean(in); got != `{"title": "Aries"}` {
		t.Errorf("expected fence stripped, got %q", got)
	}
}

func TestClean_PlainFence(t *testing.T) {
	in := "```\n{\"title\": \"Aries\"}\n```"
	if got := Clean(in); got != `{"title": "Aries"}` {
		t.Errorf("expected fence stripped, got %q", got)
	}
}

func TestClean_ThinkingBlock(t *testing.T) {
	in := "<think>let me translate this carefully</think>\n{\"title\": \"Овен\"}"
	if got := Clean(in); got != `{"title": "Овен"}` {
		t.Errorf("expected thinking block removed, got %q", got)
	}
}

func TestClean_QuoteWrapping(t *testing.T) {
	if got := Clean(`"some plain text"`); got != "some plain text" {
		t.Errorf("expected quotes stripped, got %q", got)
	}
}

func TestClean_JSONUntouched(t *testing.T) {
	in := `{"title": "Aries", "one_liner": "x", "body_md": "y"}`
	if got := Clean(in); got != in {
		t.Errorf("expected JSON object unchanged, got %q", got)
	}
}

func TestClean_TrimsWhitespace(t *testing.T) {
	if got := Clean("  \n{\"a\": 1}\n  "); got != `{"a": 1}` {
		t.Errorf("expected trimmed output, got %q", got)
	}
}
