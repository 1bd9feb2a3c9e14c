// Package postprocess removes common LLM artifacts from chat-completion
// output before the text is validated or persisted.
//
// Translated content is expected to be a bare JSON object; models routinely
// wrap it in markdown fences, prepend reasoning blocks, or quote the whole
// payload. Each of those would fail structural validation even when the
// translation itself is fine.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean strips artifacts in three phases and returns the trimmed result:
//  1. Thinking / reasoning block removal
//  2. Markdown code-fence unwrapping
//  3. Quote wrapping removal
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = unwrapCodeFence(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

func removeThinkingBlocks(text string) string {
	return strings.TrimSpace(thinkingBlockRe.ReplaceAllString(text, ""))
}

// fenceRe matches a whole payload wrapped in a single markdown fence,
// optionally tagged with a language ("```json").
var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\n?```$")

func unwrapCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// removeQuoteWrapping strips a matching pair of outer quotes when the entire
// text is wrapped in them. JSON objects are left alone: a leading brace is
// never quote-wrapped.
func removeQuoteWrapping(text string) string {
	runes := []rune(strings.TrimSpace(text))
	n := len(runes)
	if n < 2 || runes[0] == '{' {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') ||
		(first == '‘' && last == '’') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
