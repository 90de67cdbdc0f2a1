package textstat

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	codeWordRe  = regexp.MustCompile(`[A-Za-z0-9_]+`)
	proseWordRe = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)
	sentenceRe  = regexp.MustCompile(`[.!?]+`)
)

// CountLines returns the number of newline-terminated segments, ignoring
// trailing newlines. An empty text has zero lines.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1
}

// CountCodeWords counts runs of letters, digits, and underscores; the
// tokenizer for code artifacts, where identifiers are the words.
func CountCodeWords(s string) int {
	return len(codeWordRe.FindAllStringIndex(s, -1))
}

// CountProseWords counts letter runs, keeping apostrophe contractions as a
// single word. Digits and bare punctuation do not count.
func CountProseWords(s string) int {
	return len(proseWordRe.FindAllStringIndex(s, -1))
}

// CountSentences splits on runs of sentence punctuation and counts the
// segments that are non-blank after trimming.
func CountSentences(s string) int {
	if s == "" {
		return 0
	}
	n := 0
	for _, seg := range sentenceRe.Split(s, -1) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

// CountChars counts code points, not bytes.
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}
