package dataset

import "strings"

// Three prompts in the original MBPP dump intentionally contain a literal
// backslash-n in their text. They are matched verbatim and kept as-is; do
// not generalize this list.
var keepLiteralNewline = []string{
	`Forces of the \ndarkness*are coming into the play.`,
	`Mi Box runs on the \n Latest android*which has google assistance and chromecast.`,
	`Certain services\nare subjected to change*over the seperate subscriptions.`,
}

// DecodeEscapes normalizes the escape sequences that commonly survive in raw
// dataset fields. Newline and tab escapes are only decoded when the literal
// character is absent, so text that is already decoded passes through
// unchanged. Quote escapes are always decoded. Nothing else is touched; this
// is a heuristic, not a string-literal parser.
func DecodeEscapes(s string) string {
	if strings.Contains(s, `\n`) && !strings.Contains(s, "\n") && !containsKeepPhrase(s) {
		s = strings.ReplaceAll(s, `\n`, "\n")
	}
	if strings.Contains(s, `\t`) && !strings.Contains(s, "\t") {
		s = strings.ReplaceAll(s, `\t`, "\t")
	}
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, "'")
	return s
}

func containsKeepPhrase(s string) bool {
	for _, p := range keepLiteralNewline {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
