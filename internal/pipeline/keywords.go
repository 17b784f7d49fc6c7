package pipeline

import "strings"

// gateThreshold is the minimum number of distinct job-vocabulary keywords a
// message must contain before it is worth a model call. Single-keyword
// matches are too noisy; this trades recall for precision.
const gateThreshold = 2

// KeywordGate reports whether the message text is job-related: at least two
// distinct keywords must appear, case-insensitive, anywhere in the text.
func KeywordGate(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
			if matches >= gateThreshold {
				return true
			}
		}
	}
	return false
}
