package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// consumerMailDomains are personal mail providers that never identify an
// employer, so they are excluded from company recovery.
var consumerMailDomains = map[string]bool{
	"gmail":   true,
	"yahoo":   true,
	"outlook": true,
	"hotmail": true,
	"icloud":  true,
}

var (
	// domainRe captures the domain labels before the TLD in an email-address-like
	// token, e.g. "greenhouse" in "recruiting@greenhouse.io".
	domainRe = regexp.MustCompile(`@([a-zA-Z0-9.-]+)\.[a-zA-Z]{2,}`)

	// rolePatterns match a capitalized phrase adjacent to position/role/opportunity
	// wording in a subject line.
	rolePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:[Ff]or|[Pp]osition|[Rr]ole|[Oo]pportunity)[:\s]+(?:the\s+|a\s+|an\s+|of\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:position|role|job)`),
	}
)

// dateLayouts are tried in order when parsing a model-reported date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// normalizeDate parses a calendar date out of free text, substituting today's
// date on failure.
func normalizeDate(s string, today time.Time) string {
	s = strings.TrimSpace(s)
	if s != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	return today.Format("2006-01-02")
}

// recoverCompany attempts to recover a company name from an email-address
// domain in the body when the model could not identify one. Consumer mail
// domains are excluded; the domain's first label is title-cased. Returns
// Unknown when recovery fails.
func recoverCompany(body string) string {
	m := domainRe.FindStringSubmatch(body)
	if m == nil {
		return types.Unknown
	}
	domain := m[1]
	if consumerMailDomains[strings.ToLower(domain)] {
		return types.Unknown
	}
	label := strings.SplitN(domain, ".", 2)[0]
	if consumerMailDomains[strings.ToLower(label)] || label == "" {
		return types.Unknown
	}
	return titleCase(label)
}

// recoverRole attempts to recover a role phrase from the subject line when
// the model returned none. Returns Unknown when no pattern matches.
func recoverRole(subject string) string {
	for _, re := range rolePatterns {
		if m := re.FindStringSubmatch(subject); m != nil && m[1] != "" {
			return m[1]
		}
	}
	return types.Unknown
}

// titleCase upper-cases the first letter only, preserving the rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
