package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxBodyChars bounds the body prefix sent to the model. Long emails cost
// latency and tokens without improving extraction; the leading text carries
// the signal.
const maxBodyChars = 4000

// buildPrompt constructs the deterministic extraction prompt for one message.
func buildPrompt(subject, body string) string {
	var sb strings.Builder

	sb.WriteString(`You are a helpful assistant that extracts structured data from job-related emails.
Extract information about job applications, interviews, rejections, and acceptances.
Always return valid JSON in the exact format specified.

Extract job application information from this email. Return a JSON object with the following structure:
{
  "date": "YYYY-MM-DD format date of when the application was made (if mentioned, otherwise use today's date)",
  "company": "Company name",
  "role": "Job title/position name",
  "status": "One of: Accepted, Rejected, In-Process",
  "nextSteps": "Any time-sensitive next steps, interview dates, deadlines, or action items mentioned. Leave empty if none."
}

`)
	sb.WriteString(fmt.Sprintf("Email Subject: %s\n\n", subject))
	sb.WriteString(fmt.Sprintf("Email Body:\n%s\n\n", truncate(body, maxBodyChars)))
	sb.WriteString(`Rules:
- If the email is a rejection, status should be "Rejected"
- If the email is an acceptance/offer, status should be "Accepted"
- If the email mentions an interview or next steps, status should be "In-Process"
- Extract any interview dates, deadlines, or action items in the "nextSteps" field
- If company or role cannot be determined, use "Unknown"`)

	return sb.String()
}

// truncate bounds s to at most n bytes, backing off to a rune boundary so
// the cut never produces invalid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
