package mailbox

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	gmail "google.golang.org/api/gmail/v1"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// extractBody pulls the text body out of a message payload. Plain-text parts
// are preferred; HTML parts are stripped to text only when no plain text was
// found. Nested multiparts are walked recursively.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	var sb strings.Builder

	if payload.Body != nil && payload.Body.Data != "" {
		sb.WriteString(decodeBody(payload.Body.Data))
	}

	for _, part := range payload.Parts {
		switch {
		case part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "":
			sb.WriteString(decodeBody(part.Body.Data))
		case part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" && sb.Len() == 0:
			sb.WriteString(htmlToText(decodeBody(part.Body.Data)))
		case len(part.Parts) > 0:
			sb.WriteString(extractBody(part))
		}
	}

	return strings.TrimSpace(sb.String())
}

// decodeBody decodes the base64url body data Gmail returns. Payloads arrive
// unpadded, so padding is stripped before decoding.
func decodeBody(data string) string {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// htmlToText strips markup from an HTML body and collapses whitespace.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(whitespaceRe.ReplaceAllString(html, " "))
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(doc.Text(), " "))
}
