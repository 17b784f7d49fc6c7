package mailbox

import (
	"fmt"
	"strings"
)

// BuildQuery builds the Gmail search query: a boolean OR of quoted keyword
// terms, restricted to the inbox and excluding sent mail.
func BuildQuery(keywords []string) string {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, fmt.Sprintf("%q", kw))
	}
	return fmt.Sprintf("in:inbox -in:sent (%s)", strings.Join(quoted, " OR "))
}
