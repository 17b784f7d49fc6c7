// Package mailbox provides the Gmail message source for the pipeline.
package mailbox

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/types"
)

// gmailUserID addresses the authenticated account in API calls.
const gmailUserID = "me"

// Source fetches candidate messages from a Gmail inbox.
type Source struct {
	svc      *gmail.Service
	keywords []string
}

// NewSource creates a Gmail source from OAuth2 refresh-token credentials.
func NewSource(ctx context.Context, cfg config.GmailConfig, keywords []string) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Source{svc: svc, keywords: keywords}, nil
}

// Search lists inbox messages matching the keyword query and fetches each
// one's subject, body, sender, and received date. A failure fetching one
// message is logged and skipped; it never aborts the batch.
func (s *Source) Search(ctx context.Context, limit int) ([]types.EmailMessage, error) {
	resp, err := s.svc.Users.Messages.List(gmailUserID).
		Q(BuildQuery(s.keywords)).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var messages []types.EmailMessage
	for _, ref := range resp.Messages {
		msg, err := s.fetch(ctx, ref.Id)
		if err != nil {
			log.Printf("[mailbox] failed to fetch message %s: %v", ref.Id, err)
			continue
		}
		messages = append(messages, *msg)
	}
	return messages, nil
}

// fetch retrieves the full message and flattens it into an EmailMessage.
func (s *Source) fetch(ctx context.Context, id string) (*types.EmailMessage, error) {
	msg, err := s.svc.Users.Messages.Get(gmailUserID, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	var subject, from, dateHeader string
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				subject = h.Value
			case "From":
				from = h.Value
			case "Date":
				dateHeader = h.Value
			}
		}
	}

	return &types.EmailMessage{
		ID:      id,
		Subject: subject,
		Body:    extractBody(msg.Payload),
		From:    from,
		Date:    headerDate(dateHeader, time.Now()),
	}, nil
}

// headerDate parses an RFC 5322 Date header into YYYY-MM-DD, falling back to
// the current date when the header is missing or unparsable.
func headerDate(header string, now time.Time) string {
	if header != "" {
		if t, err := mail.ParseDate(header); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return now.Format("2006-01-02")
}
